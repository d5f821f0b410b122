package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// tempAppDir points the application data directory at a per-test
// location so commands run against a throwaway database.
func tempAppDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("TIMETRACK_APPDATA", dir)
	return dir
}

// execute runs a command with the given args and returns its output.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// addEntry logs one entry through the add command.
func addEntry(t *testing.T, rootOpts *RootOptions, args ...string) {
	t.Helper()
	_, err := execute(t, NewAddCommand(rootOpts), args...)
	require.NoError(t, err)
}
