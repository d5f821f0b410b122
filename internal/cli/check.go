package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify database integrity",
		Long: `Run SQLite's full consistency check against the database.

A failed check exits non-zero so scripts can alert; the database stays
usable either way, and a failure means "restore from a backup".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, cmd)
		},
	}

	return cmd
}

func runCheck(opts *CheckOptions, cmd *cobra.Command) error {
	a, err := newApp(opts.RootOptions)
	if err != nil {
		return err
	}

	ok, err := a.store.CheckIntegrity()
	if err != nil {
		return WrapExitError(ExitCommandError, "check", err)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if renderErr := formatter.Success(map[string]any{"ok": ok}, func(w io.Writer) {
		if ok {
			fmt.Fprintln(w, "integrity check passed")
		} else {
			fmt.Fprintln(w, "integrity check FAILED - restore from a backup")
		}
	}); renderErr != nil {
		return renderErr
	}

	if !ok {
		return &ExitError{Code: ExitFailure, Message: "integrity check failed"}
	}
	return nil
}
