package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError,
		GetExitCode(WrapExitError(ExitCommandError, "add", errors.New("bad flag"))))

	// Exit codes survive wrapping.
	wrapped := fmt.Errorf("outer: %w", &ExitError{Code: ExitFailure, Message: "check"})
	assert.Equal(t, ExitFailure, GetExitCode(wrapped))
}

func TestExitErrorMessage(t *testing.T) {
	err := WrapExitError(ExitCommandError, "delete", errors.New("no such entry"))
	assert.Equal(t, "delete: no such entry", err.Error())
	assert.Equal(t, "no such entry", errors.Unwrap(err).Error())

	bare := &ExitError{Code: ExitFailure, Message: "integrity check failed"}
	assert.Equal(t, "integrity check failed", bare.Error())
}

func TestOutputFormatterText(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf}

	err := f.Success(map[string]any{"ignored": true}, func(w io.Writer) {
		fmt.Fprintln(w, "human form")
	})
	require.NoError(t, err)
	assert.Equal(t, "human form\n", buf.String())
}

func TestOutputFormatterJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}

	err := f.Success(map[string]any{"count": 3}, func(io.Writer) {
		t.Fatal("render must not run for json output")
	})
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(3), data["count"])
}
