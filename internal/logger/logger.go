// Package logger provides a configured zerolog logger.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New returns a logger writing structured events to stderr.
// Verbose enables debug-level output.
func New(verbose bool) zerolog.Logger {
	return NewWriter(os.Stderr, verbose)
}

// NewWriter returns a logger writing to w. Used by tests to capture output.
func NewWriter(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
