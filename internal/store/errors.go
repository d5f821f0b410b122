package store

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// StoreError represents a failed storage operation with enough structure
// for the caller to decide how to react.
//
// Storage failures fall into two kinds:
//   - Transient contention: the file was busy/locked past the bounded
//     retries. Prior state is unchanged; the caller reconciles by
//     re-reading rather than assuming success.
//   - Structural failure: constraint violation, disk full, or similar.
//     The batch was rolled back; Date and ID carry the offending key when
//     it is determinable.
type StoreError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Date and ID identify the offending record for write failures.
	// Date is empty when no single key is responsible.
	Date string
	ID   int

	// Err is the underlying driver error.
	Err error
}

// ErrorCode categorizes storage errors.
type ErrorCode string

const (
	// ErrCodeBusy indicates lock contention that outlasted the retries.
	ErrCodeBusy ErrorCode = "BUSY"

	// ErrCodeWrite indicates a structural write failure; the transaction
	// was rolled back without partial commit.
	ErrCodeWrite ErrorCode = "WRITE_FAILED"
)

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Date != "" {
		return fmt.Sprintf("%s: %s (key=%s#%d)", e.Code, e.Message, e.Date, e.ID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying driver error.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsBusy reports whether err is contention that outlasted the retry
// budget. Such a failure is recoverable: storage is unchanged and the
// caller should re-read to resynchronize. Uses errors.As to handle
// wrapped errors.
func IsBusy(err error) bool {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Code == ErrCodeBusy
	}
	return false
}

// isLockContention reports whether err is SQLite's transient busy/locked
// condition, the only condition the write retry loop acts on.
func isLockContention(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked
	}
	return false
}
