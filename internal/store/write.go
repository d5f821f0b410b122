package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/ozzygit/TimeTrack/internal/entry"
)

const (
	// maxWriteAttempts bounds retries on a busy/locked database.
	maxWriteAttempts = 3

	// retryBackoff is multiplied by the attempt number between retries.
	retryBackoff = 200 * time.Millisecond
)

// UpsertBatch writes a set of in-memory records, typically every record
// currently shown for the active date, inside one transaction. Records
// keyed by an existing (date, id) replace that row; others insert.
//
// A record missing either clock time is skipped and logged; it never
// aborts its batch. Any hard write error rolls the whole batch back with
// no partial commit. Lock contention retries the whole batch up to three
// times before surfacing as a recoverable StoreError.
func (s *Store) UpsertBatch(ctx context.Context, records []entry.Entry) error {
	if len(records) == 0 {
		return nil
	}
	return s.withRetry("upsert batch", func() error {
		return s.upsertOnce(ctx, records)
	})
}

func (s *Store) upsertOnce(ctx context.Context, records []entry.Entry) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return &StoreError{Code: ErrCodeWrite, Message: "begin transaction", Err: err}
	}
	defer tx.Rollback() // No-op if committed

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO time_entries
		(date, id, start_time, end_time, ticket_number, notes, recorded)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date, id) DO UPDATE SET
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			ticket_number = excluded.ticket_number,
			notes = excluded.notes,
			recorded = excluded.recorded
	`)
	if err != nil {
		return &StoreError{Code: ErrCodeWrite, Message: "prepare upsert", Err: err}
	}
	defer stmt.Close()

	for i := range records {
		rec := &records[i]
		if !rec.Complete() {
			s.log.Warn().Str("date", rec.Date).Int("id", rec.ID).
				Msg("skipping entry with unset time")
			continue
		}

		recorded := 0
		if rec.Recorded {
			recorded = 1
		}
		_, err := stmt.ExecContext(ctx,
			rec.Date,
			rec.ID,
			encodeTime(rec.Start),
			encodeTime(rec.End),
			rec.Ticket,
			rec.Notes,
			recorded,
		)
		if err != nil {
			if isLockContention(err) {
				return err
			}
			return &StoreError{
				Code:    ErrCodeWrite,
				Message: "write entry",
				Date:    rec.Date,
				ID:      rec.ID,
				Err:     err,
			}
		}
	}

	if err := tx.Commit(); err != nil {
		if isLockContention(err) {
			return err
		}
		return &StoreError{Code: ErrCodeWrite, Message: "commit batch", Err: err}
	}
	return nil
}

// Delete removes exactly one record by its (date, id) key in its own
// transaction. A missing row is a silent no-op. Lock contention retries
// like UpsertBatch.
func (s *Store) Delete(ctx context.Context, date string, id int) error {
	return s.withRetry("delete", func() error {
		db, err := s.open()
		if err != nil {
			return err
		}
		defer db.Close()

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return &StoreError{Code: ErrCodeWrite, Message: "begin transaction", Err: err}
		}
		defer tx.Rollback()

		_, err = tx.ExecContext(ctx,
			"DELETE FROM time_entries WHERE date = ? AND id = ?", date, id)
		if err != nil {
			if isLockContention(err) {
				return err
			}
			return &StoreError{Code: ErrCodeWrite, Message: "delete entry", Date: date, ID: id, Err: err}
		}

		if err := tx.Commit(); err != nil {
			if isLockContention(err) {
				return err
			}
			return &StoreError{Code: ErrCodeWrite, Message: "commit delete", Err: err}
		}
		return nil
	})
}

// withRetry runs fn, retrying only on SQLite busy/locked conditions with
// linearly increasing backoff. Any other error aborts immediately. An
// exhausted retry budget surfaces as a recoverable BUSY StoreError: the
// operation was abandoned with prior state unchanged.
func (s *Store) withRetry(op string, fn func() error) error {
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !isLockContention(err) {
			return err
		}
		if attempt >= maxWriteAttempts {
			return &StoreError{
				Code:    ErrCodeBusy,
				Message: op + ": database busy/locked after retries; operation abandoned",
				Err:     err,
			}
		}
		backoff := time.Duration(attempt) * retryBackoff
		s.log.Warn().Str("op", op).Int("attempt", attempt).Dur("backoff", backoff).
			Msg("database busy; retrying")
		time.Sleep(backoff)
	}
}

// encodeTime renders a nullable time for storage in the canonical
// "HH:MM:SS" form.
func encodeTime(t *entry.TimeOfDay) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Storage(), Valid: true}
}
