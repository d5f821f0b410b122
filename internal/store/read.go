package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ozzygit/TimeTrack/internal/entry"
)

// Retrieve returns all records for a date in stable display order:
// start time ascending with NULLs last, then end time, then id. The
// ordering is independent of insertion order. Reads run outside any
// transaction and never see uncommitted state.
//
// Returns an empty slice (not nil) when the date has no records.
func (s *Store) Retrieve(ctx context.Context, date string) ([]entry.Entry, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT date, id, start_time, end_time, ticket_number, notes, recorded
		FROM time_entries
		WHERE date = ?
		ORDER BY (start_time IS NULL), start_time,
		         (end_time IS NULL), end_time,
		         id
	`, date)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := []entry.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

// CurrentMaxID returns the highest id committed for a date, or 0 when the
// date has no records. Callers allocate the next id from it.
func (s *Store) CurrentMaxID(ctx context.Context, date string) (int, error) {
	db, err := s.open()
	if err != nil {
		return 0, err
	}
	defer db.Close()

	var max int
	err = db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(id), 0) FROM time_entries WHERE date = ?", date,
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("query max id: %w", err)
	}
	return max, nil
}

// scanEntry maps one row onto an Entry, decoding the nullable
// "HH:MM:SS" time columns.
func scanEntry(rows *sql.Rows) (entry.Entry, error) {
	var (
		e          entry.Entry
		start, end sql.NullString
		ticket     sql.NullString
		notes      sql.NullString
		recorded   int
	)
	if err := rows.Scan(&e.Date, &e.ID, &start, &end, &ticket, &notes, &recorded); err != nil {
		return entry.Entry{}, fmt.Errorf("scan entry: %w", err)
	}

	var err error
	if e.Start, err = decodeTime(start); err != nil {
		return entry.Entry{}, fmt.Errorf("entry %s#%d start: %w", e.Date, e.ID, err)
	}
	if e.End, err = decodeTime(end); err != nil {
		return entry.Entry{}, fmt.Errorf("entry %s#%d end: %w", e.Date, e.ID, err)
	}
	e.Ticket = ticket.String
	e.Notes = notes.String
	e.Recorded = recorded != 0
	return e, nil
}

// decodeTime parses a nullable stored time column. NULL and the empty
// string both mean "unset".
func decodeTime(v sql.NullString) (*entry.TimeOfDay, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	t, err := entry.ParseStorage(v.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
