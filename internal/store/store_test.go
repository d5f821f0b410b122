package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ozzygit/TimeTrack/internal/entry"
)

// newTestStore returns an initialized store in a temp dir with legacy
// migration disabled.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewWithLegacy(t.TempDir(), "", zerolog.Nop())
	if err := s.Init(nil); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	return s
}

// recordingBackup captures the reasons Init snapshots for.
type recordingBackup struct {
	reasons []string
}

func (r *recordingBackup) BackupIfDue(reason string) error {
	r.reasons = append(r.reasons, reason)
	return nil
}

func TestInit_CreatesNewDatabase(t *testing.T) {
	dir := t.TempDir()
	s := NewWithLegacy(dir, "", zerolog.Nop())

	if err := s.Init(nil); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if _, err := os.Stat(s.Path()); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
	if got, want := s.Path(), filepath.Join(dir, dbFileName); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestInit_Idempotent(t *testing.T) {
	s := NewWithLegacy(t.TempDir(), "", zerolog.Nop())

	for i := 0; i < 3; i++ {
		if err := s.Init(nil); err != nil {
			t.Fatalf("Init() iteration %d failed: %v", i, err)
		}
	}

	db, err := s.open()
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer db.Close()

	// Repeated runs must not duplicate structures.
	var indexes int
	err = db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name LIKE 'idx_time_entries%'",
	).Scan(&indexes)
	if err != nil {
		t.Fatalf("query indexes: %v", err)
	}
	if indexes != 2 {
		t.Errorf("expected 2 indexes, got %d", indexes)
	}

	version, err := schemaVersion(db)
	if err != nil {
		t.Fatalf("schemaVersion: %v", err)
	}
	if version != currentSchemaVersion {
		t.Errorf("user_version = %d, want %d", version, currentSchemaVersion)
	}
}

func TestInit_BaselinesUnversionedDatabase(t *testing.T) {
	// Simulate a file created by the old EnsureCreated-style bootstrap:
	// the data table exists but user_version was never stamped.
	dir := t.TempDir()
	s := NewWithLegacy(dir, "", zerolog.Nop())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	db, err := s.open()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := db.Exec(`
		CREATE TABLE time_entries (
			date TEXT NOT NULL, id INTEGER NOT NULL,
			start_time TEXT, end_time TEXT,
			ticket_number TEXT, notes TEXT,
			recorded INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (date, id)
		)
	`); err != nil {
		t.Fatalf("create legacy-shape table: %v", err)
	}
	if _, err := db.Exec(
		"INSERT INTO time_entries (date, id, start_time, end_time) VALUES ('2026-03-02', 1, '09:00:00', '10:00:00')",
	); err != nil {
		t.Fatalf("seed row: %v", err)
	}
	db.Close()

	b := &recordingBackup{}
	if err := s.Init(b); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}

	// Baselining must be backed up first and end at the current version
	// with the seeded data intact.
	found := false
	for _, reason := range b.reasons {
		if reason == "pre-baseline" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a pre-baseline backup, got reasons %v", b.reasons)
	}

	db, err = s.open()
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	version, err := schemaVersion(db)
	if err != nil {
		t.Fatalf("schemaVersion: %v", err)
	}
	if version != currentSchemaVersion {
		t.Errorf("user_version = %d, want %d", version, currentSchemaVersion)
	}

	entries, err := s.Retrieve(context.Background(), "2026-03-02")
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected seeded row to survive baselining, got %d rows", len(entries))
	}
}

func TestInit_MigratesLegacyFile(t *testing.T) {
	// Build a populated database at the legacy location.
	legacyDir := t.TempDir()
	legacy := NewWithLegacy(legacyDir, "", zerolog.Nop())
	if err := legacy.Init(nil); err != nil {
		t.Fatalf("legacy Init: %v", err)
	}
	start := entry.TimeOfDay{Hour: 9}
	end := entry.TimeOfDay{Hour: 10}
	err := legacy.UpsertBatch(context.Background(), []entry.Entry{
		{Date: "2026-03-02", ID: 1, Start: &start, End: &end, Ticket: "CASE-1"},
	})
	if err != nil {
		t.Fatalf("seed legacy: %v", err)
	}

	newDir := t.TempDir()
	s := NewWithLegacy(newDir, legacy.Path(), zerolog.Nop())
	if err := s.Init(nil); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}

	if _, err := os.Stat(legacy.Path()); !os.IsNotExist(err) {
		t.Error("legacy file should be gone after migration")
	}
	entries, err := s.Retrieve(context.Background(), "2026-03-02")
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(entries) != 1 || entries[0].Ticket != "CASE-1" {
		t.Errorf("migrated data not found: %+v", entries)
	}
}

func TestInit_LegacyIgnoredWhenDatabaseExists(t *testing.T) {
	s := newTestStore(t)

	legacyDir := t.TempDir()
	legacyPath := filepath.Join(legacyDir, legacyFileName)
	if err := os.WriteFile(legacyPath, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	s.legacyPath = legacyPath
	if err := s.Init(nil); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if _, err := os.Stat(legacyPath); err != nil {
		t.Error("legacy file must be left alone when a database already exists")
	}
}

func TestInit_CorruptFileDoesNotAbortStartup(t *testing.T) {
	dir := t.TempDir()
	s := NewWithLegacy(dir, "", zerolog.Nop())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.Path(), []byte("NOT A SQLITE DB"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Corruption is surfaced, never fatal: the operator restores from
	// backup while the application keeps running.
	if err := s.Init(nil); err != nil {
		t.Fatalf("Init() on corrupt file should not fail startup: %v", err)
	}

	ok, err := s.CheckIntegrity()
	if ok {
		t.Error("integrity check should not pass on a corrupt file")
	}
	_ = err // either a failed check or an unreadable file is acceptable
}

func TestCheckIntegrity_HealthyDatabase(t *testing.T) {
	s := newTestStore(t)

	ok, err := s.CheckIntegrity()
	if err != nil {
		t.Fatalf("CheckIntegrity() failed: %v", err)
	}
	if !ok {
		t.Error("fresh database should pass the integrity check")
	}
}

func TestTuning_Applied(t *testing.T) {
	s := newTestStore(t)

	db, err := s.open()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	var mode string
	if err := db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}

	var timeout int
	if err := db.QueryRow("PRAGMA busy_timeout").Scan(&timeout); err != nil {
		t.Fatalf("query busy_timeout: %v", err)
	}
	if timeout != 5000 {
		t.Errorf("busy_timeout = %d, want 5000", timeout)
	}
}

func TestPath_Deterministic(t *testing.T) {
	dir := t.TempDir()
	s := NewWithLegacy(dir, "", zerolog.Nop())

	first := s.Path()
	for i := 0; i < 3; i++ {
		if s.Path() != first {
			t.Fatal("Path() must be stable across calls")
		}
	}
	if _, err := os.Stat(first); !os.IsNotExist(err) {
		t.Error("Path() must not create the file as a side effect")
	}
}
