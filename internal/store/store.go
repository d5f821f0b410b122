package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking (PRAGMA user_version):
// 0 - Unversioned file from the old EnsureCreated-style bootstrap
// 1 - Initial schema (time_entries table)
// 2 - Secondary indexes on date and (date, start_time, end_time)
const currentSchemaVersion = 2

const (
	dbFileName = "timetrack_v2.db"

	// legacyFileName is the database name an earlier release kept beside
	// the executable.
	legacyFileName = "timetrack.db"
)

// Backup snapshots the live database file before a destructive startup
// step. Implemented by the backup manager; a nil Backup skips snapshots.
type Backup interface {
	BackupIfDue(reason string) error
}

// Store is the single owner of the database file. The zero value is not
// usable; construct with New.
type Store struct {
	dbPath     string
	legacyPath string
	log        zerolog.Logger
}

// New creates a Store for the database inside appDir. The legacy location
// checked during Init is the old per-executable file; resolution failure
// there just disables legacy migration.
func New(appDir string, log zerolog.Logger) *Store {
	return &Store{
		dbPath:     filepath.Join(appDir, dbFileName),
		legacyPath: defaultLegacyPath(),
		log:        log,
	}
}

// NewWithLegacy is New with an explicit legacy-location path. Empty
// disables legacy migration. Used by tests.
func NewWithLegacy(appDir, legacyPath string, log zerolog.Logger) *Store {
	s := New(appDir, log)
	s.legacyPath = legacyPath
	return s
}

// Path returns the resolved database file path. Deterministic and free of
// side effects; callable before Init.
func (s *Store) Path() string {
	return s.dbPath
}

// defaultLegacyPath returns the old database location beside the
// executable, or empty when the executable path cannot be resolved.
func defaultLegacyPath() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Join(filepath.Dir(exe), legacyFileName)
}

// Init brings the database file to a healthy, current state. The whole
// sequence is idempotent and cheap to repeat on every startup:
//
//	ensure dir → migrate legacy file → ensure schema (+tuning) → integrity check
//
// Backups ordered before any destructive step are taken through b; pass
// nil to skip them. Only filesystem-level failures that leave no usable
// database abort; migration and integrity problems are logged and startup
// continues.
func (s *Store) Init(b Backup) error {
	if err := os.MkdirAll(filepath.Dir(s.dbPath), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	s.migrateLegacyIfPresent()

	// A schema failure here usually means a damaged file. It is logged,
	// not fatal: the integrity check below flags it for the operator and
	// the application keeps running against whatever state is readable.
	if err := s.ensureSchema(b); err != nil {
		s.log.Error().Err(err).Msg("could not ensure schema")
	}

	if ok, err := s.CheckIntegrity(); err != nil {
		s.log.Warn().Err(err).Msg("integrity check could not run")
	} else if !ok {
		s.log.Error().Str("db", s.dbPath).
			Msg("database failed integrity check; restore from a backup")
	}

	return nil
}

// ensureSchema opens the database, applies tuning, and creates or
// migrates the schema. Running it against an up-to-date file is a no-op.
func (s *Store) ensureSchema(b Backup) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	version, err := schemaVersion(db)
	if err != nil {
		return err
	}

	// Baselining: a version-0 file that already has the data table was
	// created by the old EnsureCreated bootstrap. Stamp it as version 1
	// so the initial migration is never re-applied to it.
	if version == 0 {
		exists, err := tableExists(db, "time_entries")
		if err != nil {
			return err
		}
		if exists {
			if b != nil {
				if err := b.BackupIfDue("pre-baseline"); err != nil {
					s.log.Warn().Err(err).Msg("pre-baseline backup failed")
				}
			}
			if err := setSchemaVersion(db, 1); err != nil {
				return err
			}
			version = 1
			s.log.Info().Msg("baselined pre-versioning database at schema version 1")
		}
	}

	if version < 1 {
		if _, err := db.Exec(schemaSQL); err != nil {
			return fmt.Errorf("apply initial schema: %w", err)
		}
		version = 1
	}
	if version < 2 {
		// CREATE INDEX IF NOT EXISTS is a no-op on files that already
		// got the indexes from schema.sql.
		if _, err := db.Exec(`
			CREATE INDEX IF NOT EXISTS idx_time_entries_date
			    ON time_entries(date);
			CREATE INDEX IF NOT EXISTS idx_time_entries_date_start_end
			    ON time_entries(date, start_time, end_time);
		`); err != nil {
			return fmt.Errorf("migrate to v2: %w", err)
		}
		version = 2
	}

	return setSchemaVersion(db, currentSchemaVersion)
}

// open returns a connection to the database file, creating the file when
// missing, with tuning pragmas applied. Every store operation uses this;
// the caller closes the handle.
func (s *Store) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite3", s.dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// self-inflicted SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s.applyTuning(db)
	return db, nil
}

// applyTuning sets the durability and contention pragmas. Failures here
// are logged, never fatal: the database stays usable on defaults.
func (s *Store) applyTuning(db *sql.DB) {
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			s.log.Warn().Err(err).Str("pragma", pragma).Msg("tuning pragma failed")
		}
	}
}

// migrateLegacyIfPresent moves a database from the old per-executable
// location to the resolved one, falling back to copy+delete across
// volumes. It only acts when no file exists at the new location yet.
// Failure is logged and startup continues with a fresh database.
func (s *Store) migrateLegacyIfPresent() {
	if s.legacyPath == "" {
		return
	}
	if fileExists(s.dbPath) || !fileExists(s.legacyPath) {
		return
	}

	if err := os.Rename(s.legacyPath, s.dbPath); err == nil {
		s.log.Info().Str("from", s.legacyPath).Str("to", s.dbPath).
			Msg("migrated legacy database")
		return
	}

	// Rename fails across volumes; copy then delete.
	if err := copyFile(s.legacyPath, s.dbPath); err != nil {
		s.log.Warn().Err(err).Str("legacy", s.legacyPath).
			Msg("legacy database migration failed; continuing with a fresh database")
		os.Remove(s.dbPath)
		return
	}
	if err := os.Remove(s.legacyPath); err != nil {
		s.log.Warn().Err(err).Str("legacy", s.legacyPath).
			Msg("could not remove legacy database after copy")
	}
	s.log.Info().Str("from", s.legacyPath).Str("to", s.dbPath).
		Msg("migrated legacy database (copy+delete)")
}

// CheckIntegrity runs SQLite's full consistency check. A false result
// means the file is damaged and should be restored from backup; the
// database remains usable either way.
func (s *Store) CheckIntegrity() (bool, error) {
	db, err := s.open()
	if err != nil {
		return false, err
	}
	defer db.Close()

	rows, err := db.Query("PRAGMA integrity_check")
	if err != nil {
		return false, fmt.Errorf("integrity check: %w", err)
	}
	defer rows.Close()

	ok := false
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return false, fmt.Errorf("integrity check: %w", err)
		}
		if line == "ok" {
			ok = true
		} else {
			s.log.Error().Str("finding", line).Msg("integrity check finding")
			ok = false
		}
	}
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("integrity check: %w", err)
	}
	return ok, nil
}

func schemaVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("get user_version: %w", err)
	}
	return version, nil
}

func setSchemaVersion(db *sql.DB, version int) error {
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", version)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

func tableExists(db *sql.DB, name string) (bool, error) {
	var count int
	err := db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?",
		name,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check table %s: %w", name, err)
	}
	return count > 0, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return nil
}
