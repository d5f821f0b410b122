// Package backup protects the live database file with dated snapshots.
//
// Backups are plain filesystem copies, never reads through the database
// engine, and are always taken before schema-changing writes, not after,
// so a snapshot can never capture a half-migrated file. One backup exists
// per (calendar day, reason) pair; the deterministic filename makes the
// due-check a single stat.
package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// dirName is the sibling directory holding snapshots.
const dirName = "Backups"

// Manager copies the live database file on a schedule and prunes old
// copies. It never opens the database itself.
type Manager struct {
	dbPath    string
	dir       string
	retention int
	now       func() time.Time
	log       zerolog.Logger
}

// New creates a Manager for the database at dbPath. Snapshots live in the
// "Backups" directory beside it; retention bounds how many Prune keeps.
func New(dbPath string, retention int, log zerolog.Logger) *Manager {
	return &Manager{
		dbPath:    dbPath,
		dir:       filepath.Join(filepath.Dir(dbPath), dirName),
		retention: retention,
		now:       time.Now,
		log:       log,
	}
}

// fileName returns the deterministic snapshot name for a day and reason,
// e.g. "timetrack_v2-20260302-daily.db".
func (m *Manager) fileName(day time.Time, reason string) string {
	base := filepath.Base(m.dbPath)
	ext := filepath.Ext(base)
	return fmt.Sprintf("%s-%s-%s%s",
		base[:len(base)-len(ext)], day.Format("20060102"), reason, ext)
}

// BackupIfDue snapshots the live database file unless today's snapshot
// for this reason already exists. A missing live file is a no-op: there
// is nothing to protect yet.
func (m *Manager) BackupIfDue(reason string) error {
	if _, err := os.Stat(m.dbPath); err != nil {
		return nil
	}

	dst := filepath.Join(m.dir, m.fileName(m.now(), reason))
	if _, err := os.Stat(dst); err == nil {
		return nil
	}

	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}
	if err := copyAtomic(m.dbPath, dst); err != nil {
		return fmt.Errorf("backup %s: %w", reason, err)
	}

	m.log.Info().Str("reason", reason).Str("file", dst).Msg("backup written")
	return nil
}

// Prune deletes all but the newest retention snapshots, ordered by
// modification time. Individual deletion failures are logged and
// skipped, never fatal to the batch.
func (m *Manager) Prune() error {
	if m.retention < 1 {
		return nil
	}

	entries, err := os.ReadDir(m.dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("list backups: %w", err)
	}

	type candidate struct {
		path    string
		modTime time.Time
	}
	var backups []candidate
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		backups = append(backups, candidate{
			path:    filepath.Join(m.dir, e.Name()),
			modTime: info.ModTime(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].modTime.After(backups[j].modTime)
	})

	for _, old := range backups[min(m.retention, len(backups)):] {
		if err := os.Remove(old.path); err != nil {
			m.log.Warn().Err(err).Str("file", old.path).Msg("could not prune backup")
			continue
		}
		m.log.Debug().Str("file", old.path).Msg("pruned backup")
	}
	return nil
}

// copyAtomic copies src into place via a uniquely named temp file in the
// same directory, so a crash mid-copy never leaves a plausible-looking
// partial snapshot under the final name.
func copyAtomic(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}

	tmp := dst + ".tmp-" + uuid.NewString()
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
