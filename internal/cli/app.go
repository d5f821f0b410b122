package cli

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/ozzygit/TimeTrack/internal/backup"
	"github.com/ozzygit/TimeTrack/internal/config"
	"github.com/ozzygit/TimeTrack/internal/entry"
	"github.com/ozzygit/TimeTrack/internal/logger"
	"github.com/ozzygit/TimeTrack/internal/store"
	"github.com/ozzygit/TimeTrack/internal/timestr"
)

// app bundles the initialized core components behind the commands. It is
// constructed per invocation; nothing survives the process.
type app struct {
	cfg     config.Config
	store   *store.Store
	backups *backup.Manager
	parser  timestr.Parser
	log     zerolog.Logger
}

// newApp runs the startup sequence: load configuration, take the routine
// daily snapshot, then initialize the store (legacy migration, schema,
// tuning, integrity check) and prune old snapshots. The snapshot comes
// first so no backup can capture a half-migrated file.
func newApp(opts *RootOptions) (*app, error) {
	log := logger.New(opts.Verbose)

	cfg, err := config.Load()
	if err != nil {
		log.Warn().Err(err).Msg("configuration problem; continuing with defaults")
	}

	st := store.New(cfg.AppDir, log)
	bm := backup.New(st.Path(), cfg.BackupRetention, log)

	if err := bm.BackupIfDue("daily"); err != nil {
		log.Warn().Err(err).Msg("daily backup failed")
	}
	if err := st.Init(bm); err != nil {
		return nil, WrapExitError(ExitCommandError, "initialize data store", err)
	}
	if err := bm.Prune(); err != nil {
		log.Warn().Err(err).Msg("backup pruning failed")
	}

	return &app{
		cfg:     cfg,
		store:   st,
		backups: bm,
		parser:  timestr.New(cfg.WindowStart, cfg.WindowEnd),
		log:     log,
	}, nil
}

// busyAbandoned handles the one recoverable write failure: contention
// that outlasted the retries. Storage is unchanged and the user re-reads
// to resync, so the command finishes without an error exit. Returns true
// when the error was that case.
func (a *app) busyAbandoned(w io.Writer, err error) bool {
	if !store.IsBusy(err) {
		return false
	}
	a.log.Warn().Err(err).Msg("database busy; operation abandoned")
	fmt.Fprintln(w, "database is busy; nothing was changed - try again, then 'list' to verify")
	return true
}

// validDate checks a "YYYY-MM-DD" flag value.
func validDate(date string) error {
	if _, err := entry.ParseDate(date); err != nil {
		return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
	}
	return nil
}

// formatTime renders an optional time for display.
func formatTime(t *entry.TimeOfDay) string {
	if t == nil {
		return ""
	}
	return t.Clock12()
}
