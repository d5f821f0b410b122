// Package config resolves the application's runtime configuration from
// two layers: process environment variables (prefix TIMETRACK_) for
// machine-level overrides such as the data directory, and an optional
// settings.yaml inside the data directory for user preferences. Missing
// layers fall back to built-in defaults; a caller always gets a usable
// Config.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/ozzygit/TimeTrack/internal/entry"
)

const (
	// appDirName is the fixed per-application directory created under the
	// user's standard application-data location.
	appDirName = "TimeTrack v2"

	// settingsFileName is the optional per-user settings file inside the
	// data directory.
	settingsFileName = "settings.yaml"

	// DefaultBackupRetention is how many backup files are kept after pruning.
	DefaultBackupRetention = 14
)

// env holds environment-variable overrides, parsed with prefix TIMETRACK_.
type env struct {
	// AppData redirects the whole data directory (TIMETRACK_APPDATA).
	AppData string `envconfig:"APPDATA"`
	// Retention overrides the backup retention count (TIMETRACK_RETENTION).
	Retention int `envconfig:"RETENTION"`
}

// settings mirrors the settings.yaml layout. All fields are optional.
type settings struct {
	WorkWindow struct {
		Start string `yaml:"start"`
		End   string `yaml:"end"`
	} `yaml:"work_window"`
	Backup struct {
		Retention int `yaml:"retention"`
	} `yaml:"backup"`
}

// Config is the resolved application configuration. It is constructed once
// at startup and passed explicitly to the components that need it; there is
// no process-wide mutable settings object.
type Config struct {
	// AppDir is the data directory holding the database, backups, and
	// settings file.
	AppDir string

	// WindowStart and WindowEnd bound the typical work hours used to
	// disambiguate 12-hour times entered without AM/PM.
	WindowStart entry.TimeOfDay
	WindowEnd   entry.TimeOfDay

	// BackupRetention is how many backup files Prune keeps.
	BackupRetention int
}

// defaults returns the built-in configuration with dir unset.
func defaults() Config {
	return Config{
		WindowStart:     entry.TimeOfDay{Hour: 7},
		WindowEnd:       entry.TimeOfDay{Hour: 19},
		BackupRetention: DefaultBackupRetention,
	}
}

// Load resolves the full configuration: environment overrides first, then
// settings.yaml from the resolved data directory, then defaults for
// anything still unset. A malformed settings file is reported as an error
// alongside a usable default Config so startup can log and continue.
func Load() (Config, error) {
	var e env
	if err := envconfig.Process("timetrack", &e); err != nil {
		return defaults(), fmt.Errorf("parse environment: %w", err)
	}

	dir, err := resolveAppDir(e.AppData)
	if err != nil {
		return defaults(), err
	}

	cfg, err := LoadDir(dir)
	if e.Retention > 0 {
		cfg.BackupRetention = e.Retention
	}
	return cfg, err
}

// LoadDir resolves configuration for an explicit data directory, skipping
// the environment layer. Used by tests and by callers that already know
// where the data lives.
func LoadDir(dir string) (Config, error) {
	cfg, err := loadSettings(dir)
	cfg.AppDir = dir
	return cfg, err
}

// resolveAppDir picks the data directory: the override when given, else
// the per-user application-data location. Deterministic and side-effect
// free; directory creation happens at store init.
func resolveAppDir(override string) (string, error) {
	if override != "" {
		return filepath.Join(override, appDirName), nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, appDirName), nil
}

// loadSettings reads settings.yaml under dir and fills unset fields with
// defaults. A missing file is not an error.
func loadSettings(dir string) (Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(filepath.Join(dir, settingsFileName))
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read settings: %w", err)
	}

	var s settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return cfg, fmt.Errorf("parse settings: %w", err)
	}

	if s.WorkWindow.Start != "" {
		t, err := parseClock(s.WorkWindow.Start)
		if err != nil {
			return cfg, fmt.Errorf("settings work_window.start: %w", err)
		}
		cfg.WindowStart = t
	}
	if s.WorkWindow.End != "" {
		t, err := parseClock(s.WorkWindow.End)
		if err != nil {
			return cfg, fmt.Errorf("settings work_window.end: %w", err)
		}
		cfg.WindowEnd = t
	}
	if s.Backup.Retention > 0 {
		cfg.BackupRetention = s.Backup.Retention
	}
	return cfg, nil
}

// parseClock parses the strict "HH:MM" form used in settings.yaml.
func parseClock(s string) (entry.TimeOfDay, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return entry.TimeOfDay{}, fmt.Errorf("parse clock %q: %w", s, err)
	}
	return entry.NewTimeOfDay(hour, minute)
}
