package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozzygit/TimeTrack/internal/entry"
)

func writeSettings(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, settingsFileName), []byte(content), 0o644))
}

func TestLoadDir_Defaults(t *testing.T) {
	cfg, err := LoadDir(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, entry.TimeOfDay{Hour: 7}, cfg.WindowStart)
	assert.Equal(t, entry.TimeOfDay{Hour: 19}, cfg.WindowEnd)
	assert.Equal(t, DefaultBackupRetention, cfg.BackupRetention)
}

func TestLoadDir_PartialSettingsKeepDefaults(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, "backup:\n  retention: 30\n")

	cfg, err := LoadDir(dir)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.BackupRetention)
	assert.Equal(t, entry.TimeOfDay{Hour: 7}, cfg.WindowStart, "unset fields keep defaults")
}

func TestLoadDir_WorkWindow(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, "work_window:\n  start: \"08:30\"\n  end: \"18:00\"\n")

	cfg, err := LoadDir(dir)
	require.NoError(t, err)

	assert.Equal(t, entry.TimeOfDay{Hour: 8, Minute: 30}, cfg.WindowStart)
	assert.Equal(t, entry.TimeOfDay{Hour: 18}, cfg.WindowEnd)
}

func TestLoadDir_MalformedYieldsDefaultsAndError(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, "work_window: [not a map\n")

	cfg, err := LoadDir(dir)
	assert.Error(t, err)
	assert.Equal(t, entry.TimeOfDay{Hour: 7}, cfg.WindowStart, "caller still gets a usable config")
}

func TestLoadDir_BadClock(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, "work_window:\n  start: \"25:00\"\n")

	_, err := LoadDir(dir)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	base := t.TempDir()
	t.Setenv("TIMETRACK_APPDATA", base)
	t.Setenv("TIMETRACK_RETENTION", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(base, appDirName), cfg.AppDir)
	assert.Equal(t, 5, cfg.BackupRetention)
}
