package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/cursor-kanban/internal/domain"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.ConfigFileName), []byte(content), 0o644))
}

func TestLoader_Load_ProjectConfigOnly(t *testing.T) {
	// Setup
	storeDir := t.TempDir()
	globalDir := t.TempDir()
	writeConfig(t, storeDir, `
[store]
lock_timeout = "2s"
strict_read = true

[list]
page_size = 25

[log]
level = "debug"
`)

	// Execute
	cfg, err := NewLoaderWithGlobalDir(storeDir, globalDir).Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Store.LockTimeout.Std())
	assert.Equal(t, domain.DefaultLockRetry, cfg.Store.LockRetry.Std())
	assert.True(t, cfg.Store.StrictRead)
	assert.Equal(t, 25, cfg.List.PageSize)
	assert.Equal(t, domain.DefaultLogWindow, cfg.List.LogWindow)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Empty(t, cfg.Warnings)
}

func TestLoader_Load_MergeProjectOverridesGlobal(t *testing.T) {
	// Setup
	storeDir := t.TempDir()
	globalDir := t.TempDir()
	writeConfig(t, globalDir, `
[store]
stale_lock_after = "10m"

[log]
level = "warn"

[ui]
watch = false
`)
	writeConfig(t, storeDir, `
[log]
level = "info"
`)

	// Execute
	cfg, err := NewLoaderWithGlobalDir(storeDir, globalDir).Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, cfg.Store.StaleLockAfter.Std()) // From global
	assert.False(t, cfg.UI.Watch)                                   // From global
	assert.Equal(t, "info", cfg.Log.Level)                          // Project restores the default explicitly
}

func TestLoader_Load_NoConfigFiles(t *testing.T) {
	cfg, err := NewLoaderWithGlobalDir(t.TempDir(), t.TempDir()).Load()

	require.NoError(t, err)
	assert.Equal(t, domain.NewDefaultConfig(), cfg)
}

func TestLoader_LoadGlobal_NotFound(t *testing.T) {
	loader := NewLoaderWithGlobalDir(t.TempDir(), t.TempDir())

	cfg, err := loader.LoadGlobal()

	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Nil(t, cfg)
}

func TestLoader_LoadGlobal(t *testing.T) {
	globalDir := t.TempDir()
	writeConfig(t, globalDir, "[ui]\ndebounce = \"1s\"\n")

	cfg, err := NewLoaderWithGlobalDir(t.TempDir(), globalDir).LoadGlobal()

	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.UI.Debounce.Std())
}

func TestLoader_Load_InvalidTOML(t *testing.T) {
	storeDir := t.TempDir()
	writeConfig(t, storeDir, "[store\nlock_timeout = ")

	_, err := NewLoaderWithGlobalDir(storeDir, t.TempDir()).Load()

	assert.Error(t, err)
}

func TestLoader_Load_InvalidDuration(t *testing.T) {
	storeDir := t.TempDir()
	writeConfig(t, storeDir, "[store]\nlock_timeout = \"soon\"\n")

	_, err := NewLoaderWithGlobalDir(storeDir, t.TempDir()).Load()

	assert.Error(t, err)
}

func TestLoader_Load_Warnings(t *testing.T) {
	// Setup
	storeDir := t.TempDir()
	globalDir := t.TempDir()
	writeConfig(t, globalDir, "[agents]\nname = \"x\"\n")
	writeConfig(t, storeDir, `
[store]
lock_timeout = "1s"
lock_timout = "2s"

[list]
page_size = 0
log_window = -1
`)

	// Execute
	cfg, err := NewLoaderWithGlobalDir(storeDir, globalDir).Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{
		"unknown section: agents",
		"unknown key in [store]: lock_timout",
		"invalid [list] page_size 0: using default",
		"invalid [list] log_window -1: using default",
	}, cfg.Warnings)
	assert.Equal(t, domain.DefaultPageSize, cfg.List.PageSize)
	assert.Equal(t, domain.DefaultLogWindow, cfg.List.LogWindow)
	assert.Equal(t, time.Second, cfg.Store.LockTimeout.Std())
}

func TestDefaultGlobalConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	assert.Equal(t, filepath.Join("/tmp/xdg", domain.AppName), DefaultGlobalConfigDir())
}
