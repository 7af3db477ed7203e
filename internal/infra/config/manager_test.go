package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/cursor-kanban/internal/domain"
)

func TestManager_GetProjectConfigInfo(t *testing.T) {
	t.Run("returns info when file exists", func(t *testing.T) {
		storeDir := t.TempDir()
		configContent := "[log]\nlevel = \"debug\""
		err := os.WriteFile(filepath.Join(storeDir, domain.ConfigFileName), []byte(configContent), 0o644)
		require.NoError(t, err)

		manager := NewManagerWithGlobalDir(storeDir, "")
		info := manager.GetProjectConfigInfo()

		assert.Equal(t, filepath.Join(storeDir, domain.ConfigFileName), info.Path)
		assert.Equal(t, configContent, info.Content)
		assert.True(t, info.Exists)
	})

	t.Run("returns info when file does not exist", func(t *testing.T) {
		storeDir := t.TempDir()

		manager := NewManagerWithGlobalDir(storeDir, "")
		info := manager.GetProjectConfigInfo()

		assert.Equal(t, filepath.Join(storeDir, domain.ConfigFileName), info.Path)
		assert.Empty(t, info.Content)
		assert.False(t, info.Exists)
	})
}

func TestManager_GetGlobalConfigInfo(t *testing.T) {
	t.Run("returns info when file exists", func(t *testing.T) {
		globalDir := t.TempDir()
		configContent := "[log]\nlevel = \"debug\""
		err := os.WriteFile(filepath.Join(globalDir, domain.ConfigFileName), []byte(configContent), 0o644)
		require.NoError(t, err)

		manager := NewManagerWithGlobalDir("", globalDir)
		info := manager.GetGlobalConfigInfo()

		assert.Equal(t, filepath.Join(globalDir, domain.ConfigFileName), info.Path)
		assert.Equal(t, configContent, info.Content)
		assert.True(t, info.Exists)
	})

	t.Run("returns empty info when global dir is empty", func(t *testing.T) {
		manager := NewManagerWithGlobalDir("", "")
		info := manager.GetGlobalConfigInfo()

		assert.Empty(t, info.Path)
		assert.False(t, info.Exists)
	})
}

func TestManager_InitProjectConfig(t *testing.T) {
	t.Run("creates config file from template", func(t *testing.T) {
		storeDir := filepath.Join(t.TempDir(), domain.StoreDirName)

		manager := NewManagerWithGlobalDir(storeDir, "")
		require.NoError(t, manager.InitProjectConfig())

		content, err := os.ReadFile(domain.ConfigPath(storeDir))
		require.NoError(t, err)
		assert.Equal(t, domain.ConfigTemplate, string(content))
	})

	t.Run("returns error when file exists", func(t *testing.T) {
		storeDir := t.TempDir()
		require.NoError(t, os.WriteFile(domain.ConfigPath(storeDir), []byte("existing"), 0o644))

		manager := NewManagerWithGlobalDir(storeDir, "")
		err := manager.InitProjectConfig()

		assert.ErrorIs(t, err, domain.ErrConfigExists)
		content, _ := os.ReadFile(domain.ConfigPath(storeDir))
		assert.Equal(t, "existing", string(content))
	})
}

func TestManager_InitGlobalConfig(t *testing.T) {
	t.Run("creates config file and directory", func(t *testing.T) {
		globalDir := filepath.Join(t.TempDir(), "nested", domain.AppName)

		manager := NewManagerWithGlobalDir("", globalDir)
		require.NoError(t, manager.InitGlobalConfig())

		info := manager.GetGlobalConfigInfo()
		assert.True(t, info.Exists)
		assert.Contains(t, info.Content, "[store]")
	})

	t.Run("fails without global dir", func(t *testing.T) {
		manager := NewManagerWithGlobalDir("", "")
		assert.Error(t, manager.InitGlobalConfig())
	})
}

func TestManager_TemplateLoadsCleanly(t *testing.T) {
	storeDir := t.TempDir()
	manager := NewManagerWithGlobalDir(storeDir, "")
	require.NoError(t, manager.InitProjectConfig())

	cfg, err := NewLoaderWithGlobalDir(storeDir, "").Load()

	require.NoError(t, err)
	assert.Empty(t, cfg.Warnings)
	assert.Equal(t, domain.NewDefaultConfig(), cfg)
}
