package domain

import (
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, 5*time.Second, cfg.Store.LockTimeout.Std())
	assert.Equal(t, 50*time.Millisecond, cfg.Store.LockRetry.Std())
	assert.Zero(t, cfg.Store.StaleLockAfter)
	assert.False(t, cfg.Store.StrictRead)
	assert.Equal(t, 100, cfg.List.PageSize)
	assert.Equal(t, 3, cfg.List.LogWindow)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.UI.Watch)
	assert.Equal(t, 200*time.Millisecond, cfg.UI.Debounce.Std())
}

func TestConfigTemplate_MatchesDefaults(t *testing.T) {
	var cfg Config
	require.NoError(t, toml.Unmarshal([]byte(ConfigTemplate), &cfg))

	def := NewDefaultConfig()
	assert.Equal(t, def.Store, cfg.Store)
	assert.Equal(t, def.List, cfg.List)
	assert.Equal(t, def.Log, cfg.Log)
	assert.Equal(t, def.UI, cfg.UI)
}

func TestDuration_UnmarshalText(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("1m30s")))
	assert.Equal(t, 90*time.Second, d.Std())

	assert.Error(t, d.UnmarshalText([]byte("soon")))
	assert.Error(t, d.UnmarshalText([]byte("-1s")))

	text, err := Duration(50 * time.Millisecond).MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "50ms", string(text))
}
