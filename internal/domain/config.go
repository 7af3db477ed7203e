package domain

import (
	"fmt"
	"time"
)

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings []string    `toml:"-"`
	Log      LogConfig   `toml:"log"`
	Store    StoreConfig `toml:"store"`
	UI       UIConfig    `toml:"ui"`
	List     ListConfig  `toml:"list"`
}

// StoreConfig holds persistence settings from [store] section.
type StoreConfig struct {
	LockTimeout    Duration `toml:"lock_timeout"`     // Give up acquiring the lock after this long
	LockRetry      Duration `toml:"lock_retry"`       // Interval between acquisition attempts
	StaleLockAfter Duration `toml:"stale_lock_after"` // Reclaim dead owners' locks older than this (0 = never)
	StrictRead     bool     `toml:"strict_read"`      // Fail on malformed documents instead of reading empty
}

// ListConfig holds query settings from [list] section.
type ListConfig struct {
	PageSize  int `toml:"page_size"`
	LogWindow int `toml:"log_window"`
}

// LogConfig holds logging settings from [log] section.
type LogConfig struct {
	Level string `toml:"level"` // Log level: debug, info, warn, error
}

// UIConfig holds UI bridge settings from [ui] section.
type UIConfig struct {
	Debounce Duration `toml:"debounce"` // Coalescing window for document change events
	Watch    bool     `toml:"watch"`    // Push board updates on external changes
}

// Default configuration values.
const (
	DefaultLockTimeout = 5 * time.Second
	DefaultLockRetry   = 50 * time.Millisecond
	DefaultDebounce    = 200 * time.Millisecond
	DefaultLogLevel    = "info"
)

// NewDefaultConfig returns a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			LockTimeout: Duration(DefaultLockTimeout),
			LockRetry:   Duration(DefaultLockRetry),
		},
		List: ListConfig{
			PageSize:  DefaultPageSize,
			LogWindow: DefaultLogWindow,
		},
		Log: LogConfig{Level: DefaultLogLevel},
		UI: UIConfig{
			Watch:    true,
			Debounce: Duration(DefaultDebounce),
		},
	}
}

// Duration is a time.Duration written as a string ("5s", "50ms") in TOML.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	if v < 0 {
		return fmt.Errorf("invalid duration %q: must not be negative", string(text))
	}
	*d = Duration(v)
	return nil
}

// ConfigTemplate is written by `kanban config --init`.
const ConfigTemplate = `# cursor-kanban configuration

[store]
# How long to wait for the task store lock before failing.
lock_timeout = "5s"
# Interval between lock acquisition attempts.
lock_retry = "50ms"
# Reclaim lock markers older than this whose owner process is gone ("0s" disables).
stale_lock_after = "0s"
# Fail on a malformed tasks.json instead of treating it as empty.
strict_read = false

[list]
page_size = 100
log_window = 3

[log]
# debug, info, warn, error
level = "info"

[ui]
watch = true
debounce = "200ms"
`
