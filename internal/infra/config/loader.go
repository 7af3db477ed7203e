// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/runoshun/cursor-kanban/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files.
type Loader struct {
	storeDir      string // Path to .cursor-kanban directory
	globalConfDir string // Path to global config directory (e.g., ~/.config/cursor-kanban)
}

// NewLoader creates a new Loader.
func NewLoader(storeDir string) *Loader {
	return &Loader{
		storeDir:      storeDir,
		globalConfDir: DefaultGlobalConfigDir(),
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config directory.
// This is useful for testing.
func NewLoaderWithGlobalDir(storeDir, globalConfDir string) *Loader {
	return &Loader{
		storeDir:      storeDir,
		globalConfDir: globalConfDir,
	}
}

// DefaultGlobalConfigDir returns the default global config directory.
// It honors XDG_CONFIG_HOME and falls back to ~/.config.
func DefaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalConfigDir(configHome)
}

// Load returns the merged configuration.
// Precedence: defaults <- global <- project.
func (l *Loader) Load() (*domain.Config, error) {
	global, err := l.globalOverlay()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	project, err := l.projectOverlay()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	base := domain.NewDefaultConfig()
	if global != nil {
		base = mergeOverlay(base, global)
	}
	if project != nil {
		base = mergeOverlay(base, project)
	}
	return base, nil
}

// LoadGlobal returns only the global configuration on top of defaults.
func (l *Loader) LoadGlobal() (*domain.Config, error) {
	ov, err := l.globalOverlay()
	if err != nil {
		return nil, err
	}
	return mergeOverlay(domain.NewDefaultConfig(), ov), nil
}

// LoadProject returns only the project configuration on top of defaults.
func (l *Loader) LoadProject() (*domain.Config, error) {
	ov, err := l.projectOverlay()
	if err != nil {
		return nil, err
	}
	return mergeOverlay(domain.NewDefaultConfig(), ov), nil
}

func (l *Loader) globalOverlay() (*overlay, error) {
	if l.globalConfDir == "" {
		return nil, os.ErrNotExist
	}
	return loadFile(filepath.Join(l.globalConfDir, domain.ConfigFileName))
}

func (l *Loader) projectOverlay() (*overlay, error) {
	if l.storeDir == "" {
		return nil, os.ErrNotExist
	}
	return loadFile(domain.ConfigPath(l.storeDir))
}

// fileConfig mirrors domain.Config with optional fields so that merging
// can tell an explicit zero from an absent key.
type fileConfig struct {
	Store struct {
		LockTimeout    *domain.Duration `toml:"lock_timeout"`
		LockRetry      *domain.Duration `toml:"lock_retry"`
		StaleLockAfter *domain.Duration `toml:"stale_lock_after"`
		StrictRead     *bool            `toml:"strict_read"`
	} `toml:"store"`
	List struct {
		PageSize  *int `toml:"page_size"`
		LogWindow *int `toml:"log_window"`
	} `toml:"list"`
	Log struct {
		Level *string `toml:"level"`
	} `toml:"log"`
	UI struct {
		Debounce *domain.Duration `toml:"debounce"`
		Watch    *bool            `toml:"watch"`
	} `toml:"ui"`
}

// knownKeys lists the accepted keys per section.
var knownKeys = map[string][]string{
	"store": {"lock_timeout", "lock_retry", "stale_lock_after", "strict_read"},
	"list":  {"page_size", "log_window"},
	"log":   {"level"},
	"ui":    {"debounce", "watch"},
}

// overlay is a parsed config file: present values plus warnings.
type overlay struct {
	file     fileConfig
	warnings []string
}

// loadFile reads and parses one config file.
func loadFile(path string) (*overlay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ov, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return ov, nil
}

// parse decodes TOML content and collects warnings for unknown keys.
func parse(data []byte) (*overlay, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	ov := &overlay{warnings: unknownKeyWarnings(raw)}
	if err := toml.Unmarshal(data, &ov.file); err != nil {
		return nil, err
	}

	if p := ov.file.List.PageSize; p != nil && *p < 1 {
		ov.warnings = append(ov.warnings, fmt.Sprintf("invalid [list] page_size %d: using default", *p))
		ov.file.List.PageSize = nil
	}
	if w := ov.file.List.LogWindow; w != nil && *w < 0 {
		ov.warnings = append(ov.warnings, fmt.Sprintf("invalid [list] log_window %d: using default", *w))
		ov.file.List.LogWindow = nil
	}
	return ov, nil
}

func unknownKeyWarnings(raw map[string]any) []string {
	var warnings []string
	for section, value := range raw {
		keys, ok := knownKeys[section]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
			continue
		}
		m, ok := value.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("[%s] must be a table", section))
			continue
		}
		for k := range m {
			if !contains(keys, k) {
				warnings = append(warnings, fmt.Sprintf("unknown key in [%s]: %s", section, k))
			}
		}
	}
	sort.Strings(warnings)
	return warnings
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// mergeOverlay applies the values present in ov on top of base.
func mergeOverlay(base *domain.Config, ov *overlay) *domain.Config {
	res := *base
	if len(ov.warnings) > 0 {
		res.Warnings = append(append([]string{}, base.Warnings...), ov.warnings...)
	}

	f := ov.file
	if f.Store.LockTimeout != nil {
		res.Store.LockTimeout = *f.Store.LockTimeout
	}
	if f.Store.LockRetry != nil {
		res.Store.LockRetry = *f.Store.LockRetry
	}
	if f.Store.StaleLockAfter != nil {
		res.Store.StaleLockAfter = *f.Store.StaleLockAfter
	}
	if f.Store.StrictRead != nil {
		res.Store.StrictRead = *f.Store.StrictRead
	}
	if f.List.PageSize != nil {
		res.List.PageSize = *f.List.PageSize
	}
	if f.List.LogWindow != nil {
		res.List.LogWindow = *f.List.LogWindow
	}
	if f.Log.Level != nil {
		res.Log.Level = *f.Log.Level
	}
	if f.UI.Debounce != nil {
		res.UI.Debounce = *f.UI.Debounce
	}
	if f.UI.Watch != nil {
		res.UI.Watch = *f.UI.Watch
	}
	return &res
}
