package domain

import (
	"context"
	"time"
)

// StoreInitializer initializes the data store.
type StoreInitializer interface {
	// Initialize creates the store if it doesn't exist.
	Initialize() error

	// IsInitialized reports whether the store document exists.
	IsInitialized() bool
}

// UpdateFunc transforms the full task collection inside a locked cycle.
// Returning an error aborts the cycle without writing.
type UpdateFunc func(tasks []*Task) ([]*Task, error)

// TaskStore persists the whole task collection as one document.
type TaskStore interface {
	// Load reads the collection without taking the lock.
	Load(ctx context.Context) ([]*Task, error)

	// Save replaces the collection under the lock.
	Save(ctx context.Context, tasks []*Task) error

	// Update runs one locked read-modify-write cycle.
	Update(ctx context.Context, fn UpdateFunc) error
}

// FindTask returns the task with the given ID and its index, or nil and -1.
func FindTask(tasks []*Task, id string) (*Task, int) {
	for i, t := range tasks {
		if t.ID == id {
			return t, i
		}
	}
	return nil, -1
}

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system time.
type RealClock struct{}

// Now returns the current UTC time.
func (RealClock) Now() time.Time {
	return time.Now().UTC()
}

// IDGenerator produces unique identifiers for tasks and sessions.
type IDGenerator interface {
	NewID() string
}

// BranchResolver reports the branch checked out in the project root.
type BranchResolver interface {
	CurrentBranch() (string, error)
}

// Logger provides structured logging keyed by task.
type Logger interface {
	Debug(taskID, category, msg string)
	Info(taskID, category, msg string)
	Warn(taskID, category, msg string)
	Error(taskID, category, msg string)
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (defaults + global + project).
	Load() (*Config, error)

	// LoadGlobal returns only the global configuration.
	LoadGlobal() (*Config, error)
}

// ConfigInfo describes one config file on disk.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}

// ConfigManager inspects and creates config files.
type ConfigManager interface {
	GetProjectConfigInfo() ConfigInfo
	GetGlobalConfigInfo() ConfigInfo
	InitProjectConfig() error
	InitGlobalConfig() error
}
