// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/runoshun/cursor-kanban/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
	Step    time.Duration // Added to NowTime after every call when non-zero
	mu      sync.Mutex
}

// NewMockClock returns a clock fixed at t.
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{NowTime: t}
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.NowTime
	m.NowTime = m.NowTime.Add(m.Step)
	return now
}

// Advance moves the clock forward by d.
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NowTime = m.NowTime.Add(d)
}

// SequenceIDs is a test double for domain.IDGenerator.
// It yields "<Prefix>1", "<Prefix>2", ...
type SequenceIDs struct {
	Prefix string
	mu     sync.Mutex
	n      int
}

// NewID returns the next identifier in the sequence.
func (s *SequenceIDs) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	prefix := s.Prefix
	if prefix == "" {
		prefix = "id-"
	}
	return fmt.Sprintf("%s%d", prefix, s.n)
}

// MockTaskStore is an in-memory test double for domain.TaskStore.
// Fields are ordered to minimize memory padding.
type MockTaskStore struct {
	LoadErr     error
	UpdateErr   error
	SaveErr     error
	Tasks       []*domain.Task
	UpdateCalls int
	mu          sync.Mutex
}

// NewMockTaskStore creates a store seeded with the given tasks.
func NewMockTaskStore(tasks ...*domain.Task) *MockTaskStore {
	return &MockTaskStore{Tasks: tasks}
}

// Load returns deep copies of the stored tasks.
func (m *MockTaskStore) Load(_ context.Context) ([]*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return cloneAll(m.Tasks), nil
}

// Save replaces the stored tasks.
func (m *MockTaskStore) Save(_ context.Context, tasks []*domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Tasks = cloneAll(tasks)
	return nil
}

// Update applies fn to copies of the stored tasks and keeps the result.
func (m *MockTaskStore) Update(_ context.Context, fn domain.UpdateFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls++
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	updated, err := fn(cloneAll(m.Tasks))
	if err != nil {
		return err
	}
	m.Tasks = cloneAll(updated)
	return nil
}

// Get returns the stored task with the given ID, or nil.
func (m *MockTaskStore) Get(id string) *domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, _ := domain.FindTask(m.Tasks, id)
	return t
}

func cloneAll(tasks []*domain.Task) []*domain.Task {
	out := make([]*domain.Task, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Clone())
	}
	return out
}

// MockStoreInitializer is a test double for domain.StoreInitializer.
type MockStoreInitializer struct {
	InitErr     error
	Initialized bool
}

// Initialize marks the store as initialized.
func (m *MockStoreInitializer) Initialize() error {
	if m.InitErr != nil {
		return m.InitErr
	}
	m.Initialized = true
	return nil
}

// IsInitialized reports the configured state.
func (m *MockStoreInitializer) IsInitialized() bool {
	return m.Initialized
}

// LogEntry is one message captured by MockLogger.
type LogEntry struct {
	Level    string
	TaskID   string
	Category string
	Msg      string
}

// MockLogger is a test double for domain.Logger that records every call.
type MockLogger struct {
	Entries []LogEntry
	mu      sync.Mutex
}

func (m *MockLogger) record(level, taskID, category, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, LogEntry{Level: level, TaskID: taskID, Category: category, Msg: msg})
}

// Debug records a debug message.
func (m *MockLogger) Debug(taskID, category, msg string) { m.record("DEBUG", taskID, category, msg) }

// Info records an info message.
func (m *MockLogger) Info(taskID, category, msg string) { m.record("INFO", taskID, category, msg) }

// Warn records a warning.
func (m *MockLogger) Warn(taskID, category, msg string) { m.record("WARN", taskID, category, msg) }

// Error records an error.
func (m *MockLogger) Error(taskID, category, msg string) { m.record("ERROR", taskID, category, msg) }

// Count returns how many entries were recorded at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Entries {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockBranchResolver is a test double for domain.BranchResolver.
type MockBranchResolver struct {
	Err    error
	Branch string
}

// CurrentBranch returns the configured branch.
func (m *MockBranchResolver) CurrentBranch() (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.Branch, nil
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config       *domain.Config
	GlobalConfig *domain.Config
	LoadErr      error
}

// NewMockConfigLoader returns a loader yielding the default config.
func NewMockConfigLoader() *MockConfigLoader {
	return &MockConfigLoader{Config: domain.NewDefaultConfig()}
}

// Load returns the configured config.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Config, nil
}

// LoadGlobal returns the configured global config.
func (m *MockConfigLoader) LoadGlobal() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.GlobalConfig == nil {
		return domain.NewDefaultConfig(), nil
	}
	return m.GlobalConfig, nil
}

// Ensure mocks implement the domain ports.
var (
	_ domain.Clock            = (*MockClock)(nil)
	_ domain.IDGenerator      = (*SequenceIDs)(nil)
	_ domain.TaskStore        = (*MockTaskStore)(nil)
	_ domain.StoreInitializer = (*MockStoreInitializer)(nil)
	_ domain.Logger           = (*MockLogger)(nil)
	_ domain.BranchResolver   = (*MockBranchResolver)(nil)
	_ domain.ConfigLoader     = (*MockConfigLoader)(nil)
)
