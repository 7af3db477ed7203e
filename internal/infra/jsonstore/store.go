// Package jsonstore provides a JSON file-based implementation of TaskStore.
package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/runoshun/cursor-kanban/internal/domain"
)

// Ensure Store implements the domain ports.
var (
	_ domain.TaskStore        = (*Store)(nil)
	_ domain.StoreInitializer = (*Store)(nil)
)

// Options configures locking and read behavior.
type Options struct {
	Logger         domain.Logger // Optional; receives corruption and lock warnings
	LockTimeout    time.Duration
	LockRetry      time.Duration
	StaleLockAfter time.Duration // 0 disables stale lock reclaim
	StrictRead     bool          // Return ErrStoreUnreadable instead of an empty collection
}

// OptionsFromConfig maps the [store] config section onto Options.
func OptionsFromConfig(cfg domain.StoreConfig, logger domain.Logger) Options {
	return Options{
		Logger:         logger,
		LockTimeout:    cfg.LockTimeout.Std(),
		LockRetry:      cfg.LockRetry.Std(),
		StaleLockAfter: cfg.StaleLockAfter.Std(),
		StrictRead:     cfg.StrictRead,
	}
}

// Store implements domain.TaskStore using one JSON document per project.
type Store struct {
	rename   func(oldpath, newpath string) error
	path     string
	lockPath string
	opts     Options
}

// New creates a new Store rooted at the given data directory.
// The document does not need to exist; it will be created on first write.
func New(storeDir string, opts Options) *Store {
	if opts.LockTimeout <= 0 {
		opts.LockTimeout = domain.DefaultLockTimeout
	}
	if opts.LockRetry <= 0 {
		opts.LockRetry = domain.DefaultLockRetry
	}
	return &Store{
		rename:   os.Rename,
		path:     domain.TasksStorePath(storeDir),
		lockPath: domain.LockPath(storeDir),
		opts:     opts,
	}
}

// Path returns the document path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the collection without taking the lock.
// Readers observe either the previous or the next document thanks to the
// atomic rename on write.
func (s *Store) Load(_ context.Context) ([]*domain.Task, error) {
	return s.read()
}

// Save replaces the whole collection.
func (s *Store) Save(ctx context.Context, tasks []*domain.Task) error {
	if err := s.acquireLock(ctx); err != nil {
		return err
	}
	defer s.releaseLock()

	return s.write(tasks)
}

// Update runs one locked read-modify-write cycle.
// Nothing is written when fn returns an error.
func (s *Store) Update(ctx context.Context, fn domain.UpdateFunc) error {
	if err := s.acquireLock(ctx); err != nil {
		return err
	}
	defer s.releaseLock()

	tasks, err := s.read()
	if err != nil {
		return err
	}

	updated, err := fn(tasks)
	if err != nil {
		return err
	}

	return s.write(updated)
}

// IsInitialized checks if the store file exists.
func (s *Store) IsInitialized() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Initialize creates an empty store file if it doesn't exist.
func (s *Store) Initialize() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	ctx := context.Background()
	if err := s.acquireLock(ctx); err != nil {
		return err
	}
	defer s.releaseLock()

	if _, err := os.Stat(s.path); err == nil {
		return nil // Already exists
	}
	return s.write(nil)
}

// read loads the document. A missing document is an empty collection.
// Unreadable or malformed documents are also empty unless StrictRead is set.
func (s *Store) read() ([]*domain.Task, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []*domain.Task{}, nil
		}
		return s.unreadable(fmt.Errorf("read store file: %w", err))
	}

	var tasks []*domain.Task
	if err := json.Unmarshal(content, &tasks); err != nil {
		return s.unreadable(fmt.Errorf("parse store file: %w", err))
	}

	out := make([]*domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if t != nil {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Store) unreadable(cause error) ([]*domain.Task, error) {
	if s.opts.StrictRead {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnreadable, cause)
	}
	s.warn(fmt.Sprintf("treating task store as empty: %v", cause))
	return []*domain.Task{}, nil
}

// write serializes the collection to a temp file in the same directory
// and renames it over the document.
func (s *Store) write(tasks []*domain.Task) error {
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	content, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store data: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "tasks-*.json.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := s.rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath) // Clean up
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

func (s *Store) warn(msg string) {
	if s.opts.Logger != nil {
		s.opts.Logger.Warn("", "store", msg)
	}
}
