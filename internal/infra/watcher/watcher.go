// Package watcher notifies about changes to a project's task document.
// Bursts of writes are coalesced into one notification.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/runoshun/cursor-kanban/internal/domain"
)

// Watcher monitors tasks.json for changes and sends notifications.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	logger    domain.Logger
	onChange  chan struct{}
	done      chan struct{}
	storeDir  string
	debounce  time.Duration
	stopOnce  sync.Once
}

// Config holds watcher configuration options.
type Config struct {
	Logger      domain.Logger // Optional; receives watch errors
	StoreDir    string
	DebounceDur time.Duration
}

// DefaultConfig returns the defaults for a store directory.
func DefaultConfig(storeDir string) Config {
	return Config{
		StoreDir:    storeDir,
		DebounceDur: domain.DefaultDebounce,
	}
}

// New creates a new document watcher.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	if cfg.DebounceDur <= 0 {
		cfg.DebounceDur = domain.DefaultDebounce
	}

	return &Watcher{
		fsWatcher: fsw,
		logger:    cfg.Logger,
		storeDir:  cfg.StoreDir,
		debounce:  cfg.DebounceDur,
		onChange:  make(chan struct{}, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching the store directory.
// Writes replace tasks.json by rename, so the directory is watched
// rather than the file itself.
func (w *Watcher) Start() (<-chan struct{}, error) {
	if err := w.fsWatcher.Add(w.storeDir); err != nil {
		return nil, fmt.Errorf("watching directory %s: %w", w.storeDir, err)
	}

	go w.loop()

	return w.onChange, nil
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fsWatcher.Close()
	})
	return err
}

// loop processes file system events with debouncing.
func (w *Watcher) loop() {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !isRelevantEvent(event) {
				continue
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			// Drop if a notification is already pending
			select {
			case w.onChange <- struct{}{}:
			default:
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.Warn("", "watcher", fmt.Sprintf("watch error: %v", err))
			}

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// isRelevantEvent reports whether the event replaced or rewrote the document.
func isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	return filepath.Base(event.Name) == domain.TasksFileName
}
