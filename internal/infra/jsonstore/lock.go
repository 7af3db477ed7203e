package jsonstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/runoshun/cursor-kanban/internal/domain"
)

// lockOwner is the content of the lock marker.
type lockOwner struct {
	acquired time.Time
	pid      int
}

// acquireLock creates the lock marker exclusively, retrying until the
// configured timeout elapses or ctx is cancelled.
func (s *Store) acquireLock(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.lockPath), 0o750); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}

	deadline := time.Now().Add(s.opts.LockTimeout)
	for {
		created, err := s.tryLock()
		if err != nil {
			return err
		}
		if created {
			return nil
		}

		if s.reclaimStaleLock() {
			continue
		}

		if !time.Now().Before(deadline) {
			return domain.ErrLockTimeout
		}

		timer := time.NewTimer(s.opts.LockRetry)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("acquire lock: %w", ctx.Err())
		case <-timer.C:
		}
	}
}

// tryLock makes one O_EXCL creation attempt.
// Returns false with a nil error when another owner holds the lock.
func (s *Store) tryLock() (bool, error) {
	f, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("create lock file: %w", err)
	}
	_, werr := fmt.Fprintf(f, "%d\n%s\n", os.Getpid(), time.Now().UTC().Format(time.RFC3339Nano))
	cerr := f.Close()
	if werr != nil || cerr != nil {
		_ = os.Remove(s.lockPath)
		return false, fmt.Errorf("write lock file: %w", errors.Join(werr, cerr))
	}
	return true, nil
}

func (s *Store) releaseLock() {
	if err := os.Remove(s.lockPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.warn(fmt.Sprintf("release lock: %v", err))
	}
}

// reclaimStaleLock removes a marker older than StaleLockAfter whose owner
// process is gone. Disabled when StaleLockAfter is zero.
func (s *Store) reclaimStaleLock() bool {
	if s.opts.StaleLockAfter <= 0 {
		return false
	}
	content, err := os.ReadFile(s.lockPath)
	if err != nil {
		return false
	}
	owner := parseLockOwner(content, s.lockPath)
	if time.Since(owner.acquired) < s.opts.StaleLockAfter || processAlive(owner.pid) {
		return false
	}
	if !s.removeLockIfUnchanged(content) {
		return false
	}
	s.warn(fmt.Sprintf("reclaimed stale lock held by pid %d since %s", owner.pid, owner.acquired.Format(time.RFC3339)))
	return true
}

// removeLockIfUnchanged deletes the marker only if it still holds expected.
// The marker is first renamed aside so a concurrent owner's fresh marker is
// never removed; a mismatched marker is linked back into place.
func (s *Store) removeLockIfUnchanged(expected []byte) bool {
	aside := fmt.Sprintf("%s.stale-%d-%d", s.lockPath, os.Getpid(), time.Now().UnixNano())
	if err := os.Rename(s.lockPath, aside); err != nil {
		return false
	}
	defer func() { _ = os.Remove(aside) }()

	got, err := os.ReadFile(aside)
	if err == nil && bytes.Equal(got, expected) {
		return true
	}
	if err := os.Link(aside, s.lockPath); err != nil {
		s.warn(fmt.Sprintf("restore lock marker: %v", err))
	}
	return false
}

// parseLockOwner parses the marker content. A marker without a readable
// timestamp falls back to its modification time.
func parseLockOwner(content []byte, path string) lockOwner {
	var owner lockOwner
	if info, err := os.Stat(path); err == nil {
		owner.acquired = info.ModTime()
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if pid, err := strconv.Atoi(strings.TrimSpace(lines[0])); err == nil {
		owner.pid = pid
	}
	if len(lines) > 1 {
		if at, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(lines[1])); err == nil {
			owner.acquired = at
		}
	}
	return owner
}

func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, 0)
	return err == nil || errors.Is(err, syscall.EPERM)
}
