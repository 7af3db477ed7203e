package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/cursor-kanban/internal/domain"
)

// AddLogInput contains the parameters for appending a log entry.
type AddLogInput struct {
	TaskID    string
	SessionID string
	Message   string
	Type      domain.LogType // Optional, empty = info
}

// AddLogOutput contains the appended entry.
type AddLogOutput struct {
	Entry domain.LogEntry
}

// AddLog is the use case for appending progress to a run session.
type AddLog struct {
	store  domain.TaskStore
	clock  domain.Clock
	logger domain.Logger
}

// NewAddLog creates a new AddLog use case.
func NewAddLog(store domain.TaskStore, clock domain.Clock, logger domain.Logger) *AddLog {
	return &AddLog{store: store, clock: clock, logger: logger}
}

// Execute appends the entry to the named session and bumps updatedAt.
// The task status is not changed.
func (uc *AddLog) Execute(ctx context.Context, in AddLogInput) (*AddLogOutput, error) {
	msg := strings.TrimSpace(in.Message)
	if msg == "" {
		return nil, domain.ErrEmptyMessage
	}
	logType, err := domain.ParseLogType(string(in.Type))
	if err != nil {
		return nil, err
	}

	var (
		entry    domain.LogEntry
		terminal bool
	)
	err = uc.store.Update(ctx, func(tasks []*domain.Task) ([]*domain.Task, error) {
		task, _ := domain.FindTask(tasks, in.TaskID)
		if task == nil {
			return nil, domain.ErrTaskNotFound
		}
		session := task.FindSession(in.SessionID)
		if session == nil {
			return nil, domain.ErrSessionNotFound
		}
		now := uc.clock.Now()
		entry = domain.LogEntry{Timestamp: now, Message: msg, Type: logType}
		session.Logs = append(session.Logs, entry)
		task.UpdatedAt = now
		terminal = task.Status.IsTerminal()
		return tasks, nil
	})
	if err != nil {
		return nil, fmt.Errorf("add log: %w", err)
	}

	if uc.logger != nil {
		if terminal {
			uc.logger.Warn(in.TaskID, "run", fmt.Sprintf("[%s] logged to session %s of a finished task", logType, in.SessionID))
		} else {
			uc.logger.Debug(in.TaskID, "run", fmt.Sprintf("[%s] logged to session %s", logType, in.SessionID))
		}
	}

	return &AddLogOutput{Entry: entry}, nil
}
