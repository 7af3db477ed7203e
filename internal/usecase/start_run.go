package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/cursor-kanban/internal/domain"
)

// RunStartedMessage is the seed log entry of every new session.
const RunStartedMessage = "Run started"

// StartRunInput contains the parameters for starting a run.
type StartRunInput struct {
	TaskID string
}

// StartRunOutput contains the task and the opened session.
type StartRunOutput struct {
	Task      *domain.Task
	SessionID string
}

// StartRun is the use case for opening a run session on a task.
type StartRun struct {
	store  domain.TaskStore
	ids    domain.IDGenerator
	clock  domain.Clock
	logger domain.Logger
}

// NewStartRun creates a new StartRun use case.
func NewStartRun(store domain.TaskStore, ids domain.IDGenerator, clock domain.Clock, logger domain.Logger) *StartRun {
	return &StartRun{store: store, ids: ids, clock: clock, logger: logger}
}

// Execute opens a running session and moves the task to IN_PROGRESS.
// Fails with ErrSessionRunning if the task already has a running session.
func (uc *StartRun) Execute(ctx context.Context, in StartRunInput) (*StartRunOutput, error) {
	var (
		updated   *domain.Task
		sessionID string
	)
	err := uc.store.Update(ctx, func(tasks []*domain.Task) ([]*domain.Task, error) {
		task, _ := domain.FindTask(tasks, in.TaskID)
		if task == nil {
			return nil, domain.ErrTaskNotFound
		}
		if task.IsRunning() {
			return nil, domain.ErrSessionRunning
		}

		now := uc.clock.Now()
		sessionID = uc.ids.NewID()
		task.RunSessions = append(task.RunSessions, domain.RunSession{
			SessionID: sessionID,
			StartedAt: now,
			Status:    domain.SessionRunning,
			Logs: []domain.LogEntry{
				{Timestamp: now, Message: RunStartedMessage, Type: domain.LogInfo},
			},
		})
		task.Transition(domain.StatusInProgress, domain.ActorSystem, "run started", sessionID, now)
		updated = task
		return tasks, nil
	})
	if err != nil {
		return nil, fmt.Errorf("start run: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(in.TaskID, "run", fmt.Sprintf("started session %s", sessionID))
	}

	return &StartRunOutput{Task: updated, SessionID: sessionID}, nil
}
