package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/cursor-kanban/internal/domain"
)

// StopRunInput contains the parameters for stopping a run.
type StopRunInput struct {
	TaskID    string
	SessionID string // Optional; empty = the running session
}

// StopRunOutput contains the task after the run was stopped.
type StopRunOutput struct {
	Task      *domain.Task
	SessionID string
}

// StopRun is the use case for closing a run session.
type StopRun struct {
	store  domain.TaskStore
	clock  domain.Clock
	logger domain.Logger
}

// NewStopRun creates a new StopRun use case.
func NewStopRun(store domain.TaskStore, clock domain.Clock, logger domain.Logger) *StopRun {
	return &StopRun{store: store, clock: clock, logger: logger}
}

// Execute closes the session if it is still running and moves the task
// to WAITING_APPROVAL.
func (uc *StopRun) Execute(ctx context.Context, in StopRunInput) (*StopRunOutput, error) {
	var (
		updated   *domain.Task
		sessionID string
	)
	err := uc.store.Update(ctx, func(tasks []*domain.Task) ([]*domain.Task, error) {
		task, _ := domain.FindTask(tasks, in.TaskID)
		if task == nil {
			return nil, domain.ErrTaskNotFound
		}

		var session *domain.RunSession
		if in.SessionID == "" {
			session = task.RunningSession()
		} else {
			session = task.FindSession(in.SessionID)
		}
		if session == nil {
			return nil, domain.ErrSessionNotFound
		}

		now := uc.clock.Now()
		if session.IsRunning() {
			session.Status = domain.SessionStopped
			session.EndedAt = &now
		}
		sessionID = session.SessionID
		task.Transition(domain.StatusWaitingApproval, domain.ActorSystem, "run stopped", sessionID, now)
		updated = task
		return tasks, nil
	})
	if err != nil {
		return nil, fmt.Errorf("stop run: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(in.TaskID, "run", fmt.Sprintf("stopped session %s", sessionID))
	}

	return &StopRunOutput{Task: updated, SessionID: sessionID}, nil
}
