package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/cursor-kanban/internal/domain"
)

// UpdateStatusInput contains the parameters for a manual status move.
// Fields are ordered to minimize memory padding.
type UpdateStatusInput struct {
	TaskID    string
	Status    domain.Status
	By        domain.Actor
	Reason    string // Optional
	SessionID string // Optional
}

// UpdateStatusOutput contains the task after the move.
type UpdateStatusOutput struct {
	Task *domain.Task
}

// UpdateStatus is the use case for moving a task to any status.
// Moves are never rejected on transition grounds; every request is audited.
type UpdateStatus struct {
	store  domain.TaskStore
	clock  domain.Clock
	logger domain.Logger
}

// NewUpdateStatus creates a new UpdateStatus use case.
func NewUpdateStatus(store domain.TaskStore, clock domain.Clock, logger domain.Logger) *UpdateStatus {
	return &UpdateStatus{store: store, clock: clock, logger: logger}
}

// Execute moves the task and appends a history entry.
func (uc *UpdateStatus) Execute(ctx context.Context, in UpdateStatusInput) (*UpdateStatusOutput, error) {
	status, err := domain.ParseStatus(string(in.Status))
	if err != nil {
		return nil, err
	}
	by := in.By
	if by == "" {
		by = domain.ActorUser
	}
	by, err = domain.ParseActor(string(by))
	if err != nil {
		return nil, err
	}

	var (
		updated *domain.Task
		from    domain.Status
	)
	err = uc.store.Update(ctx, func(tasks []*domain.Task) ([]*domain.Task, error) {
		task, _ := domain.FindTask(tasks, in.TaskID)
		if task == nil {
			return nil, domain.ErrTaskNotFound
		}
		from = task.Status
		task.Transition(status, by, in.Reason, in.SessionID, uc.clock.Now())
		updated = task
		return tasks, nil
	})
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(in.TaskID, "status", fmt.Sprintf("%s -> %s (by %s)", from, status, by))
	}

	return &UpdateStatusOutput{Task: updated}, nil
}
