package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/cursor-kanban/internal/domain"
)

// UpdateTaskInput contains the parameters for editing a task.
// Nil fields are left unchanged.
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	Category     *domain.Category
	Priority     *domain.Priority
	BranchTarget *domain.BranchTarget
	TaskID       string
}

// UpdateTaskOutput contains the updated task.
type UpdateTaskOutput struct {
	Task *domain.Task
}

// UpdateTask is the use case for editing task fields other than status.
type UpdateTask struct {
	store  domain.TaskStore
	clock  domain.Clock
	logger domain.Logger
}

// NewUpdateTask creates a new UpdateTask use case.
func NewUpdateTask(store domain.TaskStore, clock domain.Clock, logger domain.Logger) *UpdateTask {
	return &UpdateTask{store: store, clock: clock, logger: logger}
}

// Execute applies the given fields and bumps updatedAt.
func (uc *UpdateTask) Execute(ctx context.Context, in UpdateTaskInput) (*UpdateTaskOutput, error) {
	if in.Title == nil && in.Description == nil && in.Category == nil && in.Priority == nil && in.BranchTarget == nil {
		return nil, domain.ErrNoFieldsToUpdate
	}
	if in.Title != nil {
		if err := domain.ValidateTitle(*in.Title); err != nil {
			return nil, err
		}
	}
	var category domain.Category
	if in.Category != nil {
		c, err := domain.ParseCategory(string(*in.Category))
		if err != nil {
			return nil, err
		}
		category = c
	}
	var priority domain.Priority
	if in.Priority != nil {
		p, err := domain.ParsePriority(string(*in.Priority))
		if err != nil {
			return nil, err
		}
		priority = p
	}
	var branch domain.BranchTarget
	if in.BranchTarget != nil {
		b, err := resolveBranch(in.BranchTarget)
		if err != nil {
			return nil, err
		}
		branch = b
	}

	var updated *domain.Task
	err := uc.store.Update(ctx, func(tasks []*domain.Task) ([]*domain.Task, error) {
		task, _ := domain.FindTask(tasks, in.TaskID)
		if task == nil {
			return nil, domain.ErrTaskNotFound
		}
		if in.Title != nil {
			task.Title = strings.TrimSpace(*in.Title)
		}
		if in.Description != nil {
			task.Description = *in.Description
		}
		if in.Category != nil {
			task.Category = category
		}
		if in.Priority != nil {
			task.Priority = priority
		}
		if in.BranchTarget != nil {
			task.BranchTarget = branch
		}
		task.UpdatedAt = uc.clock.Now()
		updated = task
		return tasks, nil
	})
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(updated.ID, "task", "updated")
	}

	return &UpdateTaskOutput{Task: updated}, nil
}
