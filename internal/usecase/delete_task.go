package usecase

import (
	"context"
	"fmt"
	"slices"

	"github.com/runoshun/cursor-kanban/internal/domain"
)

// DeleteTaskInput contains the parameters for deleting a task.
type DeleteTaskInput struct {
	TaskID string
}

// DeleteTaskOutput contains the result of deleting a task.
type DeleteTaskOutput struct {
	Title string // Title of the removed task
}

// DeleteTask is the use case for removing a task from the collection.
type DeleteTask struct {
	store  domain.TaskStore
	logger domain.Logger
}

// NewDeleteTask creates a new DeleteTask use case.
func NewDeleteTask(store domain.TaskStore, logger domain.Logger) *DeleteTask {
	return &DeleteTask{store: store, logger: logger}
}

// Execute removes the task. No tombstone is kept.
func (uc *DeleteTask) Execute(ctx context.Context, in DeleteTaskInput) (*DeleteTaskOutput, error) {
	var title string
	err := uc.store.Update(ctx, func(tasks []*domain.Task) ([]*domain.Task, error) {
		task, idx := domain.FindTask(tasks, in.TaskID)
		if task == nil {
			return nil, domain.ErrTaskNotFound
		}
		title = task.Title
		return slices.Delete(tasks, idx, idx+1), nil
	})
	if err != nil {
		return nil, fmt.Errorf("delete task: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(in.TaskID, "task", fmt.Sprintf("deleted: %q", title))
	}

	return &DeleteTaskOutput{Title: title}, nil
}
