package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/cursor-kanban/internal/domain"
)

// GetTaskInput contains the parameters for retrieving a task.
type GetTaskInput struct {
	TaskID string
}

// GetTaskOutput contains the full task record.
type GetTaskOutput struct {
	Task *domain.Task
}

// GetTask is the use case for retrieving one task with its full history and sessions.
type GetTask struct {
	store domain.TaskStore
}

// NewGetTask creates a new GetTask use case.
func NewGetTask(store domain.TaskStore) *GetTask {
	return &GetTask{store: store}
}

// Execute returns the task or ErrTaskNotFound.
func (uc *GetTask) Execute(ctx context.Context, in GetTaskInput) (*GetTaskOutput, error) {
	tasks, err := uc.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	task, _ := domain.FindTask(tasks, in.TaskID)
	if task == nil {
		return nil, domain.ErrTaskNotFound
	}
	return &GetTaskOutput{Task: task}, nil
}
