package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/cursor-kanban/internal/domain"
)

// ClaimNextTaskInput contains the optional queue filters.
type ClaimNextTaskInput struct {
	Categories []domain.Category
	Priorities []domain.Priority
}

// ClaimNextTaskOutput contains the next task, or nil when the backlog is empty.
type ClaimNextTaskOutput struct {
	Task *domain.Task
}

// ClaimNextTask is the use case for picking the next backlog task.
// It is read-only: the caller starts the run explicitly.
type ClaimNextTask struct {
	store domain.TaskStore
}

// NewClaimNextTask creates a new ClaimNextTask use case.
func NewClaimNextTask(store domain.TaskStore) *ClaimNextTask {
	return &ClaimNextTask{store: store}
}

// Execute returns the first BACKLOG task in queue order.
func (uc *ClaimNextTask) Execute(ctx context.Context, in ClaimNextTaskInput) (*ClaimNextTaskOutput, error) {
	filter := domain.TaskFilter{Categories: in.Categories, Priorities: in.Priorities}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	tasks, err := uc.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("claim next task: %w", err)
	}

	return &ClaimNextTaskOutput{Task: domain.NextBacklogTask(tasks, in.Categories, in.Priorities)}, nil
}
