package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/cursor-kanban/internal/domain"
)

// ListTasksInput contains the parameters for listing tasks.
// Fields are ordered to minimize memory padding.
type ListTasksInput struct {
	Filter domain.TaskFilter
	Cursor string // ID of the last item of the previous page (optional)
	Limit  int    // Page size (optional, 0 = configured default)
}

// ListTasksOutput contains one page of task summaries.
type ListTasksOutput struct {
	NextCursor *string
	Items      []domain.TaskSummary
}

// ListTasks is the use case for listing tasks.
type ListTasks struct {
	store     domain.TaskStore
	pageSize  int
	logWindow int
}

// NewListTasks creates a new ListTasks use case.
// Non-positive pageSize and logWindow fall back to the domain defaults.
func NewListTasks(store domain.TaskStore, pageSize, logWindow int) *ListTasks {
	return &ListTasks{store: store, pageSize: pageSize, logWindow: logWindow}
}

// Execute filters, sorts and paginates the collection.
func (uc *ListTasks) Execute(ctx context.Context, in ListTasksInput) (*ListTasksOutput, error) {
	if err := in.Filter.Validate(); err != nil {
		return nil, err
	}

	tasks, err := uc.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	limit := in.Limit
	if limit <= 0 {
		limit = uc.pageSize
	}
	res := domain.List(tasks, domain.ListQuery{
		Filter:    in.Filter,
		Page:      domain.PageRequest{Cursor: in.Cursor, Limit: limit},
		LogWindow: uc.logWindow,
	})

	return &ListTasksOutput{Items: res.Items, NextCursor: res.NextCursor}, nil
}
