// Package usecase contains application use cases.
package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/cursor-kanban/internal/domain"
)

// CreateTaskInput contains the parameters for creating a new task.
// Fields are ordered to minimize memory padding.
type CreateTaskInput struct {
	BranchTarget *domain.BranchTarget // Branch target (optional, nil = current)
	Title        string               // Task title (required, at least 3 characters)
	Description  string               // Task description (optional)
	Category     domain.Category      // Category (optional, empty = CORE)
	Priority     domain.Priority      // Priority (optional, empty = MEDIUM)
}

// CreateTaskOutput contains the result of creating a new task.
type CreateTaskOutput struct {
	Task *domain.Task // The created task
}

// CreateTask is the use case for creating a new task.
type CreateTask struct {
	store  domain.TaskStore
	ids    domain.IDGenerator
	clock  domain.Clock
	logger domain.Logger
}

// NewCreateTask creates a new CreateTask use case.
func NewCreateTask(store domain.TaskStore, ids domain.IDGenerator, clock domain.Clock, logger domain.Logger) *CreateTask {
	return &CreateTask{
		store:  store,
		ids:    ids,
		clock:  clock,
		logger: logger,
	}
}

// Execute validates the input and appends a new BACKLOG task.
func (uc *CreateTask) Execute(ctx context.Context, in CreateTaskInput) (*CreateTaskOutput, error) {
	task, err := uc.build(in)
	if err != nil {
		return nil, err
	}

	err = uc.store.Update(ctx, func(tasks []*domain.Task) ([]*domain.Task, error) {
		return append(tasks, task), nil
	})
	if err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(task.ID, "task", fmt.Sprintf("created: %q", task.Title))
	}

	return &CreateTaskOutput{Task: task}, nil
}

// build validates the input and constructs the record without persisting it.
func (uc *CreateTask) build(in CreateTaskInput) (*domain.Task, error) {
	if err := domain.ValidateTitle(in.Title); err != nil {
		return nil, err
	}
	category, err := resolveCategory(in.Category)
	if err != nil {
		return nil, err
	}
	priority, err := resolvePriority(in.Priority)
	if err != nil {
		return nil, err
	}
	branch, err := resolveBranch(in.BranchTarget)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	return &domain.Task{
		ID:           uc.ids.NewID(),
		Title:        strings.TrimSpace(in.Title),
		Description:  in.Description,
		Category:     category,
		Priority:     priority,
		BranchTarget: branch,
		Status:       domain.StatusBacklog,
		CreatedAt:    now,
		UpdatedAt:    now,
		History: []domain.HistoryEntry{
			{At: now, From: nil, To: domain.StatusBacklog, By: domain.ActorSystem, Reason: "created"},
		},
		RunSessions: []domain.RunSession{},
	}, nil
}

func resolveCategory(c domain.Category) (domain.Category, error) {
	if c == "" {
		return domain.CategoryCore, nil
	}
	return domain.ParseCategory(string(c))
}

func resolvePriority(p domain.Priority) (domain.Priority, error) {
	if p == "" {
		return domain.PriorityMedium, nil
	}
	return domain.ParsePriority(string(p))
}

func resolveBranch(b *domain.BranchTarget) (domain.BranchTarget, error) {
	if b == nil {
		return domain.CurrentBranch(), nil
	}
	if err := b.Validate(); err != nil {
		return domain.BranchTarget{}, err
	}
	return b.Normalize(), nil
}
