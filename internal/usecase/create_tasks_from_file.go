package usecase

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/runoshun/cursor-kanban/internal/domain"
)

// CreateTasksFromFileInput contains the parameters for creating tasks from a file.
type CreateTasksFromFileInput struct {
	Content string // YAML content: a "tasks" list or a bare list of drafts
	DryRun  bool   // If true, parse and validate without creating tasks
}

// CreateTasksFromFileOutput contains the result of creating tasks from a file.
type CreateTasksFromFileOutput struct {
	Tasks []*domain.Task // Created tasks (or tasks that would be created in dry-run mode)
}

// CreateTasksFromFile is the use case for creating several tasks in one locked cycle.
type CreateTasksFromFile struct {
	create *CreateTask
}

// NewCreateTasksFromFile creates a new CreateTasksFromFile use case.
func NewCreateTasksFromFile(create *CreateTask) *CreateTasksFromFile {
	return &CreateTasksFromFile{create: create}
}

// Execute validates every draft first; nothing is written if any draft is invalid.
func (uc *CreateTasksFromFile) Execute(ctx context.Context, in CreateTasksFromFileInput) (*CreateTasksFromFileOutput, error) {
	drafts, err := ParseTaskDrafts(in.Content)
	if err != nil {
		return nil, err
	}

	built := make([]*domain.Task, 0, len(drafts))
	for i, d := range drafts {
		branch := d.BranchTarget()
		task, err := uc.create.build(CreateTaskInput{
			Title:        d.Title,
			Description:  RenderContextDescription(d.Description, d.RelatedFiles, d.AcceptanceCriteria, d.TechnicalNotes),
			Category:     domain.Category(d.Category),
			Priority:     domain.Priority(d.Priority),
			BranchTarget: &branch,
		})
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i+1, err)
		}
		built = append(built, task)
	}

	if in.DryRun {
		return &CreateTasksFromFileOutput{Tasks: built}, nil
	}

	err = uc.create.store.Update(ctx, func(tasks []*domain.Task) ([]*domain.Task, error) {
		return append(tasks, built...), nil
	})
	if err != nil {
		return nil, fmt.Errorf("save tasks: %w", err)
	}

	if uc.create.logger != nil {
		for _, t := range built {
			uc.create.logger.Info(t.ID, "task", fmt.Sprintf("created from file: %q", t.Title))
		}
	}

	return &CreateTasksFromFileOutput{Tasks: built}, nil
}

// ParseTaskDrafts decodes a batch file. Both `tasks: [...]` and a bare
// top-level list are accepted.
func ParseTaskDrafts(content string) ([]domain.TaskDraft, error) {
	if strings.TrimSpace(content) == "" {
		return nil, domain.ErrEmptyFile
	}

	var file domain.TaskDraftFile
	if err := yaml.Unmarshal([]byte(content), &file); err != nil {
		var list []domain.TaskDraft
		if listErr := yaml.Unmarshal([]byte(content), &list); listErr != nil {
			return nil, fmt.Errorf("parse task file: %w", err)
		}
		file.Tasks = list
	}

	if len(file.Tasks) == 0 {
		return nil, domain.ErrNoTasksInFile
	}
	return file.Tasks, nil
}
