package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/runoshun/cursor-kanban/internal/domain"
)

// ListProjectsOutput contains the known projects, most recently opened first.
type ListProjectsOutput struct {
	Projects []domain.Project
}

// ListProjects is the use case for listing known projects.
type ListProjects struct {
	projects domain.ProjectRepository
}

// NewListProjects creates a new ListProjects use case.
func NewListProjects(projects domain.ProjectRepository) *ListProjects {
	return &ListProjects{projects: projects}
}

// Execute returns the registered projects.
func (uc *ListProjects) Execute(_ context.Context) (*ListProjectsOutput, error) {
	file, err := uc.projects.Load()
	if err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}
	projects := slices.Clone(file.Projects)
	slices.SortStableFunc(projects, func(a, b domain.Project) int {
		if c := b.LastOpened.Compare(a.LastOpened); c != 0 {
			return c
		}
		return strings.Compare(a.DisplayName(), b.DisplayName())
	})
	return &ListProjectsOutput{Projects: projects}, nil
}

// AddProjectInput contains the project root to register.
type AddProjectInput struct {
	Path string
}

// AddProjectOutput contains the registered project.
type AddProjectOutput struct {
	Project *domain.Project
}

// AddProject is the use case for registering a project root.
type AddProject struct {
	projects domain.ProjectRepository
}

// NewAddProject creates a new AddProject use case.
func NewAddProject(projects domain.ProjectRepository) *AddProject {
	return &AddProject{projects: projects}
}

// Execute registers the project. Returns ErrProjectExists if already known.
func (uc *AddProject) Execute(_ context.Context, in AddProjectInput) (*AddProjectOutput, error) {
	if strings.TrimSpace(in.Path) == "" {
		return nil, domain.ErrInvalidProjectPath
	}
	p, err := uc.projects.Add(in.Path)
	if err != nil {
		return nil, err
	}
	return &AddProjectOutput{Project: p}, nil
}

// RemoveProjectInput identifies the project by path or ID.
type RemoveProjectInput struct {
	PathOrID string
}

// RemoveProject is the use case for unregistering a project.
// Task data on disk is left untouched.
type RemoveProject struct {
	projects domain.ProjectRepository
}

// NewRemoveProject creates a new RemoveProject use case.
func NewRemoveProject(projects domain.ProjectRepository) *RemoveProject {
	return &RemoveProject{projects: projects}
}

// Execute removes the project from the known-projects file.
func (uc *RemoveProject) Execute(_ context.Context, in RemoveProjectInput) error {
	return uc.projects.Remove(in.PathOrID)
}
