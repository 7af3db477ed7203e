package app

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/runoshun/cursor-kanban/internal/domain"
)

// Opener builds the container for a project root.
type Opener func(root string) (*Container, error)

// Session names the project a connection or caller is working on.
// It is an explicit value passed per request; there is no process-wide
// active project.
type Session struct {
	ProjectID string
}

// ProjectRef describes an open project.
type ProjectRef struct {
	ID   string
	Name string
	Root string
}

// Registry holds one Container per project root.
// Fields are ordered to minimize memory padding.
type Registry struct {
	projects   domain.ProjectRepository // Optional; records last_opened
	open       Opener
	containers map[string]*Container
	mu         sync.Mutex
}

// NewRegistry creates a registry that builds containers with open.
// projects may be nil.
func NewRegistry(open Opener, projects domain.ProjectRepository) *Registry {
	return &Registry{
		projects:   projects,
		open:       open,
		containers: make(map[string]*Container),
	}
}

// Open returns the container for root, creating it on first use.
// Opening the same root twice yields the same container.
func (r *Registry) Open(root string) (*Container, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, domain.ErrInvalidProjectPath
	}
	id := domain.ProjectID(abs)

	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.containers[id]; ok {
		return c, nil
	}
	c, err := r.open(filepath.Clean(abs))
	if err != nil {
		return nil, err
	}
	r.containers[id] = c
	if r.projects != nil {
		if err := r.projects.Touch(abs); err != nil && c.Diag != nil {
			c.Diag.Warn("failed to record project", "root", abs, "error", err)
		}
	}
	return c, nil
}

// Get returns the open container with the given project ID.
func (r *Registry) Get(id string) (*Container, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.containers[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	return c, nil
}

// Lookup resolves ref as an open project ID first, then as a directory path.
func (r *Registry) Lookup(ref string) (*Container, error) {
	if c, err := r.Get(ref); err == nil {
		return c, nil
	}
	if info, err := os.Stat(ref); err == nil && info.IsDir() {
		return r.Open(ref)
	}
	return nil, domain.ErrProjectNotFound
}

// Resolve picks the container for a request: an explicit override wins,
// otherwise the session's project.
func (r *Registry) Resolve(s Session, override string) (*Container, error) {
	if override != "" {
		return r.Lookup(override)
	}
	if s.ProjectID == "" {
		return nil, domain.ErrProjectNotFound
	}
	return r.Get(s.ProjectID)
}

// Projects returns the open projects sorted by display name.
func (r *Registry) Projects() []ProjectRef {
	r.mu.Lock()
	defer r.mu.Unlock()

	refs := make([]ProjectRef, 0, len(r.containers))
	for id, c := range r.containers {
		refs = append(refs, ProjectRef{ID: id, Name: c.DisplayName(), Root: c.Config.Root})
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Name != refs[j].Name {
			return refs[i].Name < refs[j].Name
		}
		return refs[i].ID < refs[j].ID
	})
	return refs
}

// Close closes every open container.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for _, c := range r.containers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
