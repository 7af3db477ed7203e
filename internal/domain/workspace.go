package domain

import (
	"path/filepath"
	"time"
)

// Project represents a project root registered in the known-projects file.
//
//nolint:govet // Field order follows TOML convention for readability
type Project struct {
	Path       string    `toml:"path"`                 // Absolute path to the project root
	Name       string    `toml:"name,omitempty"`       // Display name (defaults to directory basename)
	LastOpened time.Time `toml:"last_opened,omitzero"` // Last time the project was opened
}

// ProjectsFile represents the projects.toml file structure.
type ProjectsFile struct {
	Projects []Project `toml:"projects"`
	Version  int       `toml:"version"` // File format version (currently 1)
}

// ID returns the project identifier derived from its path.
func (p *Project) ID() string {
	return ProjectID(p.Path)
}

// DisplayName returns Name if set, otherwise the basename of the path.
func (p *Project) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return filepath.Base(p.Path)
}

// ProjectRepository defines the interface for known-projects persistence.
type ProjectRepository interface {
	// Load reads the projects file. Returns an empty file if it doesn't exist.
	Load() (*ProjectsFile, error)

	// Save writes the projects file.
	Save(file *ProjectsFile) error

	// Add registers a project root.
	// Returns ErrProjectExists if already registered.
	Add(path string) (*Project, error)

	// Remove unregisters a project by path or ID.
	Remove(pathOrID string) error

	// Touch updates the last_opened timestamp, registering the project if needed.
	Touch(path string) error
}
