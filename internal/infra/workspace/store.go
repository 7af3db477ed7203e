// Package workspace persists the known-projects list (projects.toml).
package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/runoshun/cursor-kanban/internal/domain"
)

// Ensure Store implements domain.ProjectRepository.
var _ domain.ProjectRepository = (*Store)(nil)

// ErrNoHomeDir is returned when no usable global config directory exists.
var ErrNoHomeDir = errors.New("global config directory must be an absolute path")

// Store implements ProjectRepository for file-based persistence.
type Store struct {
	now      func() time.Time
	filePath string
	mu       sync.Mutex
}

// NewStore creates a new projects store.
// globalDir is typically ~/.config/cursor-kanban.
func NewStore(globalDir string) (*Store, error) {
	if globalDir == "" || !filepath.IsAbs(globalDir) {
		return nil, ErrNoHomeDir
	}
	return &Store{
		now:      time.Now,
		filePath: domain.ProjectsFilePath(globalDir),
	}, nil
}

// Path returns the projects file path.
func (s *Store) Path() string {
	return s.filePath
}

// Load reads the projects file.
// Returns an empty file with version 1 if it doesn't exist.
func (s *Store) Load() (*domain.ProjectsFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() (*domain.ProjectsFile, error) {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &domain.ProjectsFile{
				Version:  1,
				Projects: []domain.Project{},
			}, nil
		}
		return nil, err
	}

	var file domain.ProjectsFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, domain.ErrProjectsCorrupted
	}
	if file.Version == 0 {
		file.Version = 1
	}

	// Deduplicate projects by path (keep first occurrence)
	file.Projects = deduplicateProjects(file.Projects)

	return &file, nil
}

// Save writes the projects file.
func (s *Store) Save(file *domain.ProjectsFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(file)
}

func (s *Store) save(file *domain.ProjectsFile) error {
	// Ensure directory exists with proper permissions (0700)
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0o700); err != nil {
		return err
	}

	sortProjects(file.Projects)

	data, err := toml.Marshal(file)
	if err != nil {
		return err
	}

	// Write with 0600 permissions (user read/write only)
	return os.WriteFile(s.filePath, data, 0o600)
}

// Add registers a project root.
// The path must be an existing directory.
func (s *Store) Add(path string) (*domain.Project, error) {
	absPath, err := projectDir(path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.loadOrReset()
	if err != nil {
		return nil, err
	}

	for _, p := range file.Projects {
		if p.Path == absPath {
			return nil, domain.ErrProjectExists
		}
	}

	project := domain.Project{Path: absPath, LastOpened: s.now()}
	file.Projects = append(file.Projects, project)
	if err := s.save(file); err != nil {
		return nil, err
	}
	return &project, nil
}

// Remove unregisters a project by path or ID.
func (s *Store) Remove(pathOrID string) error {
	absPath, err := normalizePath(pathOrID)
	if err != nil {
		absPath = pathOrID // Use as-is if normalization fails
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		return err
	}

	found := false
	kept := make([]domain.Project, 0, len(file.Projects))
	for _, p := range file.Projects {
		if p.Path == absPath || p.ID() == pathOrID {
			found = true
			continue
		}
		kept = append(kept, p)
	}

	if !found {
		return domain.ErrProjectNotFound
	}

	file.Projects = kept
	return s.save(file)
}

// Touch updates the last_opened timestamp, registering the project if needed.
func (s *Store) Touch(path string) error {
	absPath, err := projectDir(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.loadOrReset()
	if err != nil {
		return err
	}

	found := false
	for i := range file.Projects {
		if file.Projects[i].Path == absPath {
			file.Projects[i].LastOpened = s.now()
			found = true
			break
		}
	}
	if !found {
		file.Projects = append(file.Projects, domain.Project{Path: absPath, LastOpened: s.now()})
	}

	return s.save(file)
}

// loadOrReset loads the file, starting fresh if it is corrupted.
func (s *Store) loadOrReset() (*domain.ProjectsFile, error) {
	file, err := s.load()
	if errors.Is(err, domain.ErrProjectsCorrupted) {
		return &domain.ProjectsFile{Version: 1}, nil
	}
	return file, err
}

// normalizePath converts a path to an absolute, cleaned path.
func normalizePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(absPath), nil
}

// projectDir normalizes path and checks that it is an existing directory.
func projectDir(path string) (string, error) {
	absPath, err := normalizePath(path)
	if err != nil {
		return "", domain.ErrInvalidProjectPath
	}
	info, err := os.Stat(absPath)
	if err != nil || !info.IsDir() {
		return "", domain.ErrInvalidProjectPath
	}
	return absPath, nil
}

// deduplicateProjects removes duplicate projects by path, keeping the first occurrence.
func deduplicateProjects(projects []domain.Project) []domain.Project {
	seen := make(map[string]bool)
	result := make([]domain.Project, 0, len(projects))
	for _, p := range projects {
		if !seen[p.Path] {
			seen[p.Path] = true
			result = append(result, p)
		}
	}
	return result
}

// sortProjects sorts projects by last_opened desc, then name asc.
func sortProjects(projects []domain.Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		if !projects[i].LastOpened.Equal(projects[j].LastOpened) {
			return projects[i].LastOpened.After(projects[j].LastOpened)
		}
		return projects[i].DisplayName() < projects[j].DisplayName()
	})
}
