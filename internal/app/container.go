// Package app provides the dependency injection container for the application.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/runoshun/cursor-kanban/internal/domain"
	"github.com/runoshun/cursor-kanban/internal/infra/config"
	"github.com/runoshun/cursor-kanban/internal/infra/git"
	"github.com/runoshun/cursor-kanban/internal/infra/jsonstore"
	"github.com/runoshun/cursor-kanban/internal/infra/logging"
	"github.com/runoshun/cursor-kanban/internal/infra/watcher"
	"github.com/runoshun/cursor-kanban/internal/infra/workspace"
	"github.com/runoshun/cursor-kanban/internal/usecase"
)

// Config holds the application configuration paths.
type Config struct {
	Root      string // Project root directory
	StoreDir  string // Path to .cursor-kanban directory
	GlobalDir string // Path to ~/.config/cursor-kanban (may be empty)
	ProjectID string // Stable identifier derived from Root
}

// newConfig derives the per-project paths from a root.
func newConfig(root, globalDir string) Config {
	return Config{
		Root:      root,
		StoreDir:  domain.StoreDir(root),
		GlobalDir: globalDir,
		ProjectID: domain.ProjectID(root),
	}
}

// Options customizes container construction.
type Options struct {
	GlobalDir string // Overrides the global config directory (tests)
	Verbose   bool   // Mirror log lines to stderr
}

// Container provides dependency injection for one project.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Tasks            domain.TaskStore
	StoreInitializer domain.StoreInitializer
	Clock            domain.Clock
	IDs              domain.IDGenerator
	Branches         domain.BranchResolver // nil outside a git repository
	ConfigLoader     domain.ConfigLoader
	ConfigManager    domain.ConfigManager
	Projects         domain.ProjectRepository // nil without a global config directory

	// Pointer fields
	AppConfig *domain.Config
	Logger    *logging.Logger
	Diag      *slog.Logger // Process diagnostics on stderr

	// Configuration
	Config Config
}

// New creates a new Container for the project containing dir.
// Inside a git repository the repository root is the project root;
// otherwise dir itself is.
func New(dir string, opts Options) (*Container, error) {
	root, err := git.FindRoot(dir)
	if err != nil {
		return nil, err
	}
	return NewForRoot(root, opts)
}

// NewForRoot creates a new Container for an already resolved project root.
func NewForRoot(root string, opts Options) (*Container, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidProjectPath, root)
	}

	globalDir := opts.GlobalDir
	if globalDir == "" {
		globalDir = config.DefaultGlobalConfigDir()
	}
	cfg := newConfig(filepath.Clean(abs), globalDir)

	diag := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	configLoader := config.NewLoaderWithGlobalDir(cfg.StoreDir, cfg.GlobalDir)
	appConfig, err := configLoader.Load()
	if err != nil {
		diag.Warn("failed to load config, using defaults", "error", err)
		appConfig = domain.NewDefaultConfig()
	}
	for _, w := range appConfig.Warnings {
		diag.Warn("config", "warning", w)
	}

	logger := logging.New(cfg.StoreDir, logging.ParseLevel(appConfig.Log.Level))
	if opts.Verbose {
		logger.WithMirror(os.Stderr)
	}

	store := jsonstore.New(cfg.StoreDir, jsonstore.OptionsFromConfig(appConfig.Store, logger))

	var branches domain.BranchResolver
	if gitClient, err := git.NewClient(cfg.Root); err == nil {
		branches = gitClient
	} else if !errors.Is(err, git.ErrNotRepository) {
		diag.Warn("git unavailable", "error", err)
	}

	var projects domain.ProjectRepository
	if projectsStore, err := workspace.NewStore(cfg.GlobalDir); err == nil {
		projects = projectsStore
	}

	return &Container{
		Tasks:            store,
		StoreInitializer: store,
		Clock:            domain.RealClock{},
		IDs:              UUIDGenerator{},
		Branches:         branches,
		ConfigLoader:     configLoader,
		ConfigManager:    config.NewManagerWithGlobalDir(cfg.StoreDir, cfg.GlobalDir),
		Projects:         projects,
		AppConfig:        appConfig,
		Logger:           logger,
		Diag:             diag,
		Config:           cfg,
	}, nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(cfg Config, tasks domain.TaskStore, storeInit domain.StoreInitializer, clock domain.Clock, ids domain.IDGenerator) *Container {
	return &Container{
		Tasks:            tasks,
		StoreInitializer: storeInit,
		Clock:            clock,
		IDs:              ids,
		AppConfig:        domain.NewDefaultConfig(),
		Diag:             slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})),
		Config:           cfg,
	}
}

// Close releases the log file.
func (c *Container) Close() error {
	if c.Logger == nil {
		return nil
	}
	return c.Logger.Close()
}

// DisplayName returns the basename of the project root.
func (c *Container) DisplayName() string {
	return filepath.Base(c.Config.Root)
}

// logger returns the domain logger, or nil when file logging is not wired.
func (c *Container) logger() domain.Logger {
	if c.Logger == nil {
		return nil
	}
	return c.Logger
}

// NewWatcher returns a document watcher for this project.
func (c *Container) NewWatcher() (*watcher.Watcher, error) {
	return watcher.New(watcher.Config{
		Logger:      c.logger(),
		StoreDir:    c.Config.StoreDir,
		DebounceDur: c.AppConfig.UI.Debounce.Std(),
	})
}

// UseCase factory methods

// InitProjectUseCase returns a new InitProject use case.
func (c *Container) InitProjectUseCase() *usecase.InitProject {
	return usecase.NewInitProject(c.StoreInitializer)
}

// CreateTaskUseCase returns a new CreateTask use case.
func (c *Container) CreateTaskUseCase() *usecase.CreateTask {
	return usecase.NewCreateTask(c.Tasks, c.IDs, c.Clock, c.logger())
}

// CreateTaskFromContextUseCase returns a new CreateTaskFromContext use case.
func (c *Container) CreateTaskFromContextUseCase() *usecase.CreateTaskFromContext {
	return usecase.NewCreateTaskFromContext(c.CreateTaskUseCase())
}

// CreateTasksFromFileUseCase returns a new CreateTasksFromFile use case.
func (c *Container) CreateTasksFromFileUseCase() *usecase.CreateTasksFromFile {
	return usecase.NewCreateTasksFromFile(c.CreateTaskUseCase())
}

// GetTaskUseCase returns a new GetTask use case.
func (c *Container) GetTaskUseCase() *usecase.GetTask {
	return usecase.NewGetTask(c.Tasks)
}

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase() *usecase.ListTasks {
	return usecase.NewListTasks(c.Tasks, c.AppConfig.List.PageSize, c.AppConfig.List.LogWindow)
}

// UpdateTaskUseCase returns a new UpdateTask use case.
func (c *Container) UpdateTaskUseCase() *usecase.UpdateTask {
	return usecase.NewUpdateTask(c.Tasks, c.Clock, c.logger())
}

// DeleteTaskUseCase returns a new DeleteTask use case.
func (c *Container) DeleteTaskUseCase() *usecase.DeleteTask {
	return usecase.NewDeleteTask(c.Tasks, c.logger())
}

// UpdateStatusUseCase returns a new UpdateStatus use case.
func (c *Container) UpdateStatusUseCase() *usecase.UpdateStatus {
	return usecase.NewUpdateStatus(c.Tasks, c.Clock, c.logger())
}

// StartRunUseCase returns a new StartRun use case.
func (c *Container) StartRunUseCase() *usecase.StartRun {
	return usecase.NewStartRun(c.Tasks, c.IDs, c.Clock, c.logger())
}

// StopRunUseCase returns a new StopRun use case.
func (c *Container) StopRunUseCase() *usecase.StopRun {
	return usecase.NewStopRun(c.Tasks, c.Clock, c.logger())
}

// AddLogUseCase returns a new AddLog use case.
func (c *Container) AddLogUseCase() *usecase.AddLog {
	return usecase.NewAddLog(c.Tasks, c.Clock, c.logger())
}

// ClaimNextTaskUseCase returns a new ClaimNextTask use case.
func (c *Container) ClaimNextTaskUseCase() *usecase.ClaimNextTask {
	return usecase.NewClaimNextTask(c.Tasks)
}

// BoardStateUseCase returns a new BoardState use case.
func (c *Container) BoardStateUseCase() *usecase.BoardState {
	return usecase.NewBoardState(c.Tasks, c.AppConfig.List.LogWindow)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}

// ListProjectsUseCase returns a new ListProjects use case.
func (c *Container) ListProjectsUseCase() (*usecase.ListProjects, error) {
	if c.Projects == nil {
		return nil, workspace.ErrNoHomeDir
	}
	return usecase.NewListProjects(c.Projects), nil
}

// AddProjectUseCase returns a new AddProject use case.
func (c *Container) AddProjectUseCase() (*usecase.AddProject, error) {
	if c.Projects == nil {
		return nil, workspace.ErrNoHomeDir
	}
	return usecase.NewAddProject(c.Projects), nil
}

// RemoveProjectUseCase returns a new RemoveProject use case.
func (c *Container) RemoveProjectUseCase() (*usecase.RemoveProject, error) {
	if c.Projects == nil {
		return nil, workspace.ErrNoHomeDir
	}
	return usecase.NewRemoveProject(c.Projects), nil
}
