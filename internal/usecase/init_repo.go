package usecase

import (
	"context"
	"fmt"
	"os"

	"github.com/runoshun/cursor-kanban/internal/domain"
)

// InitProjectInput contains the input parameters for InitProject.
type InitProjectInput struct {
	StoreDir string // Path to .cursor-kanban directory
}

// InitProjectOutput contains the output from InitProject.
type InitProjectOutput struct {
	StoreDir           string // Path to the data directory
	AlreadyInitialized bool   // True if tasks.json already existed
}

// InitProject prepares a project root for the task store.
type InitProject struct {
	storeInit domain.StoreInitializer
}

// NewInitProject creates a new InitProject use case.
func NewInitProject(storeInit domain.StoreInitializer) *InitProject {
	return &InitProject{storeInit: storeInit}
}

// Execute creates the data and log directories and an empty document.
// Running it again is harmless.
func (uc *InitProject) Execute(_ context.Context, in InitProjectInput) (*InitProjectOutput, error) {
	alreadyInitialized := uc.storeInit.IsInitialized()

	if err := os.MkdirAll(domain.LogDir(in.StoreDir), 0o750); err != nil {
		return nil, fmt.Errorf("create logs directory: %w", err)
	}

	if err := uc.storeInit.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize task store: %w", err)
	}

	return &InitProjectOutput{
		StoreDir:           in.StoreDir,
		AlreadyInitialized: alreadyInitialized,
	}, nil
}
