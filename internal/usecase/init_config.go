package usecase

import (
	"context"

	"github.com/runoshun/cursor-kanban/internal/domain"
)

// InitConfigInput contains the input for the InitConfig use case.
type InitConfigInput struct {
	Global bool // If true, initialize global config; otherwise project config
}

// InitConfigOutput contains the output of the InitConfig use case.
type InitConfigOutput struct {
	Path string // Path to the created config file
}

// InitConfig writes the default configuration template.
type InitConfig struct {
	configManager domain.ConfigManager
}

// NewInitConfig creates a new InitConfig use case.
func NewInitConfig(configManager domain.ConfigManager) *InitConfig {
	return &InitConfig{configManager: configManager}
}

// Execute creates a configuration file with the default template.
// Returns ErrConfigExists if the file is already present.
func (uc *InitConfig) Execute(_ context.Context, in InitConfigInput) (*InitConfigOutput, error) {
	if in.Global {
		path := uc.configManager.GetGlobalConfigInfo().Path
		if err := uc.configManager.InitGlobalConfig(); err != nil {
			return nil, err
		}
		return &InitConfigOutput{Path: path}, nil
	}

	path := uc.configManager.GetProjectConfigInfo().Path
	if err := uc.configManager.InitProjectConfig(); err != nil {
		return nil, err
	}
	return &InitConfigOutput{Path: path}, nil
}
