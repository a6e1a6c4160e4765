package usecase

import (
	"context"
	"fmt"

	"github.com/cooperadora-escolar/coop/internal/domain"
)

// RemoveConfigParams contains parameters for removing configuration
type RemoveConfigParams struct {
	Key string
}

// RemoveConfigResult contains the result of removing configuration
type RemoveConfigResult struct {
	UpdatedConfig *domain.LocalConfig
	ConfigPath    string
	Key           domain.ConfigKey
	RemovedValue  string
}

// RemoveConfig resets a configuration value to its default
type RemoveConfig struct {
	store LocalConfigRepository
}

// NewRemoveConfig creates a new RemoveConfig use case
func NewRemoveConfig(store LocalConfigRepository) *RemoveConfig {
	return &RemoveConfig{store: store}
}

// Run resets params.Key. Removing from a config that was never written is
// an error; nothing would change.
func (uc *RemoveConfig) Run(ctx context.Context, params RemoveConfigParams) (*RemoveConfigResult, error) {
	key, err := domain.ParseConfigKey(params.Key)
	if err != nil {
		return nil, err
	}
	if !uc.store.Exists() {
		return nil, fmt.Errorf("no local config at %s", uc.store.GetPath())
	}

	cfg, err := uc.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	result := &RemoveConfigResult{
		UpdatedConfig: cfg,
		ConfigPath:    uc.store.GetPath(),
		Key:           key,
	}
	defaults := domain.DefaultLocalConfig()
	switch result.Key {
	case domain.ConfigKeyFrom:
		result.RemovedValue, cfg.From = cfg.From, defaults.From
	case domain.ConfigKeyOutput:
		result.RemovedValue, cfg.Output = cfg.Output, defaults.Output
	}

	if err := uc.store.Save(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}
	return result, nil
}
