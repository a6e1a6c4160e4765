package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/cooperadora-escolar/coop/internal/domain/config"
	"github.com/ethereum/go-ethereum/common"
)

// SetConfigParams contains parameters for setting configuration
type SetConfigParams struct {
	Key   string
	Value string
}

// SetConfigResult contains the result of setting configuration
type SetConfigResult struct {
	UpdatedConfig *domain.LocalConfig
	ConfigPath    string
	Key           domain.ConfigKey
	Value         string
}

// SetConfig is a use case for setting configuration values
type SetConfig struct {
	store LocalConfigRepository
}

// NewSetConfig creates a new SetConfig use case
func NewSetConfig(store LocalConfigRepository) *SetConfig {
	return &SetConfig{
		store: store,
	}
}

// Run executes the set config use case
func (uc *SetConfig) Run(ctx context.Context, params SetConfigParams) (*SetConfigResult, error) {
	normalizedKey, err := domain.ParseConfigKey(params.Key)
	if err != nil {
		return nil, err
	}
	value := strings.TrimSpace(params.Value)

	cfg, err := uc.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	switch normalizedKey {
	case domain.ConfigKeyFrom:
		if value != "" && !common.IsHexAddress(value) {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAddress, value)
		}
		if value != "" {
			value = common.HexToAddress(value).Hex()
		}
		cfg.From = value
	case domain.ConfigKeyOutput:
		switch config.OutputFormat(value) {
		case config.OutputTable, config.OutputJSON, config.OutputYAML:
		default:
			return nil, fmt.Errorf("unknown output format %q, expected table, json or yaml", value)
		}
		cfg.Output = value
	}

	if err := uc.store.Save(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	return &SetConfigResult{
		UpdatedConfig: cfg,
		ConfigPath:    uc.store.GetPath(),
		Key:           normalizedKey,
		Value:         value,
	}, nil
}
