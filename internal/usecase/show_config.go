package usecase

import (
	"context"
	"strings"

	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/cooperadora-escolar/coop/internal/domain/config"
	"github.com/ethereum/go-ethereum/common"
)

// CallerSource says where the effective caller address came from
type CallerSource string

const (
	CallerUnset       CallerSource = "unset"
	CallerLocalConfig CallerSource = "config.local.json"
	CallerOverride    CallerSource = "--from or COOP_FROM"
)

// ShowConfigResult is the stored local config alongside the runtime config
// it was merged into
type ShowConfigResult struct {
	Config       *domain.LocalConfig
	ConfigPath   string
	Exists       bool
	Runtime      *config.RuntimeConfig
	Caller       common.Address
	CallerSource CallerSource
}

// ShowConfig reports the effective configuration
type ShowConfig struct {
	store   LocalConfigRepository
	runtime *config.RuntimeConfig
}

// NewShowConfig creates a new ShowConfig use case
func NewShowConfig(store LocalConfigRepository, runtime *config.RuntimeConfig) *ShowConfig {
	return &ShowConfig{store: store, runtime: runtime}
}

// Run loads the local config and resolves which source supplied the caller
func (uc *ShowConfig) Run(ctx context.Context) (*ShowConfigResult, error) {
	cfg, err := uc.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	result := &ShowConfigResult{
		Config:       cfg,
		ConfigPath:   uc.store.GetPath(),
		Exists:       uc.store.Exists(),
		Runtime:      uc.runtime,
		Caller:       uc.runtime.From,
		CallerSource: CallerUnset,
	}
	switch {
	case uc.runtime.From == (common.Address{}):
	case strings.EqualFold(cfg.From, uc.runtime.From.Hex()):
		result.CallerSource = CallerLocalConfig
	default:
		result.CallerSource = CallerOverride
	}
	return result, nil
}
