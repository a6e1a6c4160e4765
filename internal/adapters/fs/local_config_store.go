package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/cooperadora-escolar/coop/internal/domain/config"
	"github.com/cooperadora-escolar/coop/internal/usecase"
	"github.com/ethereum/go-ethereum/common"
)

// LocalConfigFile is the name of the local config under the data directory
const LocalConfigFile = "config.local.json"

// LocalConfigStoreAdapter keeps per-checkout defaults in
// <data dir>/config.local.json
type LocalConfigStoreAdapter struct {
	mu   sync.Mutex
	path string
}

// NewLocalConfigStoreAdapter creates a store under cfg.DataDir
func NewLocalConfigStoreAdapter(cfg *config.RuntimeConfig) *LocalConfigStoreAdapter {
	return &LocalConfigStoreAdapter{path: filepath.Join(cfg.DataDir, LocalConfigFile)}
}

// Exists reports whether the local config has been written
func (s *LocalConfigStoreAdapter) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load returns the stored config, or the defaults when none exists. A stored
// caller that is not an address is an error.
func (s *LocalConfigStoreAdapter) Load(_ context.Context) (*domain.LocalConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.DefaultLocalConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	cfg := domain.DefaultLocalConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	if cfg.Output == "" {
		cfg.Output = domain.DefaultLocalConfig().Output
	}
	if cfg.From != "" && !common.IsHexAddress(cfg.From) {
		return nil, fmt.Errorf("%s: from: %w: %q", s.path, domain.ErrInvalidAddress, cfg.From)
	}
	return cfg, nil
}

// Save replaces the stored config atomically
func (s *LocalConfigStoreAdapter) Save(_ context.Context, cfg *domain.LocalConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := WriteFileAtomic(s.path, append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GetPath returns the path to the config file
func (s *LocalConfigStoreAdapter) GetPath() string {
	return s.path
}

var _ usecase.LocalConfigRepository = (*LocalConfigStoreAdapter)(nil)
