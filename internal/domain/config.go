package domain

import (
	"fmt"
	"strings"
)

// LocalConfig holds per-checkout defaults stored in .coop/config.local.json
type LocalConfig struct {
	// From is the default caller address for mutating commands
	From   string `json:"from,omitempty"`
	Output string `json:"output,omitempty"`
}

// ConfigKey names a field of LocalConfig
type ConfigKey string

const (
	ConfigKeyFrom   ConfigKey = "from"
	ConfigKeyOutput ConfigKey = "output"
)

var configKeyAliases = map[string]ConfigKey{
	"from":   ConfigKeyFrom,
	"caller": ConfigKeyFrom,
	"output": ConfigKeyOutput,
	"o":      ConfigKeyOutput,
}

// DefaultLocalConfig returns the default local configuration
func DefaultLocalConfig() *LocalConfig {
	return &LocalConfig{Output: "table"}
}

// ParseConfigKey resolves a user-supplied key or alias, case-insensitively
func ParseConfigKey(key string) (ConfigKey, error) {
	if k, ok := configKeyAliases[strings.ToLower(strings.TrimSpace(key))]; ok {
		return k, nil
	}
	return "", fmt.Errorf("unknown config key: %s\nAvailable keys: from (caller), output", key)
}
