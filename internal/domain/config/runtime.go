package config

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Caller identity used for mutating commands (--from)
	From common.Address

	// Execution settings
	Debug          bool
	NonInteractive bool
	Output         OutputFormat
	Timeout        time.Duration

	Store   StoreConfig
	Token   TokenConfig
	Events  EventsConfig
	HTTP    HTTPConfig
	Sweeper SweeperConfig

	// Resolved configurations
	Genesis      *Genesis
	GenesisPath  string
	ConfigSource string // path of coop.toml, or "defaults"
}

// OutputFormat selects how command results are printed
type OutputFormat string

const (
	OutputTable OutputFormat = "table"
	OutputJSON  OutputFormat = "json"
	OutputYAML  OutputFormat = "yaml"
)

type StoreBackend string

const (
	StoreBackendFile     StoreBackend = "file"
	StoreBackendPostgres StoreBackend = "postgres"
)

// StoreConfig selects where the governance ledger is persisted
type StoreConfig struct {
	Backend     StoreBackend
	DatabaseURL string
	// MigrationsOnStart runs schema migrations before the store is opened
	MigrationsOnStart bool
}

type TokenBackend string

const (
	TokenBackendLedger TokenBackend = "ledger"
	TokenBackendERC20  TokenBackend = "erc20"
)

// TokenConfig selects the voting token implementation
type TokenConfig struct {
	Backend     TokenBackend
	RPCURL      string
	ChainID     uint64
	TreasuryKey string //nolint:gosec // resolved from the environment, never written back
	TxTimeout   time.Duration
}

type EventsBackend string

const (
	EventsBackendNone  EventsBackend = "none"
	EventsBackendNATS  EventsBackend = "nats"
	EventsBackendRedis EventsBackend = "redis"
)

// EventsConfig selects where governance events are published
type EventsConfig struct {
	Backend       EventsBackend
	URL           string
	SubjectPrefix string
}

// HTTPConfig configures `coop serve`
type HTTPConfig struct {
	Addr           string
	AllowedOrigins []string
}

// SweeperConfig configures the deadline sweeper run by `coop serve`
type SweeperConfig struct {
	Enabled  bool
	Schedule string
}
