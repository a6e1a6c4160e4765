package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cooperadora-escolar/coop/internal/domain/config"
	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DataDirName is the per-project state directory
const DataDirName = ".coop"

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	// Load .env files first for variable expansion
	loadEnvFiles(projectRoot)

	file, err := loadCoopFile(projectRoot)
	if err != nil {
		return nil, err
	}
	genesis, err := buildGenesis(file)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ProjectFile, err)
	}
	applyFileDefaults(v, file)

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		DataDir:        v.GetString("data_dir"),
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		Output:         config.OutputFormat(strings.ToLower(v.GetString("output"))),
		Timeout:        v.GetDuration("timeout"),
		Store: config.StoreConfig{
			Backend:           config.StoreBackend(v.GetString("store.backend")),
			DatabaseURL:       v.GetString("store.database_url"),
			MigrationsOnStart: v.GetBool("store.migrate"),
		},
		Token: config.TokenConfig{
			Backend:     config.TokenBackend(v.GetString("token.backend")),
			RPCURL:      v.GetString("token.rpc_url"),
			ChainID:     v.GetUint64("token.chain_id"),
			TreasuryKey: v.GetString("token.treasury_key"),
			TxTimeout:   v.GetDuration("token.tx_timeout"),
		},
		Events: config.EventsConfig{
			Backend:       config.EventsBackend(v.GetString("events.backend")),
			URL:           v.GetString("events.url"),
			SubjectPrefix: v.GetString("events.subject_prefix"),
		},
		HTTP: config.HTTPConfig{
			Addr:           v.GetString("http.addr"),
			AllowedOrigins: v.GetStringSlice("http.allowed_origins"),
		},
		Sweeper: config.SweeperConfig{
			Enabled:  v.GetBool("sweeper.enabled"),
			Schedule: v.GetString("sweeper.schedule"),
		},
		Genesis:      genesis,
		ConfigSource: "defaults",
	}
	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Join(projectRoot, DataDirName)
	} else if !filepath.IsAbs(cfg.DataDir) {
		cfg.DataDir = filepath.Join(projectRoot, cfg.DataDir)
	}
	if file != nil {
		cfg.GenesisPath = filepath.Join(projectRoot, ProjectFile)
		cfg.ConfigSource = ProjectFile
	}

	if from := strings.TrimSpace(v.GetString("from")); from != "" {
		if !common.IsHexAddress(from) {
			return nil, fmt.Errorf("invalid --from address: %s", from)
		}
		cfg.From = common.HexToAddress(from)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *config.RuntimeConfig) error {
	switch cfg.Output {
	case config.OutputTable, config.OutputJSON, config.OutputYAML:
	default:
		return fmt.Errorf("unknown output format %q (expected table, json or yaml)", cfg.Output)
	}
	switch cfg.Store.Backend {
	case config.StoreBackendFile:
	case config.StoreBackendPostgres:
		if cfg.Store.DatabaseURL == "" {
			return fmt.Errorf("store.database_url is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
	switch cfg.Token.Backend {
	case config.TokenBackendLedger:
	case config.TokenBackendERC20:
		if cfg.Token.RPCURL == "" {
			return fmt.Errorf("token.rpc_url is required for the erc20 token")
		}
	default:
		return fmt.Errorf("unknown token backend %q", cfg.Token.Backend)
	}
	switch cfg.Events.Backend {
	case config.EventsBackendNone:
	case config.EventsBackendNATS, config.EventsBackendRedis:
		if cfg.Events.URL == "" {
			return fmt.Errorf("events.url is required for the %s backend", cfg.Events.Backend)
		}
	default:
		return fmt.Errorf("unknown events backend %q", cfg.Events.Backend)
	}
	return nil
}

// loadEnvFiles loads .env and .env.local from the project root. Variables
// already set in the environment win.
func loadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// applyFileDefaults registers coop.toml values as viper defaults; flags,
// COOP_* variables and config.local.json override them.
func applyFileDefaults(v *viper.Viper, f *CoopFile) {
	if f == nil {
		return
	}
	setIf := func(key, value string) {
		if value != "" {
			v.SetDefault(key, value)
		}
	}

	setIf("token.backend", f.Token.Backend)
	setIf("token.rpc_url", f.Token.RPCURL)
	setIf("token.treasury_key", f.Token.TreasuryKey)
	setIf("token.tx_timeout", f.Token.TxTimeout)
	if f.Token.ChainID != 0 {
		v.SetDefault("token.chain_id", f.Token.ChainID)
	}

	setIf("store.backend", f.Store.Backend)
	setIf("store.database_url", f.Store.DatabaseURL)
	if f.Store.Migrate != nil {
		v.SetDefault("store.migrate", *f.Store.Migrate)
	}

	setIf("events.backend", f.Events.Backend)
	setIf("events.url", f.Events.URL)
	setIf("events.subject_prefix", f.Events.SubjectPrefix)

	setIf("http.addr", f.HTTP.Addr)
	if len(f.HTTP.AllowedOrigins) > 0 {
		v.SetDefault("http.allowed_origins", f.HTTP.AllowedOrigins)
	}

	if f.Sweeper.Enabled != nil {
		v.SetDefault("sweeper.enabled", *f.Sweeper.Enabled)
	}
	setIf("sweeper.schedule", f.Sweeper.Schedule)
}

// FindProjectRoot walks up from the current directory to find coop.toml.
// Without one the current directory is the project root.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, ProjectFile)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd, nil
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string) *viper.Viper {
	v := viper.New()

	// Set up config file
	v.SetConfigName("config.local")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, DataDirName))

	// Set up environment variables
	v.SetEnvPrefix("COOP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("project_root", projectRoot)
	v.SetDefault("timeout", "5m")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("output", string(config.OutputTable))
	v.SetDefault("store.backend", string(config.StoreBackendFile))
	v.SetDefault("store.migrate", true)
	v.SetDefault("token.backend", string(config.TokenBackendLedger))
	v.SetDefault("token.tx_timeout", 2*time.Minute)
	v.SetDefault("events.backend", string(config.EventsBackendNone))
	v.SetDefault("events.subject_prefix", "coop")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("sweeper.enabled", true)
	v.SetDefault("sweeper.schedule", "* * * * *")

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	return v
}

// BindFlags binds the flags that were set on the command line
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		if !f.Changed {
			return
		}
		if err := v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f); err != nil {
			panic(err)
		}
	})
}
