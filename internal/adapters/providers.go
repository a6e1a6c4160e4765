package adapters

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cooperadora-escolar/coop/internal/adapters/events"
	"github.com/cooperadora-escolar/coop/internal/adapters/fs"
	"github.com/cooperadora-escolar/coop/internal/adapters/httpapi"
	"github.com/cooperadora-escolar/coop/internal/adapters/interactive"
	"github.com/cooperadora-escolar/coop/internal/adapters/metrics"
	"github.com/cooperadora-escolar/coop/internal/adapters/postgres"
	"github.com/cooperadora-escolar/coop/internal/adapters/progress"
	"github.com/cooperadora-escolar/coop/internal/adapters/repository/ledger"
	"github.com/cooperadora-escolar/coop/internal/adapters/scheduler"
	"github.com/cooperadora-escolar/coop/internal/adapters/token"
	"github.com/cooperadora-escolar/coop/internal/domain/config"
	"github.com/cooperadora-escolar/coop/internal/governance"
	"github.com/cooperadora-escolar/coop/internal/usecase"
	"github.com/google/wire"
)

// ProvideLedgerStore opens the governance store selected by cfg.Store
func ProvideLedgerStore(ctx context.Context, cfg *config.RuntimeConfig, log *slog.Logger) (governance.LedgerStore, func(), error) {
	switch cfg.Store.Backend {
	case config.StoreBackendFile, "":
		repo, err := ledger.NewFileRepository(cfg)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil

	case config.StoreBackendPostgres:
		if cfg.Store.MigrationsOnStart {
			if err := postgres.RunMigrations(cfg.Store.DatabaseURL, log); err != nil {
				return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
			}
		}
		db, err := postgres.Connect(ctx, cfg.Store.DatabaseURL, log)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewLedgerRepository(db), db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// ProvideTokenManager opens the voting token selected by cfg.Token
func ProvideTokenManager(ctx context.Context, cfg *config.RuntimeConfig) (usecase.TokenManager, error) {
	switch cfg.Token.Backend {
	case config.TokenBackendLedger, "":
		l, err := token.NewLedger(cfg)
		if err != nil {
			return nil, err
		}
		return l, nil
	case config.TokenBackendERC20:
		t, err := token.DialERC20(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, fmt.Errorf("unknown token backend %q", cfg.Token.Backend)
	}
}

// ProvideVotingToken narrows the token to what the registry needs
func ProvideVotingToken(tm usecase.TokenManager) governance.VotingToken {
	return tm
}

// ProvidePublisher connects the event publisher selected by cfg.Events
func ProvidePublisher(ctx context.Context, cfg *config.RuntimeConfig, log *slog.Logger) (governance.EventPublisher, func(), error) {
	pub, err := events.NewPublisher(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return pub, func() {
		if err := pub.Close(); err != nil {
			log.Warn("failed to close event publisher", "error", err)
		}
	}, nil
}

// ProvideRegistry builds the governance registry over the selected store
// and token.
func ProvideRegistry(
	ctx context.Context,
	cfg *config.RuntimeConfig,
	store governance.LedgerStore,
	voting governance.VotingToken,
	publisher governance.EventPublisher,
	m governance.Metrics,
	log *slog.Logger,
) (*governance.Registry, error) {
	return governance.NewRegistry(ctx, cfg.Genesis, store, voting,
		governance.WithPublisher(publisher),
		governance.WithMetrics(m),
		governance.WithLogger(log),
	)
}

// ProvideMetricsHandler exposes the registry's collectors over HTTP
func ProvideMetricsHandler(m *metrics.Metrics) http.Handler {
	return m.Handler()
}

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewFileWriterAdapter,
	wire.Bind(new(usecase.FileWriter), new(*fs.FileWriterAdapter)),

	fs.NewLocalConfigStoreAdapter,
	wire.Bind(new(usecase.LocalConfigRepository), new(*fs.LocalConfigStoreAdapter)),

	fs.NewRosterReaderAdapter,
	wire.Bind(new(usecase.RosterReader), new(*fs.RosterReaderAdapter)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.ProposalSelector), new(*interactive.SelectorAdapter)),

	progress.NewSink,
)

// GovernanceSet provides the registry and everything it is built from
var GovernanceSet = wire.NewSet(
	ProvideLedgerStore,
	ProvideTokenManager,
	ProvideVotingToken,
	ProvidePublisher,

	metrics.New,
	wire.Bind(new(governance.Metrics), new(*metrics.Metrics)),

	ProvideRegistry,
	wire.Bind(new(usecase.Governance), new(*governance.Registry)),
)

// ServeSet provides the long-running HTTP API and deadline sweeper
var ServeSet = wire.NewSet(
	ProvideMetricsHandler,
	wire.Bind(new(httpapi.Governance), new(*governance.Registry)),
	httpapi.NewServer,
	wire.Bind(new(scheduler.Finalizer), new(*governance.Registry)),
	scheduler.NewSweeper,
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	InteractiveSet,
	GovernanceSet,
	ServeSet,
)
