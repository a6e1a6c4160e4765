//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/cooperadora-escolar/coop/internal/adapters"
	"github.com/cooperadora-escolar/coop/internal/config"
	"github.com/cooperadora-escolar/coop/internal/logging"
	"github.com/cooperadora-escolar/coop/internal/usecase"
	"github.com/google/wire"
	"github.com/spf13/viper"
)

// InitApp creates a fully wired App instance. The returned cleanup closes
// the store and broker connections.
func InitApp(ctx context.Context, v *viper.Viper) (*App, func(), error) {
	wire.Build(
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewRegisterMember,
		usecase.NewImportRoster,
		usecase.NewListMembers,
		usecase.NewShowMember,
		usecase.NewCreateProposal,
		usecase.NewCastVote,
		usecase.NewExecuteProposal,
		usecase.NewFinalizeProposals,
		usecase.NewListProposals,
		usecase.NewShowProposal,
		usecase.NewManageToken,
		usecase.NewShowConfig,
		usecase.NewSetConfig,
		usecase.NewRemoveConfig,

		// App
		NewApp,
	)
	return nil, nil, nil
}

// InitProjectUseCase wires `coop init`, which runs before coop.toml exists
// and so must not open the ledger or the token.
func InitProjectUseCase(v *viper.Viper) (*usecase.InitProject, error) {
	wire.Build(
		config.Provider,
		adapters.FSSet,
		adapters.InteractiveSet,
		usecase.NewInitProject,
	)
	return nil, nil
}
