package app

import (
	"log/slog"

	"github.com/cooperadora-escolar/coop/internal/adapters/httpapi"
	"github.com/cooperadora-escolar/coop/internal/adapters/metrics"
	"github.com/cooperadora-escolar/coop/internal/adapters/scheduler"
	"github.com/cooperadora-escolar/coop/internal/domain/config"
	"github.com/cooperadora-escolar/coop/internal/governance"
	"github.com/cooperadora-escolar/coop/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Shared dependencies
	Registry *governance.Registry
	Token    usecase.TokenManager
	Progress usecase.ProgressSink

	// Use cases
	RegisterMember    *usecase.RegisterMember
	ImportRoster      *usecase.ImportRoster
	ListMembers       *usecase.ListMembers
	ShowMember        *usecase.ShowMember
	CreateProposal    *usecase.CreateProposal
	CastVote          *usecase.CastVote
	ExecuteProposal   *usecase.ExecuteProposal
	FinalizeProposals *usecase.FinalizeProposals
	ListProposals     *usecase.ListProposals
	ShowProposal      *usecase.ShowProposal
	ManageToken       *usecase.ManageToken
	ShowConfig        *usecase.ShowConfig
	SetConfig         *usecase.SetConfig
	RemoveConfig      *usecase.RemoveConfig

	// Long-running services started by `coop serve`
	Server  *httpapi.Server
	Sweeper *scheduler.Sweeper
	Metrics *metrics.Metrics
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	registry *governance.Registry,
	token usecase.TokenManager,
	progress usecase.ProgressSink,
	registerMember *usecase.RegisterMember,
	importRoster *usecase.ImportRoster,
	listMembers *usecase.ListMembers,
	showMember *usecase.ShowMember,
	createProposal *usecase.CreateProposal,
	castVote *usecase.CastVote,
	executeProposal *usecase.ExecuteProposal,
	finalizeProposals *usecase.FinalizeProposals,
	listProposals *usecase.ListProposals,
	showProposal *usecase.ShowProposal,
	manageToken *usecase.ManageToken,
	showConfig *usecase.ShowConfig,
	setConfig *usecase.SetConfig,
	removeConfig *usecase.RemoveConfig,
	server *httpapi.Server,
	sweeper *scheduler.Sweeper,
	m *metrics.Metrics,
) (*App, error) {
	return &App{
		Config:            cfg,
		Log:               log,
		Registry:          registry,
		Token:             token,
		Progress:          progress,
		RegisterMember:    registerMember,
		ImportRoster:      importRoster,
		ListMembers:       listMembers,
		ShowMember:        showMember,
		CreateProposal:    createProposal,
		CastVote:          castVote,
		ExecuteProposal:   executeProposal,
		FinalizeProposals: finalizeProposals,
		ListProposals:     listProposals,
		ShowProposal:      showProposal,
		ManageToken:       manageToken,
		ShowConfig:        showConfig,
		SetConfig:         setConfig,
		RemoveConfig:      removeConfig,
		Server:            server,
		Sweeper:           sweeper,
		Metrics:           m,
	}, nil
}
