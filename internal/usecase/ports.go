package usecase

import (
	"context"
	"math/big"

	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/cooperadora-escolar/coop/internal/domain/config"
	"github.com/cooperadora-escolar/coop/internal/domain/models"
	"github.com/cooperadora-escolar/coop/internal/governance"
	"github.com/ethereum/go-ethereum/common"
)

// Governance is the association registry the use cases drive
type Governance interface {
	Genesis() config.Genesis

	RegisterMember(ctx context.Context, caller, addr common.Address) (models.Member, error)
	Propose(ctx context.Context, params governance.ProposeParams) (uint64, error)
	Vote(ctx context.Context, voter common.Address, id uint64, choice models.Choice) (*models.Vote, error)
	Execute(ctx context.Context, id uint64) (*models.Proposal, error)
	Finalize(ctx context.Context, id uint64) (*models.Proposal, error)
	PendingFinalization() []uint64

	GetProposal(id uint64) (*models.Proposal, error)
	ListProposals(filter domain.ProposalFilter) []*models.Proposal
	Votes(id uint64) ([]*models.Vote, error)
	Member(addr common.Address) (models.Member, bool)
	ListMembers() []models.Member
	MemberCount() uint64
}

// TokenManager is the voting token as seen by the token commands
type TokenManager interface {
	Info(ctx context.Context) (*models.TokenInfo, error)
	BalanceOf(ctx context.Context, account common.Address) (*big.Int, error)
	Transfer(ctx context.Context, from, to common.Address, amount *big.Int) error
	PrepareTransfer(ctx context.Context, from, to common.Address, amount *big.Int) (models.TransferRef, error)
	SubmitTransfer(ctx context.Context, ref models.TransferRef) (models.TransferStatus, error)
	Mint(ctx context.Context, caller, to common.Address, amount *big.Int) error
	Burn(ctx context.Context, holder common.Address, amount *big.Int) error
}

// LocalConfigRepository manages local configuration persistence
type LocalConfigRepository interface {
	Exists() bool
	Load(ctx context.Context) (*domain.LocalConfig, error)
	Save(ctx context.Context, config *domain.LocalConfig) error
	GetPath() string
}

// RosterReader loads a parent roster file
type RosterReader interface {
	ReadRoster(ctx context.Context, path string) (*models.Roster, error)
}

// FileWriter writes project files relative to the project root
type FileWriter interface {
	WriteFile(ctx context.Context, path string, content string) error
	FileExists(ctx context.Context, path string) (bool, error)
	EnsureDirectory(ctx context.Context, path string) error
}

// ProposalSelector handles interactive selection of proposals
type ProposalSelector interface {
	SelectProposal(ctx context.Context, proposals []*models.Proposal, prompt string) (*models.Proposal, error)
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage   string
	Current int
	Total   int
	Message string
	Spinner bool
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}

var _ Governance = (*governance.Registry)(nil)
