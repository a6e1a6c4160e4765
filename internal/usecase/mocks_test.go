package usecase_test

import (
	"context"
	"math/big"

	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/cooperadora-escolar/coop/internal/domain/config"
	"github.com/cooperadora-escolar/coop/internal/domain/models"
	"github.com/cooperadora-escolar/coop/internal/governance"
	"github.com/cooperadora-escolar/coop/internal/usecase"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
)

var (
	admin     = common.HexToAddress("0xad00000000000000000000000000000000000001")
	parentA   = common.HexToAddress("0x00000000000000000000000000000000000a0001")
	parentB   = common.HexToAddress("0x00000000000000000000000000000000000a0002")
	recipient = common.HexToAddress("0x5c00000000000000000000000000000000000003")
)

func testGenesis() config.Genesis {
	g := config.DefaultGenesis()
	g.Admin = admin
	g.Treasury = admin
	return *g
}

// MockGovernance is a mock implementation of usecase.Governance
type MockGovernance struct {
	mock.Mock
}

func (m *MockGovernance) Genesis() config.Genesis {
	return testGenesis()
}

func (m *MockGovernance) RegisterMember(ctx context.Context, caller, addr common.Address) (models.Member, error) {
	args := m.Called(ctx, caller, addr)
	return args.Get(0).(models.Member), args.Error(1)
}

func (m *MockGovernance) Propose(ctx context.Context, params governance.ProposeParams) (uint64, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockGovernance) Vote(ctx context.Context, voter common.Address, id uint64, choice models.Choice) (*models.Vote, error) {
	args := m.Called(ctx, voter, id, choice)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vote), args.Error(1)
}

func (m *MockGovernance) Execute(ctx context.Context, id uint64) (*models.Proposal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Proposal), args.Error(1)
}

func (m *MockGovernance) Finalize(ctx context.Context, id uint64) (*models.Proposal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Proposal), args.Error(1)
}

func (m *MockGovernance) PendingFinalization() []uint64 {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]uint64)
}

func (m *MockGovernance) GetProposal(id uint64) (*models.Proposal, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Proposal), args.Error(1)
}

func (m *MockGovernance) ListProposals(filter domain.ProposalFilter) []*models.Proposal {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]*models.Proposal)
}

func (m *MockGovernance) Votes(id uint64) ([]*models.Vote, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Vote), args.Error(1)
}

func (m *MockGovernance) Member(addr common.Address) (models.Member, bool) {
	args := m.Called(addr)
	return args.Get(0).(models.Member), args.Bool(1)
}

func (m *MockGovernance) ListMembers() []models.Member {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]models.Member)
}

func (m *MockGovernance) MemberCount() uint64 {
	return uint64(m.Called().Int(0))
}

// MockSelector is a mock implementation of usecase.ProposalSelector
type MockSelector struct {
	mock.Mock
}

func (m *MockSelector) SelectProposal(ctx context.Context, proposals []*models.Proposal, prompt string) (*models.Proposal, error) {
	args := m.Called(ctx, proposals, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Proposal), args.Error(1)
}

func (m *MockSelector) Confirm(ctx context.Context, prompt string) (bool, error) {
	args := m.Called(ctx, prompt)
	return args.Bool(0), args.Error(1)
}

// MockProgressSink records progress events
type MockProgressSink struct {
	events []usecase.ProgressEvent
}

func (m *MockProgressSink) OnProgress(_ context.Context, event usecase.ProgressEvent) {
	m.events = append(m.events, event)
}
func (m *MockProgressSink) Info(string)  {}
func (m *MockProgressSink) Error(string) {}

func (m *MockProgressSink) Stages() []string {
	stages := make([]string, len(m.events))
	for i, e := range m.events {
		stages[i] = e.Stage
	}
	return stages
}

func proposal(id uint64, status models.ProposalStatus, description string) *models.Proposal {
	return &models.Proposal{
		ID:                id,
		Proposer:          parentA,
		Description:       description,
		Status:            status,
		QuorumThreshold:   big.NewInt(20),
		TreasuryAmount:    big.NewInt(500),
		TreasuryRecipient: recipient,
		Tally:             models.NewTally(),
	}
}
