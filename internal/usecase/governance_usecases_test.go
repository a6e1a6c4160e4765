package usecase_test

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/cooperadora-escolar/coop/internal/domain/models"
	"github.com/cooperadora-escolar/coop/internal/governance"
	"github.com/cooperadora-escolar/coop/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateProposal(t *testing.T) {
	ctx := context.Background()

	t.Run("parses whole tokens and applies the default period", func(t *testing.T) {
		gov := new(MockGovernance)
		oneAndHalf, _ := new(big.Int).SetString("1500000000000000000", 10)
		gov.On("Propose", ctx, governance.ProposeParams{
			Proposer:    parentA,
			Description: "Libros para la biblioteca",
			Amount:      oneAndHalf,
			Recipient:   recipient,
			Duration:    7 * 24 * time.Hour,
		}).Return(uint64(3), nil)
		gov.On("GetProposal", uint64(3)).Return(proposal(3, models.ProposalStatusActive, "Libros para la biblioteca"), nil)

		uc := usecase.NewCreateProposal(gov, &MockProgressSink{})
		p, err := uc.Run(ctx, usecase.CreateProposalParams{
			Proposer:    parentA,
			Description: "Libros para la biblioteca",
			Amount:      "1.5",
			Recipient:   recipient.Hex(),
		})

		require.NoError(t, err)
		assert.Equal(t, uint64(3), p.ID)
		gov.AssertExpectations(t)
	})

	t.Run("base units and explicit duration", func(t *testing.T) {
		gov := new(MockGovernance)
		gov.On("Propose", ctx, governance.ProposeParams{
			Proposer:    parentA,
			Description: "Pintura",
			Amount:      big.NewInt(500),
			Recipient:   recipient,
			Duration:    time.Hour,
		}).Return(uint64(1), nil)
		gov.On("GetProposal", uint64(1)).Return(proposal(1, models.ProposalStatusActive, "Pintura"), nil)

		uc := usecase.NewCreateProposal(gov, &MockProgressSink{})
		_, err := uc.Run(ctx, usecase.CreateProposalParams{
			Proposer:    parentA,
			Description: "Pintura",
			Amount:      "500",
			BaseUnits:   true,
			Recipient:   recipient.Hex(),
			Duration:    time.Hour,
		})
		require.NoError(t, err)
		gov.AssertExpectations(t)
	})

	t.Run("rejects malformed input before reaching the registry", func(t *testing.T) {
		gov := new(MockGovernance)
		uc := usecase.NewCreateProposal(gov, &MockProgressSink{})

		_, err := uc.Run(ctx, usecase.CreateProposalParams{Proposer: parentA, Description: "x", Amount: "1.5", Recipient: "escuela"})
		assert.ErrorIs(t, err, domain.ErrInvalidAddress)

		_, err = uc.Run(ctx, usecase.CreateProposalParams{Proposer: parentA, Description: "x", Amount: "-3", Recipient: recipient.Hex()})
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)

		gov.AssertNotCalled(t, "Propose", mock.Anything, mock.Anything)
	})

	t.Run("registry errors surface unchanged", func(t *testing.T) {
		gov := new(MockGovernance)
		gov.On("Propose", ctx, mock.Anything).Return(uint64(0), domain.ErrZeroAmount)

		uc := usecase.NewCreateProposal(gov, &MockProgressSink{})
		_, err := uc.Run(ctx, usecase.CreateProposalParams{Proposer: parentA, Description: "x", Amount: "0", Recipient: recipient.Hex()})
		assert.ErrorIs(t, err, domain.ErrZeroAmount)
	})
}

func TestCastVote(t *testing.T) {
	ctx := context.Background()

	t.Run("vote on a given proposal", func(t *testing.T) {
		gov := new(MockGovernance)
		vote := &models.Vote{ProposalID: 2, Voter: parentA, Choice: models.ChoiceAgainst, Weight: big.NewInt(10)}
		gov.On("Vote", ctx, parentA, uint64(2), models.ChoiceAgainst).Return(vote, nil)
		gov.On("GetProposal", uint64(2)).Return(proposal(2, models.ProposalStatusActive, "Excursión"), nil)

		progress := &MockProgressSink{}
		uc := usecase.NewCastVote(gov, new(MockSelector), progress)
		result, err := uc.Run(ctx, usecase.CastVoteParams{Voter: parentA, ProposalID: 2, Choice: "no"})

		require.NoError(t, err)
		assert.Equal(t, vote, result.Vote)
		assert.Equal(t, []string{"voting", "complete"}, progress.Stages())
	})

	t.Run("selects among active proposals", func(t *testing.T) {
		gov := new(MockGovernance)
		selector := new(MockSelector)
		active := []*models.Proposal{proposal(4, models.ProposalStatusActive, "a"), proposal(5, models.ProposalStatusActive, "b")}
		gov.On("ListProposals", domain.ProposalFilter{Status: models.ProposalStatusActive}).Return(active)
		selector.On("SelectProposal", ctx, active, mock.Anything).Return(active[1], nil)
		gov.On("Vote", ctx, parentA, uint64(5), models.ChoiceFor).Return(&models.Vote{ProposalID: 5}, nil)
		gov.On("GetProposal", uint64(5)).Return(active[1], nil)

		uc := usecase.NewCastVote(gov, selector, &MockProgressSink{})
		result, err := uc.Run(ctx, usecase.CastVoteParams{Voter: parentA, Choice: "for"})

		require.NoError(t, err)
		assert.Equal(t, uint64(5), result.Proposal.ID)
		selector.AssertExpectations(t)
	})

	t.Run("unknown choice", func(t *testing.T) {
		uc := usecase.NewCastVote(new(MockGovernance), new(MockSelector), &MockProgressSink{})
		_, err := uc.Run(ctx, usecase.CastVoteParams{Voter: parentA, ProposalID: 1, Choice: "maybe"})
		assert.ErrorIs(t, err, domain.ErrInvalidChoice)
	})

	t.Run("nothing to vote on", func(t *testing.T) {
		gov := new(MockGovernance)
		gov.On("ListProposals", mock.Anything).Return([]*models.Proposal{})

		uc := usecase.NewCastVote(gov, new(MockSelector), &MockProgressSink{})
		_, err := uc.Run(ctx, usecase.CastVoteParams{Voter: parentA, Choice: "for"})
		assert.ErrorContains(t, err, "no proposals are open")
	})
}

func TestExecuteProposal(t *testing.T) {
	ctx := context.Background()

	t.Run("executes after confirmation", func(t *testing.T) {
		gov := new(MockGovernance)
		selector := new(MockSelector)
		approved := proposal(1, models.ProposalStatusApproved, "Pintura")
		executed := proposal(1, models.ProposalStatusExecuted, "Pintura")
		gov.On("GetProposal", uint64(1)).Return(approved, nil)
		selector.On("Confirm", ctx, "Transfer 0.0000000000000005 tokens to "+recipient.Hex()).Return(true, nil)
		gov.On("Execute", ctx, uint64(1)).Return(executed, nil)

		uc := usecase.NewExecuteProposal(gov, selector, &MockProgressSink{})
		result, err := uc.Run(ctx, usecase.ExecuteProposalParams{ProposalID: 1, Confirm: true})

		require.NoError(t, err)
		assert.False(t, result.Cancelled)
		assert.Equal(t, models.ProposalStatusExecuted, result.Proposal.Status)
	})

	t.Run("declined confirmation moves nothing", func(t *testing.T) {
		gov := new(MockGovernance)
		selector := new(MockSelector)
		gov.On("GetProposal", uint64(1)).Return(proposal(1, models.ProposalStatusApproved, "Pintura"), nil)
		selector.On("Confirm", ctx, mock.Anything).Return(false, nil)

		uc := usecase.NewExecuteProposal(gov, selector, &MockProgressSink{})
		result, err := uc.Run(ctx, usecase.ExecuteProposalParams{ProposalID: 1, Confirm: true})

		require.NoError(t, err)
		assert.True(t, result.Cancelled)
		gov.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
	})

	t.Run("failed transfer is reported", func(t *testing.T) {
		gov := new(MockGovernance)
		gov.On("GetProposal", uint64(1)).Return(proposal(1, models.ProposalStatusApproved, "Pintura"), nil)
		gov.On("Execute", ctx, uint64(1)).Return(nil, domain.ErrTransferFailed)

		progress := &MockProgressSink{}
		uc := usecase.NewExecuteProposal(gov, new(MockSelector), progress)
		_, err := uc.Run(ctx, usecase.ExecuteProposalParams{ProposalID: 1})

		assert.ErrorIs(t, err, domain.ErrTransferFailed)
		assert.Equal(t, []string{"transferring", "failed"}, progress.Stages())
	})
}

func TestFinalizeProposals(t *testing.T) {
	ctx := context.Background()
	gov := new(MockGovernance)
	gov.On("PendingFinalization").Return([]uint64{3, 1})
	gov.On("Finalize", ctx, uint64(1)).Return(proposal(1, models.ProposalStatusRejected, "a"), nil)
	gov.On("Finalize", ctx, uint64(3)).Return(nil, errors.New("disk full"))

	uc := usecase.NewFinalizeProposals(gov, &MockProgressSink{})
	result, err := uc.Run(ctx, usecase.FinalizeProposalsParams{})

	require.NoError(t, err)
	require.Len(t, result.Finalized, 1)
	assert.Equal(t, uint64(1), result.Finalized[0].ID)
	assert.EqualError(t, result.Failed[3], "disk full")
}

func TestListProposals(t *testing.T) {
	ctx := context.Background()
	all := []*models.Proposal{
		proposal(3, models.ProposalStatusActive, "Pintura del aula 3"),
		proposal(2, models.ProposalStatusExecuted, "Libros para la biblioteca"),
		proposal(1, models.ProposalStatusRejected, "Excursión al museo"),
	}

	t.Run("summary", func(t *testing.T) {
		gov := new(MockGovernance)
		gov.On("ListProposals", domain.ProposalFilter{}).Return(all)

		result, err := usecase.NewListProposals(gov, &MockProgressSink{}).Run(ctx, usecase.ListProposalsParams{})
		require.NoError(t, err)
		assert.Equal(t, 3, result.Summary.Total)
		assert.Equal(t, 1, result.Summary.ByStatus[models.ProposalStatusExecuted])
		assert.Equal(t, uint8(18), result.Decimals)
	})

	t.Run("fuzzy search", func(t *testing.T) {
		gov := new(MockGovernance)
		gov.On("ListProposals", domain.ProposalFilter{}).Return(all)

		result, err := usecase.NewListProposals(gov, &MockProgressSink{}).Run(ctx, usecase.ListProposalsParams{Search: "biblio"})
		require.NoError(t, err)
		require.Len(t, result.Proposals, 1)
		assert.Equal(t, uint64(2), result.Proposals[0].ID)
	})

	t.Run("filters are passed through", func(t *testing.T) {
		gov := new(MockGovernance)
		gov.On("ListProposals", domain.ProposalFilter{Status: models.ProposalStatusActive, Proposer: &parentA}).Return(all[:1])

		result, err := usecase.NewListProposals(gov, &MockProgressSink{}).Run(ctx, usecase.ListProposalsParams{
			Status:   "ACTIVE",
			Proposer: parentA.Hex(),
		})
		require.NoError(t, err)
		assert.Len(t, result.Proposals, 1)
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := usecase.NewListProposals(new(MockGovernance), &MockProgressSink{}).Run(ctx, usecase.ListProposalsParams{Status: "pending"})
		assert.ErrorContains(t, err, `unknown status "pending"`)
	})
}

func TestShowProposal(t *testing.T) {
	gov := new(MockGovernance)
	p := proposal(1, models.ProposalStatusActive, "Pintura")
	p.Tally.For = big.NewInt(12)
	gov.On("GetProposal", uint64(1)).Return(p, nil)
	gov.On("Votes", uint64(1)).Return([]*models.Vote{{ProposalID: 1, Voter: parentA}}, nil)

	result, err := usecase.NewShowProposal(gov).Run(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, result.QuorumReached)
	assert.Equal(t, big.NewInt(8), result.Missing)
	assert.Len(t, result.Votes, 1)

	gov = new(MockGovernance)
	gov.On("GetProposal", uint64(9)).Return(nil, domain.ErrProposalNotFound)
	_, err = usecase.NewShowProposal(gov).Run(context.Background(), 9)
	assert.ErrorIs(t, err, domain.ErrProposalNotFound)
}
