package usecase

import (
	"context"
	"fmt"

	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/cooperadora-escolar/coop/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
)

// CastVoteParams contains parameters for casting a ballot
type CastVoteParams struct {
	Voter common.Address
	// ProposalID zero asks the selector to pick among active proposals
	ProposalID uint64
	Choice     string
}

// CastVoteResult contains the ballot and the proposal after counting it
type CastVoteResult struct {
	Vote     *models.Vote
	Proposal *models.Proposal
}

// CastVote casts a member's weighted ballot
type CastVote struct {
	gov      Governance
	selector ProposalSelector
	progress ProgressSink
}

// NewCastVote creates a new CastVote use case
func NewCastVote(gov Governance, selector ProposalSelector, progress ProgressSink) *CastVote {
	return &CastVote{gov: gov, selector: selector, progress: progress}
}

// Run executes the cast vote use case
func (uc *CastVote) Run(ctx context.Context, params CastVoteParams) (*CastVoteResult, error) {
	choice, err := models.ParseChoice(params.Choice)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidChoice, params.Choice)
	}

	id := params.ProposalID
	if id == 0 {
		active := uc.gov.ListProposals(domain.ProposalFilter{Status: models.ProposalStatusActive})
		if len(active) == 0 {
			return nil, fmt.Errorf("no proposals are open for voting")
		}
		picked, err := uc.selector.SelectProposal(ctx, active, "Select a proposal to vote on")
		if err != nil {
			return nil, err
		}
		id = picked.ID
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "voting",
		Message: fmt.Sprintf("Casting %s vote on proposal #%d", choice, id),
		Spinner: true,
	})

	vote, err := uc.gov.Vote(ctx, params.Voter, id, choice)
	if err != nil {
		return nil, err
	}

	proposal, err := uc.gov.GetProposal(id)
	if err != nil {
		return nil, err
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "complete", Message: "Vote recorded"})
	return &CastVoteResult{Vote: vote, Proposal: proposal}, nil
}
