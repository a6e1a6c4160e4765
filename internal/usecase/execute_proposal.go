package usecase

import (
	"context"
	"fmt"

	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/cooperadora-escolar/coop/internal/domain/models"
)

// ExecuteProposalParams contains parameters for executing a proposal
type ExecuteProposalParams struct {
	// ProposalID zero asks the selector to pick among approved proposals
	ProposalID uint64
	// Confirm asks for confirmation before moving funds
	Confirm bool
}

// ExecuteProposalResult contains the executed proposal
type ExecuteProposalResult struct {
	Proposal  *models.Proposal
	Cancelled bool
}

// ExecuteProposal pays out an approved proposal from the treasury
type ExecuteProposal struct {
	gov      Governance
	selector ProposalSelector
	progress ProgressSink
}

// NewExecuteProposal creates a new ExecuteProposal use case
func NewExecuteProposal(gov Governance, selector ProposalSelector, progress ProgressSink) *ExecuteProposal {
	return &ExecuteProposal{gov: gov, selector: selector, progress: progress}
}

// Run executes the execute proposal use case
func (uc *ExecuteProposal) Run(ctx context.Context, params ExecuteProposalParams) (*ExecuteProposalResult, error) {
	var proposal *models.Proposal
	if params.ProposalID == 0 {
		approved := uc.gov.ListProposals(domain.ProposalFilter{Status: models.ProposalStatusApproved})
		if len(approved) == 0 {
			return nil, fmt.Errorf("no approved proposals are waiting for execution")
		}
		picked, err := uc.selector.SelectProposal(ctx, approved, "Select a proposal to execute")
		if err != nil {
			return nil, err
		}
		proposal = picked
	} else {
		p, err := uc.gov.GetProposal(params.ProposalID)
		if err != nil {
			return nil, err
		}
		proposal = p
	}

	if params.Confirm {
		decimals := uc.gov.Genesis().Token.Decimals
		ok, err := uc.selector.Confirm(ctx, fmt.Sprintf("Transfer %s tokens to %s",
			domain.FormatUnits(proposal.TreasuryAmount, decimals), proposal.TreasuryRecipient.Hex()))
		if err != nil {
			return nil, err
		}
		if !ok {
			return &ExecuteProposalResult{Proposal: proposal, Cancelled: true}, nil
		}
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "transferring",
		Message: fmt.Sprintf("Executing proposal #%d", proposal.ID),
		Spinner: true,
	})

	executed, err := uc.gov.Execute(ctx, proposal.ID)
	if err != nil {
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: "failed", Message: err.Error()})
		return nil, err
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "complete", Message: "Disbursement sent"})
	return &ExecuteProposalResult{Proposal: executed}, nil
}
