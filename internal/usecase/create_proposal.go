package usecase

import (
	"context"
	"math/big"
	"strings"
	"time"

	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/cooperadora-escolar/coop/internal/domain/models"
	"github.com/cooperadora-escolar/coop/internal/governance"
	"github.com/ethereum/go-ethereum/common"
)

// CreateProposalParams contains parameters for raising a proposal
type CreateProposalParams struct {
	Proposer    common.Address
	Description string
	// Amount is in whole tokens ("12.5") unless BaseUnits is set
	Amount    string
	BaseUnits bool
	Recipient string
	// Duration of the voting window; zero means the association default
	Duration time.Duration
}

// CreateProposal raises a treasury disbursement proposal
type CreateProposal struct {
	gov      Governance
	progress ProgressSink
}

// NewCreateProposal creates a new CreateProposal use case
func NewCreateProposal(gov Governance, progress ProgressSink) *CreateProposal {
	return &CreateProposal{gov: gov, progress: progress}
}

// Run executes the create proposal use case
func (uc *CreateProposal) Run(ctx context.Context, params CreateProposalParams) (*models.Proposal, error) {
	genesis := uc.gov.Genesis()

	var err error
	amount := new(big.Int)
	if strings.TrimSpace(params.Amount) != "" {
		if params.BaseUnits {
			amount, err = domain.ParseBaseUnits(params.Amount)
		} else {
			amount, err = domain.ParseUnits(params.Amount, genesis.Token.Decimals)
		}
		if err != nil {
			return nil, err
		}
	}

	recipient, err := parseAddress(params.Recipient)
	if err != nil {
		return nil, err
	}

	duration := params.Duration
	if duration == 0 {
		duration = genesis.DefaultVotingPeriod
	}

	id, err := uc.gov.Propose(ctx, governance.ProposeParams{
		Proposer:    params.Proposer,
		Description: params.Description,
		Amount:      amount,
		Recipient:   recipient,
		Duration:    duration,
	})
	if err != nil {
		return nil, err
	}

	return uc.gov.GetProposal(id)
}
