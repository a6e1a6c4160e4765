package usecase

import (
	"context"
	"math/big"

	"github.com/cooperadora-escolar/coop/internal/domain/models"
)

// ShowProposalResult contains a proposal with its ballots
type ShowProposalResult struct {
	Proposal *models.Proposal
	Votes    []*models.Vote
	// QuorumReached reports whether For already meets the frozen threshold
	QuorumReached bool
	// Missing is how much more For weight quorum needs; zero once reached
	Missing  *big.Int
	Decimals uint8
}

// ShowProposal loads one proposal and its votes
type ShowProposal struct {
	gov Governance
}

// NewShowProposal creates a new ShowProposal use case
func NewShowProposal(gov Governance) *ShowProposal {
	return &ShowProposal{gov: gov}
}

// Run executes the show proposal use case
func (uc *ShowProposal) Run(ctx context.Context, id uint64) (*ShowProposalResult, error) {
	p, err := uc.gov.GetProposal(id)
	if err != nil {
		return nil, err
	}
	votes, err := uc.gov.Votes(id)
	if err != nil {
		return nil, err
	}

	missing := new(big.Int).Sub(p.QuorumThreshold, p.Tally.For)
	if missing.Sign() < 0 {
		missing.SetInt64(0)
	}

	return &ShowProposalResult{
		Proposal:      p,
		Votes:         votes,
		QuorumReached: p.Tally.For.Cmp(p.QuorumThreshold) >= 0,
		Missing:       missing,
		Decimals:      uc.gov.Genesis().Token.Decimals,
	}, nil
}
