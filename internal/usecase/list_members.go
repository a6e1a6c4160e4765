package usecase

import (
	"context"
	"math/big"

	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/cooperadora-escolar/coop/internal/domain/models"
)

// ListMembersResult contains the member roll and the quorum it implies
type ListMembersResult struct {
	Members         []models.Member
	Expected        uint64
	MemberCount     uint64
	QuorumBP        uint64
	QuorumThreshold *big.Int
	Decimals        uint8
}

// ListMembers lists registered members
type ListMembers struct {
	gov Governance
}

// NewListMembers creates a new ListMembers use case
func NewListMembers(gov Governance) *ListMembers {
	return &ListMembers{gov: gov}
}

// Run executes the list members use case
func (uc *ListMembers) Run(ctx context.Context) (*ListMembersResult, error) {
	genesis := uc.gov.Genesis()
	count := uc.gov.MemberCount()
	return &ListMembersResult{
		Members:         uc.gov.ListMembers(),
		Expected:        genesis.ExpectedMembers,
		MemberCount:     count,
		QuorumBP:        genesis.QuorumBasisPoints,
		QuorumThreshold: domain.QuorumThreshold(count, genesis.QuorumBasisPoints),
		Decimals:        genesis.Token.Decimals,
	}, nil
}
