package usecase

import (
	"context"
	"fmt"
	"math/big"

	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/cooperadora-escolar/coop/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
)

// ShowMemberResult describes one address as seen by the association
type ShowMemberResult struct {
	Address  common.Address
	IsMember bool
	Member   models.Member
	// Balance is the current voting weight; nil if the token could not be read
	Balance  *big.Int
	Proposed int
	Decimals uint8
	Symbol   string
}

// ShowMember shows membership and voting weight of an address
type ShowMember struct {
	gov   Governance
	token TokenManager
}

// NewShowMember creates a new ShowMember use case
func NewShowMember(gov Governance, token TokenManager) *ShowMember {
	return &ShowMember{gov: gov, token: token}
}

// Run executes the show member use case
func (uc *ShowMember) Run(ctx context.Context, address string) (*ShowMemberResult, error) {
	addr, err := parseAddress(address)
	if err != nil {
		return nil, err
	}

	genesis := uc.gov.Genesis()
	member, ok := uc.gov.Member(addr)
	result := &ShowMemberResult{
		Address:  addr,
		IsMember: ok,
		Member:   member,
		Proposed: len(uc.gov.ListProposals(domain.ProposalFilter{Proposer: &addr})),
		Decimals: genesis.Token.Decimals,
		Symbol:   genesis.Token.Symbol,
	}

	balance, err := uc.token.BalanceOf(ctx, addr)
	if err != nil {
		return result, fmt.Errorf("%w: %w", domain.ErrTokenUnavailable, err)
	}
	result.Balance = balance
	return result, nil
}
