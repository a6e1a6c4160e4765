package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/cooperadora-escolar/coop/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
)

// RegisterMemberParams contains parameters for registering a member
type RegisterMemberParams struct {
	Caller  common.Address
	Address string
}

// RegisterMemberResult contains the result of registering a member
type RegisterMemberResult struct {
	Member      models.Member
	Registered  int
	MemberCount uint64
}

// RegisterMember adds a parent to the association. Only the administrator may do so.
type RegisterMember struct {
	gov      Governance
	progress ProgressSink
}

// NewRegisterMember creates a new RegisterMember use case
func NewRegisterMember(gov Governance, progress ProgressSink) *RegisterMember {
	return &RegisterMember{gov: gov, progress: progress}
}

// Run executes the register member use case
func (uc *RegisterMember) Run(ctx context.Context, params RegisterMemberParams) (*RegisterMemberResult, error) {
	addr, err := parseAddress(params.Address)
	if err != nil {
		return nil, err
	}

	member, err := uc.gov.RegisterMember(ctx, params.Caller, addr)
	if err != nil {
		return nil, err
	}

	return &RegisterMemberResult{
		Member:      member,
		Registered:  len(uc.gov.ListMembers()),
		MemberCount: uc.gov.MemberCount(),
	}, nil
}

func parseAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %q", domain.ErrInvalidAddress, s)
	}
	return common.HexToAddress(s), nil
}
