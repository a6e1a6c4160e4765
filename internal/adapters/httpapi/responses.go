package httpapi

import (
	"math/big"
	"time"

	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/cooperadora-escolar/coop/internal/domain/config"
	"github.com/cooperadora-escolar/coop/internal/domain/models"
	"github.com/samber/lo"
)

// Amounts are sent as decimal strings; uint256 values do not survive a
// JavaScript number.

type amount struct {
	Raw       string `json:"raw"`
	Formatted string `json:"formatted"`
}

func newAmount(v *big.Int, decimals uint8) amount {
	if v == nil {
		v = new(big.Int)
	}
	return amount{Raw: v.String(), Formatted: domain.FormatUnits(v, decimals)}
}

type tallyResponse struct {
	For     amount `json:"for"`
	Against amount `json:"against"`
	Abstain amount `json:"abstain"`
	Voters  int    `json:"voters"`
}

type proposalResponse struct {
	ID                        uint64                `json:"id"`
	Proposer                  string                `json:"proposer"`
	Description               string                `json:"description"`
	Status                    models.ProposalStatus `json:"status"`
	CreatedAt                 time.Time             `json:"createdAt"`
	VotingDeadline            time.Time             `json:"votingDeadline"`
	RequiredQuorumBasisPoints uint64                `json:"requiredQuorumBasisPoints"`
	MemberCountAtCreation     uint64                `json:"memberCountAtCreation"`
	QuorumThreshold           amount                `json:"quorumThreshold"`
	TreasuryAmount            amount                `json:"treasuryAmount"`
	TreasuryRecipient         string                `json:"treasuryRecipient"`
	Tally                     tallyResponse         `json:"tally"`
	FinalizedAt               *time.Time            `json:"finalizedAt,omitempty"`
	ExecutedAt                *time.Time            `json:"executedAt,omitempty"`
}

func toProposalResponse(p *models.Proposal, decimals uint8) proposalResponse {
	return proposalResponse{
		ID:                        p.ID,
		Proposer:                  p.Proposer.Hex(),
		Description:               p.Description,
		Status:                    p.Status,
		CreatedAt:                 p.CreatedAt,
		VotingDeadline:            p.VotingDeadline,
		RequiredQuorumBasisPoints: p.RequiredQuorumBasisPoints,
		MemberCountAtCreation:     p.MemberCountAtCreation,
		QuorumThreshold:           newAmount(p.QuorumThreshold, decimals),
		TreasuryAmount:            newAmount(p.TreasuryAmount, decimals),
		TreasuryRecipient:         p.TreasuryRecipient.Hex(),
		Tally: tallyResponse{
			For:     newAmount(p.Tally.For, decimals),
			Against: newAmount(p.Tally.Against, decimals),
			Abstain: newAmount(p.Tally.Abstain, decimals),
			Voters:  p.Tally.Voters,
		},
		FinalizedAt: p.FinalizedAt,
		ExecutedAt:  p.ExecutedAt,
	}
}

type voteResponse struct {
	Voter  string        `json:"voter"`
	Choice models.Choice `json:"choice"`
	Weight amount        `json:"weight"`
	CastAt time.Time     `json:"castAt"`
}

func toVoteResponses(votes []*models.Vote, decimals uint8) []voteResponse {
	return lo.Map(votes, func(v *models.Vote, _ int) voteResponse {
		return voteResponse{
			Voter:  v.Voter.Hex(),
			Choice: v.Choice,
			Weight: newAmount(v.Weight, decimals),
			CastAt: v.CastAt,
		}
	})
}

type memberResponse struct {
	Address  string    `json:"address"`
	JoinedAt time.Time `json:"joinedAt"`
}

func toMemberResponse(m models.Member) memberResponse {
	return memberResponse{Address: m.Address.Hex(), JoinedAt: m.JoinedAt}
}

type associationResponse struct {
	SchoolName        string `json:"schoolName"`
	Admin             string `json:"admin"`
	Treasury          string `json:"treasury"`
	ExpectedMembers   uint64 `json:"expectedMembers"`
	Members           int    `json:"members"`
	MemberCount       uint64 `json:"memberCount"`
	QuorumBasisPoints uint64 `json:"quorumBasisPoints"`
	VotingPeriod      string `json:"defaultVotingPeriod"`
	TokenSymbol       string `json:"tokenSymbol"`
	TokenDecimals     uint8  `json:"tokenDecimals"`
}

func toAssociationResponse(g config.Genesis, members int, memberCount uint64) associationResponse {
	return associationResponse{
		SchoolName:        g.SchoolName,
		Admin:             g.Admin.Hex(),
		Treasury:          g.Treasury.Hex(),
		ExpectedMembers:   g.ExpectedMembers,
		Members:           members,
		MemberCount:       memberCount,
		QuorumBasisPoints: g.QuorumBasisPoints,
		VotingPeriod:      g.DefaultVotingPeriod.String(),
		TokenSymbol:       g.Token.Symbol,
		TokenDecimals:     g.Token.Decimals,
	}
}
