package render

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/cooperadora-escolar/coop/internal/domain/config"
	"github.com/cooperadora-escolar/coop/internal/domain/models"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// writeStructured encodes v as JSON or YAML
func writeStructured(out io.Writer, format config.OutputFormat, v any) error {
	switch format {
	case config.OutputJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case config.OutputYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func isStructured(format config.OutputFormat) bool {
	return format == config.OutputJSON || format == config.OutputYAML
}

// amountView carries both the exact base-unit value and its token rendering
type amountView struct {
	Raw       string `json:"raw" yaml:"raw"`
	Formatted string `json:"formatted" yaml:"formatted"`
}

func newAmountView(v *big.Int, decimals uint8) amountView {
	if v == nil {
		v = new(big.Int)
	}
	return amountView{Raw: v.String(), Formatted: domain.FormatUnits(v, decimals)}
}

type tallyView struct {
	For     amountView `json:"for" yaml:"for"`
	Against amountView `json:"against" yaml:"against"`
	Abstain amountView `json:"abstain" yaml:"abstain"`
	Voters  int        `json:"voters" yaml:"voters"`
}

type proposalView struct {
	ID                uint64                `json:"id" yaml:"id"`
	Proposer          string                `json:"proposer" yaml:"proposer"`
	Description       string                `json:"description" yaml:"description"`
	Status            models.ProposalStatus `json:"status" yaml:"status"`
	CreatedAt         time.Time             `json:"createdAt" yaml:"createdAt"`
	VotingDeadline    time.Time             `json:"votingDeadline" yaml:"votingDeadline"`
	QuorumBasisPoints uint64                `json:"requiredQuorumBasisPoints" yaml:"requiredQuorumBasisPoints"`
	MemberCount       uint64                `json:"memberCountAtCreation" yaml:"memberCountAtCreation"`
	QuorumThreshold   amountView            `json:"quorumThreshold" yaml:"quorumThreshold"`
	Amount            amountView            `json:"treasuryAmount" yaml:"treasuryAmount"`
	Recipient         string                `json:"treasuryRecipient" yaml:"treasuryRecipient"`
	Tally             tallyView             `json:"tally" yaml:"tally"`
	FinalizedAt       *time.Time            `json:"finalizedAt,omitempty" yaml:"finalizedAt,omitempty"`
	ExecutedAt        *time.Time            `json:"executedAt,omitempty" yaml:"executedAt,omitempty"`
}

func newProposalView(p *models.Proposal, decimals uint8) proposalView {
	return proposalView{
		ID:                p.ID,
		Proposer:          p.Proposer.Hex(),
		Description:       p.Description,
		Status:            p.Status,
		CreatedAt:         p.CreatedAt,
		VotingDeadline:    p.VotingDeadline,
		QuorumBasisPoints: p.RequiredQuorumBasisPoints,
		MemberCount:       p.MemberCountAtCreation,
		QuorumThreshold:   newAmountView(p.QuorumThreshold, decimals),
		Amount:            newAmountView(p.TreasuryAmount, decimals),
		Recipient:         p.TreasuryRecipient.Hex(),
		Tally: tallyView{
			For:     newAmountView(p.Tally.For, decimals),
			Against: newAmountView(p.Tally.Against, decimals),
			Abstain: newAmountView(p.Tally.Abstain, decimals),
			Voters:  p.Tally.Voters,
		},
		FinalizedAt: p.FinalizedAt,
		ExecutedAt:  p.ExecutedAt,
	}
}

func newProposalViews(proposals []*models.Proposal, decimals uint8) []proposalView {
	return lo.Map(proposals, func(p *models.Proposal, _ int) proposalView {
		return newProposalView(p, decimals)
	})
}

type voteView struct {
	ProposalID uint64        `json:"proposalId" yaml:"proposalId"`
	Voter      string        `json:"voter" yaml:"voter"`
	Choice     models.Choice `json:"choice" yaml:"choice"`
	Weight     amountView    `json:"weight" yaml:"weight"`
	CastAt     time.Time     `json:"castAt" yaml:"castAt"`
}

func newVoteView(v *models.Vote, decimals uint8) voteView {
	return voteView{
		ProposalID: v.ProposalID,
		Voter:      v.Voter.Hex(),
		Choice:     v.Choice,
		Weight:     newAmountView(v.Weight, decimals),
		CastAt:     v.CastAt,
	}
}

type memberView struct {
	Address  string    `json:"address" yaml:"address"`
	JoinedAt time.Time `json:"joinedAt" yaml:"joinedAt"`
}

func newMemberViews(members []models.Member) []memberView {
	return lo.Map(members, func(m models.Member, _ int) memberView {
		return memberView{Address: m.Address.Hex(), JoinedAt: m.JoinedAt}
	})
}
