package render

import (
	"fmt"
	"io"
	"math/big"
	"slices"
	"strings"
	"time"

	"github.com/cooperadora-escolar/coop/internal/domain/config"
	"github.com/cooperadora-escolar/coop/internal/domain/models"
	"github.com/cooperadora-escolar/coop/internal/usecase"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
)

// ProposalsRenderer renders proposals, ballots and their outcomes
type ProposalsRenderer struct {
	out    io.Writer
	format config.OutputFormat
	symbol string
	now    func() time.Time
}

// NewProposalsRenderer creates a new proposals renderer
func NewProposalsRenderer(out io.Writer, format config.OutputFormat, symbol string) *ProposalsRenderer {
	return &ProposalsRenderer{
		out:    out,
		format: format,
		symbol: symbol,
		now:    time.Now,
	}
}

// RenderList renders the proposal table with a status summary
func (r *ProposalsRenderer) RenderList(result *usecase.ListProposalsResult) error {
	if isStructured(r.format) {
		return writeStructured(r.out, r.format, struct {
			Proposals []proposalView                `json:"proposals" yaml:"proposals"`
			Total     int                           `json:"total" yaml:"total"`
			ByStatus  map[models.ProposalStatus]int `json:"byStatus" yaml:"byStatus"`
		}{
			Proposals: newProposalViews(result.Proposals, result.Decimals),
			Total:     result.Summary.Total,
			ByStatus:  result.Summary.ByStatus,
		})
	}

	if len(result.Proposals) == 0 {
		fmt.Fprintln(r.out, "No proposals found")
		return nil
	}

	now := r.now()
	t := newTable(r.out)
	t.AppendHeader(table.Row{"ID", "Status", "Description", "Amount", "Recipient", "For", "Quorum", "Deadline"})
	for _, p := range result.Proposals {
		deadline := formatDeadline(p.VotingDeadline, now)
		if p.Status.IsClosed() {
			deadline = timestampStyle.Sprint(p.VotingDeadline.Local().Format("2006-01-02 15:04"))
		}
		t.AppendRow(table.Row{
			p.ID,
			statusLabel(p.Status),
			text.Trim(p.Description, 40),
			amountStyle.Sprint(formatTokens(p.TreasuryAmount, result.Decimals, r.symbol)),
			addressStyle.Sprint(shortAddress(p.TreasuryRecipient)),
			formatTokens(p.Tally.For, result.Decimals, ""),
			formatTokens(p.QuorumThreshold, result.Decimals, ""),
			deadline,
		})
	}
	t.Render()

	fmt.Fprintln(r.out)
	parts := lo.FilterMap(knownStatusOrder, func(s models.ProposalStatus, _ int) (string, bool) {
		n := result.Summary.ByStatus[s]
		return fmt.Sprintf("%d %s", n, s), n > 0
	})
	fmt.Fprintf(r.out, "Total: %d proposals", result.Summary.Total)
	if len(parts) > 0 {
		fmt.Fprintf(r.out, " (%s)", strings.Join(parts, ", "))
	}
	fmt.Fprintln(r.out)
	return nil
}

var knownStatusOrder = []models.ProposalStatus{
	models.ProposalStatusActive,
	models.ProposalStatusApproved,
	models.ProposalStatusExecuted,
	models.ProposalStatusRejected,
	models.ProposalStatusExpired,
}

// RenderProposal renders one proposal with its ballots
func (r *ProposalsRenderer) RenderProposal(result *usecase.ShowProposalResult) error {
	p, decimals := result.Proposal, result.Decimals
	if isStructured(r.format) {
		return writeStructured(r.out, r.format, struct {
			Proposal      proposalView `json:"proposal" yaml:"proposal"`
			Votes         []voteView   `json:"votes" yaml:"votes"`
			QuorumReached bool         `json:"quorumReached" yaml:"quorumReached"`
			Missing       amountView   `json:"missing" yaml:"missing"`
		}{
			Proposal: newProposalView(p, decimals),
			Votes: lo.Map(result.Votes, func(v *models.Vote, _ int) voteView {
				return newVoteView(v, decimals)
			}),
			QuorumReached: result.QuorumReached,
			Missing:       newAmountView(result.Missing, decimals),
		})
	}

	headerStyle.Fprintf(r.out, "Proposal #%d", p.ID)
	fmt.Fprintf(r.out, "  %s\n", statusLabel(p.Status))
	fmt.Fprintf(r.out, "%s\n\n", p.Description)

	r.field("Proposer", p.Proposer.Hex())
	r.field("Amount", amountStyle.Sprint(formatTokens(p.TreasuryAmount, decimals, r.symbol)))
	r.field("Recipient", p.TreasuryRecipient.Hex())
	r.field("Created", p.CreatedAt.Local().Format(time.RFC1123))
	deadline := p.VotingDeadline.Local().Format(time.RFC1123)
	if !p.Status.IsClosed() {
		deadline += " (" + formatDeadline(p.VotingDeadline, r.now()) + ")"
	}
	r.field("Deadline", deadline)
	if p.ExecutedAt != nil {
		r.field("Executed", p.ExecutedAt.Local().Format(time.RFC1123))
	} else if p.FinalizedAt != nil {
		r.field("Finalized", p.FinalizedAt.Local().Format(time.RFC1123))
	}

	fmt.Fprintln(r.out)
	headerStyle.Fprintln(r.out, "Quorum")
	r.field("Required", fmt.Sprintf("%s (%d bp of %d members)",
		formatTokens(p.QuorumThreshold, decimals, r.symbol), p.RequiredQuorumBasisPoints, p.MemberCountAtCreation))
	if result.QuorumReached {
		r.field("Status", successStyle.Sprint("reached"))
	} else {
		r.field("Status", warningStyle.Sprintf("%s more needed", formatTokens(result.Missing, decimals, r.symbol)))
	}

	fmt.Fprintln(r.out)
	headerStyle.Fprintln(r.out, "Tally")
	total := newTotal(p.Tally)
	r.field("For", fmt.Sprintf("%s  %s", formatTokens(p.Tally.For, decimals, r.symbol), percentOf(p.Tally.For, total)))
	r.field("Against", fmt.Sprintf("%s  %s", formatTokens(p.Tally.Against, decimals, r.symbol), percentOf(p.Tally.Against, total)))
	r.field("Abstain", fmt.Sprintf("%s  %s", formatTokens(p.Tally.Abstain, decimals, r.symbol), percentOf(p.Tally.Abstain, total)))
	r.field("Voters", fmt.Sprintf("%d", p.Tally.Voters))

	if len(result.Votes) == 0 {
		return nil
	}
	fmt.Fprintln(r.out)
	t := newTable(r.out)
	t.AppendHeader(table.Row{"Voter", "Choice", "Weight", "Cast"})
	for _, v := range result.Votes {
		t.AppendRow(table.Row{
			addressStyle.Sprint(v.Voter.Hex()),
			choiceLabel(v.Choice),
			formatTokens(v.Weight, decimals, ""),
			timestampStyle.Sprint(v.CastAt.Local().Format("2006-01-02 15:04")),
		})
	}
	t.Render()
	return nil
}

// RenderCreated renders a newly created proposal
func (r *ProposalsRenderer) RenderCreated(p *models.Proposal, decimals uint8) error {
	if isStructured(r.format) {
		return writeStructured(r.out, r.format, newProposalView(p, decimals))
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Created proposal #%d", p.ID)))
	r.field("Amount", amountStyle.Sprint(formatTokens(p.TreasuryAmount, decimals, r.symbol)))
	r.field("Recipient", p.TreasuryRecipient.Hex())
	r.field("Quorum", formatTokens(p.QuorumThreshold, decimals, r.symbol))
	r.field("Deadline", p.VotingDeadline.Local().Format(time.RFC1123))
	return nil
}

// RenderVote renders a cast ballot and the proposal's running tally
func (r *ProposalsRenderer) RenderVote(result *usecase.CastVoteResult, decimals uint8) error {
	if isStructured(r.format) {
		return writeStructured(r.out, r.format, struct {
			Vote     voteView     `json:"vote" yaml:"vote"`
			Proposal proposalView `json:"proposal" yaml:"proposal"`
		}{
			Vote:     newVoteView(result.Vote, decimals),
			Proposal: newProposalView(result.Proposal, decimals),
		})
	}
	v, p := result.Vote, result.Proposal
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Voted %s on proposal #%d with %s",
		v.Choice, v.ProposalID, formatTokens(v.Weight, decimals, r.symbol))))
	r.field("For", formatTokens(p.Tally.For, decimals, r.symbol)+" / "+formatTokens(p.QuorumThreshold, decimals, r.symbol))
	r.field("Against", formatTokens(p.Tally.Against, decimals, r.symbol))
	r.field("Abstain", formatTokens(p.Tally.Abstain, decimals, r.symbol))
	return nil
}

// RenderExecuted renders the result of executing a proposal
func (r *ProposalsRenderer) RenderExecuted(result *usecase.ExecuteProposalResult, decimals uint8) error {
	if result.Cancelled {
		fmt.Fprintln(r.out, FormatWarning("Execution cancelled"))
		return nil
	}
	p := result.Proposal
	if isStructured(r.format) {
		return writeStructured(r.out, r.format, newProposalView(p, decimals))
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Executed proposal #%d: transferred %s to %s",
		p.ID, formatTokens(p.TreasuryAmount, decimals, r.symbol), p.TreasuryRecipient.Hex())))
	return nil
}

// RenderFinalized renders the outcome of finalizing proposals
func (r *ProposalsRenderer) RenderFinalized(result *usecase.FinalizeProposalsResult, decimals uint8) error {
	if isStructured(r.format) {
		return writeStructured(r.out, r.format, struct {
			Finalized []proposalView    `json:"finalized" yaml:"finalized"`
			Failed    map[uint64]string `json:"failed,omitempty" yaml:"failed,omitempty"`
		}{
			Finalized: newProposalViews(result.Finalized, decimals),
			Failed:    lo.MapValues(result.Failed, func(err error, _ uint64) string { return err.Error() }),
		})
	}

	if len(result.Finalized) == 0 && len(result.Failed) == 0 {
		fmt.Fprintln(r.out, "No proposals awaiting finalization")
		return nil
	}
	for _, p := range result.Finalized {
		fmt.Fprintf(r.out, "#%d  %s\n", p.ID, statusLabel(p.Status))
	}
	failed := lo.Keys(result.Failed)
	slices.Sort(failed)
	for _, id := range failed {
		fmt.Fprintf(r.out, "#%d  %s\n", id, FormatError(result.Failed[id].Error()))
	}
	return nil
}

func (r *ProposalsRenderer) field(label, value string) {
	fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprintf("%-10s", label+":"), value)
}

func newTotal(t models.Tally) *big.Int {
	total := new(big.Int).Add(t.For, t.Against)
	return total.Add(total, t.Abstain)
}

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Options.SeparateRows = false
	t.Style().Box = table.BoxStyle{
		MiddleHorizontal: "─",
		PaddingRight:     "   ",
	}
	t.Style().Format.Header = text.FormatUpper
	return t
}
