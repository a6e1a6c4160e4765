package render

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/cooperadora-escolar/coop/internal/domain/config"
	"github.com/cooperadora-escolar/coop/internal/domain/models"
	"github.com/cooperadora-escolar/coop/internal/usecase"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
)

// MembersRenderer renders the member roll and roster imports
type MembersRenderer struct {
	out    io.Writer
	format config.OutputFormat
}

// NewMembersRenderer creates a new members renderer
func NewMembersRenderer(out io.Writer, format config.OutputFormat) *MembersRenderer {
	return &MembersRenderer{out: out, format: format}
}

// RenderList renders registered members and the quorum they imply
func (r *MembersRenderer) RenderList(result *usecase.ListMembersResult) error {
	if isStructured(r.format) {
		return writeStructured(r.out, r.format, struct {
			Members         []memberView `json:"members" yaml:"members"`
			Registered      int          `json:"registered" yaml:"registered"`
			Expected        uint64       `json:"expected" yaml:"expected"`
			MemberCount     uint64       `json:"memberCount" yaml:"memberCount"`
			QuorumBP        uint64       `json:"quorumBasisPoints" yaml:"quorumBasisPoints"`
			QuorumThreshold amountView   `json:"quorumThreshold" yaml:"quorumThreshold"`
		}{
			Members:         newMemberViews(result.Members),
			Registered:      len(result.Members),
			Expected:        result.Expected,
			MemberCount:     result.MemberCount,
			QuorumBP:        result.QuorumBP,
			QuorumThreshold: newAmountView(result.QuorumThreshold, result.Decimals),
		})
	}

	if len(result.Members) == 0 {
		fmt.Fprintln(r.out, "No members registered")
	} else {
		t := newTable(r.out)
		t.AppendHeader(table.Row{"#", "Address", "Joined"})
		for i, m := range result.Members {
			t.AppendRow(table.Row{
				i + 1,
				addressStyle.Sprint(m.Address.Hex()),
				timestampStyle.Sprint(m.JoinedAt.Local().Format("2006-01-02 15:04")),
			})
		}
		t.Render()
	}

	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "Registered: %d of %d expected\n", len(result.Members), result.Expected)
	fmt.Fprintf(r.out, "Quorum:     %s (%d bp of %d members)\n",
		formatTokens(result.QuorumThreshold, result.Decimals, ""), result.QuorumBP, result.MemberCount)
	return nil
}

// RenderMember renders one address's membership and voting weight
func (r *MembersRenderer) RenderMember(result *usecase.ShowMemberResult) error {
	if isStructured(r.format) {
		view := struct {
			Address  string      `json:"address" yaml:"address"`
			IsMember bool        `json:"isMember" yaml:"isMember"`
			JoinedAt *time.Time  `json:"joinedAt,omitempty" yaml:"joinedAt,omitempty"`
			Balance  *amountView `json:"balance,omitempty" yaml:"balance,omitempty"`
			Proposed int         `json:"proposed" yaml:"proposed"`
		}{
			Address:  result.Address.Hex(),
			IsMember: result.IsMember,
			Proposed: result.Proposed,
		}
		if result.IsMember {
			view.JoinedAt = &result.Member.JoinedAt
		}
		if result.Balance != nil {
			balance := newAmountView(result.Balance, result.Decimals)
			view.Balance = &balance
		}
		return writeStructured(r.out, r.format, view)
	}

	headerStyle.Fprintln(r.out, result.Address.Hex())
	if result.IsMember {
		fmt.Fprintf(r.out, "  %s %s (joined %s)\n", labelStyle.Sprintf("%-10s", "Member:"),
			successStyle.Sprint("yes"), result.Member.JoinedAt.Local().Format(time.RFC1123))
	} else {
		fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprintf("%-10s", "Member:"), warningStyle.Sprint("no"))
	}
	if result.Balance != nil {
		fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprintf("%-10s", "Weight:"),
			amountStyle.Sprint(formatTokens(result.Balance, result.Decimals, result.Symbol)))
	} else {
		fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprintf("%-10s", "Weight:"), warningStyle.Sprint("unavailable"))
	}
	fmt.Fprintf(r.out, "  %s %d\n", labelStyle.Sprintf("%-10s", "Proposed:"), result.Proposed)
	return nil
}

// RenderRegistered renders a newly registered member
func (r *MembersRenderer) RenderRegistered(result *usecase.RegisterMemberResult) error {
	if isStructured(r.format) {
		return writeStructured(r.out, r.format, struct {
			Member      memberView `json:"member" yaml:"member"`
			Registered  int        `json:"registered" yaml:"registered"`
			MemberCount uint64     `json:"memberCount" yaml:"memberCount"`
		}{
			Member:      newMemberViews([]models.Member{result.Member})[0],
			Registered:  result.Registered,
			MemberCount: result.MemberCount,
		})
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Registered %s", result.Member.Address.Hex())))
	fmt.Fprintf(r.out, "Members: %d registered, quorum base %d\n", result.Registered, result.MemberCount)
	return nil
}

// RenderImportPlan renders what a roster import would do
func (r *MembersRenderer) RenderImportPlan(plan *usecase.RosterPlan) {
	if plan.School != "" {
		headerStyle.Fprintf(r.out, "Roster for %s\n", plan.School)
	}
	fmt.Fprintf(r.out, "%d to register, %d already members, %d invalid\n",
		len(plan.Pending), len(plan.Existing), len(plan.Invalid))

	if len(plan.Invalid) > 0 {
		fmt.Fprintln(r.out)
		for _, e := range plan.Invalid {
			fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%s: invalid address %q", entryName(e), e.Address)))
		}
	}
}

// RenderImport renders the outcome of a roster import
func (r *MembersRenderer) RenderImport(result *usecase.ImportRosterResult) error {
	if isStructured(r.format) {
		return writeStructured(r.out, r.format, struct {
			Registered []memberView         `json:"registered" yaml:"registered"`
			Skipped    []models.RosterEntry `json:"skipped" yaml:"skipped"`
			Failed     map[string]string    `json:"failed,omitempty" yaml:"failed,omitempty"`
		}{
			Registered: newMemberViews(result.Registered),
			Skipped:    result.Skipped,
			Failed:     lo.MapValues(result.Failed, func(err error, _ string) string { return err.Error() }),
		})
	}

	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Registered %d members", len(result.Registered))))
	if len(result.Skipped) > 0 {
		names := lo.Map(result.Skipped, func(e models.RosterEntry, _ int) string { return entryName(e) })
		fmt.Fprintf(r.out, "Skipped (already members): %s\n", strings.Join(names, ", "))
	}
	failed := lo.Keys(result.Failed)
	slices.Sort(failed)
	for _, addr := range failed {
		fmt.Fprintf(r.out, "%s  %s\n", addr, FormatError(result.Failed[addr].Error()))
	}
	return nil
}

func entryName(e models.RosterEntry) string {
	if e.Name == "" {
		return e.Address
	}
	if e.Grade != "" {
		return fmt.Sprintf("%s (%s)", e.Name, color.New(color.Faint).Sprint(e.Grade))
	}
	return e.Name
}
