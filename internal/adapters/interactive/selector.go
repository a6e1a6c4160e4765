package interactive

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/cooperadora-escolar/coop/internal/domain/config"
	"github.com/cooperadora-escolar/coop/internal/domain/models"
	"github.com/cooperadora-escolar/coop/internal/usecase"
	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
)

// SelectorAdapter handles interactive selection
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// SelectProposal lets the user pick one of proposals
func (s *SelectorAdapter) SelectProposal(ctx context.Context, proposals []*models.Proposal, prompt string) (*models.Proposal, error) {
	if len(proposals) == 0 {
		return nil, fmt.Errorf("no proposals provided for selection")
	}

	if len(proposals) == 1 {
		return proposals[0], nil
	}

	if s.config.NonInteractive {
		return nil, fmt.Errorf("%d proposals match, pass a proposal id in non-interactive mode", len(proposals))
	}

	var decimals uint8
	if s.config.Genesis != nil {
		decimals = s.config.Genesis.Token.Decimals
	}
	options := formatProposalOptions(proposals, decimals)

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:             prompt,
		Items:             options,
		Templates:         templates,
		Size:              10,
		StartInSearchMode: true,
		Searcher:          createFuzzySearchFunc(options),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}

	return proposals[index], nil
}

// Confirm asks a yes/no question. Non-interactive runs confirm automatically.
func (s *SelectorAdapter) Confirm(ctx context.Context, prompt string) (bool, error) {
	if s.config.NonInteractive {
		return true, nil
	}

	confirm := promptui.Prompt{
		Label:     prompt,
		IsConfirm: true,
	}
	if _, err := confirm.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, fmt.Errorf("confirmation cancelled: %w", err)
	}
	return true, nil
}

// formatProposalOptions renders "#id description (amount → recipient)"
func formatProposalOptions(proposals []*models.Proposal, decimals uint8) []string {
	options := make([]string, len(proposals))
	for i, p := range proposals {
		id := color.New(color.FgWhite, color.Bold).Sprintf("#%d", p.ID)
		desc := p.Description
		if len(desc) > 50 {
			desc = desc[:47] + "..."
		}
		amount := color.New(color.FgYellow).Sprint(domain.FormatUnits(p.TreasuryAmount, decimals))
		to := color.New(color.FgBlue).Sprint(shortAddress(p.TreasuryRecipient.Hex()))
		options[i] = fmt.Sprintf("%s %s (%s → %s)", id, desc, amount, to)
	}
	return options
}

func shortAddress(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(items[index])

		if strings.Contains(item, input) {
			return true
		}

		pattern := fuzzy.Find(input, []string{item})
		return len(pattern) > 0
	}
}

var _ usecase.ProposalSelector = (*SelectorAdapter)(nil)
