package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/cooperadora-escolar/coop/internal/domain/models"
	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
)

// ListProposalsParams contains parameters for listing proposals
type ListProposalsParams struct {
	Status   string
	Proposer string
	// Search fuzzy-matches descriptions; results are ordered by match quality
	Search string
}

// ProposalSummary counts proposals per status
type ProposalSummary struct {
	Total    int
	ByStatus map[models.ProposalStatus]int
}

// ListProposalsResult contains the result of listing proposals
type ListProposalsResult struct {
	Proposals []*models.Proposal
	Summary   ProposalSummary
	Decimals  uint8
}

// ListProposals lists proposals with their current status
type ListProposals struct {
	gov      Governance
	progress ProgressSink
}

// NewListProposals creates a new ListProposals use case
func NewListProposals(gov Governance, progress ProgressSink) *ListProposals {
	return &ListProposals{gov: gov, progress: progress}
}

var knownStatuses = []models.ProposalStatus{
	models.ProposalStatusActive,
	models.ProposalStatusApproved,
	models.ProposalStatusRejected,
	models.ProposalStatusExecuted,
	models.ProposalStatusExpired,
}

// Run executes the list proposals use case
func (uc *ListProposals) Run(ctx context.Context, params ListProposalsParams) (*ListProposalsResult, error) {
	var filter domain.ProposalFilter

	if params.Status != "" {
		filter.Status = models.ProposalStatus(strings.ToLower(params.Status))
		if !lo.Contains(knownStatuses, filter.Status) {
			return nil, fmt.Errorf("unknown status %q, expected one of %s", params.Status,
				strings.Join(lo.Map(knownStatuses, func(s models.ProposalStatus, _ int) string { return string(s) }), ", "))
		}
	}
	if params.Proposer != "" {
		addr, err := parseAddress(params.Proposer)
		if err != nil {
			return nil, err
		}
		filter.Proposer = &addr
	}

	proposals := uc.gov.ListProposals(filter)
	if params.Search != "" {
		proposals = searchProposals(proposals, params.Search)
	}

	summary := ProposalSummary{
		Total:    len(proposals),
		ByStatus: lo.CountValuesBy(proposals, func(p *models.Proposal) models.ProposalStatus { return p.Status }),
	}

	return &ListProposalsResult{
		Proposals: proposals,
		Summary:   summary,
		Decimals:  uc.gov.Genesis().Token.Decimals,
	}, nil
}

func searchProposals(proposals []*models.Proposal, pattern string) []*models.Proposal {
	descriptions := lo.Map(proposals, func(p *models.Proposal, _ int) string {
		return strings.ToLower(p.Description)
	})
	matches := fuzzy.Find(strings.ToLower(pattern), descriptions)
	return lo.Map(matches, func(m fuzzy.Match, _ int) *models.Proposal {
		return proposals[m.Index]
	})
}
