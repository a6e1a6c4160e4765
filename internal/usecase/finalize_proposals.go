package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/cooperadora-escolar/coop/internal/domain/models"
)

// FinalizeProposalsParams contains parameters for finalizing proposals
type FinalizeProposalsParams struct {
	// IDs to finalize; empty means every proposal whose deadline has passed
	IDs []uint64
}

// FinalizeProposalsResult contains the outcome per proposal
type FinalizeProposalsResult struct {
	Finalized []*models.Proposal
	Failed    map[uint64]error
}

// FinalizeProposals records the outcome of proposals whose voting closed
type FinalizeProposals struct {
	gov      Governance
	progress ProgressSink
}

// NewFinalizeProposals creates a new FinalizeProposals use case
func NewFinalizeProposals(gov Governance, progress ProgressSink) *FinalizeProposals {
	return &FinalizeProposals{gov: gov, progress: progress}
}

// Run executes the finalize proposals use case
func (uc *FinalizeProposals) Run(ctx context.Context, params FinalizeProposalsParams) (*FinalizeProposalsResult, error) {
	ids := append([]uint64(nil), params.IDs...)
	if len(ids) == 0 {
		ids = uc.gov.PendingFinalization()
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	result := &FinalizeProposalsResult{Failed: make(map[uint64]error)}
	for i, id := range ids {
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   "finalizing",
			Current: i + 1,
			Total:   len(ids),
			Message: fmt.Sprintf("Finalizing proposal #%d", id),
			Spinner: true,
		})
		p, err := uc.gov.Finalize(ctx, id)
		if err != nil {
			result.Failed[id] = err
			continue
		}
		result.Finalized = append(result.Finalized, p)
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "complete"})
	return result, nil
}
