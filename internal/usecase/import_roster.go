package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/cooperadora-escolar/coop/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
)

// RosterPlan splits a roster into parents that can be registered and the rest
type RosterPlan struct {
	School   string
	Pending  []models.RosterEntry
	Existing []models.RosterEntry
	Invalid  []models.RosterEntry
}

// ImportRosterParams contains parameters for importing a roster
type ImportRosterParams struct {
	Caller  common.Address
	Entries []models.RosterEntry
}

// ImportRosterResult contains the result of importing a roster
type ImportRosterResult struct {
	Registered []models.Member
	Skipped    []models.RosterEntry
	Failed     map[string]error
}

// ImportRoster registers the parents listed in a roster file
type ImportRoster struct {
	gov      Governance
	reader   RosterReader
	progress ProgressSink
}

// NewImportRoster creates a new ImportRoster use case
func NewImportRoster(gov Governance, reader RosterReader, progress ProgressSink) *ImportRoster {
	return &ImportRoster{gov: gov, reader: reader, progress: progress}
}

// Plan reads the roster and classifies every entry
func (uc *ImportRoster) Plan(ctx context.Context, path string) (*RosterPlan, error) {
	roster, err := uc.reader.ReadRoster(ctx, path)
	if err != nil {
		return nil, err
	}

	plan := &RosterPlan{School: roster.School}
	seen := make(map[common.Address]bool)
	for _, entry := range roster.Parents {
		addr, err := parseAddress(entry.Address)
		if err != nil || addr == (common.Address{}) {
			plan.Invalid = append(plan.Invalid, entry)
			continue
		}
		if _, ok := uc.gov.Member(addr); ok || seen[addr] {
			plan.Existing = append(plan.Existing, entry)
			continue
		}
		seen[addr] = true
		plan.Pending = append(plan.Pending, entry)
	}
	return plan, nil
}

// Run registers the given entries one by one. A failing entry does not stop
// the import unless the caller is not the administrator.
func (uc *ImportRoster) Run(ctx context.Context, params ImportRosterParams) (*ImportRosterResult, error) {
	result := &ImportRosterResult{Failed: make(map[string]error)}

	for i, entry := range params.Entries {
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   "registering",
			Current: i + 1,
			Total:   len(params.Entries),
			Message: fmt.Sprintf("Registering %s", entry.Name),
			Spinner: true,
		})

		addr, err := parseAddress(entry.Address)
		if err != nil {
			result.Failed[entry.Address] = err
			continue
		}

		member, err := uc.gov.RegisterMember(ctx, params.Caller, addr)
		switch {
		case err == nil:
			result.Registered = append(result.Registered, member)
		case errors.Is(err, domain.ErrAlreadyMember):
			result.Skipped = append(result.Skipped, entry)
		case errors.Is(err, domain.ErrNotAdmin):
			return result, err
		default:
			result.Failed[entry.Address] = err
		}
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "complete",
		Message: fmt.Sprintf("Registered %d members", len(result.Registered)),
	})
	return result, nil
}
