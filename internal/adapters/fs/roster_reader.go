package fs

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/cooperadora-escolar/coop/internal/domain/models"
	"github.com/cooperadora-escolar/coop/internal/usecase"
	"gopkg.in/yaml.v3"
)

// RosterReaderAdapter reads parent rosters from YAML files
type RosterReaderAdapter struct{}

// NewRosterReaderAdapter creates a new RosterReaderAdapter
func NewRosterReaderAdapter() *RosterReaderAdapter {
	return &RosterReaderAdapter{}
}

// ReadRoster parses the roster at path. Unknown fields are rejected.
func (r *RosterReaderAdapter) ReadRoster(_ context.Context, path string) (*models.Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var roster models.Roster
	if err := dec.Decode(&roster); err != nil {
		return nil, fmt.Errorf("failed to parse roster %s: %w", path, err)
	}
	if len(roster.Parents) == 0 {
		return nil, fmt.Errorf("roster %s lists no parents", path)
	}
	return &roster, nil
}

var _ usecase.RosterReader = (*RosterReaderAdapter)(nil)
