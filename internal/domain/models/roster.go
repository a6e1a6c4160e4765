package models

// Roster is the parent list kept by the school secretary, imported with
// `coop member import`.
type Roster struct {
	School  string        `yaml:"school"`
	Parents []RosterEntry `yaml:"parents"`
}

// RosterEntry is one parent of the roster. Name and Grade are informational.
type RosterEntry struct {
	Name    string `json:"name" yaml:"name"`
	Grade   string `json:"grade,omitempty" yaml:"grade,omitempty"`
	Address string `json:"address" yaml:"address"`
}
