package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/cooperadora-escolar/coop/internal/domain/config"
	"github.com/ethereum/go-ethereum/common"
)

// ProjectFile is the name of the association file at the project root
const ProjectFile = "coop.toml"

// CoopFile represents the raw coop.toml structure
type CoopFile struct {
	Association AssociationSection `toml:"association"`
	Token       TokenSection       `toml:"token"`
	Store       StoreSection       `toml:"store"`
	Events      EventsSection      `toml:"events"`
	HTTP        HTTPSection        `toml:"http"`
	Sweeper     SweeperSection     `toml:"sweeper"`
}

// AssociationSection holds the genesis parameters of the association
type AssociationSection struct {
	SchoolName      string  `toml:"school_name"`
	ExpectedMembers uint64  `toml:"expected_members"`
	Admin           string  `toml:"admin"`
	Treasury        string  `toml:"treasury"`
	QuorumBP        *uint64 `toml:"quorum_bp"`
	VotingPeriod    string  `toml:"voting_period"`
}

// TokenSection describes the voting token and how to reach it
type TokenSection struct {
	Name          string `toml:"name"`
	Symbol        string `toml:"symbol"`
	Decimals      *uint8 `toml:"decimals"`
	InitialSupply string `toml:"initial_supply"` // whole tokens
	Address       string `toml:"address"`

	Backend     string `toml:"backend"`
	RPCURL      string `toml:"rpc_url"`
	ChainID     uint64 `toml:"chain_id"`
	TreasuryKey string `toml:"treasury_key"`
	TxTimeout   string `toml:"tx_timeout"`
}

type StoreSection struct {
	Backend     string `toml:"backend"`
	DatabaseURL string `toml:"database_url"`
	Migrate     *bool  `toml:"migrate"`
}

type EventsSection struct {
	Backend       string `toml:"backend"`
	URL           string `toml:"url"`
	SubjectPrefix string `toml:"subject_prefix"`
}

type HTTPSection struct {
	Addr           string   `toml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

type SweeperSection struct {
	Enabled  *bool  `toml:"enabled"`
	Schedule string `toml:"schedule"`
}

// loadCoopFile loads and parses coop.toml if it exists.
// Returns (nil, nil) when coop.toml does not exist.
func loadCoopFile(projectRoot string) (*CoopFile, error) {
	path := filepath.Join(projectRoot, ProjectFile)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	var f CoopFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ProjectFile, err)
	}

	// Expand environment variables in every string field
	a := &f.Association
	a.SchoolName = os.ExpandEnv(a.SchoolName)
	a.Admin = os.ExpandEnv(a.Admin)
	a.Treasury = os.ExpandEnv(a.Treasury)
	a.VotingPeriod = os.ExpandEnv(a.VotingPeriod)

	t := &f.Token
	t.Name = os.ExpandEnv(t.Name)
	t.Symbol = os.ExpandEnv(t.Symbol)
	t.InitialSupply = os.ExpandEnv(t.InitialSupply)
	t.Address = os.ExpandEnv(t.Address)
	t.Backend = os.ExpandEnv(t.Backend)
	t.RPCURL = os.ExpandEnv(t.RPCURL)
	t.TreasuryKey = os.ExpandEnv(t.TreasuryKey)
	t.TxTimeout = os.ExpandEnv(t.TxTimeout)

	f.Store.Backend = os.ExpandEnv(f.Store.Backend)
	f.Store.DatabaseURL = os.ExpandEnv(f.Store.DatabaseURL)
	f.Events.Backend = os.ExpandEnv(f.Events.Backend)
	f.Events.URL = os.ExpandEnv(f.Events.URL)
	f.Events.SubjectPrefix = os.ExpandEnv(f.Events.SubjectPrefix)
	f.HTTP.Addr = os.ExpandEnv(f.HTTP.Addr)
	for i, origin := range f.HTTP.AllowedOrigins {
		f.HTTP.AllowedOrigins[i] = os.ExpandEnv(origin)
	}
	f.Sweeper.Schedule = os.ExpandEnv(f.Sweeper.Schedule)

	return &f, nil
}

// buildGenesis overlays the [association] and [token] sections on the
// default genesis parameters.
func buildGenesis(f *CoopFile) (*config.Genesis, error) {
	g := config.DefaultGenesis()
	if f == nil {
		return g, nil
	}

	a := f.Association
	if a.SchoolName != "" {
		g.SchoolName = a.SchoolName
	}
	if a.ExpectedMembers != 0 {
		g.ExpectedMembers = a.ExpectedMembers
	}
	if a.QuorumBP != nil {
		if !domain.ValidBasisPoints(*a.QuorumBP) {
			return nil, fmt.Errorf("association.quorum_bp must be between 0 and %d, got %d", domain.BasisPointsDenominator, *a.QuorumBP)
		}
		g.QuorumBasisPoints = *a.QuorumBP
	}
	if a.VotingPeriod != "" {
		d, err := time.ParseDuration(a.VotingPeriod)
		if err != nil {
			return nil, fmt.Errorf("association.voting_period: %w", err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("association.voting_period: %w", domain.ErrInvalidDuration)
		}
		g.DefaultVotingPeriod = d
	}

	var err error
	if g.Admin, err = parseOptionalAddress("association.admin", a.Admin); err != nil {
		return nil, err
	}
	if g.Treasury, err = parseOptionalAddress("association.treasury", a.Treasury); err != nil {
		return nil, err
	}
	if g.Treasury == (common.Address{}) {
		g.Treasury = g.Admin
	}

	t := f.Token
	if t.Name != "" {
		g.Token.Name = t.Name
	}
	if t.Symbol != "" {
		g.Token.Symbol = t.Symbol
	}
	if t.Decimals != nil {
		g.Token.Decimals = *t.Decimals
	}
	if t.InitialSupply != "" {
		supply, err := domain.ParseUnits(t.InitialSupply, g.Token.Decimals)
		if err != nil {
			return nil, fmt.Errorf("token.initial_supply: %w", err)
		}
		g.Token.InitialSupply = supply
	}
	if g.Token.Address, err = parseOptionalAddress("token.address", t.Address); err != nil {
		return nil, err
	}

	return g, nil
}

func parseOptionalAddress(field, value string) (common.Address, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return common.Address{}, nil
	}
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("%s: %w: %s", field, domain.ErrInvalidAddress, value)
	}
	return common.HexToAddress(value), nil
}
