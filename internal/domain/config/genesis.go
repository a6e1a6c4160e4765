package config

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Genesis holds the association parameters fixed at deployment time.
// It is constructed once and never mutated afterwards.
type Genesis struct {
	SchoolName string `json:"schoolName" yaml:"schoolName"`
	// ExpectedMembers is the number of parents the association expects;
	// the quorum denominator never drops below it.
	ExpectedMembers uint64 `json:"expectedMembers" yaml:"expectedMembers"`

	Admin    common.Address `json:"admin" yaml:"admin"`
	Treasury common.Address `json:"treasury" yaml:"treasury"`

	QuorumBasisPoints   uint64        `json:"quorumBasisPoints" yaml:"quorumBasisPoints"`
	DefaultVotingPeriod time.Duration `json:"defaultVotingPeriod" yaml:"defaultVotingPeriod"`

	Token TokenGenesis `json:"token" yaml:"token"`
}

// TokenGenesis describes the voting token
type TokenGenesis struct {
	Name     string `json:"name" yaml:"name"`
	Symbol   string `json:"symbol" yaml:"symbol"`
	Decimals uint8  `json:"decimals" yaml:"decimals"`
	// InitialSupply is minted to the admin by the local ledger, in base units
	InitialSupply *big.Int `json:"initialSupply" yaml:"initialSupply"`
	// Address of a deployed ERC-20, used by the erc20 token backend
	Address common.Address `json:"address,omitempty" yaml:"address,omitempty"`
}

// DefaultGenesis mirrors the parameters of the reference deployment.
func DefaultGenesis() *Genesis {
	supply := new(big.Int).Mul(big.NewInt(1_000_000), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
	return &Genesis{
		SchoolName:          "Mi Escuela Ejemplo",
		ExpectedMembers:     100,
		QuorumBasisPoints:   2000,
		DefaultVotingPeriod: 7 * 24 * time.Hour,
		Token: TokenGenesis{
			Name:          "Cooperadora Token",
			Symbol:        "COOP",
			Decimals:      18,
			InitialSupply: supply,
		},
	}
}
