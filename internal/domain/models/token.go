package models

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TokenInfo describes the voting token as reported by its backend
type TokenInfo struct {
	Name        string         `json:"name" yaml:"name"`
	Symbol      string         `json:"symbol" yaml:"symbol"`
	Decimals    uint8          `json:"decimals" yaml:"decimals"`
	TotalSupply *big.Int       `json:"totalSupply" yaml:"totalSupply"`
	Owner       common.Address `json:"owner" yaml:"owner"`
	// Address is the contract address; zero for the local ledger
	Address common.Address `json:"address,omitempty" yaml:"address,omitempty"`
	Backend string         `json:"backend" yaml:"backend"`
}
