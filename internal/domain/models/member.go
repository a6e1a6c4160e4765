package models

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Member is a parent recognised as a voter by the association.
type Member struct {
	Address  common.Address `json:"address" yaml:"address"`
	JoinedAt time.Time      `json:"joinedAt" yaml:"joinedAt"`
}
