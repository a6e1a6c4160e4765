package models

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Choice is the option a voter selects on a proposal
type Choice string

const (
	ChoiceFor     Choice = "for"
	ChoiceAgainst Choice = "against"
	ChoiceAbstain Choice = "abstain"
)

// ParseChoice accepts the canonical names plus the usual yes/no aliases.
func ParseChoice(s string) (Choice, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "for", "yes", "y", "si", "sí":
		return ChoiceFor, nil
	case "against", "no", "n":
		return ChoiceAgainst, nil
	case "abstain", "abstencion", "abstención":
		return ChoiceAbstain, nil
	default:
		return "", fmt.Errorf("unknown vote choice %q", s)
	}
}

// Valid reports whether c is one of the three known choices
func (c Choice) Valid() bool {
	return c == ChoiceFor || c == ChoiceAgainst || c == ChoiceAbstain
}

// Vote is a single immutable ballot. Weight is the voter's token balance at CastAt.
type Vote struct {
	ProposalID uint64         `json:"proposalId"`
	Voter      common.Address `json:"voter"`
	Choice     Choice         `json:"choice"`
	Weight     *big.Int       `json:"weight"`
	CastAt     time.Time      `json:"castAt"`
}

// VoteKey is the composite key that makes a ballot unique.
type VoteKey struct {
	ProposalID uint64
	Voter      common.Address
}

// Key returns the composite (proposal, voter) key of the vote
func (v *Vote) Key() VoteKey {
	return VoteKey{ProposalID: v.ProposalID, Voter: v.Voter}
}

// String renders the key as "<id>:<address>", the form used by the file store.
func (k VoteKey) String() string {
	return fmt.Sprintf("%d:%s", k.ProposalID, strings.ToLower(k.Voter.Hex()))
}
