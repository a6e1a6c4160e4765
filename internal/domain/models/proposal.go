package models

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ProposalStatus represents the lifecycle state of a treasury proposal
type ProposalStatus string

const (
	ProposalStatusActive   ProposalStatus = "active"
	ProposalStatusApproved ProposalStatus = "approved"
	ProposalStatusRejected ProposalStatus = "rejected"
	ProposalStatusExecuted ProposalStatus = "executed"
	ProposalStatusExpired  ProposalStatus = "expired"
)

// IsClosed reports whether voting has finished for a proposal in this status
func (s ProposalStatus) IsClosed() bool {
	return s != ProposalStatusActive && s != ""
}

// Tally holds the running vote totals of a proposal.
type Tally struct {
	For     *big.Int `json:"for"`
	Against *big.Int `json:"against"`
	Abstain *big.Int `json:"abstain"`
	Voters  int      `json:"voters"`
}

// NewTally returns an empty tally
func NewTally() Tally {
	return Tally{
		For:     new(big.Int),
		Against: new(big.Int),
		Abstain: new(big.Int),
	}
}

// Clone deep-copies the tally
func (t Tally) Clone() Tally {
	return Tally{
		For:     cloneInt(t.For),
		Against: cloneInt(t.Against),
		Abstain: cloneInt(t.Abstain),
		Voters:  t.Voters,
	}
}

// Add accumulates weight into the bucket of choice.
func (t *Tally) Add(choice Choice, weight *big.Int) {
	switch choice {
	case ChoiceFor:
		t.For.Add(t.For, weight)
	case ChoiceAgainst:
		t.Against.Add(t.Against, weight)
	case ChoiceAbstain:
		t.Abstain.Add(t.Abstain, weight)
	}
	t.Voters++
}

// Proposal is the persisted record of a treasury disbursement request
type Proposal struct {
	// Identification
	ID          uint64         `json:"id"`
	Proposer    common.Address `json:"proposer"`
	Description string         `json:"description"`

	// Voting window
	CreatedAt      time.Time `json:"createdAt"`
	VotingDeadline time.Time `json:"votingDeadline"`

	// Quorum parameters, frozen at creation
	RequiredQuorumBasisPoints uint64   `json:"requiredQuorumBasisPoints"`
	MemberCountAtCreation     uint64   `json:"memberCountAtCreation"`
	QuorumThreshold           *big.Int `json:"quorumThreshold"`

	// Stored status. Active proposals may already be closed; see governance.ProposalState.Outcome.
	Status ProposalStatus `json:"status"`

	// Disbursement
	TreasuryAmount    *big.Int       `json:"treasuryAmount"`
	TreasuryRecipient common.Address `json:"treasuryRecipient"`

	Tally Tally `json:"tally"`

	// PendingTransfer is the payout in flight for an approved proposal
	PendingTransfer *PendingTransfer `json:"pendingTransfer,omitempty"`

	FinalizedAt *time.Time `json:"finalizedAt,omitempty"`
	ExecutedAt  *time.Time `json:"executedAt,omitempty"`
}

// Clone returns a deep copy so callers can never mutate registry state.
func (p *Proposal) Clone() *Proposal {
	if p == nil {
		return nil
	}
	clone := *p
	clone.QuorumThreshold = cloneInt(p.QuorumThreshold)
	clone.TreasuryAmount = cloneInt(p.TreasuryAmount)
	clone.Tally = p.Tally.Clone()
	if p.FinalizedAt != nil {
		t := *p.FinalizedAt
		clone.FinalizedAt = &t
	}
	if p.ExecutedAt != nil {
		t := *p.ExecutedAt
		clone.ExecutedAt = &t
	}
	if p.PendingTransfer != nil {
		pending := *p.PendingTransfer
		clone.PendingTransfer = &pending
	}
	return &clone
}

func cloneInt(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}
