package domain

import (
	"math/big"
	"time"

	"github.com/cooperadora-escolar/coop/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
)

type EventType string

const (
	EventMemberRegistered EventType = "member.registered"
	EventProposalCreated  EventType = "proposal.created"
	EventVoteCast         EventType = "vote.cast"
	EventProposalExecuted EventType = "proposal.executed"
	EventProposalClosed   EventType = "proposal.closed"
)

// Event is a governance fact emitted after a mutation has been committed.
type Event struct {
	ID         string                `json:"id"`
	Type       EventType             `json:"type"`
	At         time.Time             `json:"at"`
	ProposalID uint64                `json:"proposalId,omitempty"`
	Address    *common.Address       `json:"address,omitempty"`
	Choice     models.Choice         `json:"choice,omitempty"`
	Amount     *big.Int              `json:"amount,omitempty"`
	Status     models.ProposalStatus `json:"status,omitempty"`
}

// Subject returns the messaging subject for the event under the given prefix.
func (e Event) Subject(prefix string) string {
	if prefix == "" {
		return string(e.Type)
	}
	return prefix + "." + string(e.Type)
}
