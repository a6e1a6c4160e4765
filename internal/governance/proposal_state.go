package governance

import (
	"math/big"
	"time"

	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/cooperadora-escolar/coop/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
)

// ProposalState is the per-proposal vote tally and status machine.
//
//	Active -> {Approved, Rejected, Expired} -> Executed
//
// Executed is terminal and only reachable from Approved. The closed states
// are derived from the tally once the deadline passes; they are stored only
// when the proposal is finalized or executed.
type ProposalState struct {
	proposal *models.Proposal
	voters   map[common.Address]models.Choice
	votes    []*models.Vote
}

// NewProposalState wraps a proposal record. The record must not be shared.
func NewProposalState(p *models.Proposal) *ProposalState {
	if p.Status == "" {
		p.Status = models.ProposalStatusActive
	}
	if p.Tally.For == nil {
		p.Tally = models.NewTally()
	}
	return &ProposalState{
		proposal: p,
		voters:   make(map[common.Address]models.Choice),
	}
}

// ID returns the proposal id
func (s *ProposalState) ID() uint64 {
	return s.proposal.ID
}

// Proposal returns a copy of the stored record
func (s *ProposalState) Proposal() *models.Proposal {
	return s.proposal.Clone()
}

// HasVoted reports whether voter already cast a ballot
func (s *ProposalState) HasVoted(voter common.Address) bool {
	_, ok := s.voters[voter]
	return ok
}

// Votes returns the ballots in the order they were cast
func (s *ProposalState) Votes() []*models.Vote {
	out := make([]*models.Vote, len(s.votes))
	for i, v := range s.votes {
		clone := *v
		clone.Weight = cloneWeight(v.Weight)
		out[i] = &clone
	}
	return out
}

// CastVote validates and applies a ballot. The caller has already checked
// membership and looked up the weight.
func (s *ProposalState) CastVote(vote *models.Vote) error {
	tally, err := s.prepareVote(vote)
	if err != nil {
		return err
	}
	s.commitVote(vote, tally)
	return nil
}

// prepareVote returns the tally that would result from vote without applying it.
func (s *ProposalState) prepareVote(vote *models.Vote) (models.Tally, error) {
	if !vote.Choice.Valid() {
		return models.Tally{}, domain.ErrInvalidChoice
	}
	if s.proposal.Status.IsClosed() || !vote.CastAt.Before(s.proposal.VotingDeadline) {
		return models.Tally{}, domain.ErrVotingClosed
	}
	if s.HasVoted(vote.Voter) {
		return models.Tally{}, domain.ErrDoubleVote
	}
	weight := cloneWeight(vote.Weight)
	if weight.Sign() < 0 {
		return models.Tally{}, domain.ErrInvalidAmount
	}
	next := s.proposal.Tally.Clone()
	next.Add(vote.Choice, weight)
	return next, nil
}

func (s *ProposalState) commitVote(vote *models.Vote, tally models.Tally) {
	s.proposal.Tally = tally
	s.voters[vote.Voter] = vote.Choice
	clone := *vote
	clone.Weight = cloneWeight(vote.Weight)
	s.votes = append(s.votes, &clone)
}

// restoreVote replays a persisted ballot without touching the tally, which
// was persisted alongside it.
func (s *ProposalState) restoreVote(vote *models.Vote) {
	s.voters[vote.Voter] = vote.Choice
	s.votes = append(s.votes, vote)
}

// Outcome is the status of the proposal at now. It has no side effects.
func (s *ProposalState) Outcome(now time.Time) models.ProposalStatus {
	if s.proposal.Status.IsClosed() {
		return s.proposal.Status
	}
	if now.Before(s.proposal.VotingDeadline) {
		return models.ProposalStatusActive
	}
	return s.evaluate()
}

// evaluate applies the quorum and majority rules to the stored tally.
func (s *ProposalState) evaluate() models.ProposalStatus {
	t := s.proposal.Tally
	if t.For.Cmp(s.proposal.QuorumThreshold) >= 0 && t.For.Cmp(t.Against) > 0 {
		return models.ProposalStatusApproved
	}
	if t.Voters == 0 {
		return models.ProposalStatusExpired
	}
	return models.ProposalStatusRejected
}

// finalizedRecord is the record to persist when closing the proposal at now.
func (s *ProposalState) finalizedRecord(now time.Time) *models.Proposal {
	record := s.proposal.Clone()
	record.Status = s.evaluate()
	at := now
	record.FinalizedAt = &at
	return record
}

// executedRecord is the record to persist once the disbursement went through.
func (s *ProposalState) executedRecord(now time.Time) *models.Proposal {
	record := s.proposal.Clone()
	record.Status = models.ProposalStatusExecuted
	at := now
	record.ExecutedAt = &at
	if record.FinalizedAt == nil {
		record.FinalizedAt = &at
	}
	record.PendingTransfer = nil
	return record
}

func (s *ProposalState) attachTransfer(t models.PendingTransfer) {
	s.proposal.PendingTransfer = &t
}

func (s *ProposalState) detachTransfer() {
	s.proposal.PendingTransfer = nil
}

// replace swaps in a persisted record. Status only ever moves forward.
func (s *ProposalState) replace(record *models.Proposal) {
	s.proposal = record
}

// view is the record as seen by readers: stored data with the current status.
func (s *ProposalState) view(now time.Time) *models.Proposal {
	record := s.proposal.Clone()
	record.Status = s.Outcome(now)
	return record
}

func cloneWeight(w *big.Int) *big.Int {
	if w == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(w)
}
