package governance

import (
	"context"
	"math/big"
	"time"

	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/cooperadora-escolar/coop/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
)

// Snapshot is the full persisted ledger as returned by LedgerStore.Load
type Snapshot struct {
	Members   []models.Member
	Proposals []*models.Proposal
	Votes     []*models.Vote
}

// LedgerStore persists governance state.
//
// Several processes may share one store, so every write is checked against
// the stored state, not the caller's copy of it. Implementations enforce
// uniqueness of members by address and of votes by (proposal id, voter)
// themselves, returning domain.ErrAlreadyMember and domain.ErrDoubleVote.
// A write whose precondition no longer holds fails with
// domain.ErrLedgerConflict.
type LedgerStore interface {
	Load(ctx context.Context) (*Snapshot, error)
	SaveMember(ctx context.Context, member models.Member) error
	// CreateProposal fails with domain.ErrLedgerConflict when the id is taken.
	CreateProposal(ctx context.Context, proposal *models.Proposal) error
	// RecordVote stores the ballot and adds its weight to the stored tally as
	// one unit, returning the tally as committed. Votes on a proposal that is
	// no longer active fail with domain.ErrVotingClosed.
	RecordVote(ctx context.Context, vote *models.Vote) (models.Tally, error)
	// AttachTransfer records a prepared payout on a proposal that is neither
	// executed nor already carrying one.
	AttachTransfer(ctx context.Context, id uint64, transfer models.PendingTransfer) error
	// DetachTransfer removes the payout transferID after the token reported it failed.
	DetachTransfer(ctx context.Context, id uint64, transferID string) error
	// ExecuteProposal stores the executed record. The stored proposal must
	// still carry the payout transferID.
	ExecuteProposal(ctx context.Context, proposal *models.Proposal, transferID string) error
	// FinalizeProposal stores the closed record of a proposal that is still
	// active and whose stored tally counts the same voters as proposal's.
	FinalizeProposal(ctx context.Context, proposal *models.Proposal) error
}

// VotingToken is the external fungible-token capability.
//
// Treasury payouts go through two steps so that a payout whose outcome is
// unknown can be recorded and retried without paying twice.
type VotingToken interface {
	BalanceOf(ctx context.Context, account common.Address) (*big.Int, error)
	// PrepareTransfer builds a payout of amount from the treasury authority to
	// the recipient. It moves no funds.
	PrepareTransfer(ctx context.Context, from, to common.Address, amount *big.Int) (models.TransferRef, error)
	// SubmitTransfer sends a prepared payout, or looks it up if it was sent
	// before, and reports its outcome. The error explains a failed or pending
	// status.
	SubmitTransfer(ctx context.Context, ref models.TransferRef) (models.TransferStatus, error)
}

// EventPublisher receives events after the corresponding mutation committed
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// Metrics records governance activity
type Metrics interface {
	ObserveOperation(op string, err error)
	ObserveDisbursement(amount *big.Int)
	SetMembers(n int)
}

// Clock supplies the wall-clock time used for deadlines.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now in UTC
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, domain.Event) error { return nil }

type nopMetrics struct{}

func (nopMetrics) ObserveOperation(string, error) {}
func (nopMetrics) ObserveDisbursement(*big.Int)   {}
func (nopMetrics) SetMembers(int)                 {}
