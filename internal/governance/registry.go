package governance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/cooperadora-escolar/coop/internal/domain/config"
	"github.com/cooperadora-escolar/coop/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// Registry is the top-level governance contract: membership, the proposal
// arena, and treasury authorization.
type Registry struct {
	mu sync.RWMutex

	genesis   config.Genesis
	members   *MembershipRegistry
	proposals []*ProposalState // arena, proposals[id-1]

	store   LedgerStore
	token   VotingToken
	events  EventPublisher
	metrics Metrics
	clock   Clock
	log     *slog.Logger
}

// Option customises a Registry
type Option func(*Registry)

// WithPublisher sets the event publisher
func WithPublisher(p EventPublisher) Option {
	return func(r *Registry) {
		if p != nil {
			r.events = p
		}
	}
}

// WithMetrics sets the metrics recorder
func WithMetrics(m Metrics) Option {
	return func(r *Registry) {
		if m != nil {
			r.metrics = m
		}
	}
}

// WithClock sets the clock used for deadlines
func WithClock(c Clock) Option {
	return func(r *Registry) {
		if c != nil {
			r.clock = c
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// NewRegistry creates a registry from genesis parameters and replays the
// persisted ledger from store.
func NewRegistry(ctx context.Context, genesis *config.Genesis, store LedgerStore, token VotingToken, opts ...Option) (*Registry, error) {
	if genesis == nil {
		return nil, fmt.Errorf("genesis configuration is required")
	}
	if !domain.ValidBasisPoints(genesis.QuorumBasisPoints) {
		return nil, fmt.Errorf("quorum basis points %d out of range", genesis.QuorumBasisPoints)
	}

	r := &Registry{
		genesis: *genesis,
		members: NewMembershipRegistry(genesis.ExpectedMembers),
		store:   store,
		token:   token,
		events:  nopPublisher{},
		metrics: nopMetrics{},
		clock:   SystemClock{},
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.reload(ctx); err != nil {
		return nil, fmt.Errorf("failed to load governance ledger: %w", err)
	}
	return r, nil
}

// maxConflictRetries bounds how often a mutation is replayed after another
// process changed the ledger underneath it.
const maxConflictRetries = 3

// commitTimeout bounds ledger writes that must happen even after the
// caller's context is gone, such as recording a payout that already moved.
const commitTimeout = 30 * time.Second

// Refresh reloads the ledger from the store, picking up writes made by
// other processes sharing it.
func (r *Registry) Refresh(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reload(ctx)
}

// reload rebuilds in-memory state from the store snapshot. On error the
// previous state is kept.
func (r *Registry) reload(ctx context.Context) error {
	snap, err := r.store.Load(ctx)
	if err != nil {
		return err
	}

	members := NewMembershipRegistry(r.genesis.ExpectedMembers)
	for _, m := range snap.Members {
		if _, err := members.Register(m.Address, m.JoinedAt); err != nil {
			return fmt.Errorf("member %s: %w", m.Address.Hex(), err)
		}
	}

	sort.Slice(snap.Proposals, func(i, j int) bool { return snap.Proposals[i].ID < snap.Proposals[j].ID })
	proposals := make([]*ProposalState, 0, len(snap.Proposals))
	for i, p := range snap.Proposals {
		if p.ID != uint64(i+1) {
			return fmt.Errorf("proposal ids are not contiguous: expected %d, found %d", i+1, p.ID)
		}
		proposals = append(proposals, NewProposalState(p))
	}

	sort.SliceStable(snap.Votes, func(i, j int) bool { return snap.Votes[i].CastAt.Before(snap.Votes[j].CastAt) })
	for _, v := range snap.Votes {
		if v.ProposalID == 0 || v.ProposalID > uint64(len(proposals)) {
			return fmt.Errorf("vote for unknown proposal %d", v.ProposalID)
		}
		s := proposals[v.ProposalID-1]
		if s.HasVoted(v.Voter) {
			return fmt.Errorf("duplicate vote by %s on proposal %d", v.Voter.Hex(), v.ProposalID)
		}
		s.restoreVote(v)
	}

	r.members, r.proposals = members, proposals
	r.metrics.SetMembers(members.Registered())
	r.log.Debug("governance ledger loaded",
		"members", members.Registered(),
		"proposals", len(proposals),
		"votes", len(snap.Votes))
	return nil
}

// mutate runs op against freshly loaded state and replays it when the store
// reports that another process wrote first. The caller holds the write lock.
func (r *Registry) mutate(ctx context.Context, op func() error) error {
	var err error
	for attempt := 1; attempt <= maxConflictRetries; attempt++ {
		if err = r.reload(ctx); err != nil {
			return fmt.Errorf("failed to refresh governance ledger: %w", err)
		}
		if err = op(); !errors.Is(err, domain.ErrLedgerConflict) {
			return err
		}
		r.log.Debug("ledger changed by another process, retrying", "attempt", attempt)
	}
	return err
}

func (r *Registry) proposal(id uint64) (*ProposalState, bool) {
	if id == 0 || id > uint64(len(r.proposals)) {
		return nil, false
	}
	return r.proposals[id-1], true
}

// Genesis returns the immutable association parameters
func (r *Registry) Genesis() config.Genesis {
	return r.genesis
}

// RegisterMember adds addr to the member set. Only the administrator may call it.
func (r *Registry) RegisterMember(ctx context.Context, caller, addr common.Address) (member models.Member, err error) {
	defer func() { r.metrics.ObserveOperation("register", err) }()

	if caller != r.genesis.Admin {
		return models.Member{}, domain.ErrNotAdmin
	}
	if addr == (common.Address{}) {
		return models.Member{}, fmt.Errorf("%w: zero address", domain.ErrInvalidAddress)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	err = r.mutate(ctx, func() error {
		if r.members.IsMember(addr) {
			return domain.ErrAlreadyMember
		}
		member = models.Member{Address: addr, JoinedAt: r.clock.Now()}
		if err := r.store.SaveMember(ctx, member); err != nil {
			return fmt.Errorf("failed to save member: %w", err)
		}
		_, err := r.members.Register(member.Address, member.JoinedAt)
		return err
	})
	if err != nil {
		return models.Member{}, err
	}
	r.metrics.SetMembers(r.members.Registered())

	r.log.Info("member registered", "address", addr.Hex(), "members", r.members.Registered())
	r.publish(ctx, domain.Event{Type: domain.EventMemberRegistered, At: member.JoinedAt, Address: &addr})
	return member, nil
}

// ProposeParams contains parameters for creating a proposal
type ProposeParams struct {
	Proposer    common.Address
	Description string
	Amount      *big.Int
	Recipient   common.Address
	Duration    time.Duration
}

// Propose creates a new Active proposal and returns its id. Rejected
// requests never consume an id.
func (r *Registry) Propose(ctx context.Context, params ProposeParams) (id uint64, err error) {
	defer func() { r.metrics.ObserveOperation("propose", err) }()

	if params.Amount == nil || params.Amount.Sign() <= 0 {
		return 0, domain.ErrZeroAmount
	}
	if params.Recipient == (common.Address{}) {
		return 0, domain.ErrInvalidRecipient
	}
	if params.Duration <= 0 {
		return 0, domain.ErrInvalidDuration
	}
	description := strings.TrimSpace(params.Description)
	if description == "" {
		return 0, domain.ErrEmptyDescription
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var p *models.Proposal
	err = r.mutate(ctx, func() error {
		if !r.members.IsMember(params.Proposer) {
			return domain.ErrNotAMember
		}

		now := r.clock.Now()
		memberCount := r.members.MemberCount()
		p = &models.Proposal{
			ID:                        uint64(len(r.proposals)) + 1,
			Proposer:                  params.Proposer,
			Description:               description,
			CreatedAt:                 now,
			VotingDeadline:            now.Add(params.Duration),
			RequiredQuorumBasisPoints: r.genesis.QuorumBasisPoints,
			MemberCountAtCreation:     memberCount,
			QuorumThreshold:           domain.QuorumThreshold(memberCount, r.genesis.QuorumBasisPoints),
			Status:                    models.ProposalStatusActive,
			TreasuryAmount:            new(big.Int).Set(params.Amount),
			TreasuryRecipient:         params.Recipient,
			Tally:                     models.NewTally(),
		}
		if err := r.store.CreateProposal(ctx, p.Clone()); err != nil {
			return fmt.Errorf("failed to save proposal: %w", err)
		}
		r.proposals = append(r.proposals, NewProposalState(p.Clone()))
		return nil
	})
	if err != nil {
		return 0, err
	}

	r.log.Info("proposal created",
		"id", p.ID,
		"proposer", p.Proposer.Hex(),
		"amount", p.TreasuryAmount.String(),
		"quorum", p.QuorumThreshold.String(),
		"deadline", p.VotingDeadline.Format(time.RFC3339))
	r.publish(ctx, domain.Event{
		Type:       domain.EventProposalCreated,
		At:         p.CreatedAt,
		ProposalID: p.ID,
		Address:    &p.Proposer,
		Amount:     p.TreasuryAmount,
		Status:     p.Status,
	})
	return p.ID, nil
}

// Vote casts voter's ballot on a proposal. The weight is the voter's token
// balance at the moment of casting.
func (r *Registry) Vote(ctx context.Context, voter common.Address, id uint64, choice models.Choice) (vote *models.Vote, err error) {
	defer func() { r.metrics.ObserveOperation("vote", err) }()

	if !choice.Valid() {
		return nil, domain.ErrInvalidChoice
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	err = r.mutate(ctx, func() error {
		s, ok := r.proposal(id)
		if !ok {
			return domain.ErrProposalNotFound
		}
		if !r.members.IsMember(voter) {
			return domain.ErrNotAMember
		}

		now := r.clock.Now()
		if s.Outcome(now) != models.ProposalStatusActive {
			return domain.ErrVotingClosed
		}
		if s.HasVoted(voter) {
			return domain.ErrDoubleVote
		}

		weight, err := r.token.BalanceOf(ctx, voter)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrTokenUnavailable, err)
		}
		if weight == nil || weight.Sign() <= 0 {
			return domain.ErrNoVotingPower
		}

		vote = &models.Vote{
			ProposalID: id,
			Voter:      voter,
			Choice:     choice,
			Weight:     weight,
			CastAt:     now,
		}
		if _, err := s.prepareVote(vote); err != nil {
			return err
		}
		tally, err := r.store.RecordVote(ctx, vote)
		if err != nil {
			return fmt.Errorf("failed to record vote: %w", err)
		}
		s.commitVote(vote, tally)
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.log.Info("vote cast",
		"proposal", id,
		"voter", voter.Hex(),
		"choice", choice,
		"weight", vote.Weight.String())
	r.publish(ctx, domain.Event{
		Type:       domain.EventVoteCast,
		At:         vote.CastAt,
		ProposalID: id,
		Address:    &vote.Voter,
		Choice:     choice,
		Amount:     vote.Weight,
	})
	return vote, nil
}

// Execute disburses the treasury amount of an approved proposal exactly once.
//
// The payout is prepared and recorded on the proposal before it is
// submitted. A payout whose outcome is unknown stays recorded and the
// proposal stays Approved; executing again submits the same payout, which
// the token settles at most once. A failed payout is discarded so a retry
// prepares a new one.
func (r *Registry) Execute(ctx context.Context, id uint64) (executed *models.Proposal, err error) {
	defer func() { r.metrics.ObserveOperation("execute", err) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		s       *ProposalState
		pending models.PendingTransfer
	)
	err = r.mutate(ctx, func() error {
		var ok bool
		if s, ok = r.proposal(id); !ok {
			return domain.ErrProposalNotFound
		}

		now := r.clock.Now()
		switch s.Outcome(now) {
		case models.ProposalStatusExecuted:
			return domain.ErrAlreadyExecuted
		case models.ProposalStatusApproved:
		default:
			return domain.ErrNotApproved
		}

		if attached := s.proposal.PendingTransfer; attached != nil {
			pending = *attached
			r.log.Info("reconciling pending treasury transfer", "proposal", id, "transfer", pending.ID)
			return nil
		}

		p := s.proposal
		ref, err := r.token.PrepareTransfer(ctx, r.genesis.Treasury, p.TreasuryRecipient, p.TreasuryAmount)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrTransferFailed, err)
		}
		pending = models.PendingTransfer{TransferRef: ref, PreparedAt: now}
		if err := r.store.AttachTransfer(ctx, id, pending); err != nil {
			return fmt.Errorf("failed to record treasury transfer: %w", err)
		}
		s.attachTransfer(pending)
		return nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrNotApproved) && !errors.Is(err, domain.ErrAlreadyExecuted) {
			r.log.Warn("proposal execution failed", "proposal", id, "error", err)
		}
		return nil, err
	}

	status, transferErr := r.token.SubmitTransfer(ctx, pending.TransferRef)

	// The payout has left this process; what follows must be recorded even
	// if the caller has gone away.
	commitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), commitTimeout)
	defer cancel()

	switch status {
	case models.TransferConfirmed:
	case models.TransferFailed:
		if err := r.store.DetachTransfer(commitCtx, id, pending.ID); err != nil {
			r.log.Error("failed to discard failed treasury transfer", "proposal", id, "transfer", pending.ID, "error", err)
		} else {
			s.detachTransfer()
		}
		r.log.Warn("treasury transfer failed", "proposal", id, "transfer", pending.ID, "error", transferErr)
		return nil, fmt.Errorf("%w: %w", domain.ErrTransferFailed, transferErr)
	default:
		r.log.Warn("treasury transfer pending", "proposal", id, "transfer", pending.ID, "error", transferErr)
		err := fmt.Errorf("%w: transfer %s, run execute again to reconcile", domain.ErrTransferPending, pending.ID)
		if transferErr != nil {
			err = fmt.Errorf("%w: %w", err, transferErr)
		}
		return nil, err
	}

	record := s.executedRecord(r.clock.Now())
	if err := r.store.ExecuteProposal(commitCtx, record.Clone(), pending.ID); err != nil {
		if errors.Is(err, domain.ErrAlreadyExecuted) {
			return nil, err
		}
		r.log.Error("treasury transfer confirmed but ledger write failed",
			"proposal", id,
			"transfer", pending.ID,
			"recipient", record.TreasuryRecipient.Hex(),
			"amount", record.TreasuryAmount.String(),
			"error", err)
		return nil, fmt.Errorf("proposal %d paid out by %s but not recorded, run execute again to record it: %w", id, pending.ID, err)
	}
	s.replace(record)
	r.metrics.ObserveDisbursement(record.TreasuryAmount)

	r.log.Info("proposal executed",
		"id", id,
		"transfer", pending.ID,
		"recipient", record.TreasuryRecipient.Hex(),
		"amount", record.TreasuryAmount.String())
	r.publish(ctx, domain.Event{
		Type:       domain.EventProposalExecuted,
		At:         *record.ExecutedAt,
		ProposalID: id,
		Address:    &record.TreasuryRecipient,
		Amount:     record.TreasuryAmount,
		Status:     record.Status,
	})
	return record.Clone(), nil
}

// Finalize persists the computed outcome of a proposal whose voting closed.
// Finalizing an already closed proposal is a no-op.
func (r *Registry) Finalize(ctx context.Context, id uint64) (finalized *models.Proposal, err error) {
	defer func() { r.metrics.ObserveOperation("finalize", err) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	closed := false
	err = r.mutate(ctx, func() error {
		s, ok := r.proposal(id)
		if !ok {
			return domain.ErrProposalNotFound
		}
		stored := s.Proposal()
		if stored.Status.IsClosed() {
			finalized = stored
			return nil
		}

		now := r.clock.Now()
		if now.Before(stored.VotingDeadline) {
			return domain.ErrVotingOpen
		}

		record := s.finalizedRecord(now)
		if err := r.store.FinalizeProposal(ctx, record.Clone()); err != nil {
			return fmt.Errorf("failed to finalize proposal: %w", err)
		}
		s.replace(record)
		finalized, closed = record.Clone(), true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !closed {
		return finalized, nil
	}

	r.log.Info("proposal finalized", "id", id, "status", finalized.Status)
	r.publish(ctx, domain.Event{
		Type:       domain.EventProposalClosed,
		At:         *finalized.FinalizedAt,
		ProposalID: id,
		Status:     finalized.Status,
	})
	return finalized, nil
}

// PendingFinalization lists the ids of proposals whose deadline passed but
// whose outcome has not been persisted yet.
func (r *Registry) PendingFinalization() []uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := r.clock.Now()
	var ids []uint64
	for _, s := range r.proposals {
		p := s.proposal
		if !p.Status.IsClosed() && !now.Before(p.VotingDeadline) {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// GetProposal returns the proposal with its status evaluated at the current time.
func (r *Registry) GetProposal(id uint64) (*models.Proposal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.proposal(id)
	if !ok {
		return nil, domain.ErrProposalNotFound
	}
	return s.view(r.clock.Now()), nil
}

// ListProposals returns proposals matching filter, newest first.
// filter.Search is not applied here.
func (r *Registry) ListProposals(filter domain.ProposalFilter) []*models.Proposal {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := r.clock.Now()
	result := make([]*models.Proposal, 0, len(r.proposals))
	for i := len(r.proposals) - 1; i >= 0; i-- {
		p := r.proposals[i].view(now)
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.Proposer != nil && p.Proposer != *filter.Proposer {
			continue
		}
		result = append(result, p)
	}
	return result
}

// Votes returns the ballots cast on a proposal
func (r *Registry) Votes(id uint64) ([]*models.Vote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.proposal(id)
	if !ok {
		return nil, domain.ErrProposalNotFound
	}
	return s.Votes(), nil
}

// GetMember reports whether addr is a member
func (r *Registry) GetMember(addr common.Address) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.members.IsMember(addr)
}

// Member returns the member record for addr
func (r *Registry) Member(addr common.Address) (models.Member, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.members.Member(addr)
}

// ListMembers returns all members in join order
func (r *Registry) ListMembers() []models.Member {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.members.Members()
}

// MemberCount is the current quorum denominator
func (r *Registry) MemberCount() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.members.MemberCount()
}

// publish emits an event. Delivery failures are logged and never undo a
// committed mutation.
func (r *Registry) publish(ctx context.Context, event domain.Event) {
	event.ID = uuid.NewString()
	if err := r.events.Publish(ctx, event); err != nil {
		r.log.Warn("failed to publish governance event", "type", event.Type, "error", err)
	}
}
