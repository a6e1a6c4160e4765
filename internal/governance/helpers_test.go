package governance_test

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/cooperadora-escolar/coop/internal/domain/config"
	"github.com/cooperadora-escolar/coop/internal/domain/models"
	"github.com/cooperadora-escolar/coop/internal/governance"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

var (
	admin     = common.HexToAddress("0xad00000000000000000000000000000000000001")
	treasury  = common.HexToAddress("0x7e00000000000000000000000000000000000002")
	recipient = common.HexToAddress("0x5c00000000000000000000000000000000000003")
	outsider  = common.HexToAddress("0x0b00000000000000000000000000000000000004")
)

// parent returns a deterministic member address
func parent(i int) common.Address {
	return common.BigToAddress(big.NewInt(int64(0x1000 + i)))
}

// fakeClock is a settable clock
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type transferCall struct {
	From, To common.Address
	Amount   *big.Int
}

// fakeToken keeps balances in memory and settles each prepared transfer at
// most once, the way a signed transaction is mined at most once.
type fakeToken struct {
	mu         sync.Mutex
	balances   map[common.Address]*big.Int
	prepared   map[string]transferCall
	settled    map[string]bool
	transfers  []transferCall
	submits    int
	balanceErr error
	prepareErr error
	// failErr makes submissions fail without moving funds.
	failErr error
	// unconfirmed makes submissions move funds but report an unknown outcome,
	// as when a receipt wait times out after broadcast.
	unconfirmed bool
}

func newFakeToken() *fakeToken {
	return &fakeToken{
		balances: make(map[common.Address]*big.Int),
		prepared: make(map[string]transferCall),
		settled:  make(map[string]bool),
	}
}

func (t *fakeToken) Set(addr common.Address, amount int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.balances[addr] = big.NewInt(amount)
}

func (t *fakeToken) BalanceOf(_ context.Context, addr common.Address) (*big.Int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.balanceErr != nil {
		return nil, t.balanceErr
	}
	if b, ok := t.balances[addr]; ok {
		return new(big.Int).Set(b), nil
	}
	return new(big.Int), nil
}

func (t *fakeToken) PrepareTransfer(_ context.Context, from, to common.Address, amount *big.Int) (models.TransferRef, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.prepareErr != nil {
		return models.TransferRef{}, t.prepareErr
	}
	id := fmt.Sprintf("tx-%d", len(t.prepared)+1)
	t.prepared[id] = transferCall{From: from, To: to, Amount: new(big.Int).Set(amount)}
	return models.TransferRef{ID: id, Payload: id}, nil
}

func (t *fakeToken) SubmitTransfer(_ context.Context, ref models.TransferRef) (models.TransferStatus, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.submits++
	call, ok := t.prepared[ref.ID]
	if !ok {
		return models.TransferFailed, fmt.Errorf("unknown transfer %s", ref.ID)
	}
	if t.settled[ref.ID] {
		if t.unconfirmed {
			return models.TransferPending, nil
		}
		return models.TransferConfirmed, nil
	}
	if t.failErr != nil {
		return models.TransferFailed, t.failErr
	}
	t.settled[ref.ID] = true
	t.transfers = append(t.transfers, call)
	if t.unconfirmed {
		return models.TransferPending, errors.New("receipt not yet available")
	}
	return models.TransferConfirmed, nil
}

func (t *fakeToken) Transfers() []transferCall {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]transferCall(nil), t.transfers...)
}

func (t *fakeToken) Prepared() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.prepared)
}

// memStore is an in-memory LedgerStore that checks every write against the
// stored state, like the durable stores do.
type memStore struct {
	mu        sync.Mutex
	members   []models.Member
	proposals map[uint64]*models.Proposal
	votes     map[models.VoteKey]*models.Vote
	commitErr error
}

func newMemStore() *memStore {
	return &memStore{
		proposals: make(map[uint64]*models.Proposal),
		votes:     make(map[models.VoteKey]*models.Vote),
	}
}

func (s *memStore) Load(context.Context) (*governance.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := &governance.Snapshot{Members: append([]models.Member(nil), s.members...)}
	for _, p := range s.proposals {
		snap.Proposals = append(snap.Proposals, p.Clone())
	}
	for _, v := range s.votes {
		clone := *v
		snap.Votes = append(snap.Votes, &clone)
	}
	return snap, nil
}

func (s *memStore) SaveMember(_ context.Context, member models.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.members {
		if m.Address == member.Address {
			return domain.ErrAlreadyMember
		}
	}
	s.members = append(s.members, member)
	return nil
}

func (s *memStore) CreateProposal(_ context.Context, p *models.Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.proposals[p.ID]; exists {
		return domain.ErrLedgerConflict
	}
	s.proposals[p.ID] = p.Clone()
	return nil
}

func (s *memStore) RecordVote(_ context.Context, v *models.Vote) (models.Tally, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.votes[v.Key()]; exists {
		return models.Tally{}, domain.ErrDoubleVote
	}
	p, ok := s.proposals[v.ProposalID]
	if !ok {
		return models.Tally{}, domain.ErrProposalNotFound
	}
	if p.Status != models.ProposalStatusActive {
		return models.Tally{}, domain.ErrVotingClosed
	}
	clone := *v
	s.votes[v.Key()] = &clone
	p.Tally.Add(v.Choice, v.Weight)
	return p.Tally.Clone(), nil
}

func (s *memStore) AttachTransfer(_ context.Context, id uint64, t models.PendingTransfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.proposals[id]
	switch {
	case !ok:
		return domain.ErrProposalNotFound
	case p.Status == models.ProposalStatusExecuted:
		return domain.ErrAlreadyExecuted
	case p.PendingTransfer != nil:
		return domain.ErrLedgerConflict
	}
	p.PendingTransfer = &t
	return nil
}

func (s *memStore) DetachTransfer(_ context.Context, id uint64, transferID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.proposals[id]; ok && p.PendingTransfer != nil && p.PendingTransfer.ID == transferID {
		p.PendingTransfer = nil
	}
	return nil
}

func (s *memStore) ExecuteProposal(_ context.Context, p *models.Proposal, transferID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.commitErr != nil {
		return s.commitErr
	}
	stored, ok := s.proposals[p.ID]
	switch {
	case !ok:
		return domain.ErrProposalNotFound
	case stored.Status == models.ProposalStatusExecuted:
		return domain.ErrAlreadyExecuted
	case stored.PendingTransfer == nil || stored.PendingTransfer.ID != transferID:
		return domain.ErrLedgerConflict
	}
	s.proposals[p.ID] = p.Clone()
	return nil
}

func (s *memStore) FinalizeProposal(_ context.Context, p *models.Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.proposals[p.ID]
	if !ok {
		return domain.ErrProposalNotFound
	}
	if stored.Status != models.ProposalStatusActive || stored.Tally.Voters != p.Tally.Voters {
		return domain.ErrLedgerConflict
	}
	s.proposals[p.ID] = p.Clone()
	return nil
}

func (s *memStore) Stored(id uint64) *models.Proposal {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.proposals[id]; ok {
		return p.Clone()
	}
	return nil
}

// recordingPublisher captures published events
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Types() []domain.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	var types []domain.EventType
	for _, e := range p.events {
		types = append(types, e.Type)
	}
	return types
}

func testGenesis() *config.Genesis {
	g := config.DefaultGenesis()
	g.Admin = admin
	g.Treasury = treasury
	g.ExpectedMembers = 100
	g.QuorumBasisPoints = 2000
	return g
}

type fixture struct {
	registry  *governance.Registry
	store     *memStore
	token     *fakeToken
	clock     *fakeClock
	publisher *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:     newMemStore(),
		token:     newFakeToken(),
		clock:     newFakeClock(),
		publisher: &recordingPublisher{},
	}
	f.registry = f.open(t)
	return f
}

// open builds a registry over the fixture's store, as a restart would.
func (f *fixture) open(t *testing.T) *governance.Registry {
	t.Helper()
	r, err := governance.NewRegistry(context.Background(), testGenesis(), f.store, f.token,
		governance.WithClock(f.clock),
		governance.WithPublisher(f.publisher))
	require.NoError(t, err)
	return r
}

// members registers n parents each holding weight tokens
func (f *fixture) members(t *testing.T, n int, weight int64) []common.Address {
	t.Helper()
	addrs := make([]common.Address, n)
	for i := range addrs {
		addrs[i] = parent(i)
		_, err := f.registry.RegisterMember(context.Background(), admin, addrs[i])
		require.NoError(t, err)
		f.token.Set(addrs[i], weight)
	}
	return addrs
}

func (f *fixture) propose(t *testing.T, proposer common.Address, amount int64) uint64 {
	t.Helper()
	id, err := f.registry.Propose(context.Background(), governance.ProposeParams{
		Proposer:    proposer,
		Description: "Compra de libros para la biblioteca",
		Amount:      big.NewInt(amount),
		Recipient:   recipient,
		Duration:    72 * time.Hour,
	})
	require.NoError(t, err)
	return id
}

var errTokenDown = errors.New("token node unreachable")
