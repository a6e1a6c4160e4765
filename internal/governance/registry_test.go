package governance_test

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/cooperadora-escolar/coop/internal/domain/models"
	"github.com/cooperadora-escolar/coop/internal/governance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterMember(t *testing.T) {
	ctx := context.Background()

	t.Run("admin registers a parent", func(t *testing.T) {
		f := newFixture(t)

		member, err := f.registry.RegisterMember(ctx, admin, parent(1))
		require.NoError(t, err)
		assert.Equal(t, parent(1), member.Address)
		assert.Equal(t, f.clock.Now(), member.JoinedAt)
		assert.True(t, f.registry.GetMember(parent(1)))
		assert.Equal(t, []domain.EventType{domain.EventMemberRegistered}, f.publisher.Types())
	})

	t.Run("non-admin is rejected", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.registry.RegisterMember(ctx, parent(1), parent(2))
		assert.ErrorIs(t, err, domain.ErrNotAdmin)
		assert.False(t, f.registry.GetMember(parent(2)))
	})

	t.Run("duplicate registration", func(t *testing.T) {
		f := newFixture(t)
		f.members(t, 1, 10)

		_, err := f.registry.RegisterMember(ctx, admin, parent(0))
		assert.ErrorIs(t, err, domain.ErrAlreadyMember)
		assert.Len(t, f.registry.ListMembers(), 1)
	})

	t.Run("member count never drops below expected parents", func(t *testing.T) {
		f := newFixture(t)
		f.members(t, 3, 10)
		assert.Equal(t, uint64(100), f.registry.MemberCount())
	})
}

func TestRegistry_Propose(t *testing.T) {
	ctx := context.Background()

	valid := func() governance.ProposeParams {
		return governance.ProposeParams{
			Proposer:    parent(0),
			Description: "Pintura para el aula de 3er grado",
			Amount:      big.NewInt(500),
			Recipient:   recipient,
			Duration:    24 * time.Hour,
		}
	}

	tests := []struct {
		name    string
		mutate  func(p *governance.ProposeParams)
		wantErr error
	}{
		{name: "non-member", mutate: func(p *governance.ProposeParams) { p.Proposer = outsider }, wantErr: domain.ErrNotAMember},
		{name: "zero amount", mutate: func(p *governance.ProposeParams) { p.Amount = big.NewInt(0) }, wantErr: domain.ErrZeroAmount},
		{name: "negative amount", mutate: func(p *governance.ProposeParams) { p.Amount = big.NewInt(-3) }, wantErr: domain.ErrZeroAmount},
		{name: "nil amount", mutate: func(p *governance.ProposeParams) { p.Amount = nil }, wantErr: domain.ErrZeroAmount},
		{name: "zero recipient", mutate: func(p *governance.ProposeParams) { p.Recipient = [20]byte{} }, wantErr: domain.ErrInvalidRecipient},
		{name: "zero duration", mutate: func(p *governance.ProposeParams) { p.Duration = 0 }, wantErr: domain.ErrInvalidDuration},
		{name: "blank description", mutate: func(p *governance.ProposeParams) { p.Description = "   " }, wantErr: domain.ErrEmptyDescription},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.members(t, 1, 10)

			params := valid()
			tt.mutate(&params)
			id, err := f.registry.Propose(ctx, params)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, id)

			// a rejected request never consumes an id
			assert.Equal(t, uint64(1), f.propose(t, parent(0), 500))
		})
	}

	t.Run("snapshots quorum parameters", func(t *testing.T) {
		f := newFixture(t)
		f.members(t, 1, 10)

		id := f.propose(t, parent(0), 500)
		p, err := f.registry.GetProposal(id)
		require.NoError(t, err)

		assert.Equal(t, models.ProposalStatusActive, p.Status)
		assert.Equal(t, uint64(2000), p.RequiredQuorumBasisPoints)
		assert.Equal(t, uint64(100), p.MemberCountAtCreation)
		assert.Equal(t, big.NewInt(20), p.QuorumThreshold)
		assert.Equal(t, f.clock.Now().Add(72*time.Hour), p.VotingDeadline)
	})

	t.Run("ids are sequential", func(t *testing.T) {
		f := newFixture(t)
		f.members(t, 1, 10)

		for want := uint64(1); want <= 3; want++ {
			assert.Equal(t, want, f.propose(t, parent(0), 1))
		}
	})
}

func TestRegistry_Vote(t *testing.T) {
	ctx := context.Background()

	t.Run("weight is the balance at cast time", func(t *testing.T) {
		f := newFixture(t)
		addrs := f.members(t, 2, 10)
		id := f.propose(t, addrs[0], 500)

		vote, err := f.registry.Vote(ctx, addrs[0], id, models.ChoiceFor)
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(10), vote.Weight)

		// later balance changes do not alter the recorded weight
		f.token.Set(addrs[0], 1000)
		p, err := f.registry.GetProposal(id)
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(10), p.Tally.For)
	})

	t.Run("unknown proposal", func(t *testing.T) {
		f := newFixture(t)
		addrs := f.members(t, 1, 10)

		_, err := f.registry.Vote(ctx, addrs[0], 7, models.ChoiceFor)
		assert.ErrorIs(t, err, domain.ErrProposalNotFound)
	})

	t.Run("non-member leaves the tally untouched", func(t *testing.T) {
		f := newFixture(t)
		addrs := f.members(t, 1, 10)
		id := f.propose(t, addrs[0], 500)
		f.token.Set(outsider, 1_000)

		_, err := f.registry.Vote(ctx, outsider, id, models.ChoiceFor)
		assert.ErrorIs(t, err, domain.ErrNotAMember)

		p, err := f.registry.GetProposal(id)
		require.NoError(t, err)
		assert.Zero(t, p.Tally.For.Sign())
		assert.Zero(t, p.Tally.Voters)
	})

	t.Run("double vote", func(t *testing.T) {
		f := newFixture(t)
		addrs := f.members(t, 1, 10)
		id := f.propose(t, addrs[0], 500)

		_, err := f.registry.Vote(ctx, addrs[0], id, models.ChoiceFor)
		require.NoError(t, err)
		_, err = f.registry.Vote(ctx, addrs[0], id, models.ChoiceAgainst)
		assert.ErrorIs(t, err, domain.ErrDoubleVote)
		assert.Equal(t, domain.CategoryState, domain.Category(err))

		p, err := f.registry.GetProposal(id)
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(10), p.Tally.For)
		assert.Zero(t, p.Tally.Against.Sign())
	})

	t.Run("after the deadline", func(t *testing.T) {
		f := newFixture(t)
		addrs := f.members(t, 1, 10)
		id := f.propose(t, addrs[0], 500)
		f.clock.Advance(72 * time.Hour)

		_, err := f.registry.Vote(ctx, addrs[0], id, models.ChoiceFor)
		assert.ErrorIs(t, err, domain.ErrVotingClosed)
	})

	t.Run("zero balance", func(t *testing.T) {
		f := newFixture(t)
		addrs := f.members(t, 1, 0)
		id := f.propose(t, addrs[0], 500)

		_, err := f.registry.Vote(ctx, addrs[0], id, models.ChoiceFor)
		assert.ErrorIs(t, err, domain.ErrNoVotingPower)
	})

	t.Run("token unavailable", func(t *testing.T) {
		f := newFixture(t)
		addrs := f.members(t, 1, 10)
		id := f.propose(t, addrs[0], 500)
		f.token.balanceErr = errTokenDown

		_, err := f.registry.Vote(ctx, addrs[0], id, models.ChoiceFor)
		assert.ErrorIs(t, err, domain.ErrTokenUnavailable)
		assert.ErrorIs(t, err, errTokenDown)
		assert.Equal(t, domain.CategoryExternal, domain.Category(err))
		p, err := f.registry.GetProposal(id)
		require.NoError(t, err)
		assert.Zero(t, p.Tally.Voters)
	})

	t.Run("invalid choice", func(t *testing.T) {
		f := newFixture(t)
		addrs := f.members(t, 1, 10)
		id := f.propose(t, addrs[0], 500)

		_, err := f.registry.Vote(ctx, addrs[0], id, models.Choice("maybe"))
		assert.ErrorIs(t, err, domain.ErrInvalidChoice)
	})
}

func TestRegistry_Scenarios(t *testing.T) {
	ctx := context.Background()

	t.Run("quorum reached is approved and pays exactly once", func(t *testing.T) {
		f := newFixture(t)
		addrs := f.members(t, 25, 10)
		id := f.propose(t, addrs[0], 500)

		for _, addr := range addrs {
			_, err := f.registry.Vote(ctx, addr, id, models.ChoiceFor)
			require.NoError(t, err)
		}

		// still active before the deadline
		_, err := f.registry.Execute(ctx, id)
		assert.ErrorIs(t, err, domain.ErrNotApproved)

		f.clock.Advance(72 * time.Hour)
		p, err := f.registry.GetProposal(id)
		require.NoError(t, err)
		assert.Equal(t, models.ProposalStatusApproved, p.Status)
		assert.Equal(t, big.NewInt(250), p.Tally.For)

		executed, err := f.registry.Execute(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.ProposalStatusExecuted, executed.Status)
		require.NotNil(t, executed.ExecutedAt)

		_, err = f.registry.Execute(ctx, id)
		assert.ErrorIs(t, err, domain.ErrAlreadyExecuted)

		transfers := f.token.Transfers()
		require.Len(t, transfers, 1)
		assert.Equal(t, treasury, transfers[0].From)
		assert.Equal(t, recipient, transfers[0].To)
		assert.Equal(t, big.NewInt(500), transfers[0].Amount)
		assert.Equal(t, models.ProposalStatusExecuted, f.store.Stored(id).Status)
	})

	t.Run("below quorum is rejected and never pays", func(t *testing.T) {
		f := newFixture(t)
		addrs := f.members(t, 3, 5)
		id := f.propose(t, addrs[0], 500)

		for _, addr := range addrs {
			_, err := f.registry.Vote(ctx, addr, id, models.ChoiceFor)
			require.NoError(t, err)
		}
		f.clock.Advance(72 * time.Hour)

		p, err := f.registry.GetProposal(id)
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(15), p.Tally.For)
		assert.Equal(t, models.ProposalStatusRejected, p.Status)

		_, err = f.registry.Execute(ctx, id)
		assert.ErrorIs(t, err, domain.ErrNotApproved)
		assert.Empty(t, f.token.Transfers())
	})

	t.Run("majority against is rejected", func(t *testing.T) {
		f := newFixture(t)
		addrs := f.members(t, 2, 30)
		f.token.Set(addrs[1], 40)
		id := f.propose(t, addrs[0], 500)

		_, err := f.registry.Vote(ctx, addrs[0], id, models.ChoiceFor)
		require.NoError(t, err)
		_, err = f.registry.Vote(ctx, addrs[1], id, models.ChoiceAgainst)
		require.NoError(t, err)
		f.clock.Advance(72 * time.Hour)

		p, err := f.registry.GetProposal(id)
		require.NoError(t, err)
		assert.Equal(t, models.ProposalStatusRejected, p.Status)
	})

	t.Run("nobody votes expires", func(t *testing.T) {
		f := newFixture(t)
		addrs := f.members(t, 1, 10)
		id := f.propose(t, addrs[0], 500)
		f.clock.Advance(72 * time.Hour)

		p, err := f.registry.GetProposal(id)
		require.NoError(t, err)
		assert.Equal(t, models.ProposalStatusExpired, p.Status)
	})
}

func TestRegistry_FrozenQuorum(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	addrs := f.members(t, 100, 1)
	id := f.propose(t, addrs[0], 500)

	// joining members raise the denominator for new proposals only
	for i := 100; i < 200; i++ {
		_, err := f.registry.RegisterMember(ctx, admin, parent(i))
		require.NoError(t, err)
	}
	later := f.propose(t, addrs[0], 500)

	first, err := f.registry.GetProposal(id)
	require.NoError(t, err)
	second, err := f.registry.GetProposal(later)
	require.NoError(t, err)

	assert.Equal(t, uint64(100), first.MemberCountAtCreation)
	assert.Equal(t, big.NewInt(20), first.QuorumThreshold)
	assert.Equal(t, uint64(200), second.MemberCountAtCreation)
	assert.Equal(t, big.NewInt(40), second.QuorumThreshold)
}

func TestRegistry_Execute(t *testing.T) {
	ctx := context.Background()

	approved := func(t *testing.T) (*fixture, uint64) {
		f := newFixture(t)
		addrs := f.members(t, 25, 10)
		id := f.propose(t, addrs[0], 500)
		for _, addr := range addrs {
			_, err := f.registry.Vote(ctx, addr, id, models.ChoiceFor)
			require.NoError(t, err)
		}
		f.clock.Advance(72 * time.Hour)
		return f, id
	}

	t.Run("unknown proposal", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.registry.Execute(ctx, 1)
		assert.ErrorIs(t, err, domain.ErrProposalNotFound)
	})

	t.Run("failed transfer keeps the proposal approved", func(t *testing.T) {
		f, id := approved(t)
		f.token.failErr = errors.New("insufficient treasury balance")

		_, err := f.registry.Execute(ctx, id)
		assert.ErrorIs(t, err, domain.ErrTransferFailed)
		assert.Equal(t, domain.CategoryExternal, domain.Category(err))

		p, err := f.registry.GetProposal(id)
		require.NoError(t, err)
		assert.Equal(t, models.ProposalStatusApproved, p.Status)
		assert.Nil(t, p.ExecutedAt)
		assert.Nil(t, p.PendingTransfer)
		assert.Equal(t, models.ProposalStatusActive, f.store.Stored(id).Status)

		// retry prepares a fresh transfer once the token recovers
		f.token.failErr = nil
		_, err = f.registry.Execute(ctx, id)
		require.NoError(t, err)
		assert.Len(t, f.token.Transfers(), 1)
		assert.Equal(t, 2, f.token.Prepared())
	})

	t.Run("unknown transfer outcome is reconciled without a second payout", func(t *testing.T) {
		f, id := approved(t)
		f.token.unconfirmed = true

		_, err := f.registry.Execute(ctx, id)
		assert.ErrorIs(t, err, domain.ErrTransferPending)
		assert.Equal(t, domain.CategoryExternal, domain.Category(err))

		stored := f.store.Stored(id)
		require.NotNil(t, stored.PendingTransfer)
		assert.Equal(t, "tx-1", stored.PendingTransfer.ID)

		// still unknown: the same transfer is resubmitted
		_, err = f.registry.Execute(ctx, id)
		assert.ErrorIs(t, err, domain.ErrTransferPending)

		p, err := f.registry.GetProposal(id)
		require.NoError(t, err)
		assert.Equal(t, models.ProposalStatusApproved, p.Status)

		f.token.unconfirmed = false
		executed, err := f.registry.Execute(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.ProposalStatusExecuted, executed.Status)
		assert.Nil(t, executed.PendingTransfer)

		assert.Len(t, f.token.Transfers(), 1)
		assert.Equal(t, 1, f.token.Prepared())
		assert.Equal(t, 3, f.token.submits)
		assert.Nil(t, f.store.Stored(id).PendingTransfer)
	})

	t.Run("a restarted process reconciles the pending transfer", func(t *testing.T) {
		f, id := approved(t)
		f.token.unconfirmed = true
		_, err := f.registry.Execute(ctx, id)
		require.ErrorIs(t, err, domain.ErrTransferPending)

		f.token.unconfirmed = false
		executed, err := f.open(t).Execute(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.ProposalStatusExecuted, executed.Status)
		assert.Len(t, f.token.Transfers(), 1)
		assert.Equal(t, 1, f.token.Prepared())
	})

	t.Run("ledger write failure after payout does not pay twice", func(t *testing.T) {
		f, id := approved(t)
		f.store.commitErr = errors.New("disk full")

		_, err := f.registry.Execute(ctx, id)
		require.Error(t, err)
		assert.Len(t, f.token.Transfers(), 1)

		f.store.commitErr = nil
		executed, err := f.registry.Execute(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.ProposalStatusExecuted, executed.Status)

		_, err = f.registry.Execute(ctx, id)
		assert.ErrorIs(t, err, domain.ErrAlreadyExecuted)
		assert.Len(t, f.token.Transfers(), 1)
	})

	t.Run("cancelled caller still records a confirmed payout", func(t *testing.T) {
		f, id := approved(t)
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		// the fakes ignore ctx; the ledger write must not be skipped
		executed, err := f.registry.Execute(cctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.ProposalStatusExecuted, executed.Status)
		assert.Equal(t, models.ProposalStatusExecuted, f.store.Stored(id).Status)
	})

	t.Run("event publish failure does not undo execution", func(t *testing.T) {
		f, id := approved(t)
		f.publisher.err = errors.New("broker down")

		executed, err := f.registry.Execute(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.ProposalStatusExecuted, executed.Status)
	})
}

func TestRegistry_Finalize(t *testing.T) {
	ctx := context.Background()

	t.Run("voting still open", func(t *testing.T) {
		f := newFixture(t)
		addrs := f.members(t, 1, 10)
		id := f.propose(t, addrs[0], 500)

		_, err := f.registry.Finalize(ctx, id)
		assert.ErrorIs(t, err, domain.ErrVotingOpen)
		assert.Empty(t, f.registry.PendingFinalization())
	})

	t.Run("persists the outcome once", func(t *testing.T) {
		f := newFixture(t)
		addrs := f.members(t, 1, 10)
		id := f.propose(t, addrs[0], 500)
		f.clock.Advance(72 * time.Hour)

		assert.Equal(t, []uint64{id}, f.registry.PendingFinalization())

		p, err := f.registry.Finalize(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.ProposalStatusExpired, p.Status)
		require.NotNil(t, p.FinalizedAt)
		assert.Equal(t, models.ProposalStatusExpired, f.store.Stored(id).Status)
		assert.Empty(t, f.registry.PendingFinalization())

		again, err := f.registry.Finalize(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, p.FinalizedAt, again.FinalizedAt)
		assert.Equal(t, []domain.EventType{
			domain.EventMemberRegistered,
			domain.EventProposalCreated,
			domain.EventProposalClosed,
		}, f.publisher.Types())
	})

	t.Run("finalized approval can still execute", func(t *testing.T) {
		f := newFixture(t)
		addrs := f.members(t, 3, 10)
		id := f.propose(t, addrs[0], 500)
		for _, addr := range addrs {
			_, err := f.registry.Vote(ctx, addr, id, models.ChoiceFor)
			require.NoError(t, err)
		}
		f.clock.Advance(72 * time.Hour)

		p, err := f.registry.Finalize(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.ProposalStatusApproved, p.Status)

		executed, err := f.registry.Execute(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, p.FinalizedAt, executed.FinalizedAt)
	})
}

func TestRegistry_Reload(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	addrs := f.members(t, 3, 10)
	id := f.propose(t, addrs[0], 500)
	_, err := f.registry.Vote(ctx, addrs[0], id, models.ChoiceFor)
	require.NoError(t, err)
	_, err = f.registry.Vote(ctx, addrs[1], id, models.ChoiceAgainst)
	require.NoError(t, err)

	reopened := f.open(t)

	assert.Len(t, reopened.ListMembers(), 3)
	p, err := reopened.GetProposal(id)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(10), p.Tally.For)
	assert.Equal(t, big.NewInt(10), p.Tally.Against)
	assert.Equal(t, 2, p.Tally.Voters)

	votes, err := reopened.Votes(id)
	require.NoError(t, err)
	assert.Len(t, votes, 2)

	_, err = reopened.Vote(ctx, addrs[0], id, models.ChoiceFor)
	assert.ErrorIs(t, err, domain.ErrDoubleVote)

	next, err := reopened.Propose(ctx, governance.ProposeParams{
		Proposer:    addrs[2],
		Description: "Reparación del techo del gimnasio",
		Amount:      big.NewInt(1),
		Recipient:   recipient,
		Duration:    time.Hour,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), next)
}

func TestRegistry_SharedLedger(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	addrs := f.members(t, 25, 10)
	first := f.propose(t, addrs[0], 500)
	second := f.propose(t, addrs[0], 300)

	// a long-running server opened before any votes were cast
	server := f.open(t)

	for _, addr := range addrs {
		_, err := f.registry.Vote(ctx, addr, first, models.ChoiceFor)
		require.NoError(t, err)
		_, err = f.registry.Vote(ctx, addr, second, models.ChoiceFor)
		require.NoError(t, err)
	}
	f.clock.Advance(72 * time.Hour)

	_, err := f.registry.Execute(ctx, first)
	require.NoError(t, err)

	finalized, err := server.Finalize(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, models.ProposalStatusApproved, finalized.Status)
	assert.Equal(t, big.NewInt(250), finalized.Tally.For)

	_, err = server.Execute(ctx, first)
	assert.ErrorIs(t, err, domain.ErrAlreadyExecuted)
	assert.Len(t, f.token.Transfers(), 1)

	assert.Equal(t, models.ProposalStatusExecuted, f.store.Stored(first).Status)
	assert.Equal(t, big.NewInt(250), f.store.Stored(first).Tally.For)
	assert.Equal(t, models.ProposalStatusApproved, f.store.Stored(second).Status)

	votes, err := server.Votes(first)
	require.NoError(t, err)
	assert.Len(t, votes, 25)

	t.Run("stale finalize is replayed against the stored tally", func(t *testing.T) {
		f := newFixture(t)
		addrs := f.members(t, 25, 10)
		id := f.propose(t, addrs[0], 500)
		stale := f.open(t)
		for _, addr := range addrs {
			_, err := f.registry.Vote(ctx, addr, id, models.ChoiceFor)
			require.NoError(t, err)
		}
		f.clock.Advance(72 * time.Hour)

		// refresh happens inside Finalize; the stale copy never reaches the store
		p, err := stale.Finalize(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.ProposalStatusApproved, p.Status)
		assert.Equal(t, 25, f.store.Stored(id).Tally.Voters)
	})

	t.Run("refresh picks up other writers", func(t *testing.T) {
		f := newFixture(t)
		reader := f.open(t)
		f.members(t, 2, 10)
		assert.Empty(t, reader.ListMembers())

		require.NoError(t, reader.Refresh(ctx))
		assert.Len(t, reader.ListMembers(), 2)
	})
}

func TestRegistry_ListProposals(t *testing.T) {
	f := newFixture(t)
	addrs := f.members(t, 2, 10)
	first := f.propose(t, addrs[0], 100)
	f.clock.Advance(80 * time.Hour)
	second := f.propose(t, addrs[1], 200)

	all := f.registry.ListProposals(domain.ProposalFilter{})
	require.Len(t, all, 2)
	assert.Equal(t, second, all[0].ID)
	assert.Equal(t, first, all[1].ID)

	active := f.registry.ListProposals(domain.ProposalFilter{Status: models.ProposalStatusActive})
	require.Len(t, active, 1)
	assert.Equal(t, second, active[0].ID)

	byProposer := f.registry.ListProposals(domain.ProposalFilter{Proposer: &addrs[0]})
	require.Len(t, byProposer, 1)
	assert.Equal(t, first, byProposer[0].ID)
}
