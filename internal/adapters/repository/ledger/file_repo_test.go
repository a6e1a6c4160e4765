package ledger_test

import (
	"context"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cooperadora-escolar/coop/internal/adapters/repository/ledger"
	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/cooperadora-escolar/coop/internal/domain/config"
	"github.com/cooperadora-escolar/coop/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	now   = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
)

func newRepo(t *testing.T) (*ledger.FileRepository, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := ledger.NewFileRepository(&config.RuntimeConfig{DataDir: dir})
	require.NoError(t, err)
	return repo, dir
}

func proposal(id uint64) *models.Proposal {
	return &models.Proposal{
		ID:                        id,
		Proposer:                  alice,
		Description:               "Útiles escolares",
		CreatedAt:                 now,
		VotingDeadline:            now.Add(72 * time.Hour),
		RequiredQuorumBasisPoints: 2000,
		MemberCountAtCreation:     100,
		QuorumThreshold:           big.NewInt(20),
		Status:                    models.ProposalStatusActive,
		TreasuryAmount:            big.NewInt(500),
		TreasuryRecipient:         bob,
		Tally:                     models.NewTally(),
	}
}

func TestFileRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("empty ledger", func(t *testing.T) {
		repo, dir := newRepo(t)

		snap, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, snap.Members)
		assert.Empty(t, snap.Proposals)
		assert.NoFileExists(t, filepath.Join(dir, ledger.LedgerFile))
	})

	t.Run("survives reopen", func(t *testing.T) {
		repo, dir := newRepo(t)

		require.NoError(t, repo.SaveMember(ctx, models.Member{Address: alice, JoinedAt: now}))
		require.NoError(t, repo.CreateProposal(ctx, proposal(1)))

		vote := &models.Vote{ProposalID: 1, Voter: alice, Choice: models.ChoiceFor, Weight: big.NewInt(10), CastAt: now}
		tally, err := repo.RecordVote(ctx, vote)
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(10), tally.For)

		reopened, err := ledger.Open(filepath.Join(dir, ledger.LedgerFile))
		require.NoError(t, err)
		snap, err := reopened.Load(ctx)
		require.NoError(t, err)

		require.Len(t, snap.Members, 1)
		assert.Equal(t, alice, snap.Members[0].Address)
		assert.True(t, snap.Members[0].JoinedAt.Equal(now))

		require.Len(t, snap.Proposals, 1)
		p := snap.Proposals[0]
		assert.Equal(t, big.NewInt(500), p.TreasuryAmount)
		assert.Equal(t, big.NewInt(10), p.Tally.For)
		assert.Equal(t, 1, p.Tally.Voters)

		require.Len(t, snap.Votes, 1)
		assert.Equal(t, models.ChoiceFor, snap.Votes[0].Choice)
		assert.Equal(t, big.NewInt(10), snap.Votes[0].Weight)

		assert.NoFileExists(t, filepath.Join(dir, ledger.LedgerFile+".tmp"))
	})

	t.Run("duplicate keys", func(t *testing.T) {
		repo, _ := newRepo(t)

		require.NoError(t, repo.SaveMember(ctx, models.Member{Address: alice, JoinedAt: now}))
		assert.ErrorIs(t, repo.SaveMember(ctx, models.Member{Address: alice, JoinedAt: now}), domain.ErrAlreadyMember)

		require.NoError(t, repo.CreateProposal(ctx, proposal(1)))
		assert.ErrorIs(t, repo.CreateProposal(ctx, proposal(1)), domain.ErrLedgerConflict)

		vote := &models.Vote{ProposalID: 1, Voter: alice, Choice: models.ChoiceFor, Weight: big.NewInt(1), CastAt: now}
		_, err := repo.RecordVote(ctx, vote)
		require.NoError(t, err)
		_, err = repo.RecordVote(ctx, vote)
		assert.ErrorIs(t, err, domain.ErrDoubleVote)
	})

	t.Run("vote on unknown proposal", func(t *testing.T) {
		repo, _ := newRepo(t)
		vote := &models.Vote{ProposalID: 9, Voter: alice, Choice: models.ChoiceFor, Weight: big.NewInt(1), CastAt: now}
		_, err := repo.RecordVote(ctx, vote)
		assert.ErrorIs(t, err, domain.ErrProposalNotFound)
	})

	t.Run("vote on closed proposal", func(t *testing.T) {
		repo, _ := newRepo(t)
		require.NoError(t, repo.CreateProposal(ctx, proposal(1)))
		closed := proposal(1)
		closed.Status = models.ProposalStatusExpired
		require.NoError(t, repo.FinalizeProposal(ctx, closed))

		vote := &models.Vote{ProposalID: 1, Voter: alice, Choice: models.ChoiceFor, Weight: big.NewInt(1), CastAt: now}
		_, err := repo.RecordVote(ctx, vote)
		assert.ErrorIs(t, err, domain.ErrVotingClosed)
	})

	t.Run("execute requires the attached transfer", func(t *testing.T) {
		repo, _ := newRepo(t)
		require.NoError(t, repo.CreateProposal(ctx, proposal(1)))

		executed := proposal(1)
		executed.Status = models.ProposalStatusExecuted
		at := now.Add(80 * time.Hour)
		executed.ExecutedAt = &at

		assert.ErrorIs(t, repo.ExecuteProposal(ctx, executed, "tx-1"), domain.ErrLedgerConflict)

		pending := models.PendingTransfer{TransferRef: models.TransferRef{ID: "tx-1", Payload: "{}"}, PreparedAt: at}
		require.NoError(t, repo.AttachTransfer(ctx, 1, pending))
		assert.ErrorIs(t, repo.AttachTransfer(ctx, 1, pending), domain.ErrLedgerConflict)
		assert.ErrorIs(t, repo.ExecuteProposal(ctx, executed, "tx-2"), domain.ErrLedgerConflict)

		snap, err := repo.Load(ctx)
		require.NoError(t, err)
		require.NotNil(t, snap.Proposals[0].PendingTransfer)
		assert.Equal(t, "tx-1", snap.Proposals[0].PendingTransfer.ID)
		assert.True(t, snap.Proposals[0].PendingTransfer.PreparedAt.Equal(at))

		require.NoError(t, repo.ExecuteProposal(ctx, executed, "tx-1"))
		assert.ErrorIs(t, repo.ExecuteProposal(ctx, executed, "tx-1"), domain.ErrAlreadyExecuted)
		assert.ErrorIs(t, repo.AttachTransfer(ctx, 1, pending), domain.ErrAlreadyExecuted)

		snap, err = repo.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, models.ProposalStatusExecuted, snap.Proposals[0].Status)
		require.NotNil(t, snap.Proposals[0].ExecutedAt)
		assert.Nil(t, snap.Proposals[0].PendingTransfer)
	})

	t.Run("detach only clears the named transfer", func(t *testing.T) {
		repo, _ := newRepo(t)
		require.NoError(t, repo.CreateProposal(ctx, proposal(1)))
		pending := models.PendingTransfer{TransferRef: models.TransferRef{ID: "tx-1"}, PreparedAt: now}
		require.NoError(t, repo.AttachTransfer(ctx, 1, pending))

		require.NoError(t, repo.DetachTransfer(ctx, 1, "tx-other"))
		snap, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.NotNil(t, snap.Proposals[0].PendingTransfer)

		require.NoError(t, repo.DetachTransfer(ctx, 1, "tx-1"))
		snap, err = repo.Load(ctx)
		require.NoError(t, err)
		assert.Nil(t, snap.Proposals[0].PendingTransfer)
	})

	t.Run("finalize", func(t *testing.T) {
		repo, _ := newRepo(t)
		require.NoError(t, repo.CreateProposal(ctx, proposal(1)))

		closed := proposal(1)
		closed.Status = models.ProposalStatusRejected
		require.NoError(t, repo.FinalizeProposal(ctx, closed))
		assert.ErrorIs(t, repo.FinalizeProposal(ctx, closed), domain.ErrLedgerConflict)
		assert.ErrorIs(t, repo.FinalizeProposal(ctx, proposal(2)), domain.ErrProposalNotFound)

		snap, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, models.ProposalStatusRejected, snap.Proposals[0].Status)
	})

	t.Run("finalize computed from a stale tally is refused", func(t *testing.T) {
		repo, _ := newRepo(t)
		require.NoError(t, repo.CreateProposal(ctx, proposal(1)))
		stale := proposal(1)

		vote := &models.Vote{ProposalID: 1, Voter: alice, Choice: models.ChoiceFor, Weight: big.NewInt(30), CastAt: now}
		_, err := repo.RecordVote(ctx, vote)
		require.NoError(t, err)

		stale.Status = models.ProposalStatusExpired
		assert.ErrorIs(t, repo.FinalizeProposal(ctx, stale), domain.ErrLedgerConflict)

		snap, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, models.ProposalStatusActive, snap.Proposals[0].Status)
		assert.Equal(t, big.NewInt(30), snap.Proposals[0].Tally.For)
	})

	t.Run("corrupt file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, ledger.LedgerFile)
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

		_, err := ledger.Open(path)
		assert.Error(t, err)
	})
}
