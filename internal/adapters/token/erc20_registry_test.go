package token_test

import (
	"context"
	"math/big"
	"path/filepath"
	"testing"
	"time"

	"github.com/cooperadora-escolar/coop/internal/adapters/repository/ledger"
	"github.com/cooperadora-escolar/coop/internal/adapters/token"
	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/cooperadora-escolar/coop/internal/domain/config"
	"github.com/cooperadora-escolar/coop/internal/domain/models"
	"github.com/cooperadora-escolar/coop/internal/governance"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stepClock struct{ now time.Time }

func (c *stepClock) Now() time.Time { return c.now }

func TestERC20_ExecuteWithUnminedReceipt(t *testing.T) {
	ctx := context.Background()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	treasury := crypto.PubkeyToAddress(key.PublicKey)
	recipient := common.HexToAddress("0x00000000000000000000000000000000000000c1")

	voters := []common.Address{owner, user1, user2}
	backend := &fakeBackend{holding: true, balances: map[common.Address]*big.Int{}}
	for _, v := range voters {
		backend.balances[v] = big.NewInt(10)
	}
	erc20 := token.NewERC20(backend, tokenAddress, big.NewInt(31337), key, 50*time.Millisecond)

	genesis := config.DefaultGenesis()
	genesis.Admin = owner
	genesis.Treasury = treasury
	clock := &stepClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	path := filepath.Join(t.TempDir(), ledger.LedgerFile)

	open := func() *governance.Registry {
		store, err := ledger.Open(path)
		require.NoError(t, err)
		r, err := governance.NewRegistry(ctx, genesis, store, erc20, governance.WithClock(clock))
		require.NoError(t, err)
		return r
	}

	registry := open()
	for _, v := range voters {
		_, err := registry.RegisterMember(ctx, owner, v)
		require.NoError(t, err)
	}
	id, err := registry.Propose(ctx, governance.ProposeParams{
		Proposer:    owner,
		Description: "Pintura para las aulas",
		Amount:      big.NewInt(500),
		Recipient:   recipient,
		Duration:    time.Hour,
	})
	require.NoError(t, err)
	for _, v := range voters {
		_, err := registry.Vote(ctx, v, id, models.ChoiceFor)
		require.NoError(t, err)
	}
	clock.now = clock.now.Add(2 * time.Hour)

	_, err = registry.Execute(ctx, id)
	assert.ErrorIs(t, err, domain.ErrTransferPending)
	assert.Equal(t, 1, backend.broadcasts())

	// a retry, here from a fresh process, must not sign a second payout
	_, err = open().Execute(ctx, id)
	assert.ErrorIs(t, err, domain.ErrTransferPending)
	assert.Equal(t, 1, backend.broadcasts())

	backend.mine()
	executed, err := registry.Execute(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.ProposalStatusExecuted, executed.Status)
	assert.Equal(t, 1, backend.broadcasts())

	_, err = registry.Execute(ctx, id)
	assert.ErrorIs(t, err, domain.ErrAlreadyExecuted)
	assert.Equal(t, 1, backend.broadcasts())
}
