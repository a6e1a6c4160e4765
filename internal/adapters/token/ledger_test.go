package token_test

import (
	"context"
	"math/big"
	"path/filepath"
	"sync"
	"testing"

	"github.com/cooperadora-escolar/coop/internal/adapters/token"
	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/cooperadora-escolar/coop/internal/domain/config"
	"github.com/cooperadora-escolar/coop/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	owner = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	user1 = common.HexToAddress("0x00000000000000000000000000000000000000b1")
	user2 = common.HexToAddress("0x00000000000000000000000000000000000000b2")
)

func newLedger(t *testing.T) (*token.Ledger, string) {
	t.Helper()
	genesis := config.DefaultGenesis()
	genesis.Admin = owner
	path := filepath.Join(t.TempDir(), token.LedgerFile)
	l, err := token.OpenLedger(path, genesis)
	require.NoError(t, err)
	return l, path
}

func TestLedger_Genesis(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t)

	info, err := l.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Cooperadora Token", info.Name)
	assert.Equal(t, "COOP", info.Symbol)
	assert.Equal(t, uint8(18), info.Decimals)
	assert.Equal(t, owner, info.Owner)

	supply, _ := new(big.Int).SetString("1000000000000000000000000", 10)
	assert.Equal(t, 0, info.TotalSupply.Cmp(supply))

	bal, err := l.BalanceOf(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 0, bal.Cmp(supply))
}

func TestLedger_Transfer(t *testing.T) {
	ctx := context.Background()

	t.Run("moves tokens between accounts", func(t *testing.T) {
		l, path := newLedger(t)

		require.NoError(t, l.Transfer(ctx, owner, user1, big.NewInt(100)))

		bal, err := l.BalanceOf(ctx, user1)
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(100), bal)

		// persisted
		reopened, err := token.OpenLedger(path, nil)
		require.NoError(t, err)
		bal, err = reopened.BalanceOf(ctx, user1)
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(100), bal)
	})

	t.Run("zero amount", func(t *testing.T) {
		l, _ := newLedger(t)
		err := l.Transfer(ctx, owner, user1, big.NewInt(0))
		assert.ErrorIs(t, err, domain.ErrZeroAmount)
		assert.EqualError(t, err, "amount must be greater than 0")
	})

	t.Run("insufficient balance leaves balances untouched", func(t *testing.T) {
		l, _ := newLedger(t)
		require.NoError(t, l.Transfer(ctx, owner, user1, big.NewInt(5)))

		err := l.Transfer(ctx, user1, user2, big.NewInt(6))
		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

		bal, _ := l.BalanceOf(ctx, user1)
		assert.Equal(t, big.NewInt(5), bal)
		bal, _ = l.BalanceOf(ctx, user2)
		assert.Zero(t, bal.Sign())
	})

	t.Run("zero recipient", func(t *testing.T) {
		l, _ := newLedger(t)
		assert.ErrorIs(t, l.Transfer(ctx, owner, common.Address{}, big.NewInt(1)), domain.ErrInvalidRecipient)
	})
}

func TestLedger_MintBurn(t *testing.T) {
	ctx := context.Background()

	t.Run("owner mints", func(t *testing.T) {
		l, _ := newLedger(t)
		before, _ := l.Info(ctx)

		require.NoError(t, l.Mint(ctx, owner, user1, big.NewInt(500)))

		bal, _ := l.BalanceOf(ctx, user1)
		assert.Equal(t, big.NewInt(500), bal)
		after, _ := l.Info(ctx)
		assert.Equal(t, 0, new(big.Int).Sub(after.TotalSupply, before.TotalSupply).Cmp(big.NewInt(500)))
	})

	t.Run("non-owner cannot mint", func(t *testing.T) {
		l, _ := newLedger(t)
		assert.ErrorIs(t, l.Mint(ctx, user1, user1, big.NewInt(500)), domain.ErrNotAdmin)
	})

	t.Run("holder burns own tokens", func(t *testing.T) {
		l, _ := newLedger(t)
		require.NoError(t, l.Mint(ctx, owner, user1, big.NewInt(10)))

		require.NoError(t, l.Burn(ctx, user1, big.NewInt(4)))
		bal, _ := l.BalanceOf(ctx, user1)
		assert.Equal(t, big.NewInt(6), bal)

		assert.ErrorIs(t, l.Burn(ctx, user1, big.NewInt(7)), domain.ErrInsufficientFunds)
		assert.ErrorIs(t, l.Burn(ctx, user1, big.NewInt(0)), domain.ErrZeroAmount)
	})
}

func TestLedger_PreparedTransfer(t *testing.T) {
	ctx := context.Background()

	t.Run("settles once however often submitted", func(t *testing.T) {
		l, path := newLedger(t)
		ref, err := l.PrepareTransfer(ctx, owner, user1, big.NewInt(40))
		require.NoError(t, err)
		assert.NotEmpty(t, ref.ID)

		bal, _ := l.BalanceOf(ctx, user1)
		assert.Zero(t, bal.Sign(), "prepare moves nothing")

		status, err := l.SubmitTransfer(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, models.TransferConfirmed, status)

		// a second process resubmitting the same ref
		other, err := token.OpenLedger(path, nil)
		require.NoError(t, err)
		status, err = other.SubmitTransfer(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, models.TransferConfirmed, status)

		bal, _ = l.BalanceOf(ctx, user1)
		assert.Equal(t, big.NewInt(40), bal)
	})

	t.Run("insufficient funds fails without applying", func(t *testing.T) {
		l, _ := newLedger(t)
		ref, err := l.PrepareTransfer(ctx, user1, user2, big.NewInt(1))
		require.NoError(t, err)

		status, err := l.SubmitTransfer(ctx, ref)
		assert.Equal(t, models.TransferFailed, status)
		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

		// funded later, the same ref can still settle
		require.NoError(t, l.Transfer(ctx, owner, user1, big.NewInt(1)))
		status, err = l.SubmitTransfer(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, models.TransferConfirmed, status)
	})

	t.Run("invalid transfers are rejected up front", func(t *testing.T) {
		l, _ := newLedger(t)
		_, err := l.PrepareTransfer(ctx, owner, user1, big.NewInt(0))
		assert.ErrorIs(t, err, domain.ErrZeroAmount)
		_, err = l.PrepareTransfer(ctx, owner, common.Address{}, big.NewInt(1))
		assert.ErrorIs(t, err, domain.ErrInvalidRecipient)

		status, err := l.SubmitTransfer(ctx, models.TransferRef{ID: "x", Payload: "not json"})
		assert.Equal(t, models.TransferFailed, status)
		assert.Error(t, err)
	})
}

func TestLedger_SharedFile(t *testing.T) {
	ctx := context.Background()
	first, path := newLedger(t)
	second, err := token.OpenLedger(path, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(l *token.Ledger) {
			defer wg.Done()
			assert.NoError(t, l.Transfer(ctx, owner, user1, big.NewInt(1)))
		}([]*token.Ledger{first, second}[i%2])
	}
	wg.Wait()

	for _, l := range []*token.Ledger{first, second} {
		bal, err := l.BalanceOf(ctx, user1)
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(10), bal)
	}
}
