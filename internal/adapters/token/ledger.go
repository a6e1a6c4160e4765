package token

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"github.com/cooperadora-escolar/coop/internal/adapters/fs"
	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/cooperadora-escolar/coop/internal/domain/config"
	"github.com/cooperadora-escolar/coop/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// LedgerFile is the token state file under the data directory
const LedgerFile = "token.json"

type ledgerState struct {
	Name        string                      `json:"name"`
	Symbol      string                      `json:"symbol"`
	Decimals    uint8                       `json:"decimals"`
	Owner       common.Address              `json:"owner"`
	TotalSupply *big.Int                    `json:"totalSupply"`
	Balances    map[common.Address]*big.Int `json:"balances"`
	// Applied holds the ids of settled prepared transfers
	Applied map[string]time.Time `json:"applied,omitempty"`
}

// transferPayload is the body of a prepared ledger transfer
type transferPayload struct {
	From   common.Address `json:"from"`
	To     common.Address `json:"to"`
	Amount *big.Int       `json:"amount"`
}

// errUnchanged ends an update without rewriting the file
var errUnchanged = errors.New("unchanged")

// Ledger is a local fungible token kept in a JSON file shared by every coop
// process on the machine. The genesis supply is minted to the owner when the
// file is first created. Every operation reads the file under its lock.
type Ledger struct {
	path string
	lock *fs.FileLock
}

// NewLedger opens the token ledger under cfg.DataDir
func NewLedger(cfg *config.RuntimeConfig) (*Ledger, error) {
	return OpenLedger(filepath.Join(cfg.DataDir, LedgerFile), cfg.Genesis)
}

// OpenLedger opens the ledger at path, creating it from genesis if missing
func OpenLedger(path string, genesis *config.Genesis) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create token ledger directory: %w", err)
	}
	l := &Ledger{path: path, lock: fs.NewFileLock(path)}

	err := l.lock.Exclusive(context.Background(), func() error {
		_, err := l.read()
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if genesis == nil {
			return fmt.Errorf("token ledger %s does not exist and no genesis was provided", path)
		}
		if err := l.write(genesisState(genesis)); err != nil {
			return fmt.Errorf("failed to write token ledger: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

func genesisState(genesis *config.Genesis) *ledgerState {
	supply := new(big.Int)
	if genesis.Token.InitialSupply != nil {
		supply.Set(genesis.Token.InitialSupply)
	}
	s := &ledgerState{
		Name:        genesis.Token.Name,
		Symbol:      genesis.Token.Symbol,
		Decimals:    genesis.Token.Decimals,
		Owner:       genesis.Admin,
		TotalSupply: supply,
		Balances:    make(map[common.Address]*big.Int),
		Applied:     make(map[string]time.Time),
	}
	if supply.Sign() > 0 {
		s.Balances[genesis.Admin] = new(big.Int).Set(supply)
	}
	return s
}

func (l *Ledger) read() (*ledgerState, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, err
	}
	var s ledgerState
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse token ledger: %w", err)
	}
	if s.Balances == nil {
		s.Balances = make(map[common.Address]*big.Int)
	}
	if s.TotalSupply == nil {
		s.TotalSupply = new(big.Int)
	}
	if s.Applied == nil {
		s.Applied = make(map[string]time.Time)
	}
	return &s, nil
}

func (l *Ledger) write(s *ledgerState) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return fs.WriteFileAtomic(l.path, data)
}

func (l *Ledger) view(ctx context.Context, fn func(*ledgerState) error) error {
	return l.lock.Shared(ctx, func() error {
		s, err := l.read()
		if err != nil {
			return fmt.Errorf("failed to read token ledger: %w", err)
		}
		return fn(s)
	})
}

// update applies fn to the current state and writes it back. Returning
// errUnchanged from fn skips the write.
func (l *Ledger) update(ctx context.Context, fn func(*ledgerState) error) error {
	return l.lock.Exclusive(ctx, func() error {
		s, err := l.read()
		if err != nil {
			return fmt.Errorf("failed to read token ledger: %w", err)
		}
		if err := fn(s); err != nil {
			if errors.Is(err, errUnchanged) {
				return nil
			}
			return err
		}
		if err := l.write(s); err != nil {
			return fmt.Errorf("failed to write token ledger: %w", err)
		}
		return nil
	})
}

// Info describes the token
func (l *Ledger) Info(ctx context.Context) (*models.TokenInfo, error) {
	var info *models.TokenInfo
	err := l.view(ctx, func(s *ledgerState) error {
		info = &models.TokenInfo{
			Name:        s.Name,
			Symbol:      s.Symbol,
			Decimals:    s.Decimals,
			TotalSupply: s.TotalSupply,
			Owner:       s.Owner,
			Backend:     string(config.TokenBackendLedger),
		}
		return nil
	})
	return info, err
}

// BalanceOf returns the balance of account
func (l *Ledger) BalanceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	var bal *big.Int
	err := l.view(ctx, func(s *ledgerState) error {
		bal = s.balance(account)
		return nil
	})
	return bal, err
}

// Transfer moves amount from one account to another
func (l *Ledger) Transfer(ctx context.Context, from, to common.Address, amount *big.Int) error {
	if err := validateTransfer(to, amount); err != nil {
		return err
	}
	return l.update(ctx, func(s *ledgerState) error {
		return s.move(from, to, amount)
	})
}

// PrepareTransfer describes a transfer without moving funds. The returned
// ref settles at most once however often it is submitted.
func (l *Ledger) PrepareTransfer(_ context.Context, from, to common.Address, amount *big.Int) (models.TransferRef, error) {
	if err := validateTransfer(to, amount); err != nil {
		return models.TransferRef{}, err
	}
	payload, err := json.Marshal(transferPayload{From: from, To: to, Amount: amount})
	if err != nil {
		return models.TransferRef{}, err
	}
	return models.TransferRef{ID: uuid.NewString(), Payload: string(payload)}, nil
}

// SubmitTransfer settles a prepared transfer. A ref that already settled is
// reported confirmed without moving funds again. Nothing is applied when the
// result is failed.
func (l *Ledger) SubmitTransfer(ctx context.Context, ref models.TransferRef) (models.TransferStatus, error) {
	var p transferPayload
	if err := json.Unmarshal([]byte(ref.Payload), &p); err != nil {
		return models.TransferFailed, fmt.Errorf("invalid transfer %s: %w", ref.ID, err)
	}
	if err := validateTransfer(p.To, p.Amount); err != nil {
		return models.TransferFailed, err
	}

	err := l.update(ctx, func(s *ledgerState) error {
		if _, ok := s.Applied[ref.ID]; ok {
			return errUnchanged
		}
		if err := s.move(p.From, p.To, p.Amount); err != nil {
			return err
		}
		s.Applied[ref.ID] = time.Now().UTC()
		return nil
	})
	if err != nil {
		return models.TransferFailed, err
	}
	return models.TransferConfirmed, nil
}

// Mint creates amount new tokens for to. Only the owner may mint.
func (l *Ledger) Mint(ctx context.Context, caller, to common.Address, amount *big.Int) error {
	if err := validateTransfer(to, amount); err != nil {
		return err
	}
	return l.update(ctx, func(s *ledgerState) error {
		if caller != s.Owner {
			return domain.ErrNotAdmin
		}
		s.set(to, new(big.Int).Add(s.balance(to), amount))
		s.TotalSupply.Add(s.TotalSupply, amount)
		return nil
	})
}

// Burn destroys amount of holder's own tokens
func (l *Ledger) Burn(ctx context.Context, holder common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return domain.ErrZeroAmount
	}
	return l.update(ctx, func(s *ledgerState) error {
		bal := s.balance(holder)
		if bal.Cmp(amount) < 0 {
			return fmt.Errorf("%w: %s holds %s, needs %s", domain.ErrInsufficientFunds, holder.Hex(), bal, amount)
		}
		s.set(holder, bal.Sub(bal, amount))
		s.TotalSupply.Sub(s.TotalSupply, amount)
		return nil
	})
}

func validateTransfer(to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return domain.ErrZeroAmount
	}
	if to == (common.Address{}) {
		return domain.ErrInvalidRecipient
	}
	return nil
}

func (s *ledgerState) balance(account common.Address) *big.Int {
	if b, ok := s.Balances[account]; ok {
		return new(big.Int).Set(b)
	}
	return new(big.Int)
}

func (s *ledgerState) move(from, to common.Address, amount *big.Int) error {
	fromBal := s.balance(from)
	if fromBal.Cmp(amount) < 0 {
		return fmt.Errorf("%w: %s holds %s, needs %s", domain.ErrInsufficientFunds, from.Hex(), fromBal, amount)
	}
	s.set(from, fromBal.Sub(fromBal, amount))
	s.set(to, new(big.Int).Add(s.balance(to), amount))
	return nil
}

func (s *ledgerState) set(account common.Address, amount *big.Int) {
	if amount.Sign() == 0 {
		delete(s.Balances, account)
		return
	}
	s.Balances[account] = amount
}
