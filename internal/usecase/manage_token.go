package usecase

import (
	"context"
	"fmt"
	"math/big"

	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/cooperadora-escolar/coop/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
)

// Token operations
const (
	TokenInfo     = "info"
	TokenBalance  = "balance"
	TokenTransfer = "transfer"
	TokenMint     = "mint"
	TokenBurn     = "burn"
)

// ManageTokenParams contains parameters for token operations
type ManageTokenParams struct {
	Operation string
	Caller    common.Address
	// Account is the balance owner for balance, the recipient for transfer and mint
	Account   string
	Amount    string
	BaseUnits bool
}

// ManageTokenResult contains the result of a token operation
type ManageTokenResult struct {
	Operation string
	Info      *models.TokenInfo
	Account   common.Address
	Amount    *big.Int
	// Balance of Account after the operation (of Caller for burn)
	Balance *big.Int
}

// ManageToken drives the voting token
type ManageToken struct {
	token    TokenManager
	progress ProgressSink
}

// NewManageToken creates a new token management use case
func NewManageToken(token TokenManager, progress ProgressSink) *ManageToken {
	return &ManageToken{token: token, progress: progress}
}

// Execute performs the token operation
func (m *ManageToken) Execute(ctx context.Context, params ManageTokenParams) (*ManageTokenResult, error) {
	info, err := m.token.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read token: %w", err)
	}
	result := &ManageTokenResult{Operation: params.Operation, Info: info}

	switch params.Operation {
	case TokenInfo:
		return result, nil
	case TokenBalance:
		return m.balance(ctx, result, params.Account)
	case TokenTransfer, TokenMint, TokenBurn:
	default:
		return nil, fmt.Errorf("unknown operation: %s", params.Operation)
	}

	amount, err := m.parseAmount(params, info.Decimals)
	if err != nil {
		return nil, err
	}
	result.Amount = amount

	target := params.Caller
	if params.Operation != TokenBurn {
		if target, err = parseAddress(params.Account); err != nil {
			return nil, err
		}
	}

	m.progress.OnProgress(ctx, ProgressEvent{
		Stage:   params.Operation,
		Message: fmt.Sprintf("%s %s %s", params.Operation, domain.FormatUnits(amount, info.Decimals), info.Symbol),
		Spinner: true,
	})

	switch params.Operation {
	case TokenTransfer:
		err = m.token.Transfer(ctx, params.Caller, target, amount)
	case TokenMint:
		err = m.token.Mint(ctx, params.Caller, target, amount)
	case TokenBurn:
		err = m.token.Burn(ctx, params.Caller, amount)
	}
	if err != nil {
		return nil, err
	}

	result.Account = target
	if result.Balance, err = m.token.BalanceOf(ctx, target); err != nil {
		return nil, fmt.Errorf("failed to read balance: %w", err)
	}
	if result.Info, err = m.token.Info(ctx); err != nil {
		return nil, fmt.Errorf("failed to read token: %w", err)
	}
	return result, nil
}

func (m *ManageToken) balance(ctx context.Context, result *ManageTokenResult, account string) (*ManageTokenResult, error) {
	addr, err := parseAddress(account)
	if err != nil {
		return nil, err
	}
	bal, err := m.token.BalanceOf(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to read balance: %w", err)
	}
	result.Account = addr
	result.Balance = bal
	return result, nil
}

func (m *ManageToken) parseAmount(params ManageTokenParams, decimals uint8) (*big.Int, error) {
	if params.BaseUnits {
		return domain.ParseBaseUnits(params.Amount)
	}
	return domain.ParseUnits(params.Amount, decimals)
}
