package token

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/cooperadora-escolar/coop/internal/adapters/token/bindings"
	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/cooperadora-escolar/coop/internal/domain/config"
	"github.com/cooperadora-escolar/coop/internal/domain/models"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// Backend is the subset of the JSON-RPC client used by ERC20
type Backend interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// ERC20 talks to a deployed voting token contract. State-changing calls are
// signed with the treasury key and waited on until mined or txTimeout.
type ERC20 struct {
	backend   Backend
	contract  *bindings.CooperadoraToken
	address   common.Address
	chainID   *big.Int
	key       *ecdsa.PrivateKey
	signer    common.Address
	txTimeout time.Duration
	poll      time.Duration
}

// DialERC20 connects to cfg.Token.RPCURL and verifies the chain id
func DialERC20(ctx context.Context, cfg *config.RuntimeConfig) (*ERC20, error) {
	if cfg.Token.RPCURL == "" {
		return nil, fmt.Errorf("token RPC URL is not configured")
	}
	if cfg.Genesis == nil || cfg.Genesis.Token.Address == (common.Address{}) {
		return nil, fmt.Errorf("token contract address is not configured")
	}

	client, err := ethclient.DialContext(ctx, cfg.Token.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	networkChainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	if cfg.Token.ChainID != 0 && networkChainID.Uint64() != cfg.Token.ChainID {
		return nil, fmt.Errorf("chain ID mismatch: expected %d, got %d", cfg.Token.ChainID, networkChainID.Uint64())
	}

	var key *ecdsa.PrivateKey
	if cfg.Token.TreasuryKey != "" {
		key, err = crypto.HexToECDSA(strings.TrimPrefix(cfg.Token.TreasuryKey, "0x"))
		if err != nil {
			return nil, fmt.Errorf("invalid treasury key: %w", err)
		}
	}

	return NewERC20(client, cfg.Genesis.Token.Address, networkChainID, key, cfg.Token.TxTimeout), nil
}

// NewERC20 creates an ERC20 over an existing backend. key may be nil for a
// read-only token.
func NewERC20(backend Backend, address common.Address, chainID *big.Int, key *ecdsa.PrivateKey, txTimeout time.Duration) *ERC20 {
	if txTimeout <= 0 {
		txTimeout = 2 * time.Minute
	}
	t := &ERC20{
		backend:   backend,
		contract:  bindings.NewCooperadoraToken(),
		address:   address,
		chainID:   chainID,
		key:       key,
		txTimeout: txTimeout,
		poll:      time.Second,
	}
	if key != nil {
		t.signer = crypto.PubkeyToAddress(key.PublicKey)
	}
	return t
}

// Signer is the address transactions are sent from
func (t *ERC20) Signer() common.Address {
	return t.signer
}

func (t *ERC20) call(ctx context.Context, data []byte) ([]byte, error) {
	return t.backend.CallContract(ctx, ethereum.CallMsg{To: &t.address, Data: data}, nil)
}

// Info reads the token metadata from the contract
func (t *ERC20) Info(ctx context.Context) (*models.TokenInfo, error) {
	info := &models.TokenInfo{Address: t.address, Backend: string(config.TokenBackendERC20)}

	out, err := t.call(ctx, t.contract.PackName())
	if err != nil {
		return nil, fmt.Errorf("failed to read name: %w", err)
	}
	if info.Name, err = t.contract.UnpackName(out); err != nil {
		return nil, err
	}
	if out, err = t.call(ctx, t.contract.PackSymbol()); err != nil {
		return nil, fmt.Errorf("failed to read symbol: %w", err)
	}
	if info.Symbol, err = t.contract.UnpackSymbol(out); err != nil {
		return nil, err
	}
	if out, err = t.call(ctx, t.contract.PackDecimals()); err != nil {
		return nil, fmt.Errorf("failed to read decimals: %w", err)
	}
	if info.Decimals, err = t.contract.UnpackDecimals(out); err != nil {
		return nil, err
	}
	if out, err = t.call(ctx, t.contract.PackTotalSupply()); err != nil {
		return nil, fmt.Errorf("failed to read total supply: %w", err)
	}
	if info.TotalSupply, err = t.contract.UnpackTotalSupply(out); err != nil {
		return nil, err
	}
	// owner() is optional on plain ERC-20s
	if out, err = t.call(ctx, t.contract.PackOwner()); err == nil {
		info.Owner, _ = t.contract.UnpackOwner(out)
	}
	return info, nil
}

// BalanceOf reads the balance of account at the latest block
func (t *ERC20) BalanceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	out, err := t.call(ctx, t.contract.PackBalanceOf(account))
	if err != nil {
		return nil, fmt.Errorf("balanceOf call failed: %w", err)
	}
	return t.contract.UnpackBalanceOf(out)
}

// Transfer sends amount from the treasury signer to to and waits for it to
// be mined. from must be the signer.
func (t *ERC20) Transfer(ctx context.Context, from, to common.Address, amount *big.Int) error {
	ref, err := t.PrepareTransfer(ctx, from, to, amount)
	if err != nil {
		return err
	}
	_, err = t.SubmitTransfer(ctx, ref)
	return err
}

// PrepareTransfer signs transfer(to, amount) with the treasury key without
// broadcasting it. The ref id is the transaction hash and the payload its
// raw encoding.
func (t *ERC20) PrepareTransfer(ctx context.Context, from, to common.Address, amount *big.Int) (models.TransferRef, error) {
	if amount == nil || amount.Sign() <= 0 {
		return models.TransferRef{}, domain.ErrZeroAmount
	}
	if to == (common.Address{}) {
		return models.TransferRef{}, domain.ErrInvalidRecipient
	}
	if err := t.requireSigner(from); err != nil {
		return models.TransferRef{}, err
	}
	tx, err := t.sign(ctx, t.contract.PackTransfer(to, amount))
	if err != nil {
		return models.TransferRef{}, err
	}
	raw, err := tx.MarshalBinary()
	if err != nil {
		return models.TransferRef{}, fmt.Errorf("failed to encode transaction: %w", err)
	}
	return models.TransferRef{ID: tx.Hash().Hex(), Payload: hexutil.Encode(raw)}, nil
}

// SubmitTransfer broadcasts a prepared transaction unless the chain already
// has it, then waits for the receipt. A signed transaction is mined at most
// once, so submitting the same ref again never pays twice.
func (t *ERC20) SubmitTransfer(ctx context.Context, ref models.TransferRef) (models.TransferStatus, error) {
	raw, err := hexutil.Decode(ref.Payload)
	if err != nil {
		return models.TransferFailed, fmt.Errorf("invalid transfer %s: %w", ref.ID, err)
	}
	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(raw); err != nil {
		return models.TransferFailed, fmt.Errorf("invalid transfer %s: %w", ref.ID, err)
	}
	return t.submit(ctx, tx)
}

// Mint calls mint(to, amount); the contract enforces ownership.
func (t *ERC20) Mint(ctx context.Context, caller, to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return domain.ErrZeroAmount
	}
	if err := t.requireSigner(caller); err != nil {
		return err
	}
	return t.transact(ctx, t.contract.PackMint(to, amount))
}

// Burn calls burn(amount) for the signer's own tokens
func (t *ERC20) Burn(ctx context.Context, holder common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return domain.ErrZeroAmount
	}
	if err := t.requireSigner(holder); err != nil {
		return err
	}
	return t.transact(ctx, t.contract.PackBurn(amount))
}

func (t *ERC20) requireSigner(from common.Address) error {
	if t.key == nil {
		return fmt.Errorf("no treasury key configured, token is read-only")
	}
	if from != t.signer {
		return fmt.Errorf("cannot sign for %s: treasury key belongs to %s", from.Hex(), t.signer.Hex())
	}
	return nil
}

func (t *ERC20) transact(ctx context.Context, data []byte) error {
	tx, err := t.sign(ctx, data)
	if err != nil {
		return err
	}
	_, err = t.submit(ctx, tx)
	return err
}

// sign builds and signs an EIP-1559 transaction to the token contract
func (t *ERC20) sign(ctx context.Context, data []byte) (*types.Transaction, error) {
	nonce, err := t.backend.PendingNonceAt(ctx, t.signer)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}
	tip, err := t.backend.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest gas tip: %w", err)
	}
	head, err := t.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest header: %w", err)
	}
	feeCap := new(big.Int).Set(tip)
	if head.BaseFee != nil {
		feeCap.Add(feeCap, new(big.Int).Mul(head.BaseFee, big.NewInt(2)))
	}

	gas, err := t.backend.EstimateGas(ctx, ethereum.CallMsg{From: t.signer, To: &t.address, Data: data})
	if err != nil {
		return nil, fmt.Errorf("gas estimation failed: %w", err)
	}

	tx, err := types.SignNewTx(t.key, types.LatestSignerForChainID(t.chainID), &types.DynamicFeeTx{
		ChainID:   t.chainID,
		Nonce:     nonce,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Gas:       gas,
		To:        &t.address,
		Data:      data,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	return tx, nil
}

// submit sends tx unless it was already mined and waits for its receipt.
//
// Once SendTransaction has been attempted the transaction may be in the pool,
// so every error after that point is reported pending, except a rejection
// from the node which means it was never accepted.
func (t *ERC20) submit(ctx context.Context, tx *types.Transaction) (models.TransferStatus, error) {
	hash := tx.Hash()
	if status, mined, err := t.outcome(ctx, hash); mined || err != nil {
		return status, err
	}

	if err := t.backend.SendTransaction(ctx, tx); err != nil {
		var rpcErr rpc.Error
		switch {
		case isAlreadyKnown(err):
		case isNonceTooLow(err):
			// the nonce is spent; either by this transaction or by another
			if status, mined, err := t.outcome(ctx, hash); mined || err != nil {
				return status, err
			}
			return models.TransferFailed, fmt.Errorf("transaction %s was replaced: %w", hash.Hex(), err)
		case errors.As(err, &rpcErr):
			return models.TransferFailed, fmt.Errorf("transaction %s rejected: %w", hash.Hex(), err)
		default:
			return models.TransferPending, fmt.Errorf("%w: failed to send %s: %w", domain.ErrTransferPending, hash.Hex(), err)
		}
	}

	return t.waitMined(ctx, hash)
}

// outcome looks up the receipt of hash. mined is false while it is unknown
// to the chain.
func (t *ERC20) outcome(ctx context.Context, hash common.Hash) (status models.TransferStatus, mined bool, err error) {
	receipt, err := t.backend.TransactionReceipt(ctx, hash)
	switch {
	case errors.Is(err, ethereum.NotFound):
		return models.TransferPending, false, nil
	case err != nil:
		return models.TransferPending, false, fmt.Errorf("%w: failed to get receipt for %s: %w", domain.ErrTransferPending, hash.Hex(), err)
	case receipt.Status != types.ReceiptStatusSuccessful:
		return models.TransferFailed, true, fmt.Errorf("transaction %s reverted", hash.Hex())
	}
	return models.TransferConfirmed, true, nil
}

func (t *ERC20) waitMined(ctx context.Context, hash common.Hash) (models.TransferStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, t.txTimeout)
	defer cancel()

	ticker := time.NewTicker(t.poll)
	defer ticker.Stop()
	for {
		status, mined, err := t.outcome(ctx, hash)
		if mined || err != nil {
			return status, err
		}
		select {
		case <-ctx.Done():
			return models.TransferPending, fmt.Errorf("%w: transaction %s not mined: %w", domain.ErrTransferPending, hash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}

func isAlreadyKnown(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "already known") || strings.Contains(msg, "known transaction")
}

func isNonceTooLow(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "nonce too low")
}
