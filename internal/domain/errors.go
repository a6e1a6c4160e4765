package domain

import (
	"errors"
)

// ErrorCategory groups governance failures by how a caller should react to them.
type ErrorCategory string

const (
	// CategoryValidation covers malformed or unauthorized requests. Surfaced verbatim, never retried.
	CategoryValidation ErrorCategory = "validation"
	// CategoryState covers protocol-ordering violations by the caller.
	CategoryState ErrorCategory = "state"
	// CategoryExternal covers failures of an external capability (the token).
	// These are the only failures that are safe to retry after rollback.
	CategoryExternal ErrorCategory = "external"
	// CategoryUnknown is returned for errors that do not belong to the governance taxonomy.
	CategoryUnknown ErrorCategory = "unknown"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidAmount is returned when a token amount cannot be parsed
	ErrInvalidAmount = errors.New("invalid amount")
)

// Validation errors
var (
	ErrNotAMember        = &ValidationError{msg: "not a member"}
	ErrAlreadyMember     = &ValidationError{msg: "already a member"}
	ErrZeroAmount        = &ValidationError{msg: "amount must be greater than 0"}
	ErrProposalNotFound  = &ValidationError{msg: "proposal not found"}
	ErrNotAdmin          = &ValidationError{msg: "caller is not the administrator"}
	ErrNoVotingPower     = &ValidationError{msg: "voter holds no voting tokens"}
	ErrInvalidRecipient  = &ValidationError{msg: "invalid treasury recipient"}
	ErrInvalidDuration   = &ValidationError{msg: "voting duration must be positive"}
	ErrInvalidChoice     = &ValidationError{msg: "invalid vote choice"}
	ErrEmptyDescription  = &ValidationError{msg: "proposal description is empty"}
	ErrInsufficientFunds = &ValidationError{msg: "insufficient balance"}
)

// State errors
var (
	ErrVotingClosed    = &StateError{msg: "voting is closed"}
	ErrVotingOpen      = &StateError{msg: "voting is still open"}
	ErrDoubleVote      = &StateError{msg: "voter has already voted on this proposal"}
	ErrNotApproved     = &StateError{msg: "proposal is not approved"}
	ErrAlreadyExecuted = &StateError{msg: "proposal already executed"}
	ErrLedgerConflict  = &StateError{msg: "ledger was modified by another process"}
)

// External call errors
var (
	ErrTransferFailed   = &ExternalCallError{msg: "treasury transfer failed"}
	ErrTokenUnavailable = &ExternalCallError{msg: "voting token unavailable"}
	// ErrTransferPending means the payout left this process but its outcome is
	// not known yet. Executing again reconciles it; it never sends a second payout.
	ErrTransferPending = &ExternalCallError{msg: "treasury transfer sent, outcome not yet known"}
)

// ValidationError is a recoverable rejection of the request itself.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// StateError means the request arrived in the wrong protocol state.
type StateError struct {
	msg string
}

func (e *StateError) Error() string { return e.msg }

// ExternalCallError means a collaborator outside the governance core failed.
type ExternalCallError struct {
	msg string
}

func (e *ExternalCallError) Error() string { return e.msg }

// Category classifies err into the governance error taxonomy.
func Category(err error) ErrorCategory {
	var (
		v *ValidationError
		s *StateError
		x *ExternalCallError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &v):
		return CategoryValidation
	case errors.As(err, &s):
		return CategoryState
	case errors.As(err, &x):
		return CategoryExternal
	default:
		return CategoryUnknown
	}
}
