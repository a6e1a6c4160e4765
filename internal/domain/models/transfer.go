package models

import "time"

// TransferStatus is what the token reports about a submitted payout
type TransferStatus string

const (
	// TransferConfirmed means the funds moved, exactly once.
	TransferConfirmed TransferStatus = "confirmed"
	// TransferFailed means the funds did not move and this transfer never will.
	TransferFailed TransferStatus = "failed"
	// TransferPending means the outcome is not known yet.
	TransferPending TransferStatus = "pending"
)

// TransferRef identifies one prepared treasury payout. Submitting the same
// reference any number of times moves the funds at most once.
type TransferRef struct {
	// ID is the human-readable handle: a transaction hash or a ledger transfer id.
	ID string `json:"id"`
	// Payload is whatever the token needs to submit or look up the transfer,
	// such as the signed raw transaction.
	Payload string `json:"payload"`
}

// PendingTransfer is a payout attached to an approved proposal before it is
// submitted. It is cleared when the proposal is executed or the payout fails.
type PendingTransfer struct {
	TransferRef
	PreparedAt time.Time `json:"preparedAt"`
}
