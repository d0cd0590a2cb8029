package database

import (
	"errors"
	"fmt"
)

// Set of errors shared by the ledger packages. Callers check them with
// errors.Is since they are usually wrapped with more context.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrMissingField      = errors.New("missing field")
	ErrInvalidPassword   = errors.New("invalid password")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrAlreadyExists     = errors.New("already exists")
	ErrNoAccount         = errors.New("account not found")
	ErrEmptyChain        = errors.New("chain is empty")
	ErrAlreadyMining     = errors.New("mining already in progress")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrChainLinkMismatch = errors.New("chain link mismatch")
	ErrUnknownInput      = errors.New("input references unknown transaction")
	ErrInvalidBlock      = errors.New("invalid block")
	ErrDuplicate         = errors.New("duplicate transaction")
	ErrNoTransactions    = errors.New("no transactions in mempool")
	ErrPeerFetchFailure  = errors.New("peer fetch failure")
)

// =============================================================================

// PeerError represents a failure to retrieve a chain from a single peer.
type PeerError struct {
	Host string
	Err  error
}

// Error implements the error interface.
func (pe *PeerError) Error() string {
	return fmt.Sprintf("peer %s: %s", pe.Host, pe.Err)
}

// Unwrap allows errors.Is to match both the cause and ErrPeerFetchFailure.
func (pe *PeerError) Unwrap() []error {
	return []error{ErrPeerFetchFailure, pe.Err}
}
