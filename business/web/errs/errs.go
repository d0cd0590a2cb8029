// Package errs provides types and support related to web error handling.
package errs

import (
	"errors"
	"net/http"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Response is the form used for API responses from failures in the API.
type Response struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Trusted is used to pass an error during the request through the
// application with web specific context.
type Trusted struct {
	Err    error
	Status int
}

// NewTrusted wraps a provided error with an HTTP status code. This
// function should be used when handlers encounter expected errors.
func NewTrusted(err error, status int) error {
	return &Trusted{err, status}
}

// Error implements the error interface. It uses the default message of the
// wrapped error. This is what will be shown in the services' logs.
func (te *Trusted) Error() string {
	return te.Err.Error()
}

// Unwrap provides access to the wrapped error.
func (te *Trusted) Unwrap() error {
	return te.Err
}

// IsTrusted checks if an error of type Trusted exists.
func IsTrusted(err error) bool {
	var te *Trusted
	return errors.As(err, &te)
}

// GetTrusted returns a copy of the Trusted pointer.
func GetTrusted(err error) *Trusted {
	var te *Trusted
	if !errors.As(err, &te) {
		return nil
	}
	return te
}

// =============================================================================

// statuses maps the ledger errors to the status reported to the client.
var statuses = []struct {
	err    error
	status int
}{
	{database.ErrInvalidInput, http.StatusBadRequest},
	{database.ErrMissingField, http.StatusBadRequest},
	{database.ErrInvalidAmount, http.StatusBadRequest},
	{database.ErrInsufficientFunds, http.StatusBadRequest},
	{database.ErrUnknownInput, http.StatusBadRequest},
	{database.ErrInvalidBlock, http.StatusBadRequest},
	{database.ErrInvalidPassword, http.StatusUnauthorized},
	{database.ErrAlreadyExists, http.StatusConflict},
	{database.ErrAlreadyMining, http.StatusConflict},
	{database.ErrDuplicate, http.StatusConflict},
	{database.ErrChainLinkMismatch, http.StatusConflict},
	{database.ErrNoAccount, http.StatusPreconditionFailed},
	{database.ErrEmptyChain, http.StatusPreconditionFailed},
	{database.ErrNoTransactions, http.StatusPreconditionFailed},
	{database.ErrPeerFetchFailure, http.StatusBadGateway},
}

// FromLedger wraps an error returned by the ledger into a Trusted error with
// the matching HTTP status. Errors the ledger does not define are returned
// untouched and reported as internal errors.
func FromLedger(err error) error {
	if err == nil {
		return nil
	}

	for _, s := range statuses {
		if errors.Is(err, s.err) {
			return NewTrusted(err, s.status)
		}
	}

	return err
}
