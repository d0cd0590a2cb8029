// Package account maintains the password gated identity that authors
// transactions on the ledger.
package account

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/crypto"
)

// Account holds a keypair and the hash of the password that unlocks it.
// An account is immutable after construction.
type Account struct {
	privateKey   *ecdsa.PrivateKey
	passwordHash [sha256.Size]byte
}

// New generates a fresh keypair protected by the specified password.
func New(password string) (*Account, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("generating key: %w", err)
	}

	return FromPrivateKey(privateKey, password)
}

// FromPrivateKey constructs an account around an existing private key.
func FromPrivateKey(privateKey *ecdsa.PrivateKey, password string) (*Account, error) {
	if password == "" {
		return nil, fmt.Errorf("password is required: %w", database.ErrInvalidInput)
	}

	if privateKey == nil {
		return nil, fmt.Errorf("private key is required: %w", database.ErrInvalidInput)
	}

	acct := Account{
		privateKey:   privateKey,
		passwordHash: sha256.Sum256([]byte(password)),
	}

	return &acct, nil
}

// Verify reports whether the password unlocks the account.
func (a *Account) Verify(password string) bool {
	if password == "" {
		return false
	}

	hash := sha256.Sum256([]byte(password))
	return subtle.ConstantTimeCompare(hash[:], a.passwordHash[:]) == 1
}

// Address returns the address derived from the account's public key.
func (a *Account) Address() database.Address {
	return database.PublicKeyToAddress(a.privateKey.PublicKey)
}

// Sign attaches the account's signature to the transaction.
func (a *Account) Sign(tx database.Transaction) (database.Transaction, error) {
	sig, err := signature.Sign(tx.SigningPayload(), a.privateKey)
	if err != nil {
		return database.Transaction{}, fmt.Errorf("signing transaction: %w", err)
	}

	tx.Signature = sig
	return tx, nil
}
