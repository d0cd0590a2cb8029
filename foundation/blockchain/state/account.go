package state

import (
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/account"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// CreateAccount generates the node's single account protected by the
// password and returns its address.
func (s *State) CreateAccount(password string) (database.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.account != nil {
		return "", fmt.Errorf("account %s: %w", s.account.Address(), database.ErrAlreadyExists)
	}

	acct, err := account.New(password)
	if err != nil {
		return "", err
	}

	s.account = acct
	s.evHandler("state: CreateAccount: address[%s]", acct.Address())

	return acct.Address(), nil
}

// RetrieveAddress returns the address of the node's account.
func (s *State) RetrieveAddress() (database.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.account == nil {
		return "", database.ErrNoAccount
	}

	return s.account.Address(), nil
}

// unlock returns the account when the password matches. The caller must
// hold the mutex.
func (s *State) unlock(password string) (*account.Account, error) {
	if s.account == nil {
		return nil, database.ErrNoAccount
	}

	if !s.account.Verify(password) {
		return nil, database.ErrInvalidPassword
	}

	return s.account, nil
}
