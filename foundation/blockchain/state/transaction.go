package state

import (
	"fmt"
	"slices"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/utxo"
)

// Emit issues new value to the node's account. Issuance is only possible
// while the chain is empty and writes the genesis block holding the
// emission transaction.
func (s *State) Emit(password string, amount uint64) (database.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, err := s.unlock(password)
	if err != nil {
		return database.Transaction{}, err
	}

	if amount == 0 {
		return database.Transaction{}, fmt.Errorf("amount must be greater than zero: %w", database.ErrInvalidAmount)
	}

	if s.chain.Len() > 0 {
		return database.Transaction{}, fmt.Errorf("genesis block: %w", database.ErrAlreadyExists)
	}

	tx := database.NewTransaction(nil, database.Output{Receiver: acct.Address(), Amount: amount})

	signed, err := acct.Sign(tx)
	if err != nil {
		return database.Transaction{}, err
	}

	genesis := database.NewBlock(database.Block{}, []database.Transaction{signed})
	if err := s.chain.Append(genesis); err != nil {
		return database.Transaction{}, err
	}

	s.evHandler("state: Emit: genesis[%s]: tx[%s]", genesis.BlockID, signed)
	s.evHandler("viewer: block[%s]: genesis written", genesis.BlockID)

	return signed, nil
}

// Transfer builds a transaction paying the receiver from the node's account,
// signs it and places it in the mempool. Outputs already claimed by pending
// transactions are not selected again.
func (s *State) Transfer(password string, receiver string, amount uint64) (database.Transaction, error) {
	tx, err := s.transfer(password, receiver, amount)
	if err != nil {
		return database.Transaction{}, err
	}

	s.signalStartMining()

	return tx, nil
}

func (s *State) transfer(password string, receiver string, amount uint64) (database.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, err := s.unlock(password)
	if err != nil {
		return database.Transaction{}, err
	}

	if receiver == "" {
		return database.Transaction{}, fmt.Errorf("receiver: %w", database.ErrMissingField)
	}

	if amount == 0 {
		return database.Transaction{}, fmt.Errorf("amount: %w", database.ErrMissingField)
	}

	to, err := database.ToAddress(receiver)
	if err != nil {
		return database.Transaction{}, err
	}

	sel, err := utxo.Build(s.chain.Blocks(), acct.Address(), to, amount, utxo.Exclude(s.mempool.SpentIDs()...))
	if err != nil {
		return database.Transaction{}, err
	}

	signed, err := acct.Sign(sel.Tx)
	if err != nil {
		return database.Transaction{}, err
	}

	if _, err := s.mempool.Submit(signed); err != nil {
		return database.Transaction{}, err
	}

	s.evHandler("state: Transfer: tx[%s]: inputs[%d]: total[%d]", signed, len(signed.Inputs), sel.Total)
	if sel.Forfeit > 0 {
		s.evHandler("state: Transfer: WARNING: tx[%s]: forfeit[%d]", signed.ID, sel.Forfeit)
	}

	return signed, nil
}

// SubmitTransaction accepts a transaction built elsewhere, such as by a peer
// node, for inclusion in the next block.
func (s *State) SubmitTransaction(tx database.Transaction) error {
	if err := s.submitTransaction(tx); err != nil {
		return err
	}

	s.signalStartMining()

	return nil
}

func (s *State) submitTransaction(tx database.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := tx.Validate(); err != nil {
		return err
	}

	if tx.IsEmission() {
		return fmt.Errorf("tx %s: emission is only possible at genesis: %w", tx.ID, database.ErrInvalidInput)
	}

	if s.chain.Contains(tx.ID) {
		return fmt.Errorf("tx %s already confirmed: %w", tx.ID, database.ErrDuplicate)
	}

	if s.mempool.Contains(tx.ID) {
		return fmt.Errorf("tx %s already pending: %w", tx.ID, database.ErrDuplicate)
	}

	if err := spendable(s.chain.Blocks(), s.mempool.Copy(), tx); err != nil {
		return err
	}

	if _, err := s.mempool.Submit(tx); err != nil {
		return err
	}

	s.evHandler("state: SubmitTransaction: tx[%s]", tx)

	return nil
}

// spendable checks the transaction would form a valid chain if mined after
// the pending transactions on top of the blocks.
func spendable(blocks []database.Block, pending []database.Transaction, tx database.Transaction) error {
	var latest database.Block
	if len(blocks) > 0 {
		latest = blocks[len(blocks)-1]
	}

	batch := append(slices.Clone(pending), tx)
	next := database.NewBlock(latest, batch)

	return database.NewChain(append(blocks, next)).Validate()
}
