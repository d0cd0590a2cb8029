package database

import (
	"encoding/json"
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
)

// Input references a whole prior transaction by its id. A referenced
// transaction is fully consumed by the transaction holding the input.
type Input struct {
	TxID string `json:"tx_id"`
}

// Output names the receiver of the value moved by a transaction.
type Output struct {
	Receiver Address `json:"receiver"`
	Amount   uint64  `json:"amount"`
}

// transfer is the part of a transaction the id is computed from.
type transfer struct {
	Inputs []Input `json:"inputs"`
	Output Output  `json:"output"`
}

// =============================================================================

// Transaction is a value transfer recorded on the chain. A transaction
// without inputs is an emission that introduces new value.
type Transaction struct {
	ID        string  `json:"id"`
	Inputs    []Input `json:"inputs"`
	Output    Output  `json:"output"`
	Signature string  `json:"sig,omitempty"`
}

// NewTransaction constructs a transaction and computes its id.
func NewTransaction(inputs []Input, output Output) Transaction {
	if inputs == nil {
		inputs = []Input{}
	}

	return Transaction{
		ID:     TransactionID(inputs, output),
		Inputs: inputs,
		Output: output,
	}
}

// TransactionID computes the id for the specified inputs and output. An
// absent and an empty input list produce the same id.
func TransactionID(inputs []Input, output Output) string {
	if inputs == nil {
		inputs = []Input{}
	}

	return signature.Hash(transfer{Inputs: inputs, Output: output})
}

// IsEmission reports whether the transaction introduces new value.
func (tx Transaction) IsEmission() bool {
	return len(tx.Inputs) == 0
}

// Validate checks the id matches the transaction payload.
func (tx Transaction) Validate() error {
	if id := TransactionID(tx.Inputs, tx.Output); id != tx.ID {
		return fmt.Errorf("transaction id mismatch, got %s, exp %s: %w", tx.ID, id, ErrInvalidInput)
	}

	return nil
}

// Signer recovers the address of the account that signed the transaction.
func (tx Transaction) Signer() (Address, error) {
	if tx.Signature == "" {
		return "", fmt.Errorf("transaction %s is not signed: %w", tx.ID, ErrMissingField)
	}

	addr, err := signature.FromAddress(tx.SigningPayload(), tx.Signature)
	if err != nil {
		return "", err
	}

	return Address(addr), nil
}

// SigningPayload returns the value an account signs for this transaction.
func (tx Transaction) SigningPayload() any {
	inputs := tx.Inputs
	if inputs == nil {
		inputs = []Input{}
	}

	return transfer{Inputs: inputs, Output: tx.Output}
}

// MarshalJSON implements the json.Marshaler interface so a transaction has
// one encoding regardless of how its input list was constructed.
func (tx Transaction) MarshalJSON() ([]byte, error) {
	type transaction Transaction

	cpy := transaction(tx)
	if cpy.Inputs == nil {
		cpy.Inputs = []Input{}
	}

	return json.Marshal(cpy)
}

// String implements the fmt.Stringer interface for logging.
func (tx Transaction) String() string {
	if len(tx.ID) < 10 {
		return tx.ID
	}

	return fmt.Sprintf("%s:%d->%s", tx.ID[:10], tx.Output.Amount, tx.Output.Receiver)
}

// =============================================================================

// HashTransactions computes the digest of an ordered list of transactions.
func HashTransactions(txs []Transaction) string {
	if txs == nil {
		txs = []Transaction{}
	}

	return signature.Hash(txs)
}
