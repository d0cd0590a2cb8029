package utxo

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/scylladb/go-set/strset"
)

// Selection is the result of building a transfer.
type Selection struct {
	Tx    database.Transaction
	Total uint64 // Sum of the outputs referenced by the inputs.

	// Forfeit is the part of Total above the requested amount. Inputs are
	// consumed whole and a transaction has a single output, so this value
	// has no owner once the transaction is confirmed.
	Forfeit uint64
}

// Option configures how inputs are selected.
type Option func(*options)

type options struct {
	exclude *strset.Set
}

// Exclude keeps the specified transaction ids from being selected as inputs.
// It is used to skip outputs already claimed by pending transactions.
func Exclude(txIDs ...string) Option {
	return func(o *options) {
		o.exclude.Add(txIDs...)
	}
}

// Build selects inputs owned by the sender that cover the amount and
// constructs the transaction paying the receiver. Candidates are taken from
// the largest amount down, ties broken by ascending id, until the amount is
// covered. Build has no side effects.
func Build(blocks []database.Block, sender database.Address, receiver database.Address, amount uint64, opts ...Option) (Selection, error) {
	if amount == 0 {
		return Selection{}, fmt.Errorf("amount must be greater than zero: %w", database.ErrInvalidAmount)
	}

	o := options{exclude: strset.New()}
	for _, opt := range opts {
		opt(&o)
	}

	unspent, err := Unspent(blocks)
	if err != nil {
		return Selection{}, err
	}

	var candidates []database.Transaction
	var available uint64
	for _, tx := range unspent {
		if tx.Output.Receiver != sender || o.exclude.Has(tx.ID) {
			continue
		}
		candidates = append(candidates, tx)
		available += tx.Output.Amount
	}

	if available < amount {
		return Selection{}, fmt.Errorf("available %d, needed %d: %w", available, amount, database.ErrInsufficientFunds)
	}

	slices.SortFunc(candidates, func(a, b database.Transaction) int {
		switch {
		case a.Output.Amount > b.Output.Amount:
			return -1
		case a.Output.Amount < b.Output.Amount:
			return 1
		}
		return strings.Compare(a.ID, b.ID)
	})

	var inputs []database.Input
	var total uint64
	for _, tx := range candidates {
		inputs = append(inputs, database.Input{TxID: tx.ID})
		total += tx.Output.Amount

		if total >= amount {
			break
		}
	}

	output := database.Output{
		Receiver: receiver,
		Amount:   amount,
	}

	sel := Selection{
		Tx:      database.NewTransaction(inputs, output),
		Total:   total,
		Forfeit: total - amount,
	}

	return sel, nil
}
