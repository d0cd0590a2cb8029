// Package utxo derives the unspent transaction outputs and balances from
// the block history and selects inputs for new transfers.
package utxo

import (
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/scylladb/go-set/strset"
)

// Unspent returns every transaction in the blocks whose id is not referenced
// by the input of any transaction, in chain order. An input referencing a
// transaction that does not exist earlier in history fails the scan.
func Unspent(blocks []database.Block) ([]database.Transaction, error) {
	known := strset.New()
	spent := strset.New()

	var count int
	for _, block := range blocks {
		for _, tx := range block.Transactions {
			for _, in := range tx.Inputs {
				if !known.Has(in.TxID) {
					return nil, fmt.Errorf("tx %s: input %s: %w", tx.ID, in.TxID, database.ErrUnknownInput)
				}
				spent.Add(in.TxID)
			}

			known.Add(tx.ID)
			count++
		}
	}

	unspent := make([]database.Transaction, 0, count-spent.Size())
	for _, block := range blocks {
		for _, tx := range block.Transactions {
			if !spent.Has(tx.ID) {
				unspent = append(unspent, tx)
			}
		}
	}

	return unspent, nil
}

// Balance sums the unspent outputs paid to the address.
func Balance(blocks []database.Block, address database.Address) (uint64, error) {
	unspent, err := Unspent(blocks)
	if err != nil {
		return 0, err
	}

	var balance uint64
	for _, tx := range unspent {
		if tx.Output.Receiver == address {
			balance += tx.Output.Amount
		}
	}

	return balance, nil
}
