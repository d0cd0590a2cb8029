// Package mempool maintains the mempool for the ledger.
package mempool

import (
	"fmt"
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/scylladb/go-set/strset"
)

// Mempool represents an ordered cache of transactions waiting to be mined.
// Transactions are kept in submission order and keyed by id so the same
// transaction is never pending twice.
type Mempool struct {
	mu   sync.RWMutex
	pool []database.Transaction
	ids  *strset.Set
}

// New constructs a new, empty mempool.
func New() *Mempool {
	return &Mempool{
		ids: strset.New(),
	}
}

// Count returns the current number of transaction in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Submit appends a transaction to the end of the pool.
func (mp *Mempool) Submit(tx database.Transaction) (int, error) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.ids.Has(tx.ID) {
		return 0, fmt.Errorf("tx %s: %w", tx.ID, database.ErrDuplicate)
	}

	mp.pool = append(mp.pool, tx)
	mp.ids.Add(tx.ID)

	return len(mp.pool), nil
}

// DrainAll removes and returns every pending transaction in submission
// order. A transaction submitted concurrently lands either in the returned
// batch or in the pool, never both.
func (mp *Mempool) DrainAll() []database.Transaction {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	txs := mp.pool
	mp.pool = nil
	mp.ids.Clear()

	return txs
}

// Requeue places a previously drained batch back at the front of the pool,
// ahead of anything submitted since. Transactions already pending again are
// skipped.
func (mp *Mempool) Requeue(txs []database.Transaction) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	front := make([]database.Transaction, 0, len(txs)+len(mp.pool))
	for _, tx := range txs {
		if mp.ids.Has(tx.ID) {
			continue
		}
		front = append(front, tx)
		mp.ids.Add(tx.ID)
	}

	mp.pool = append(front, mp.pool...)
}

// Copy returns a snapshot of the pending transactions without removing them.
func (mp *Mempool) Copy() []database.Transaction {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	txs := make([]database.Transaction, len(mp.pool))
	copy(txs, mp.pool)

	return txs
}

// Contains reports whether the transaction is pending.
func (mp *Mempool) Contains(txID string) bool {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return mp.ids.Has(txID)
}

// SpentIDs returns the ids referenced by the inputs of pending transactions.
func (mp *Mempool) SpentIDs() []string {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	spent := strset.New()
	for _, tx := range mp.pool {
		for _, in := range tx.Inputs {
			spent.Add(in.TxID)
		}
	}

	return spent.List()
}

// Prune removes the pending transactions the keep function rejects and
// returns how many were removed.
func (mp *Mempool) Prune(keep func(tx database.Transaction) bool) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	var removed int
	pool := mp.pool[:0]
	for _, tx := range mp.pool {
		if keep(tx) {
			pool = append(pool, tx)
			continue
		}
		mp.ids.Remove(tx.ID)
		removed++
	}

	clear(mp.pool[len(pool):])
	mp.pool = pool

	return removed
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = nil
	mp.ids.Clear()
}
