package state

import (
	"context"
	"errors"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// Reconcile asks the fetcher for the chains held by peers and adopts the
// longest valid one when it is strictly longer than the local chain. Peers
// that could not be reached are skipped; their failures are returned along
// with the outcome and match database.ErrPeerFetchFailure.
func (s *State) Reconcile(ctx context.Context, fetcher peer.Fetcher) (bool, error) {
	s.evHandler("state: Reconcile: started")
	defer s.evHandler("state: Reconcile: completed")

	candidates, fetchErr := fetcher.FetchChains(ctx)
	if fetchErr != nil {
		if !errors.Is(fetchErr, database.ErrPeerFetchFailure) {
			return false, fetchErr
		}
		s.evHandler("state: Reconcile: WARNING: %s", fetchErr)
	}

	if err := ctx.Err(); err != nil {
		return false, err
	}

	chains := make([]database.Chain, len(candidates))
	for i, c := range candidates {
		chains[i] = database.NewChain(c.Blocks)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	best, replaced := Longest(s.chain, chains, s.evHandler)
	if !replaced {
		return false, fetchErr
	}

	prev := s.chain.Len()
	s.chain = best

	// Drop pending transactions the new chain confirmed or made unspendable.
	blocks := best.Blocks()
	var kept []database.Transaction
	removed := s.mempool.Prune(func(tx database.Transaction) bool {
		if best.Contains(tx.ID) {
			return false
		}
		if err := spendable(blocks, kept, tx); err != nil {
			return false
		}
		kept = append(kept, tx)
		return true
	})

	s.evHandler("state: Reconcile: replaced chain: len[%d] -> len[%d]: pruned txs[%d]", prev, best.Len(), removed)
	s.evHandler("viewer: chain replaced: len[%d]", best.Len())

	return true, fetchErr
}

// Longest returns the longest valid chain among the local chain and the
// candidates. A candidate must be strictly longer than the best chain seen
// so far to win, so the first of equally long candidates is kept. Candidates
// that fail validation are ignored. The second value reports whether a
// candidate replaced the local chain.
func Longest(local database.Chain, candidates []database.Chain, ev EventHandler) (database.Chain, bool) {
	best := local
	var replaced bool

	for i, c := range candidates {
		if c.Len() <= best.Len() {
			continue
		}

		if err := c.Validate(); err != nil {
			if ev != nil {
				ev("state: Longest: candidate[%d]: ignored: %s", i, err)
			}
			continue
		}

		best = c
		replaced = true
	}

	return best, replaced
}
