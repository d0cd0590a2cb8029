package state

import (
	"context"
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// MineNextBlock drains the mempool into a new block linked to the latest
// block and appends it to the chain. When the block can't be appended the
// drained transactions are put back at the front of the mempool.
func (s *State) MineNextBlock(ctx context.Context) (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	latest, exists := s.chain.Latest()
	if !exists {
		return database.Block{}, database.ErrEmptyChain
	}

	s.evHandler("state: MineNextBlock: MINING: check mempool count")

	txs := s.mempool.DrainAll()
	if len(txs) == 0 {
		return database.Block{}, database.ErrNoTransactions
	}

	// Just check one more time we were not cancelled.
	if err := ctx.Err(); err != nil {
		s.mempool.Requeue(txs)
		return database.Block{}, err
	}

	block := database.NewBlock(latest, txs)

	s.evHandler("state: MineNextBlock: MINING: append block[%s]: txs[%d]", block.BlockID, len(txs))

	if err := s.chain.Append(block); err != nil {
		s.mempool.Requeue(txs)
		s.evHandler("state: MineNextBlock: ERROR: requeued txs[%d]: %s", len(txs), err)
		return database.Block{}, fmt.Errorf("append block: %w", err)
	}

	s.evHandler("viewer: block[%s]: mined: txs[%d]", block.BlockID, len(txs))

	return block, nil
}
