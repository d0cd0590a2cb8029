package database

import (
	"fmt"
)

// Block represents a group of transactions batched together. An empty
// PrevBlockID marks the genesis block.
type Block struct {
	PrevBlockID  string        `json:"prev_block_id"`
	BlockID      string        `json:"block_id"`
	Transactions []Transaction `json:"transactions"`
}

// NewBlock constructs the block that follows prevBlock. A zero value
// prevBlock produces a genesis block.
func NewBlock(prevBlock Block, txs []Transaction) Block {
	trans := make([]Transaction, len(txs))
	copy(trans, txs)

	return Block{
		PrevBlockID:  prevBlock.BlockID,
		BlockID:      HashTransactions(trans),
		Transactions: trans,
	}
}

// IsGenesis reports whether the block has no parent.
func (b Block) IsGenesis() bool {
	return b.PrevBlockID == ""
}

// ValidateBlock takes a block and validates it can follow the previous
// block. A zero value previousBlock means the block must be a genesis block.
func (b Block) ValidateBlock(previousBlock Block) error {
	if b.PrevBlockID != previousBlock.BlockID {
		return fmt.Errorf("parent block id doesn't match our known parent, got %q, exp %q: %w", b.PrevBlockID, previousBlock.BlockID, ErrChainLinkMismatch)
	}

	if id := HashTransactions(b.Transactions); b.BlockID != id {
		return fmt.Errorf("block id does not match transactions, got %s, exp %s: %w", b.BlockID, id, ErrInvalidBlock)
	}

	for _, tx := range b.Transactions {
		if err := tx.Validate(); err != nil {
			return fmt.Errorf("block %s: %w: %w", b.BlockID, ErrInvalidBlock, err)
		}
	}

	return nil
}
