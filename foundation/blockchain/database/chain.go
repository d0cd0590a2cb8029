package database

import (
	"fmt"
)

// Chain is the append-only sequence of blocks. Chain is not safe for
// concurrent use; the owner serializes access.
type Chain struct {
	blocks []Block
}

// NewChain constructs a chain from the specified blocks without validating
// them. Call Validate before trusting blocks received from a peer.
func NewChain(blocks []Block) Chain {
	cpy := make([]Block, len(blocks))
	copy(cpy, blocks)

	return Chain{blocks: cpy}
}

// Len returns the number of blocks in the chain.
func (c Chain) Len() int {
	return len(c.blocks)
}

// Latest returns the last block in the chain. The second value is false if
// the chain is empty.
func (c Chain) Latest() (Block, bool) {
	if len(c.blocks) == 0 {
		return Block{}, false
	}

	return c.blocks[len(c.blocks)-1], true
}

// Blocks returns a copy of the blocks in chain order. Blocks are never
// mutated once appended so the copy can be read without holding a lock.
func (c Chain) Blocks() []Block {
	cpy := make([]Block, len(c.blocks))
	copy(cpy, c.blocks)

	return cpy
}

// Append adds the block to the end of the chain. The block must link to the
// current last block, otherwise the chain is left untouched.
func (c *Chain) Append(block Block) error {
	latest, _ := c.Latest()

	if err := block.ValidateBlock(latest); err != nil {
		return err
	}

	c.blocks = append(c.blocks, block)

	return nil
}

// Contains reports whether a transaction with the id is confirmed.
func (c Chain) Contains(txID string) bool {
	for _, block := range c.blocks {
		for _, tx := range block.Transactions {
			if tx.ID == txID {
				return true
			}
		}
	}

	return false
}

// Validate walks the whole chain and checks every block links to its parent,
// every id matches its content, and every transaction spends outputs that
// exist earlier in history and have not been spent before.
func (c Chain) Validate() error {
	type spendable struct {
		output Output
		spent  bool
	}
	history := make(map[string]*spendable)

	var prev Block
	for i, block := range c.blocks {
		if err := block.ValidateBlock(prev); err != nil {
			return fmt.Errorf("block[%d]: %w", i, err)
		}

		for _, tx := range block.Transactions {
			if _, exists := history[tx.ID]; exists {
				return fmt.Errorf("block[%d]: tx %s recorded twice: %w", i, tx.ID, ErrInvalidBlock)
			}

			if tx.IsEmission() {
				if i != 0 {
					return fmt.Errorf("block[%d]: tx %s emits value outside genesis: %w", i, tx.ID, ErrInvalidBlock)
				}
				history[tx.ID] = &spendable{output: tx.Output}
				continue
			}

			var total uint64
			var owner Address
			for j, in := range tx.Inputs {
				src, exists := history[in.TxID]
				if !exists {
					return fmt.Errorf("block[%d]: tx %s: input %s: %w", i, tx.ID, in.TxID, ErrUnknownInput)
				}
				if src.spent {
					return fmt.Errorf("block[%d]: tx %s: input %s already spent: %w", i, tx.ID, in.TxID, ErrInvalidBlock)
				}
				if j == 0 {
					owner = src.output.Receiver
				}
				if src.output.Receiver != owner {
					return fmt.Errorf("block[%d]: tx %s: inputs belong to different owners: %w", i, tx.ID, ErrInvalidBlock)
				}

				src.spent = true
				total += src.output.Amount
			}

			if total < tx.Output.Amount {
				return fmt.Errorf("block[%d]: tx %s: spends %d with inputs worth %d: %w", i, tx.ID, tx.Output.Amount, total, ErrInvalidBlock)
			}

			history[tx.ID] = &spendable{output: tx.Output}
		}

		prev = block
	}

	return nil
}
