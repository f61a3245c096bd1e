// Package chain tracks an ordered sequence of blocks: either the node's
// finalized canonical chain, or one of its tentative, possibly
// non-notarized fork chains.
package chain

import (
	"fmt"

	"github.com/tolelom/streamlet/block"
	"github.com/tolelom/streamlet/cryptoid"
)

// Blockchain is a non-empty, head-first, tip-last ordered sequence of
// blocks. No block is ever removed except by finalization-triggered
// pruning (DropPrefix), and the caller is responsible for verifying
// parent-hash/epoch linkage before calling AddBlock.
type Blockchain struct {
	blocks []*block.Block
}

// New seeds a Blockchain with a single block (typically genesis, or the
// first block of a new fork).
func New(init *block.Block) *Blockchain {
	return &Blockchain{blocks: []*block.Block{init}}
}

// AddBlock appends block to the tip. The caller has already verified
// parent-hash/epoch linkage (spec.md §4.2).
func (bc *Blockchain) AddBlock(b *block.Block) {
	bc.blocks = append(bc.blocks, b)
}

// IsNotarized reports whether every block in the chain is notarized.
func (bc *Blockchain) IsNotarized() bool {
	for _, b := range bc.blocks {
		if !b.Metadata.Notarized {
			return false
		}
	}
	return true
}

// Tip returns the last (most recent) block.
func (bc *Blockchain) Tip() *block.Block {
	return bc.blocks[len(bc.blocks)-1]
}

// Root returns the first (oldest) block.
func (bc *Blockchain) Root() *block.Block {
	return bc.blocks[0]
}

// Len returns the number of blocks held.
func (bc *Blockchain) Len() int {
	return len(bc.blocks)
}

// Blocks returns the underlying block sequence, head first. Callers may
// mutate block Metadata in place (votes/notarized/finalized) but must not
// reorder or resize the returned slice.
func (bc *Blockchain) Blocks() []*block.Block {
	return bc.blocks
}

// DropPrefix removes the first n blocks, used when finalization moves
// them onto the canonical chain (spec.md §4.7 step 5).
func (bc *Blockchain) DropPrefix(n int) {
	if n < 0 || n > len(bc.blocks) {
		panic(fmt.Sprintf("chain: DropPrefix(%d) out of range for length %d", n, len(bc.blocks)))
	}
	bc.blocks = append([]*block.Block(nil), bc.blocks[n:]...)
}

// ValidateLinkage checks P3: for every adjacent pair (prev, curr),
// curr.ParentHash == hash(prev) and curr.Epoch > prev.Epoch. Exposed for
// tests asserting the linkage invariant; AddBlock itself trusts the caller.
func (bc *Blockchain) ValidateLinkage() error {
	for i := 1; i < len(bc.blocks); i++ {
		prev, curr := bc.blocks[i-1], bc.blocks[i]
		wantHash := cryptoid.HashBytes(prev.SignatureEncode())
		if curr.ParentHash != wantHash {
			return fmt.Errorf("chain: block %d parent hash mismatch: got %s want %s", i, curr.ParentHash, wantHash)
		}
		if curr.Epoch <= prev.Epoch {
			return fmt.Errorf("chain: block %d epoch %d does not exceed parent epoch %d", i, curr.Epoch, prev.Epoch)
		}
	}
	return nil
}
