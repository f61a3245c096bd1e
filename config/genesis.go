package config

import "github.com/tolelom/streamlet/block"

// GenesisParentHash is the sentinel parent hash of the genesis block — a
// bare string, not a hash, per spec.md §9's open question. Any real
// block's ParentHash must equal hash(genesis_block), never this sentinel.
const GenesisParentHash = "⊥"

// NewGenesisBlock builds the root block every node starts from: epoch 0,
// the sentinel parent hash, no transactions. The caller (node.New) is
// responsible for marking it notarized and finalized, matching the
// node's own lifecycle rule rather than baking that here.
func NewGenesisBlock() *block.Block {
	return block.New(GenesisParentHash, 0, nil)
}
