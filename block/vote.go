package block

import "bytes"

// Vote is a signed endorsement of a block by a node: the signature bytes,
// a by-value copy of the endorsed block, and the voting node's id.
type Vote struct {
	Signature []byte `json:"signature"`
	Block     Block  `json:"block"`
	VoterID   uint64 `json:"voter_id"`
}

// NewVote constructs a Vote.
func NewVote(signature []byte, b Block, voterID uint64) Vote {
	return Vote{Signature: signature, Block: b, VoterID: voterID}
}

// Equal compares all three fields: signature bytes, block identity, and
// voter id. Used for vote deduplication (spec.md P4 / §4.6).
func (v Vote) Equal(other Vote) bool {
	if v.VoterID != other.VoterID {
		return false
	}
	if !bytes.Equal(v.Signature, other.Signature) {
		return false
	}
	return v.Block.Equal(&other.Block)
}
