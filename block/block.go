// Package block defines the consensus engine's immutable unit of
// agreement: the Block identity tuple and its mutable notarization
// metadata, plus the Vote that endorses it.
package block

import (
	"bytes"
	"encoding/binary"
	"time"
)

// Metadata is the mutable information attached to a Block: its votes and
// the monotonic notarized/finalized flags. Metadata is deliberately
// excluded from Block identity and hashing (see Equal and SignatureEncode)
// so that accumulating votes never changes the hash used as a parent
// reference.
type Metadata struct {
	Votes     []Vote    `json:"votes"`
	Notarized bool      `json:"notarized"`
	Finalized bool      `json:"finalized"`
	Timestamp time.Time `json:"timestamp"`
}

// Block is the tuple (parent hash, epoch, transactions) plus Metadata.
// ParentHash is the genesis sentinel for the root block, or the
// SignatureEncode-derived hash of a parent block otherwise.
type Block struct {
	ParentHash   string   `json:"parent_hash"`
	Epoch        uint64   `json:"epoch"`
	Transactions []string `json:"transactions"`
	Metadata     Metadata `json:"metadata"`
}

// New creates a block with fresh metadata. txs is copied so the caller's
// slice can be reused or mutated afterward without affecting the block.
func New(parentHash string, epoch uint64, txs []string) *Block {
	cp := make([]string, len(txs))
	copy(cp, txs)
	return &Block{
		ParentHash:   parentHash,
		Epoch:        epoch,
		Transactions: cp,
		Metadata:     Metadata{Timestamp: time.Now()},
	}
}

// Equal compares block identity only: ParentHash, Epoch, and Transactions.
// Metadata is not part of identity, so two copies of the same block with
// different vote sets or notarization state are still Equal.
func (b *Block) Equal(other *Block) bool {
	if b == nil || other == nil {
		return b == other
	}
	if b.ParentHash != other.ParentHash || b.Epoch != other.Epoch {
		return false
	}
	if len(b.Transactions) != len(other.Transactions) {
		return false
	}
	for i := range b.Transactions {
		if b.Transactions[i] != other.Transactions[i] {
			return false
		}
	}
	return true
}

// SignatureEncode produces the canonical, network-wide-agreed byte
// encoding of the block's identity triple: a length-prefixed
// concatenation of parent hash, epoch, and transactions. This is what
// gets signed, verified, and hashed for use as a parent reference — the
// length-delimited scheme spec.md recommends in place of the source's
// debug-formatted signature payload.
func (b *Block) SignatureEncode() []byte {
	var buf bytes.Buffer
	writeLP(&buf, []byte(b.ParentHash))

	var epochBuf [8]byte
	binary.BigEndian.PutUint64(epochBuf[:], b.Epoch)
	buf.Write(epochBuf[:])

	var countBuf [4]byte
	binary.BigEndian.PutUint32(countBuf[:], uint32(len(b.Transactions)))
	buf.Write(countBuf[:])
	for _, tx := range b.Transactions {
		writeLP(&buf, []byte(tx))
	}
	return buf.Bytes()
}

func writeLP(buf *bytes.Buffer, data []byte) {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	buf.Write(lenBuf[:])
	buf.Write(data)
}
