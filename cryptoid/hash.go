package cryptoid

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// HashBytes returns the canonical block-identity digest, hex-encoded.
// BLAKE2b-256 is used here rather than SHA-256 so that the block-identity
// hash and the leader-election hash (HashEpoch, below) use distinct
// primitives (BLAKE2b from golang.org/x/crypto, SHA-256 from the standard
// library), the way the network's wire spec would name two independently
// agreed digests for two independent purposes.
func HashBytes(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashEpoch returns the SHA-256 digest of the 8-byte big-endian epoch
// number. This is the cross-implementation leader-election hash spec.md
// recommends in place of the source's non-portable default hash.
func HashEpoch(epoch uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], epoch)
	sum := sha256.Sum256(buf[:])
	return sum[:]
}
