// Package leader implements deterministic epoch-leader election: a pure
// function of elapsed time and node count that every honest node with a
// synchronized clock computes identically.
package leader

import (
	"encoding/binary"
	"time"

	"github.com/tolelom/streamlet/cryptoid"
)

// Delta is the protocol's latency bound; an epoch lasts 2*Delta.
const Delta = 5 * time.Second

// EpochDuration is the fixed duration of a single epoch (10s by default).
const EpochDuration = 2 * Delta

// Epoch computes the current epoch number from the time elapsed since
// genesis. Negative elapsed durations (a clock briefly behind genesis)
// clamp to epoch 0 rather than underflowing.
func Epoch(elapsed time.Duration) uint64 {
	if elapsed < 0 {
		elapsed = 0
	}
	return uint64(elapsed / EpochDuration)
}

// Leader maps (epoch, nodesCount) to the elected leader's node id via the
// network-agreed SHA-256 hash of the epoch number (spec.md §4.3).
// nodesCount must be greater than zero.
func Leader(epoch uint64, nodesCount uint64) uint64 {
	if nodesCount == 0 {
		panic("leader: nodesCount must be greater than zero")
	}
	digest := cryptoid.HashEpoch(epoch)
	return binary.BigEndian.Uint64(digest[:8]) % nodesCount
}
