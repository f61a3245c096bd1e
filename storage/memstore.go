package storage

import (
	"sync"

	"github.com/tolelom/streamlet/block"
)

// MemStore is a thread-safe in-memory node.BlockPersister, for tests and
// the demo runnable's single-process multi-node setup where a real
// on-disk LevelDB per node is unnecessary. Adapted from
// internal/testutil/memdb.go's MemBlockStore.
type MemStore struct {
	mu     sync.RWMutex
	blocks []*block.Block
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Persist appends b to the in-memory finalized sequence.
func (m *MemStore) Persist(b *block.Block) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blocks = append(m.blocks, b)
	return nil
}

// LoadFinalized returns a copy of every block persisted so far, in order.
func (m *MemStore) LoadFinalized() ([]*block.Block, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*block.Block, len(m.blocks))
	copy(out, m.blocks)
	return out, nil
}
