// Package storage persists the canonical (finalized) chain, either to disk
// (Store, which survives a process restart) or in memory (MemStore). Fork
// state is deliberately never persisted (spec.md: no persistence across
// restarts is a Non-goal of the CORE); this only checkpoints output().
// Adapted from tolchain/storage/leveldb.go's BlockStore, narrowed from a
// generic height/hash KV layer down to the one thing a Streamlet node's
// output actually needs: an ordered sequence of finalized blocks.
package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/tolelom/streamlet/block"
)

// Store persists finalized blocks, in order, keyed by their position in
// the canonical chain.
type Store struct {
	db *leveldb.DB
}

// Open opens (or creates) a LevelDB database at path.
func Open(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("storage: open leveldb %q: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Persist appends b as the next block in the canonical chain. It is the
// caller's responsibility to call this in canonical order — Store trusts
// the height counter it maintains internally and does not re-derive
// order from block content.
func (s *Store) Persist(b *block.Block) error {
	count, err := s.count()
	if err != nil {
		return err
	}
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("storage: marshal block: %w", err)
	}
	if err := s.db.Put(heightKey(count), data, nil); err != nil {
		return fmt.Errorf("storage: put block at height %d: %w", count, err)
	}
	return s.db.Put(countKey, encodeUint64(count+1), nil)
}

// LoadFinalized returns every persisted block, in canonical order.
func (s *Store) LoadFinalized() ([]*block.Block, error) {
	count, err := s.count()
	if err != nil {
		return nil, err
	}
	blocks := make([]*block.Block, 0, count)
	for i := uint64(0); i < count; i++ {
		data, err := s.db.Get(heightKey(i), nil)
		if err != nil {
			return nil, fmt.Errorf("storage: get block at height %d: %w", i, err)
		}
		var b block.Block
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("storage: unmarshal block at height %d: %w", i, err)
		}
		blocks = append(blocks, &b)
	}
	return blocks, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) count() (uint64, error) {
	data, err := s.db.Get(countKey, nil)
	if err == leveldb.ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("storage: read count: %w", err)
	}
	return decodeUint64(data), nil
}

var countKey = []byte("count")

func heightKey(height uint64) []byte {
	return append([]byte("block:"), encodeUint64(height)...)
}

func encodeUint64(v uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return buf
}

func decodeUint64(b []byte) uint64 {
	return binary.BigEndian.Uint64(b)
}
