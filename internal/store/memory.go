// internal/store/memory.go
//
// In-memory implementation of the KV interface.
// Used by tests and when no DB_PATH is configured.
//
// Characteristics:
//   - Values are keyed by storage key in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.
//   - Get returns ErrNotFound for missing keys.

package store

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Get when a key has never been written.
var ErrNotFound = errors.New("not found")

// KV is the persistence interface behind the guess ledger.
// Implementations may be backed by memory (this file) or SQLite (sqlite.go).
type KV interface {
	// Get returns the stored bytes for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the value stored at key.
	Put(ctx context.Context, key string, value []byte) error
}

// memory is an in-memory map-based KV implementation.
type memory struct {
	mu     sync.RWMutex      // guards values map
	values map[string][]byte // keyed by storage key
}

// NewMemory constructs a new in-memory KV.
func NewMemory() KV {
	return &memory{values: make(map[string][]byte)}
}

// Put stores a private copy of value.
func (m *memory) Put(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	return nil
}

// Get returns a copy of the stored bytes or ErrNotFound.
func (m *memory) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.values[key]; ok {
		return append([]byte(nil), v...), nil
	}
	return nil, ErrNotFound
}
