package storage

import (
	"context"
	"fmt"
	"sync"
)

// MemoryBackend implements Backend using in-memory storage.
// All data is lost when the process exits.
type MemoryBackend struct {
	states map[string]*SpendState
	mu     sync.RWMutex
}

// NewMemoryBackend creates a new in-memory storage backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		states: make(map[string]*SpendState),
	}
}

// Save persists the ledger state in memory.
func (m *MemoryBackend) Save(ctx context.Context, state *SpendState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if state.Ledger == "" {
		return fmt.Errorf("ledger cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.states[state.Ledger] = state.Clone()
	return nil
}

// Load returns a copy of the stored ledger state, or nil if none exists.
func (m *MemoryBackend) Load(ctx context.Context, ledger string) (*SpendState, error) {
	if ledger == "" {
		return nil, fmt.Errorf("ledger cannot be empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.states[ledger].Clone(), nil
}

// Close is a no-op for the memory backend.
func (m *MemoryBackend) Close() error {
	return nil
}
