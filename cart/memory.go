package cart

import (
	"context"
	"sync"

	"github.com/conserv-tt/conserv-backend/types"
)

// MemoryStore is a process-local cart store for tests and local development.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string][]types.CartEntry
}

// NewMemoryStore creates an empty in-memory cart store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string][]types.CartEntry)}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Get(_ context.Context, sessionID string) ([]types.CartEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := s.carts[sessionID]
	out := make([]types.CartEntry, len(entries))
	copy(out, entries)
	return out, nil
}

func (s *MemoryStore) Set(_ context.Context, sessionID string, entries []types.CartEntry) error {
	cp := make([]types.CartEntry, len(entries))
	copy(cp, entries)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[sessionID] = cp
	return nil
}

func (s *MemoryStore) Add(_ context.Context, sessionID string, entry types.CartEntry) ([]types.CartEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	merged := merge(s.carts[sessionID], entry)
	s.carts[sessionID] = merged
	out := make([]types.CartEntry, len(merged))
	copy(out, merged)
	return out, nil
}

func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}
