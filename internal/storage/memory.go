package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/conserv-tt/conserv-backend/internal/store"
)

// MemoryFileStore keeps uploads in memory, for tests and local development.
type MemoryFileStore struct {
	mu    sync.RWMutex
	files map[string]memoryFile
}

type memoryFile struct {
	data        []byte
	contentType string
}

var _ store.FileStore = (*MemoryFileStore)(nil)

func NewMemoryFileStore() *MemoryFileStore {
	return &MemoryFileStore{files: make(map[string]memoryFile)}
}

func (m *MemoryFileStore) Put(_ context.Context, key, contentType string, data []byte) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[key] = memoryFile{data: cp, contentType: contentType}
	return "/uploads/" + key, nil
}

func (m *MemoryFileStore) Get(_ context.Context, key string) ([]byte, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.files[key]
	if !ok {
		return nil, "", fmt.Errorf("file %s not found", key)
	}
	return f.data, f.contentType, nil
}
