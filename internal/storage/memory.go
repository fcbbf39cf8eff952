package storage

import (
	"context"
	"sync"

	apperrors "github.com/velora/storefront/pkg/errors"
)

// MemoryStore is an in-memory Store. It is the test substitute for the
// durable backends and the backend of last resort when no data dir is
// writable; snapshots do not survive a process restart.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string][]byte),
	}
}

// Load returns the snapshot stored under key.
func (s *MemoryStore) Load(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.data[key]
	if !ok {
		err := apperrors.NotFound("snapshot", key)
		ObserveOperation("memory", "load", err)
		return nil, err
	}

	cp := make([]byte, len(data))
	copy(cp, data)
	ObserveOperation("memory", "load", nil)
	return cp, nil
}

// Save stores the snapshot under key.
func (s *MemoryStore) Save(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]byte, len(data))
	copy(cp, data)
	s.data[key] = cp
	ObserveOperation("memory", "save", nil)
	return nil
}

// Delete removes the snapshot under key.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	ObserveOperation("memory", "delete", nil)
	return nil
}
