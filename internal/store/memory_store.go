package store

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store, used for tests and throwaway instances.
type MemoryStore struct {
	docs map[string][]byte
	mu   sync.RWMutex
}

// NewMemoryStore creates a new instance of MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string][]byte),
	}
}

func (s *MemoryStore) Load(_ context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[name]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), doc...), nil
}

func (s *MemoryStore) Save(_ context.Context, name string, doc []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs[name] = append([]byte(nil), doc...)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
