package keystore

import (
	"context"
	"sync"
)

// Memory is an in-memory Store used in tests and anywhere a throwaway vault
// is acceptable. Semantics match the sqlite store.
type Memory struct {
	mu sync.RWMutex
	m  map[Key][]byte
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{m: make(map[Key][]byte)}
}

func (s *Memory) Save(ctx context.Context, key Key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = append([]byte(nil), value...)
	return nil
}

func (s *Memory) SaveAll(ctx context.Context, values map[Key][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, value := range values {
		s.m[key] = append([]byte(nil), value...)
	}
	return nil
}

func (s *Memory) Retrieve(ctx context.Context, key Key) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.m[key]
	if !ok {
		return nil, &StorageError{Op: "retrieve", Key: key, Err: ErrNotFound}
	}
	return append([]byte(nil), value...), nil
}

func (s *Memory) Delete(ctx context.Context, key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

func (s *Memory) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m = make(map[Key][]byte)
	return nil
}
