package storage

import (
	"context"
	"sync"
)

// MemoryKV is a process-local KV implementation used in tests and local
// runs without a Redis endpoint. Update holds the store lock for the whole
// read-modify-write, which serializes index mutations.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (s *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

func (s *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemoryKV) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

func (s *MemoryKV) Update(_ context.Context, key string, fn UpdateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var current []byte
	if value, ok := s.data[key]; ok {
		current = append([]byte(nil), value...)
	}

	next, err := fn(current)
	if err != nil {
		return err
	}

	if next == nil {
		delete(s.data, key)
		return nil
	}
	s.data[key] = append([]byte(nil), next...)
	return nil
}
