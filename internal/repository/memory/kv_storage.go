// Package memory is an in-process domain.KVStorage for tests and dry runs.
package memory

import (
	"context"
	"slices"
	"sync"

	"portfolio-backend/internal/domain"
)

// Storage keeps values in a map. Tests can inject write failures.
type Storage struct {
	mu       sync.RWMutex
	values   map[string][]byte
	failSave error
}

func NewKVStorage() *Storage {
	return &Storage{values: make(map[string][]byte)}
}

func (s *Storage) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return nil, domain.ErrStorageKeyNotFound
	}
	return slices.Clone(v), nil
}

func (s *Storage) Save(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSave != nil {
		return s.failSave
	}
	s.values[key] = slices.Clone(data)
	return nil
}

func (s *Storage) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys, nil
}

// Put seeds a raw value, bypassing FailSaves
func (s *Storage) Put(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = slices.Clone(data)
}

// FailSaves makes every following Save return err; nil restores normal writes
func (s *Storage) FailSaves(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failSave = err
}
