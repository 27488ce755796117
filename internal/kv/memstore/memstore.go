// Package memstore is an in-memory kv.Store. Nothing survives the process.
package memstore

import (
	"sync"

	"github.com/idilsaglam/tada/internal/kv"
)

type Store struct {
	mu     sync.Mutex
	slots  map[string][]byte
	writes int
}

func New() *Store {
	return &Store{slots: make(map[string][]byte)}
}

func (s *Store) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.slots[key]
	if !ok {
		return nil, kv.ErrNotFound
	}
	return append([]byte(nil), b...), nil
}

func (s *Store) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[key] = append([]byte(nil), value...)
	s.writes++
	return nil
}

// Writes counts Set calls.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *Store) Close() error { return nil }
