// Package memory is an in-memory category override store, used by tests
// and as a fallback when no database path is configured.
package memory

import (
	"context"
	"sync"

	"fintrack/internal/overrides"
)

type Store struct {
	mu    sync.RWMutex
	items map[string]string
}

var _ overrides.Store = (*Store)(nil)

func New() *Store {
	return &Store{items: make(map[string]string)}
}

func (s *Store) Get(_ context.Context, sourceID string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	category, found := s.items[sourceID]
	return category, found, nil
}

func (s *Store) Set(_ context.Context, sourceID, category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[sourceID] = category
	return nil
}

func (s *Store) Delete(_ context.Context, sourceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, sourceID)
	return nil
}

func (s *Store) All(_ context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.items))
	for k, v := range s.items {
		out[k] = v
	}
	return out, nil
}
