// Package memory is the in-process revocation store. It is the
// baseline contract: revocations do not survive restarts and are not
// visible to other instances.
package memory

import (
	"context"
	"sync"
	"time"
)

type Store struct {
	mu      sync.RWMutex
	entries map[string]time.Time // tokenID -> original expiry
}

func NewStore() *Store {
	return &Store{entries: make(map[string]time.Time)}
}

func (s *Store) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	s.mu.Lock()
	s.entries[tokenID] = expiresAt
	s.mu.Unlock()
	return nil
}

func (s *Store) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.RLock()
	_, ok := s.entries[tokenID]
	s.mu.RUnlock()
	return ok, nil
}

func (s *Store) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, expiresAt := range s.entries {
		if !expiresAt.After(now) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed, nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }
