package game

import (
	"context"
	"sync"
)

// MemorySessionStore keeps snapshots in process memory. Used when no
// Redis address is configured (dev) and in tests; sessions do not
// survive a restart.
type MemorySessionStore struct {
	mu sync.Mutex
	m  map[string]SessionSnapshot
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		m: make(map[string]SessionSnapshot),
	}
}

func (s *MemorySessionStore) Save(ctx context.Context, sessionID string, snap SessionSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[sessionID] = snap
	return nil
}

func (s *MemorySessionStore) Load(ctx context.Context, sessionID string) (SessionSnapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.m[sessionID]
	return snap, ok, nil
}
