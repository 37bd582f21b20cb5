package inferencestore

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/legal-assistant/internal/infra/inference/cached"
)

type entry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryStore is an in-memory cache store for tests/dev.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]entry), now: time.Now}
}

// Get implements cached.Store.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if s.hasExpired(e.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false, nil
	}
	out := make([]byte, len(e.payload))
	copy(out, e.payload)
	return out, true, nil
}

// Set stores the payload with an optional TTL.
func (s *MemoryStore) Set(_ context.Context, key string, payload []byte, ttl time.Duration) error {
	exp := time.Time{}
	if ttl > 0 {
		exp = s.now().Add(ttl)
	}
	stored := make([]byte, len(payload))
	copy(stored, payload)
	s.mu.Lock()
	s.entries[key] = entry{payload: stored, expiresAt: exp}
	s.mu.Unlock()
	return nil
}

// Len reports how many entries are held, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemoryStore) hasExpired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.Before(s.now())
}

var _ cached.Store = (*MemoryStore)(nil)
