// Package tokenstore holds the RefreshTokenStore implementations. Each store
// keeps exactly one live token per user: Save replaces any prior record.
package tokenstore

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/gearbox/internal/domain/auth"
)

type record struct {
	token     string
	expiresAt time.Time
}

// MemoryStore is an in-memory refresh token store for tests/dev.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]record
	ttl     time.Duration
}

// NewMemoryStore constructs a store backed by process memory. A zero ttl
// disables expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		records: make(map[string]record),
		ttl:     ttl,
	}
}

// Save upserts the token for userID.
func (s *MemoryStore) Save(_ context.Context, userID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp := time.Time{}
	if s.ttl > 0 {
		exp = time.Now().Add(s.ttl)
	}
	s.records[userID] = record{token: token, expiresAt: exp}
	return nil
}

// Get returns the live token for userID, if any.
func (s *MemoryStore) Get(_ context.Context, userID string) (string, bool, error) {
	s.mu.RLock()
	rec, ok := s.records[userID]
	s.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if hasExpired(rec.expiresAt) {
		s.mu.Lock()
		delete(s.records, userID)
		s.mu.Unlock()
		return "", false, nil
	}
	return rec.token, true, nil
}

func hasExpired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.Before(time.Now())
}

var _ auth.RefreshTokenStore = (*MemoryStore)(nil)
