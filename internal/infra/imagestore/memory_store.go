package imagestore

import (
	"context"
	"sync"

	"github.com/yanqian/gearbox/internal/domain/profile"
)

// MemoryStore keeps uploaded images in process memory for tests/dev.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

// Save retains the image bytes and returns a synthetic URL.
func (s *MemoryStore) Save(_ context.Context, key string, data []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.objects[key] = buf
	return "memory://" + key, nil
}

// Get returns stored bytes, for test assertions.
func (s *MemoryStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	return data, ok
}

var _ profile.ImageStore = (*MemoryStore)(nil)
