package settings

import (
	"context"
	"sync"
)

// MemoryStore keeps settings in-process. Used in tests and DB-less runs.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]Settings
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]Settings)}
}

func (s *MemoryStore) Load(ctx context.Context, userID string) (Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if saved, ok := s.data[userID]; ok {
		return merge(Defaults(), saved), nil
	}
	return Defaults(), nil
}

func (s *MemoryStore) Save(ctx context.Context, userID string, partial Settings) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[userID] = merge(s.data[userID], partial)
	return merge(Defaults(), s.data[userID]), nil
}
