package snapshot

import (
	"context"
	"fmt"
	"sync"

	"triad/internal/threat/models"
	"triad/pkg/platform/sentinel"
)

// InMemoryStore keeps encoded snapshots in process. It round-trips through
// Encode/Decode so callers never share state with the store.
type InMemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{snapshots: make(map[string][]byte)}
}

func (s *InMemoryStore) Save(_ context.Context, name string, snap models.Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[name] = data
	return nil
}

func (s *InMemoryStore) Load(_ context.Context, name string) (*models.Snapshot, error) {
	s.mu.RLock()
	data, ok := s.snapshots[name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("snapshot %s: %w", name, sentinel.ErrNotFound)
	}
	return Decode(data)
}
