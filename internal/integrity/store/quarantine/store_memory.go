package quarantine

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"triad/internal/integrity/models"
	"triad/pkg/platform/sentinel"
)

// InMemoryStore is the default quarantine for single-node deployments and tests.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*models.QuarantineEntry
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{entries: make(map[string]*models.QuarantineEntry)}
}

func (s *InMemoryStore) Put(_ context.Context, entry *models.QuarantineEntry) error {
	if entry == nil {
		return fmt.Errorf("quarantine entry is required")
	}
	cp := copyEntry(entry)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.Record.ID] = cp
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, recordID string) (*models.QuarantineEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[recordID]
	if !ok {
		return nil, fmt.Errorf("quarantined record %s: %w", recordID, sentinel.ErrNotFound)
	}
	return copyEntry(entry), nil
}

// List returns entries newest first.
func (s *InMemoryStore) List(_ context.Context, limit int) ([]*models.QuarantineEntry, error) {
	s.mu.RLock()
	out := make([]*models.QuarantineEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		out = append(out, copyEntry(entry))
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].QuarantinedAt.Equal(out[j].QuarantinedAt) {
			return out[i].Record.ID < out[j].Record.ID
		}
		return out[i].QuarantinedAt.After(out[j].QuarantinedAt)
	})
	if n := normalizeLimit(limit); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (s *InMemoryStore) Delete(_ context.Context, recordID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[recordID]; !ok {
		return fmt.Errorf("quarantined record %s: %w", recordID, sentinel.ErrNotFound)
	}
	delete(s.entries, recordID)
	return nil
}

func copyEntry(e *models.QuarantineEntry) *models.QuarantineEntry {
	cp := *e
	cp.Record.EncodingRecord = e.Record.Clone()
	cp.Diagnostic.Corrupted = append(cp.Diagnostic.Corrupted[:0:0], e.Diagnostic.Corrupted...)
	cp.Diagnostic.Healthy = append(cp.Diagnostic.Healthy[:0:0], e.Diagnostic.Healthy...)
	return &cp
}
