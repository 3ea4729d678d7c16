package activation

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps the set in process memory. It backs tests and dry runs.
type MemoryStore struct {
	mu  sync.RWMutex
	ids map[int64]struct{}
}

// NewMemoryStore returns a store preloaded with ids.
func NewMemoryStore(ids ...int64) *MemoryStore {
	m := &MemoryStore{ids: make(map[int64]struct{}, len(ids))}
	for _, id := range ids {
		m.ids[id] = struct{}{}
	}
	return m
}

// LoadAll returns the stored ids in ascending order.
func (m *MemoryStore) LoadAll(_ context.Context) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]int64, 0, len(m.ids))
	for id := range m.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out, nil
}

// Contains reports whether chatID is stored.
func (m *MemoryStore) Contains(_ context.Context, chatID int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.ids[chatID]
	return ok, nil
}

// Add inserts chatID.
func (m *MemoryStore) Add(_ context.Context, chatID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.ids[chatID]; ok {
		return false, nil
	}
	m.ids[chatID] = struct{}{}
	return true, nil
}
