package storage

import (
	"context"
	"sync"

	"MarketDashboard/internal/model"
)

// MemoryStore keeps snapshots in process memory. Used when persistence is disabled
// and in tests, where LoadErr and SaveErr simulate a broken backend.
type MemoryStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	LoadErr error
	SaveErr error
	saves   int
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{data: map[string][]byte{}} }

func (m *MemoryStore) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, model.Fault(model.KindPersistence, "memory load", m.LoadErr)
	}
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryStore) Save(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.SaveErr != nil {
		return model.Fault(model.KindPersistence, "memory save", m.SaveErr)
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

// Saves reports how many Save calls were made, failed ones included.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Set writes a raw value directly, bypassing SaveErr.
func (m *MemoryStore) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

func (m *MemoryStore) Close() error { return nil }
