package storage

import (
	"context"
	"sync"
)

// MemoryBackend keeps values in process memory
type MemoryBackend struct {
	mu     sync.Mutex
	values map[string][]byte
	writes map[string]int
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		values: map[string][]byte{},
		writes: map[string]int{},
	}
}

func (m *MemoryBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemoryBackend) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	m.writes[key]++
	return nil
}

func (m *MemoryBackend) Close() error { return nil }

// Writes returns how many times key was written
func (m *MemoryBackend) Writes(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes[key]
}
