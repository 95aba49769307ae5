package storage

import (
	"context"
	"sort"
	"sync"
)

// Backend is the raw string-keyed store underneath the Adapter.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, raw []byte) error
	Remove(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}

// ===============================
// Memory
// ===============================

type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: map[string][]byte{}}
}

var _ Backend = (*MemoryBackend)(nil)

func (m *MemoryBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	raw, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, true, nil
}

func (m *MemoryBackend) Set(_ context.Context, key string, raw []byte) error {
	buf := make([]byte, len(raw))
	copy(buf, raw)

	m.mu.Lock()
	m.data[key] = buf
	m.mu.Unlock()
	return nil
}

func (m *MemoryBackend) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryBackend) Keys(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
