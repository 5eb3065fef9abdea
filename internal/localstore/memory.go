package localstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/goccy/go-json"
	"github.com/nikolayk812/cartsync/internal/port"
)

// Memory keeps blobs in process. Values are stored encoded so callers never
// share mutable state with the store.
type Memory struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

var _ port.LocalStore = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

func (m *Memory) Load(_ context.Context, key string, v any) (bool, error) {
	m.mu.Lock()
	data, ok := m.blobs[key]
	m.mu.Unlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	return true, nil
}

func (m *Memory) Save(_ context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	m.mu.Lock()
	m.blobs[key] = data
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.blobs, key)
	m.mu.Unlock()
	return nil
}

// Raw returns the encoded blob under key, for inspection in tests.
func (m *Memory) Raw(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.blobs[key]
	return data, ok
}
