package cart

import (
	"context"
	"sync"
)

// MemoryPersister keeps the serialized cart in process memory.
type MemoryPersister struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryPersister(initial []byte) *MemoryPersister {
	return &MemoryPersister{data: initial}
}

func (m *MemoryPersister) Save(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = append([]byte(nil), data...)

	return nil
}

func (m *MemoryPersister) Load(_ context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data == nil {
		return nil, nil
	}

	return append([]byte(nil), m.data...), nil
}
