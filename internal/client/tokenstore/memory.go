package tokenstore

import (
	"context"
	"sync"
)

// Memory is a process-local Store, used by tests and ephemeral sessions.
type Memory struct {
	mu    sync.Mutex
	token string
}

// NewMemory returns a store preloaded with token ("" for empty).
func NewMemory(token string) *Memory {
	return &Memory{token: token}
}

func (m *Memory) Load(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *Memory) Save(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}
