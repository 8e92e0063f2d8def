package repository

import (
	"context"
	"fmt"
	"io/fs"
	"sync"
)

// Memory keeps records in process memory. It backs unit tests and
// ephemeral runs.
type Memory struct {
	mu      sync.RWMutex
	records map[string]map[string][]byte
	order   []string
}

func NewMemory() *Memory {
	return &Memory{records: make(map[string]map[string][]byte)}
}

func (m *Memory) CreateRecord(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		m.records[id] = make(map[string][]byte)
		m.order = append(m.order, id)
	}
	return nil
}

func (m *Memory) RecordExists(_ context.Context, id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.records[id]
	return ok, nil
}

func (m *Memory) WriteFile(_ context.Context, id, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	files, ok := m.records[id]
	if !ok {
		return fmt.Errorf("record %s: %w", id, fs.ErrNotExist)
	}
	files[name] = append([]byte(nil), data...)
	return nil
}

func (m *Memory) ReadFile(_ context.Context, id, name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.records[id][name]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", id, name, fs.ErrNotExist)
	}
	return append([]byte(nil), data...), nil
}

// ListRecords returns records in creation order.
func (m *Memory) ListRecords(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out, nil
}
