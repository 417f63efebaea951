package sharedstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemStore is an in-process Store used by tests and dev mode. Subscribe
// delivers the current record first, then writes deliver snapshots
// synchronously, in write order.
type MemStore struct {
	mu          sync.Mutex
	records     map[string]json.RawMessage
	subscribers map[string]map[int]SnapshotFunc
	nextSubID   int
}

func NewMemStore() *MemStore {
	return &MemStore{
		records:     map[string]json.RawMessage{},
		subscribers: map[string]map[int]SnapshotFunc{},
	}
}

func (m *MemStore) Write(ctx context.Context, path string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	m.mu.Lock()
	m.records[path] = raw
	fns := make([]SnapshotFunc, 0, len(m.subscribers[path]))
	for _, fn := range m.subscribers[path] {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(raw)
	}
	return nil
}

func (m *MemStore) Read(ctx context.Context, path string, out any) error {
	m.mu.Lock()
	raw, ok := m.records[path]
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(raw, out)
}

func (m *MemStore) Delete(ctx context.Context, path string) error {
	m.mu.Lock()
	delete(m.records, path)
	m.mu.Unlock()
	return nil
}

func (m *MemStore) List(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, 0, len(m.records))
	for path := range m.records {
		paths = append(paths, path)
	}
	return paths, nil
}

func (m *MemStore) Subscribe(ctx context.Context, path string, fn SnapshotFunc) (func(), error) {
	m.mu.Lock()
	if m.subscribers[path] == nil {
		m.subscribers[path] = map[int]SnapshotFunc{}
	}
	id := m.nextSubID
	m.nextSubID++
	m.subscribers[path][id] = fn
	current, exists := m.records[path]
	m.mu.Unlock()

	// Same contract as the Redis store: the subscriber sees the record as it
	// stands before any change notifications.
	if exists {
		fn(current)
	}

	return func() {
		m.mu.Lock()
		delete(m.subscribers[path], id)
		m.mu.Unlock()
	}, nil
}

func (m *MemStore) Ping(ctx context.Context) error {
	return nil
}
