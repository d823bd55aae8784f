package kv

import (
	"context"
	"sync"
)

// Memory keeps every key in process memory.
type Memory struct {
	mu     sync.RWMutex
	values map[string][]byte
	err    error
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string][]byte)}
}

// WithError makes every subsequent call fail with err. Used by tests.
func (m *Memory) WithError(err error) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	value, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return copyBytes(value), nil
}

func (m *Memory) Set(ctx context.Context, key string, value []byte) error {
	return m.Apply(ctx, []Mutation{{Key: key, Value: value}})
}

func (m *Memory) Remove(ctx context.Context, key string) error {
	return m.Apply(ctx, []Mutation{{Key: key, Remove: true}})
}

func (m *Memory) Apply(ctx context.Context, mutations []Mutation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, mut := range mutations {
		if mut.Remove {
			delete(m.values, mut.Key)
			continue
		}
		m.values[mut.Key] = copyBytes(mut.Value)
	}
	return nil
}

func (m *Memory) Close() error {
	return nil
}
