package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("kv: key not found")

// Mutation is one staged change. Remove deletes the key, otherwise Value is stored.
type Mutation struct {
	Key    string
	Value  []byte
	Remove bool
}

// Store is the persistence boundary: JSON documents under string keys.
// Apply must make every mutation in the batch visible at once or none of them.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Apply(ctx context.Context, mutations []Mutation) error
	Close() error
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
