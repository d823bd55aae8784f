package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// File stores every key in a single JSON document on disk. Each Apply rewrites
// the document through a temporary file and a rename, so a batch lands whole.
type File struct {
	mu     sync.RWMutex
	path   string
	values map[string]json.RawMessage
}

var _ Store = (*File)(nil)

// OpenFile loads the document at path, creating parent directories as needed.
// A missing file is an empty store.
func OpenFile(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	f := &File{path: path, values: make(map[string]json.RawMessage)}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return f, nil
	}
	if err := json.Unmarshal(data, &f.values); err != nil {
		return nil, fmt.Errorf("kv: decode %s: %w", path, err)
	}
	return f, nil
}

func (f *File) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	value, ok := f.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return copyBytes(value), nil
}

func (f *File) Set(ctx context.Context, key string, value []byte) error {
	return f.Apply(ctx, []Mutation{{Key: key, Value: value}})
}

func (f *File) Remove(ctx context.Context, key string) error {
	return f.Apply(ctx, []Mutation{{Key: key, Remove: true}})
}

func (f *File) Apply(ctx context.Context, mutations []Mutation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	next := make(map[string]json.RawMessage, len(f.values)+len(mutations))
	for k, v := range f.values {
		next[k] = v
	}
	for _, mut := range mutations {
		if mut.Remove {
			delete(next, mut.Key)
			continue
		}
		if !json.Valid(mut.Value) {
			return fmt.Errorf("kv: value for %q is not valid JSON", mut.Key)
		}
		next[mut.Key] = copyBytes(mut.Value)
	}

	if err := f.writeDocument(next); err != nil {
		return err
	}
	f.values = next
	return nil
}

func (f *File) writeDocument(values map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, f.path)
}

func (f *File) Close() error {
	return nil
}
