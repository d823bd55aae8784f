package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/carson-networks/udhaar-ledger/internal/config"
	"github.com/carson-networks/udhaar-ledger/internal/storage/kv"
)

const (
	CustomersKey    = "kirana_customers"
	TransactionsKey = "kirana_transactions"
	ProfileKey      = "kirana_profile"
)

// Storage holds the ledger collections on top of a key-value backend.
type Storage struct {
	Backend kv.Store
}

// NewStorage wraps an already opened backend.
func NewStorage(backend kv.Store) *Storage {
	return &Storage{Backend: backend}
}

// OpenBackend opens the backend selected by the configuration.
func OpenBackend(ctx context.Context, env *config.Config) (kv.Store, error) {
	switch env.StorageBackend {
	case config.StorageBackendMemory:
		return kv.NewMemory(), nil
	case config.StorageBackendFile:
		return kv.OpenFile(env.DataFile)
	case config.StorageBackendPostgres:
		store, err := kv.OpenPostgres(env.PostgresConnectionString())
		if err != nil {
			return nil, err
		}
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", env.StorageBackend)
	}
}

// Read returns a reader over the committed state.
func (s *Storage) Read() *Reader {
	return NewReader(backendSource{store: s.Backend})
}

// Write starts a staged write. Nothing reaches the backend until Commit.
func (s *Storage) Write(ctx context.Context) (*Writer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return NewWriter(s.Backend), nil
}

// Ping checks the backend when it has a remote connection.
func (s *Storage) Ping(ctx context.Context) error {
	if p, ok := s.Backend.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return ctx.Err()
}

// Close releases the backend.
func (s *Storage) Close() error {
	return s.Backend.Close()
}

type source interface {
	get(ctx context.Context, key string) ([]byte, bool, error)
}

type backendSource struct {
	store kv.Store
}

func (b backendSource) get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := b.store.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}
