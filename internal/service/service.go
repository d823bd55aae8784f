package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/udhaar-ledger/internal/operator/actions"
	"github.com/carson-networks/udhaar-ledger/internal/storage"
)

// Processor runs mutations one at a time. Satisfied by *operator.OperatorDelegator.
type Processor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// Options configures the collaborators shared by every sub-service.
type Options struct {
	Clock           func() time.Time
	NewID           func() string
	ImportRecompute bool
}

// Service holds all business logic services.
type Service struct {
	Customers    *CustomerService
	Transactions *TransactionService
	Profile      *ProfileService
	Snapshots    *SnapshotService

	notifier *notifier
}

// NewService creates a new Service on top of the storage and the operator.
func NewService(store *storage.Storage, processor Processor, opts Options) *Service {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = newUUID
	}

	b := &base{
		storage:   store,
		processor: processor,
		now:       opts.Clock,
		newID:     opts.NewID,
		notifier:  &notifier{},
	}
	return &Service{
		Customers:    &CustomerService{base: b},
		Transactions: &TransactionService{base: b},
		Profile:      &ProfileService{base: b},
		Snapshots:    &SnapshotService{base: b, recompute: opts.ImportRecompute},
		notifier:     b.notifier,
	}
}

// Subscribe registers a listener for every successful mutation.
func (s *Service) Subscribe(listener MutationListener) {
	s.notifier.add(listener)
}

type base struct {
	storage   *storage.Storage
	processor Processor
	now       func() time.Time
	newID     func() string
	notifier  *notifier
}

func (b *base) run(ctx context.Context, action actions.IAction, mutation Mutation) error {
	if err := b.processor.Process(ctx, action); err != nil {
		return err
	}
	if mutation.At.IsZero() {
		mutation.At = b.now()
	}
	b.notifier.notify(mutation)
	return nil
}

func newUUID() string {
	return uuid.Must(uuid.NewV4()).String()
}
