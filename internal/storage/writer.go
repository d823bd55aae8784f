package storage

import (
	"context"
	"encoding/json"
	"errors"
	"sort"

	"github.com/carson-networks/udhaar-ledger/internal/ledger"
	"github.com/carson-networks/udhaar-ledger/internal/storage/kv"
)

var errWriterDone = errors.New("storage: writer already committed or rolled back")

// Writer stages changes to the ledger collections. Its embedded Reader sees the
// staged state; Commit applies every staged key in one backend batch.
type Writer struct {
	store  kv.Store
	staged *stagedSource
	done   bool
	*Reader
}

func NewWriter(store kv.Store) *Writer {
	staged := &stagedSource{
		base:    backendSource{store: store},
		changes: make(map[string]kv.Mutation),
	}
	return &Writer{
		store:  store,
		staged: staged,
		Reader: NewReader(staged),
	}
}

// PutCustomer inserts or replaces a customer by id. New customers are appended.
func (w *Writer) PutCustomer(ctx context.Context, customer ledger.Customer) error {
	customers, err := w.ListCustomers(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range customers {
		if customers[i].ID == customer.ID {
			customers[i] = customer
			replaced = true
			break
		}
	}
	if !replaced {
		customers = append(customers, customer)
	}
	return w.PutCustomerSet(customers)
}

// PutCustomerSet replaces the whole customer collection.
func (w *Writer) PutCustomerSet(customers []ledger.Customer) error {
	if customers == nil {
		customers = []ledger.Customer{}
	}
	return w.stage(CustomersKey, customers)
}

// PutTransactionSet replaces the whole transaction collection.
func (w *Writer) PutTransactionSet(txs []ledger.Transaction) error {
	if txs == nil {
		txs = []ledger.Transaction{}
	}
	sorted := make([]ledger.Transaction, len(txs))
	copy(sorted, txs)
	SortByDateDesc(sorted)
	return w.stage(TransactionsKey, sorted)
}

// PutTransaction inserts or replaces a transaction by id.
func (w *Writer) PutTransaction(ctx context.Context, tx ledger.Transaction) error {
	txs, err := w.allTransactions(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range txs {
		if txs[i].ID == tx.ID {
			txs[i] = tx
			replaced = true
			break
		}
	}
	if !replaced {
		txs = append(txs, tx)
	}
	return w.PutTransactionSet(txs)
}

// AllTransactions returns every transaction in stored order.
func (w *Writer) AllTransactions(ctx context.Context) ([]ledger.Transaction, error) {
	return w.allTransactions(ctx)
}

// DeleteCustomerCascade removes the customer and every transaction it owns.
// Both collections are staged together and land in the same commit.
func (w *Writer) DeleteCustomerCascade(ctx context.Context, id string) error {
	customers, err := w.ListCustomers(ctx)
	if err != nil {
		return err
	}
	txs, err := w.allTransactions(ctx)
	if err != nil {
		return err
	}

	keptCustomers := make([]ledger.Customer, 0, len(customers))
	for _, c := range customers {
		if c.ID != id {
			keptCustomers = append(keptCustomers, c)
		}
	}
	keptTxs := make([]ledger.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.CustomerID != id {
			keptTxs = append(keptTxs, tx)
		}
	}

	if err := w.PutCustomerSet(keptCustomers); err != nil {
		return err
	}
	return w.PutTransactionSet(keptTxs)
}

func (w *Writer) PutProfile(profile ledger.StoreProfile) error {
	return w.stage(ProfileKey, profile)
}

func (w *Writer) RemoveProfile() {
	w.staged.changes[ProfileKey] = kv.Mutation{Key: ProfileKey, Remove: true}
}

// Commit applies the staged changes atomically.
func (w *Writer) Commit(ctx context.Context) error {
	if w.done {
		return errWriterDone
	}
	w.done = true

	if len(w.staged.changes) == 0 {
		return nil
	}
	keys := make([]string, 0, len(w.staged.changes))
	for key := range w.staged.changes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	mutations := make([]kv.Mutation, 0, len(keys))
	for _, key := range keys {
		mutations = append(mutations, w.staged.changes[key])
	}

	if err := w.store.Apply(ctx, mutations); err != nil {
		return &ledger.StorageError{Op: "commit", Err: err}
	}
	return nil
}

// Rollback discards the staged changes.
func (w *Writer) Rollback() error {
	if w.done {
		return errWriterDone
	}
	w.done = true
	w.staged.changes = make(map[string]kv.Mutation)
	return nil
}

func (w *Writer) stage(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return &ledger.StorageError{Op: "encode " + key, Err: err}
	}
	w.staged.changes[key] = kv.Mutation{Key: key, Value: data}
	return nil
}

type stagedSource struct {
	base    source
	changes map[string]kv.Mutation
}

func (s *stagedSource) get(ctx context.Context, key string) ([]byte, bool, error) {
	if mut, ok := s.changes[key]; ok {
		if mut.Remove {
			return nil, false, nil
		}
		return mut.Value, true, nil
	}
	return s.base.get(ctx, key)
}
