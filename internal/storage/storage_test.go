package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/udhaar-ledger/internal/ledger"
	"github.com/carson-networks/udhaar-ledger/internal/storage/kv"
)

var baseDate = time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	return NewStorage(kv.NewMemory())
}

func seed(t *testing.T, s *Storage, customers []ledger.Customer, txs []ledger.Transaction) {
	t.Helper()
	ctx := context.Background()
	w, err := s.Write(ctx)
	require.NoError(t, err)
	require.NoError(t, w.PutCustomerSet(customers))
	require.NoError(t, w.PutTransactionSet(txs))
	require.NoError(t, w.Commit(ctx))
}

func tx(id, customerID string, offset time.Duration) ledger.Transaction {
	return ledger.Transaction{
		ID:         id,
		CustomerID: customerID,
		Type:       ledger.TransactionTypeBorrow,
		Items:      "Item " + id,
		Amount:     decimal.NewFromInt(10),
		Date:       baseDate.Add(offset),
		Method:     ledger.PaymentMethodCredit,
	}
}

func TestReader_EmptyStore(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	customers, err := s.Read().ListCustomers(ctx)
	require.NoError(t, err)
	assert.Empty(t, customers)

	txs, err := s.Read().ListTransactions(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, txs)

	profile, err := s.Read().GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, ledger.DefaultProfile(), profile)
}

func TestReader_ListTransactionsSortedAndFiltered(t *testing.T) {
	s := newTestStorage(t)
	seed(t, s, nil, []ledger.Transaction{
		tx("t1", "c1", 0),
		tx("t2", "c2", time.Hour),
		tx("t3", "c1", 2*time.Hour),
	})
	ctx := context.Background()

	all, err := s.Read().ListTransactions(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"t3", "t2", "t1"}, []string{all[0].ID, all[1].ID, all[2].ID})

	c1, err := s.Read().ListTransactions(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, c1, 2)
	assert.Equal(t, "t3", c1[0].ID)
	assert.Equal(t, "t1", c1[1].ID)
}

func TestWriter_PutCustomerUpsertKeepsInsertionOrder(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	w, err := s.Write(ctx)
	require.NoError(t, err)
	require.NoError(t, w.PutCustomer(ctx, ledger.Customer{ID: "b", Name: "Bina"}))
	require.NoError(t, w.PutCustomer(ctx, ledger.Customer{ID: "a", Name: "Anil"}))
	require.NoError(t, w.PutCustomer(ctx, ledger.Customer{ID: "b", Name: "Bina Devi"}))
	require.NoError(t, w.Commit(ctx))

	customers, err := s.Read().ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, "b", customers[0].ID)
	assert.Equal(t, "Bina Devi", customers[0].Name)
	assert.Equal(t, "a", customers[1].ID)
}

func TestWriter_StagedStateInvisibleUntilCommit(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	w, err := s.Write(ctx)
	require.NoError(t, err)
	require.NoError(t, w.PutCustomer(ctx, ledger.Customer{ID: "c1"}))

	staged, err := w.FindCustomer(ctx, "c1")
	require.NoError(t, err)
	assert.NotNil(t, staged, "writer reads its own staged changes")

	committed, err := s.Read().FindCustomer(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, committed)

	require.NoError(t, w.Rollback())
	committed, err = s.Read().FindCustomer(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, committed)
}

func TestWriter_DeleteCustomerCascade(t *testing.T) {
	s := newTestStorage(t)
	seed(t, s,
		[]ledger.Customer{{ID: "c1"}, {ID: "c2"}},
		[]ledger.Transaction{tx("t1", "c1", 0), tx("t2", "c2", time.Hour), tx("t3", "c1", 2*time.Hour)},
	)
	ctx := context.Background()

	w, err := s.Write(ctx)
	require.NoError(t, err)
	require.NoError(t, w.DeleteCustomerCascade(ctx, "c1"))
	require.NoError(t, w.Commit(ctx))

	customers, err := s.Read().ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "c2", customers[0].ID)

	remaining, err := s.Read().ListTransactions(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, remaining)

	other, err := s.Read().ListTransactions(ctx, "c2")
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestWriter_CommitFailureIsStorageError(t *testing.T) {
	backend := kv.NewMemory()
	s := NewStorage(backend)
	ctx := context.Background()

	w, err := s.Write(ctx)
	require.NoError(t, err)
	require.NoError(t, w.PutProfile(ledger.StoreProfile{Name: "Shop"}))

	backend.WithError(errors.New("disk full"))
	err = w.Commit(ctx)

	var sErr *ledger.StorageError
	require.True(t, errors.As(err, &sErr))
	assert.EqualError(t, errors.Unwrap(err), "disk full")
}

func TestWriter_CannotCommitTwice(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	w, err := s.Write(ctx)
	require.NoError(t, err)
	require.NoError(t, w.Commit(ctx))
	assert.Error(t, w.Commit(ctx))
	assert.Error(t, w.Rollback())
}

func TestWriter_RemoveProfile(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	w, err := s.Write(ctx)
	require.NoError(t, err)
	require.NoError(t, w.PutProfile(ledger.StoreProfile{Name: "Shop", OwnerName: "Ravi"}))
	require.NoError(t, w.Commit(ctx))

	w, err = s.Write(ctx)
	require.NoError(t, err)
	w.RemoveProfile()
	require.NoError(t, w.Commit(ctx))

	profile, err := s.Read().GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, ledger.DefaultProfile(), profile)
}

func TestReader_CorruptCollectionIsStorageError(t *testing.T) {
	backend := kv.NewMemory()
	require.NoError(t, backend.Set(context.Background(), CustomersKey, []byte(`{"not":"a list"}`)))
	s := NewStorage(backend)

	_, err := s.Read().ListCustomers(context.Background())

	var sErr *ledger.StorageError
	assert.True(t, errors.As(err, &sErr))
}

func TestWrite_CancelledContext(t *testing.T) {
	s := newTestStorage(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Write(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
