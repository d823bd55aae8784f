package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/davecgh/go-spew/spew"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/udhaar-ledger/internal/ledger"
	"github.com/carson-networks/udhaar-ledger/internal/operator"
	"github.com/carson-networks/udhaar-ledger/internal/operator/actions"
	"github.com/carson-networks/udhaar-ledger/internal/storage"
	"github.com/carson-networks/udhaar-ledger/internal/storage/kv"
)

var fixedNow = time.Date(2025, 7, 15, 11, 0, 0, 0, time.UTC)

type mockListener struct {
	mock.Mock
}

func (m *mockListener) OnMutation(mutation Mutation) {
	m.Called(mutation)
}

type testEnv struct {
	svc      *Service
	storage  *storage.Storage
	listener *mockListener
}

func newTestService(t *testing.T, recompute bool) *testEnv {
	t.Helper()
	store := storage.NewStorage(kv.NewMemory())
	delegator := operator.NewOperatorDelegator(store, 1)
	delegator.Start()
	t.Cleanup(delegator.Stop)

	seq := 0
	svc := NewService(store, delegator, Options{
		Clock: func() time.Time { return fixedNow },
		NewID: func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		},
		ImportRecompute: recompute,
	})

	listener := &mockListener{}
	svc.Subscribe(listener)
	return &testEnv{svc: svc, storage: store, listener: listener}
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestCustomerService_CreateWithOpeningBalance(t *testing.T) {
	env := newTestService(t, true)
	env.listener.On("OnMutation", mock.MatchedBy(func(m Mutation) bool {
		return m.Kind == MutationCustomerCreated && !m.Remote && m.At.Equal(fixedNow)
	})).Once()

	customer, err := env.svc.Customers.Create(context.Background(), CustomerCreate{
		Identity:      ledger.CustomerIdentity{Name: "Asha", Phone: "9000000000"},
		OpeningAmount: omit.From(dec(500)),
		OpeningItems:  "Rice",
	})

	require.NoError(t, err)
	assert.Equal(t, "id-1", customer.ID)
	assert.True(t, customer.TotalBorrowed.Equal(dec(500)))
	assert.True(t, customer.TotalPaid.IsZero())

	txs, err := env.svc.Transactions.List(context.Background(), customer.ID)
	require.NoError(t, err)
	require.Len(t, txs, 1, spew.Sdump(txs))
	assert.Equal(t, "id-2", txs[0].ID)
	env.listener.AssertExpectations(t)
}

func TestCustomerService_FailedCreateDoesNotNotify(t *testing.T) {
	env := newTestService(t, true)

	_, err := env.svc.Customers.Create(context.Background(), CustomerCreate{
		Identity: ledger.CustomerIdentity{Name: "No Phone"},
	})

	var vErr *ledger.ValidationError
	assert.True(t, errors.As(err, &vErr))
	env.listener.AssertNotCalled(t, "OnMutation", mock.Anything)
}

func TestCustomerService_ListSearch(t *testing.T) {
	env := newTestService(t, true)
	env.listener.On("OnMutation", mock.Anything)
	ctx := context.Background()

	for _, identity := range []ledger.CustomerIdentity{
		{Name: "Asha Verma", Phone: "9000000001"},
		{Name: "Ravi Kumar", Phone: "9811100000"},
		{Name: "Mohan", Phone: "7000000000"},
	} {
		_, err := env.svc.Customers.Create(ctx, CustomerCreate{Identity: identity})
		require.NoError(t, err)
	}

	all, err := env.svc.Customers.List(ctx, CustomerFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byName, err := env.svc.Customers.List(ctx, CustomerFilter{Query: "  ASHA "})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Asha Verma", byName[0].Name)

	byPhone, err := env.svc.Customers.List(ctx, CustomerFilter{Query: "98111"})
	require.NoError(t, err)
	require.Len(t, byPhone, 1)
	assert.Equal(t, "Ravi Kumar", byPhone[0].Name)
}

func TestCustomerService_ListByStatus(t *testing.T) {
	env := newTestService(t, true)
	env.listener.On("OnMutation", mock.Anything)
	ctx := context.Background()

	owing, err := env.svc.Customers.Create(ctx, CustomerCreate{
		Identity:      ledger.CustomerIdentity{Name: "Owes", Phone: "1"},
		OpeningAmount: omit.From(dec(50)),
	})
	require.NoError(t, err)
	_, err = env.svc.Customers.Create(ctx, CustomerCreate{Identity: ledger.CustomerIdentity{Name: "Clear", Phone: "2"}})
	require.NoError(t, err)

	due, err := env.svc.Customers.List(ctx, CustomerFilter{Status: CustomerStatusDue})
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, owing.ID, due[0].ID)

	paid, err := env.svc.Customers.List(ctx, CustomerFilter{Status: CustomerStatusPaid})
	require.NoError(t, err)
	require.Len(t, paid, 1)
	assert.Equal(t, "Clear", paid[0].Name)
}

func TestCustomerService_GetNotFound(t *testing.T) {
	env := newTestService(t, true)

	_, err := env.svc.Customers.Get(context.Background(), "missing")

	var nfErr *ledger.NotFoundError
	assert.True(t, errors.As(err, &nfErr))
}

func TestTransactionService_AddPayment(t *testing.T) {
	env := newTestService(t, true)
	env.listener.On("OnMutation", mock.Anything)
	ctx := context.Background()

	customer, err := env.svc.Customers.Create(ctx, CustomerCreate{
		Identity:      ledger.CustomerIdentity{Name: "Kiran", Phone: "1"},
		OpeningAmount: omit.From(dec(1000)),
	})
	require.NoError(t, err)

	added, err := env.svc.Transactions.Add(ctx, ledger.Transaction{
		CustomerID: customer.ID,
		Type:       ledger.TransactionTypePayment,
		Amount:     dec(400),
		Method:     ledger.PaymentMethodUPI,
	})
	require.NoError(t, err)
	assert.True(t, added.Transaction.Date.Equal(fixedNow))
	assert.True(t, added.Customer.Outstanding().Equal(dec(600)))

	updated, err := env.svc.Customers.Get(ctx, customer.ID)
	require.NoError(t, err)
	assert.True(t, updated.TotalBorrowed.Equal(dec(1000)))
	assert.True(t, updated.TotalPaid.Equal(dec(400)))
	assert.True(t, updated.Outstanding().Equal(dec(600)))

	env.listener.AssertCalled(t, "OnMutation", mock.MatchedBy(func(m Mutation) bool {
		return m.Kind == MutationTransactionAdded && m.CustomerID == customer.ID
	}))
}

func TestTransactionService_EditAndSettle(t *testing.T) {
	env := newTestService(t, true)
	env.listener.On("OnMutation", mock.Anything)
	ctx := context.Background()

	customer, err := env.svc.Customers.Create(ctx, CustomerCreate{Identity: ledger.CustomerIdentity{Name: "Leela", Phone: "2"}})
	require.NoError(t, err)
	added, err := env.svc.Transactions.Add(ctx, ledger.Transaction{
		CustomerID: customer.ID,
		Type:       ledger.TransactionTypeBorrow,
		Items:      "Milk",
		Amount:     dec(300),
	})
	require.NoError(t, err)

	result, err := env.svc.Transactions.Edit(ctx, added.Transaction.ID, actions.TransactionEdit{Amount: omit.From(dec(300))}, true)
	require.NoError(t, err)

	require.NotNil(t, result.Settlement)
	assert.True(t, result.Customer.TotalBorrowed.Equal(dec(300)))
	assert.True(t, result.Customer.TotalPaid.Equal(dec(300)))
	assert.True(t, result.Customer.Outstanding().IsZero())

	txs, err := env.svc.Transactions.List(ctx, customer.ID)
	require.NoError(t, err)
	assert.Len(t, txs, 2)

	env.listener.AssertCalled(t, "OnMutation", mock.MatchedBy(func(m Mutation) bool {
		return m.Kind == MutationTransactionEdit && m.CustomerID == customer.ID
	}))
}

func TestSnapshotService_RoundTrip(t *testing.T) {
	env := newTestService(t, true)
	env.listener.On("OnMutation", mock.Anything)
	ctx := context.Background()

	first, err := env.svc.Customers.Create(ctx, CustomerCreate{
		Identity:      ledger.CustomerIdentity{Name: "A", Phone: "1", Address: "Market Road"},
		OpeningAmount: omit.From(decimal.RequireFromString("120.50")),
	})
	require.NoError(t, err)
	_, err = env.svc.Customers.Create(ctx, CustomerCreate{Identity: ledger.CustomerIdentity{Name: "B", Phone: "2"}})
	require.NoError(t, err)
	_, err = env.svc.Transactions.Add(ctx, ledger.Transaction{CustomerID: first.ID, Type: ledger.TransactionTypePayment, Amount: dec(20)})
	require.NoError(t, err)
	require.NoError(t, env.svc.Profile.Save(ctx, ledger.StoreProfile{Name: "Gupta Kirana", OwnerName: "Gupta"}))

	before, err := env.svc.Snapshots.Document(ctx)
	require.NoError(t, err)
	exported, err := env.svc.Snapshots.Export(ctx)
	require.NoError(t, err)

	require.NoError(t, env.svc.Snapshots.Clear(ctx))
	require.True(t, env.svc.Snapshots.Import(ctx, exported))

	after, err := env.svc.Snapshots.Document(ctx)
	require.NoError(t, err)
	require.Len(t, after.Customers, len(before.Customers))
	require.Len(t, after.Transactions, len(before.Transactions))
	for i := range before.Customers {
		assert.True(t, before.Customers[i].Aggregate().Equal(after.Customers[i].Aggregate()), spew.Sdump(before.Customers[i], after.Customers[i]))
		assert.Equal(t, before.Customers[i].ID, after.Customers[i].ID)
		assert.Equal(t, before.Customers[i].Address, after.Customers[i].Address)
	}
	for i := range before.Transactions {
		assert.Equal(t, before.Transactions[i].ID, after.Transactions[i].ID)
		assert.True(t, before.Transactions[i].Amount.Equal(after.Transactions[i].Amount))
		assert.True(t, before.Transactions[i].Date.Equal(after.Transactions[i].Date))
	}
	assert.Equal(t, before.Profile, after.Profile)
}

func TestSnapshotService_TruncatedImportLeavesDataUnchanged(t *testing.T) {
	env := newTestService(t, true)
	env.listener.On("OnMutation", mock.Anything)
	ctx := context.Background()

	c1, err := env.svc.Customers.Create(ctx, CustomerCreate{Identity: ledger.CustomerIdentity{Name: "A", Phone: "1"}, OpeningAmount: omit.From(dec(10))})
	require.NoError(t, err)
	_, err = env.svc.Customers.Create(ctx, CustomerCreate{Identity: ledger.CustomerIdentity{Name: "B", Phone: "2"}, OpeningAmount: omit.From(dec(20))})
	require.NoError(t, err)
	_, err = env.svc.Transactions.Add(ctx, ledger.Transaction{CustomerID: c1.ID, Type: ledger.TransactionTypePayment, Amount: dec(5)})
	require.NoError(t, err)

	exported, err := env.svc.Snapshots.Export(ctx)
	require.NoError(t, err)
	before, err := env.storage.Backend.Get(ctx, storage.CustomersKey)
	require.NoError(t, err)

	ok := env.svc.Snapshots.Import(ctx, exported[:len(exported)/2])

	assert.False(t, ok)
	after, err := env.storage.Backend.Get(ctx, storage.CustomersKey)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	txs, err := env.svc.Transactions.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, txs, 3)
}

func TestSnapshotService_RestoreMarksRemote(t *testing.T) {
	env := newTestService(t, false)
	env.listener.On("OnMutation", mock.MatchedBy(func(m Mutation) bool {
		return m.Kind == MutationSnapshotImported && m.Remote
	})).Once()

	err := env.svc.Snapshots.Restore(context.Background(), []byte(`{"profile":{"name":"Remote Shop"}}`), true)
	require.NoError(t, err)

	profile, err := env.svc.Profile.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Remote Shop", profile.Name)
	env.listener.AssertExpectations(t)
}

func TestSnapshotService_RestoreFormatError(t *testing.T) {
	env := newTestService(t, true)

	err := env.svc.Snapshots.Restore(context.Background(), []byte(`[1,2,3]`), false)

	var fErr *ledger.FormatError
	assert.True(t, errors.As(err, &fErr))
}
