package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/udhaar-ledger/internal/ledger"
	"github.com/carson-networks/udhaar-ledger/internal/storage"
	"github.com/carson-networks/udhaar-ledger/internal/storage/kv"
)

var exportedAt = time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)

func seededReader(t *testing.T) *storage.Reader {
	t.Helper()
	s := storage.NewStorage(kv.NewMemory())
	ctx := context.Background()
	w, err := s.Write(ctx)
	require.NoError(t, err)
	require.NoError(t, w.PutCustomerSet([]ledger.Customer{
		{ID: "c1", Name: "Asha", Phone: "9000000000", TotalBorrowed: decimal.NewFromInt(500), TotalPaid: decimal.Zero, LastTransactionDate: exportedAt.Add(-time.Hour)},
		{ID: "c2", Name: "Ravi", Phone: "9811111111", Address: "Lane 2", TotalBorrowed: decimal.NewFromInt(90), TotalPaid: decimal.NewFromInt(40), LastTransactionDate: exportedAt.Add(-2 * time.Hour)},
	}))
	require.NoError(t, w.PutTransactionSet([]ledger.Transaction{
		{ID: "t1", CustomerID: "c2", Type: ledger.TransactionTypeBorrow, Items: "Tea", Amount: decimal.NewFromInt(90), Date: exportedAt.Add(-3 * time.Hour), Method: ledger.PaymentMethodCredit},
		{ID: "t2", CustomerID: "c1", Type: ledger.TransactionTypeBorrow, Items: "Rice", Amount: decimal.NewFromInt(500), Date: exportedAt.Add(-time.Hour), Method: ledger.PaymentMethodCredit, Notes: ledger.OpeningBalanceNotes},
		{ID: "t3", CustomerID: "c2", Type: ledger.TransactionTypePayment, Items: "", Amount: decimal.NewFromInt(40), Date: exportedAt.Add(-2 * time.Hour), Method: ledger.PaymentMethodUPI},
	}))
	require.NoError(t, w.PutProfile(ledger.StoreProfile{Name: "Asha Kirana", Address: "Main Bazaar", Phone: "0111", OwnerName: "Asha"}))
	require.NoError(t, w.Commit(ctx))
	return s.Read()
}

func TestExport_Shape(t *testing.T) {
	data, err := Export(context.Background(), seededReader(t), exportedAt)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.ElementsMatch(t, []string{"customers", "transactions", "profile", "exportDate"}, keys(raw))
	assert.Contains(t, string(data), "\n  \"customers\"", "output is indented")
	assert.Contains(t, string(data), `"amount": 90`, "amounts are numbers")
	assert.Contains(t, string(data), `"exportDate": "2025-09-01T08:00:00Z"`)

	doc, err := Collect(context.Background(), seededReader(t), exportedAt)
	require.NoError(t, err)
	ids := []string{doc.Transactions[0].ID, doc.Transactions[1].ID, doc.Transactions[2].ID}
	assert.Equal(t, []string{"t2", "t3", "t1"}, ids, "transactions are newest first")
}

func TestExportDecode_RoundTrip(t *testing.T) {
	reader := seededReader(t)
	doc, err := Collect(context.Background(), reader, exportedAt)
	require.NoError(t, err)
	data, err := Encode(doc)
	require.NoError(t, err)

	snap, err := Decode(data)
	require.NoError(t, err)

	customers, ok := snap.Customers.Get()
	require.True(t, ok)
	txs, ok := snap.Transactions.Get()
	require.True(t, ok)
	profile, ok := snap.Profile.Get()
	require.True(t, ok)
	exported, ok := snap.ExportDate.Get()
	require.True(t, ok)

	require.Len(t, customers, len(doc.Customers))
	for i := range customers {
		assert.Equal(t, doc.Customers[i].ID, customers[i].ID)
		assert.Equal(t, doc.Customers[i].Address, customers[i].Address)
		assert.True(t, doc.Customers[i].Aggregate().Equal(customers[i].Aggregate()), spew.Sdump(doc.Customers[i], customers[i]))
	}
	require.Len(t, txs, len(doc.Transactions))
	for i := range txs {
		assert.Equal(t, doc.Transactions[i].ID, txs[i].ID)
		assert.Equal(t, doc.Transactions[i].Method, txs[i].Method)
		assert.Equal(t, doc.Transactions[i].Notes, txs[i].Notes)
		assert.True(t, doc.Transactions[i].Amount.Equal(txs[i].Amount), spew.Sdump(doc.Transactions[i], txs[i]))
		assert.True(t, doc.Transactions[i].Date.Equal(txs[i].Date))
	}
	assert.Equal(t, doc.Profile, profile)
	assert.True(t, exported.Equal(exportedAt))
}

func TestDecode_PartialPayload(t *testing.T) {
	snap, err := Decode([]byte(`{"profile": {"name": "Only Profile", "ownerName": "Me"}}`))
	require.NoError(t, err)

	assert.True(t, snap.Customers.IsUnset())
	assert.True(t, snap.Transactions.IsUnset())
	profile, ok := snap.Profile.Get()
	require.True(t, ok)
	assert.Equal(t, "Only Profile", profile.Name)
}

func TestDecode_WrongShapesTreatedAsAbsent(t *testing.T) {
	snap, err := Decode([]byte(`{"customers": {"c1": {}}, "transactions": null, "profile": ["x"], "exportDate": 5}`))
	require.NoError(t, err, spew.Sdump(snap))

	assert.True(t, snap.Customers.IsUnset())
	assert.True(t, snap.Transactions.IsUnset())
	assert.True(t, snap.Profile.IsUnset())
	assert.True(t, snap.ExportDate.IsUnset())
}

func TestDecode_EmptyArraysAreApplied(t *testing.T) {
	snap, err := Decode([]byte(`{"customers": [], "transactions": []}`))
	require.NoError(t, err)

	customers, ok := snap.Customers.Get()
	assert.True(t, ok)
	assert.Empty(t, customers)
	assert.True(t, snap.Transactions.IsValue())
}

func TestDecode_FormatErrors(t *testing.T) {
	tests := map[string]string{
		"empty":              ``,
		"not json":           `backup`,
		"array top level":    `[{"id":"c1"}]`,
		"null top level":     `null`,
		"truncated":          `{"customers": [{"id": "c1", "name": "As`,
		"malformed customer": `{"customers": [{"id": 42}]}`,
		"malformed amount":   `{"transactions": [{"id": "t1", "amount": "lots"}]}`,
	}

	for name, payload := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(payload))

			var fErr *ledger.FormatError
			assert.True(t, errors.As(err, &fErr), "got %v", err)
		})
	}
}

func keys(m map[string]json.RawMessage) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "kirana_backup_2025-01-31.json", FileName(time.Date(2025, 1, 31, 23, 0, 0, 0, time.UTC)))
}
