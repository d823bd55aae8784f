package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/udhaar-ledger/internal/ledger"
)

var now = time.Date(2025, 8, 20, 18, 0, 0, 0, time.UTC)

func customer(id string, borrowed, paid int64, last time.Time) ledger.Customer {
	return ledger.Customer{
		ID:                  id,
		Name:                "Customer " + id,
		Phone:               "900000000" + id,
		TotalBorrowed:       decimal.NewFromInt(borrowed),
		TotalPaid:           decimal.NewFromInt(paid),
		LastTransactionDate: last,
	}
}

func TestSummarize(t *testing.T) {
	customers := []ledger.Customer{
		customer("1", 1000, 400, now.Add(-24*time.Hour)),
		customer("2", 500, 0, now.Add(-45*24*time.Hour)),
		customer("3", 200, 250, now.Add(-90*24*time.Hour)),
	}

	summary := Summarize(customers, now, DefaultOverdueAfter)

	assert.True(t, summary.TotalOutstanding.Equal(decimal.NewFromInt(1050)), summary.TotalOutstanding.String())
	assert.True(t, summary.TotalCollected.Equal(decimal.NewFromInt(650)))
	assert.Equal(t, 3, summary.CustomerCount)
	assert.Equal(t, 2, summary.ActiveCustomers)
	assert.Equal(t, 1, summary.OverdueCustomers, "customers in credit are never overdue")
}

func TestOverdue(t *testing.T) {
	customers := []ledger.Customer{
		customer("1", 100, 0, now.Add(-31*24*time.Hour)),
		customer("2", 100, 0, now.Add(-29*24*time.Hour)),
		customer("3", 100, 100, now.Add(-60*24*time.Hour)),
	}

	overdue := Overdue(customers, now, 0)

	require.Len(t, overdue, 1)
	assert.Equal(t, "1", overdue[0].ID)
}

func TestDailyTrend(t *testing.T) {
	txs := []ledger.Transaction{
		{Type: ledger.TransactionTypeBorrow, Amount: decimal.NewFromInt(50), Date: now.Add(-2 * time.Hour)},
		{Type: ledger.TransactionTypePayment, Amount: decimal.NewFromInt(20), Date: now.Add(-3 * time.Hour)},
		{Type: ledger.TransactionTypeBorrow, Amount: decimal.NewFromInt(70), Date: now.AddDate(0, 0, -6)},
		{Type: ledger.TransactionTypeBorrow, Amount: decimal.NewFromInt(999), Date: now.AddDate(0, 0, -7)},
	}

	trend := DailyTrend(txs, now, 7)

	require.Len(t, trend, 7)
	assert.True(t, trend[0].Day.Equal(time.Date(2025, 8, 14, 0, 0, 0, 0, time.UTC)))
	assert.True(t, trend[0].Borrowed.Equal(decimal.NewFromInt(70)))
	assert.True(t, trend[6].Day.Equal(time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC)))
	assert.True(t, trend[6].Borrowed.Equal(decimal.NewFromInt(50)))
	assert.True(t, trend[6].Collected.Equal(decimal.NewFromInt(20)))
	for _, day := range trend[1:6] {
		assert.True(t, day.Borrowed.IsZero())
		assert.True(t, day.Collected.IsZero())
	}

	assert.Nil(t, DailyTrend(txs, now, 0))
}

func TestBalances(t *testing.T) {
	sheet := Balances([]ledger.Customer{
		customer("1", 300, 100, now),
		customer("2", 50, 80, now),
	})

	require.Len(t, sheet.Rows, 2)
	assert.True(t, sheet.Rows[0].Balance.Equal(decimal.NewFromInt(200)))
	assert.True(t, sheet.Rows[1].Balance.Equal(decimal.NewFromInt(-30)))
	assert.True(t, sheet.TotalOutstanding.Equal(decimal.NewFromInt(170)))
}

func TestReminderMessage(t *testing.T) {
	c := customer("1", 750, 150, now)
	c.Name = "Asha"

	assert.Equal(t,
		"Hello Asha, your pending balance is ₹600. Please pay at your earliest convenience.",
		ReminderMessage(c),
	)
}

func TestTransactionMessage(t *testing.T) {
	c := ledger.Customer{Name: "Ravi"}

	borrow := ledger.Transaction{Type: ledger.TransactionTypeBorrow, Items: "Atta 5kg", Amount: decimal.RequireFromString("240.50")}
	assert.Equal(t,
		"*Credit Added*\nName: Ravi\nAmount: ₹240.5\nItems: Atta 5kg\nCurrent Balance: ₹540.5",
		TransactionMessage(c, borrow, decimal.RequireFromString("540.50")),
	)

	payment := ledger.Transaction{Type: ledger.TransactionTypePayment, Amount: decimal.NewFromInt(100)}
	assert.Equal(t,
		"*Payment Received*\nName: Ravi\nAmount: ₹100\nCurrent Balance: ₹440.5",
		TransactionMessage(c, payment, decimal.RequireFromString("440.5")),
	)
}
