// Package report derives read-only summaries and customer messages from the
// ledger. Nothing here writes to storage.
package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/udhaar-ledger/internal/ledger"
)

// DefaultOverdueAfter is how long a customer with a balance can go without
// activity before counting as overdue.
const DefaultOverdueAfter = 30 * 24 * time.Hour

type Summary struct {
	TotalOutstanding decimal.Decimal
	TotalCollected   decimal.Decimal
	CustomerCount    int
	ActiveCustomers  int
	OverdueCustomers int
}

// Summarize totals the cached customer aggregates.
func Summarize(customers []ledger.Customer, now time.Time, overdueAfter time.Duration) Summary {
	summary := Summary{
		TotalOutstanding: decimal.Zero,
		TotalCollected:   decimal.Zero,
		CustomerCount:    len(customers),
	}
	for _, c := range customers {
		summary.TotalOutstanding = summary.TotalOutstanding.Add(c.Outstanding())
		summary.TotalCollected = summary.TotalCollected.Add(c.TotalPaid)
		if c.Outstanding().IsPositive() {
			summary.ActiveCustomers++
		}
		if IsOverdue(c, now, overdueAfter) {
			summary.OverdueCustomers++
		}
	}
	return summary
}

// IsOverdue reports whether the customer owes money and has had no activity
// for longer than overdueAfter.
func IsOverdue(c ledger.Customer, now time.Time, overdueAfter time.Duration) bool {
	if overdueAfter <= 0 {
		overdueAfter = DefaultOverdueAfter
	}
	return c.Outstanding().IsPositive() && c.LastTransactionDate.Before(now.Add(-overdueAfter))
}

// Overdue filters customers down to the overdue ones, keeping their order.
func Overdue(customers []ledger.Customer, now time.Time, overdueAfter time.Duration) []ledger.Customer {
	var overdue []ledger.Customer
	for _, c := range customers {
		if IsOverdue(c, now, overdueAfter) {
			overdue = append(overdue, c)
		}
	}
	return overdue
}

// DayTotal is the borrowed and collected amount of one calendar day.
type DayTotal struct {
	Day       time.Time
	Borrowed  decimal.Decimal
	Collected decimal.Decimal
}

// DailyTrend returns one entry per calendar day for the last days days,
// oldest first and ending today. Days are taken in now's location.
func DailyTrend(txs []ledger.Transaction, now time.Time, days int) []DayTotal {
	if days < 1 {
		return nil
	}

	loc := now.Location()
	today := startOfDay(now, loc)
	first := today.AddDate(0, 0, -(days - 1))

	trend := make([]DayTotal, days)
	index := make(map[string]int, days)
	for i := range trend {
		day := first.AddDate(0, 0, i)
		trend[i] = DayTotal{Day: day, Borrowed: decimal.Zero, Collected: decimal.Zero}
		index[day.Format(time.DateOnly)] = i
	}

	for _, tx := range txs {
		i, ok := index[startOfDay(tx.Date, loc).Format(time.DateOnly)]
		if !ok {
			continue
		}
		switch tx.Type {
		case ledger.TransactionTypeBorrow:
			trend[i].Borrowed = trend[i].Borrowed.Add(tx.Amount)
		case ledger.TransactionTypePayment:
			trend[i].Collected = trend[i].Collected.Add(tx.Amount)
		}
	}
	return trend
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
