package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionSource lists the transactions owned by a customer.
type TransactionSource interface {
	ListTransactions(ctx context.Context, customerID string) ([]Transaction, error)
}

// Engine derives customer aggregates from transaction history.
type Engine struct{}

// NewEngine creates a new Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Recompute loads the customer's transactions and folds them into a fresh
// aggregate. Nothing is written; the caller persists the result.
func (e *Engine) Recompute(ctx context.Context, source TransactionSource, customer Customer) (Aggregate, error) {
	txs, err := source.ListTransactions(ctx, customer.ID)
	if err != nil {
		return Aggregate{}, err
	}
	return Fold(customer.ID, customer.LastTransactionDate, txs)
}

// Fold sums the BORROW and PAYMENT amounts of the transactions belonging to
// customerID and tracks the latest date. previous is kept as the last activity
// date when no transaction matches. The result does not depend on input order.
func Fold(customerID string, previous time.Time, txs []Transaction) (Aggregate, error) {
	agg := Aggregate{
		TotalBorrowed: decimal.Zero,
		TotalPaid:     decimal.Zero,
	}

	var latest time.Time
	matched := false
	for _, tx := range txs {
		if tx.CustomerID != customerID {
			continue
		}
		if !tx.Amount.IsPositive() {
			return Aggregate{}, invalid("amount", fmt.Sprintf("transaction %s has a non-positive amount", tx.ID))
		}

		switch tx.Type {
		case TransactionTypeBorrow:
			agg.TotalBorrowed = agg.TotalBorrowed.Add(tx.Amount)
		case TransactionTypePayment:
			agg.TotalPaid = agg.TotalPaid.Add(tx.Amount)
		default:
			return Aggregate{}, invalid("type", fmt.Sprintf("transaction %s has unknown type %q", tx.ID, tx.Type))
		}

		if !matched || tx.Date.After(latest) {
			latest = tx.Date
		}
		matched = true
	}

	if matched {
		agg.LastTransactionDate = latest
	} else {
		agg.LastTransactionDate = previous
	}
	return agg, nil
}
