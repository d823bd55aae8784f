package actions

import (
	"context"
	"strings"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/udhaar-ledger/internal/ledger"
	"github.com/carson-networks/udhaar-ledger/internal/storage"
)

// CreateCustomer adds a customer and, when OpeningAmount is set and non-zero,
// records the amount already owed as a BORROW entry.
type CreateCustomer struct {
	ID                   string
	Identity             ledger.CustomerIdentity
	OpeningAmount        omit.Val[decimal.Decimal]
	OpeningItems         string
	OpeningTransactionID string
	Now                  time.Time

	Created ledger.Customer

	IAction
}

func (c *CreateCustomer) Perform(ctx context.Context, writer *storage.Writer) error {
	if err := ledger.ValidateIdentity(c.Identity); err != nil {
		return err
	}
	if strings.TrimSpace(c.ID) == "" {
		return &ledger.ValidationError{Field: "id", Reason: "required"}
	}
	existing, err := writer.FindCustomer(ctx, c.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return &ledger.ValidationError{Field: "id", Reason: "customer already exists"}
	}

	customer := ledger.Customer{ID: c.ID}.
		WithIdentity(c.Identity).
		WithAggregate(ledger.Aggregate{
			TotalBorrowed:       decimal.Zero,
			TotalPaid:           decimal.Zero,
			LastTransactionDate: c.Now,
		})
	if err := writer.PutCustomer(ctx, customer); err != nil {
		return err
	}

	amount, hasOpening := c.OpeningAmount.Get()
	if hasOpening && !amount.IsZero() {
		if err := ledger.ValidateAmount(amount); err != nil {
			return err
		}
		items := strings.TrimSpace(c.OpeningItems)
		if items == "" {
			items = ledger.OpeningBalanceItems
		}
		opening := ledger.Transaction{
			ID:         c.OpeningTransactionID,
			CustomerID: customer.ID,
			Type:       ledger.TransactionTypeBorrow,
			Items:      items,
			Amount:     amount,
			Date:       c.Now,
			Method:     ledger.PaymentMethodCredit,
			Notes:      ledger.OpeningBalanceNotes,
		}
		if err := writer.PutTransaction(ctx, opening); err != nil {
			return err
		}
	}

	c.Created, err = recompute(ctx, writer, customer.ID)
	return err
}
