package actions

import (
	"context"
	"strings"
	"time"

	"github.com/carson-networks/udhaar-ledger/internal/ledger"
	"github.com/carson-networks/udhaar-ledger/internal/storage"
)

// AddTransaction records a new BORROW or PAYMENT entry and refreshes the
// owner's aggregate. A zero Date is replaced with Now.
type AddTransaction struct {
	Transaction ledger.Transaction
	Now         time.Time

	Created  ledger.Transaction
	Customer ledger.Customer

	IAction
}

func (a *AddTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	tx, err := ledger.NormalizeTransaction(a.Transaction)
	if err != nil {
		return err
	}
	if strings.TrimSpace(tx.ID) == "" {
		return &ledger.ValidationError{Field: "id", Reason: "required"}
	}
	if tx.Date.IsZero() {
		tx.Date = a.Now
	}

	if _, err := requireCustomer(ctx, writer, tx.CustomerID); err != nil {
		return err
	}
	existing, err := writer.FindTransaction(ctx, tx.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return &ledger.ValidationError{Field: "id", Reason: "transaction already exists"}
	}

	if err := writer.PutTransaction(ctx, tx); err != nil {
		return err
	}

	a.Customer, err = recompute(ctx, writer, tx.CustomerID)
	if err != nil {
		return err
	}
	a.Created = tx
	return nil
}
