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

// TransactionEdit lists the mutable fields of a transaction. Unset fields keep
// their stored value.
type TransactionEdit struct {
	Amount omit.Val[decimal.Decimal]
	Items  omit.Val[string]
	Date   omit.Val[time.Time]
}

// EditTransaction overwrites a transaction in place. With Settle on a BORROW
// entry it also records a CASH payment of the entry's amount, dated Now.
type EditTransaction struct {
	ID           string
	Edit         TransactionEdit
	Settle       bool
	SettlementID string
	Now          time.Time

	Updated    ledger.Transaction
	Settlement *ledger.Transaction
	Customer   ledger.Customer

	IAction
}

func (e *EditTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	stored, err := writer.FindTransaction(ctx, e.ID)
	if err != nil {
		return err
	}
	if stored == nil {
		return &ledger.NotFoundError{Kind: "transaction", ID: e.ID}
	}

	tx := *stored
	if amount, ok := e.Edit.Amount.Get(); ok {
		if err := ledger.ValidateAmount(amount); err != nil {
			return err
		}
		tx.Amount = amount
	}
	if items, ok := e.Edit.Items.Get(); ok {
		if tx.Type == ledger.TransactionTypeBorrow && strings.TrimSpace(items) == "" {
			return &ledger.ValidationError{Field: "items", Reason: "required for BORROW"}
		}
		tx.Items = items
	}
	if date, ok := e.Edit.Date.Get(); ok {
		tx.Date = date
	}

	if err := writer.PutTransaction(ctx, tx); err != nil {
		return err
	}

	if e.Settle && tx.Type == ledger.TransactionTypeBorrow {
		if strings.TrimSpace(e.SettlementID) == "" {
			return &ledger.ValidationError{Field: "settlementId", Reason: "required"}
		}
		settlement := ledger.Transaction{
			ID:         e.SettlementID,
			CustomerID: tx.CustomerID,
			Type:       ledger.TransactionTypePayment,
			Items:      ledger.SettlementItems(tx.Items),
			Amount:     tx.Amount,
			Date:       e.Now,
			Method:     ledger.PaymentMethodCash,
			Notes:      ledger.SettlementNotes,
		}
		if err := writer.PutTransaction(ctx, settlement); err != nil {
			return err
		}
		e.Settlement = &settlement
	}

	e.Customer, err = recompute(ctx, writer, tx.CustomerID)
	if err != nil {
		return err
	}
	e.Updated = tx
	return nil
}
