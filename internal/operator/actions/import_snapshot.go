package actions

import (
	"context"

	"github.com/carson-networks/udhaar-ledger/internal/ledger"
	"github.com/carson-networks/udhaar-ledger/internal/snapshot"
	"github.com/carson-networks/udhaar-ledger/internal/storage"
)

// ImportSnapshot replaces every collection present in the snapshot. With
// Recompute set, all customer aggregates are rebuilt from the imported
// transactions in the same write, so an invalid entry fails the whole import.
type ImportSnapshot struct {
	Snapshot  snapshot.Snapshot
	Recompute bool

	IAction
}

func (i *ImportSnapshot) Perform(ctx context.Context, writer *storage.Writer) error {
	if customers, ok := i.Snapshot.Customers.Get(); ok {
		if err := writer.PutCustomerSet(customers); err != nil {
			return err
		}
	}
	if txs, ok := i.Snapshot.Transactions.Get(); ok {
		if err := writer.PutTransactionSet(txs); err != nil {
			return err
		}
	}
	if profile, ok := i.Snapshot.Profile.Get(); ok {
		if err := writer.PutProfile(profile); err != nil {
			return err
		}
	}

	if !i.Recompute {
		return nil
	}

	customers, err := writer.ListCustomers(ctx)
	if err != nil {
		return err
	}
	txs, err := writer.AllTransactions(ctx)
	if err != nil {
		return err
	}
	for idx, customer := range customers {
		agg, err := ledger.Fold(customer.ID, customer.LastTransactionDate, txs)
		if err != nil {
			return err
		}
		customers[idx] = customer.WithAggregate(agg)
	}
	return writer.PutCustomerSet(customers)
}
