package actions

import (
	"context"

	"github.com/carson-networks/udhaar-ledger/internal/ledger"
	"github.com/carson-networks/udhaar-ledger/internal/storage"
)

// IAction is one mutation run by the operator inside a single storage write.
// Returning an error rolls the whole write back.
type IAction interface {
	Perform(ctx context.Context, writer *storage.Writer) error
}

var engine = ledger.NewEngine()

// recompute replaces the cached aggregate of a customer with a fresh fold over
// the transactions visible to writer, including ones staged in this write.
func recompute(ctx context.Context, writer *storage.Writer, customerID string) (ledger.Customer, error) {
	customer, err := writer.FindCustomer(ctx, customerID)
	if err != nil {
		return ledger.Customer{}, err
	}
	if customer == nil {
		return ledger.Customer{}, &ledger.NotFoundError{Kind: "customer", ID: customerID}
	}

	agg, err := engine.Recompute(ctx, writer, *customer)
	if err != nil {
		return ledger.Customer{}, err
	}

	updated := customer.WithAggregate(agg)
	if err := writer.PutCustomer(ctx, updated); err != nil {
		return ledger.Customer{}, err
	}
	return updated, nil
}

func requireCustomer(ctx context.Context, writer *storage.Writer, id string) (*ledger.Customer, error) {
	customer, err := writer.FindCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, &ledger.NotFoundError{Kind: "customer", ID: id}
	}
	return customer, nil
}
