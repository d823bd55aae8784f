package actions

import (
	"context"

	"github.com/carson-networks/udhaar-ledger/internal/ledger"
	"github.com/carson-networks/udhaar-ledger/internal/storage"
)

// UpdateCustomer replaces the identity fields of a customer. Aggregates are
// carried over untouched.
type UpdateCustomer struct {
	ID       string
	Identity ledger.CustomerIdentity

	Updated ledger.Customer

	IAction
}

func (u *UpdateCustomer) Perform(ctx context.Context, writer *storage.Writer) error {
	if err := ledger.ValidateIdentity(u.Identity); err != nil {
		return err
	}
	customer, err := requireCustomer(ctx, writer, u.ID)
	if err != nil {
		return err
	}

	u.Updated = customer.WithIdentity(u.Identity)
	return writer.PutCustomer(ctx, u.Updated)
}
