package actions

import (
	"context"

	"github.com/carson-networks/udhaar-ledger/internal/storage"
)

// DeleteCustomer removes a customer together with its transactions.
type DeleteCustomer struct {
	ID string

	IAction
}

func (d *DeleteCustomer) Perform(ctx context.Context, writer *storage.Writer) error {
	if _, err := requireCustomer(ctx, writer, d.ID); err != nil {
		return err
	}
	return writer.DeleteCustomerCascade(ctx, d.ID)
}
