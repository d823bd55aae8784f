package actions

import (
	"context"

	"github.com/carson-networks/udhaar-ledger/internal/ledger"
	"github.com/carson-networks/udhaar-ledger/internal/storage"
)

type SaveProfile struct {
	Profile ledger.StoreProfile

	IAction
}

func (s *SaveProfile) Perform(_ context.Context, writer *storage.Writer) error {
	return writer.PutProfile(s.Profile)
}

// ClearData empties both collections and drops the saved profile.
type ClearData struct {
	IAction
}

func (c *ClearData) Perform(_ context.Context, writer *storage.Writer) error {
	if err := writer.PutCustomerSet(nil); err != nil {
		return err
	}
	if err := writer.PutTransactionSet(nil); err != nil {
		return err
	}
	writer.RemoveProfile()
	return nil
}
