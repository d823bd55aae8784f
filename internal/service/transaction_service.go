package service

import (
	"context"

	"github.com/carson-networks/udhaar-ledger/internal/ledger"
	"github.com/carson-networks/udhaar-ledger/internal/operator/actions"
)

// TransactionAdded is the stored entry and the owner's refreshed aggregate.
type TransactionAdded struct {
	Transaction ledger.Transaction
	Customer    ledger.Customer
}

// TransactionEdited is the outcome of an edit. Settlement is set when a
// payment was generated for a settled BORROW entry.
type TransactionEdited struct {
	Transaction ledger.Transaction
	Settlement  *ledger.Transaction
	Customer    ledger.Customer
}

// TransactionService handles transaction business logic.
type TransactionService struct {
	*base
}

// Add records a new transaction. The id is generated; a zero date means now.
func (s *TransactionService) Add(ctx context.Context, tx ledger.Transaction) (TransactionAdded, error) {
	tx.ID = s.newID()
	action := &actions.AddTransaction{Transaction: tx, Now: s.now()}
	err := s.run(ctx, action, Mutation{Kind: MutationTransactionAdded, CustomerID: tx.CustomerID, At: action.Now})
	if err != nil {
		return TransactionAdded{}, err
	}
	return TransactionAdded{Transaction: action.Created, Customer: action.Customer}, nil
}

// Edit overwrites the mutable fields of a transaction, optionally settling it.
func (s *TransactionService) Edit(ctx context.Context, id string, edit actions.TransactionEdit, settle bool) (TransactionEdited, error) {
	action := &actions.EditTransaction{
		ID:           id,
		Edit:         edit,
		Settle:       settle,
		SettlementID: s.newID(),
		Now:          s.now(),
	}
	if err := s.processor.Process(ctx, action); err != nil {
		return TransactionEdited{}, err
	}
	s.notifier.notify(Mutation{Kind: MutationTransactionEdit, CustomerID: action.Updated.CustomerID, At: action.Now})

	return TransactionEdited{
		Transaction: action.Updated,
		Settlement:  action.Settlement,
		Customer:    action.Customer,
	}, nil
}

// List returns transactions newest first, optionally for one customer.
func (s *TransactionService) List(ctx context.Context, customerID string) ([]ledger.Transaction, error) {
	return s.storage.Read().ListTransactions(ctx, customerID)
}
