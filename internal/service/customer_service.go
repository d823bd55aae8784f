package service

import (
	"context"
	"strings"

	"github.com/aarondl/opt/omit"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/udhaar-ledger/internal/ledger"
	"github.com/carson-networks/udhaar-ledger/internal/operator/actions"
)

// CustomerCreate is the input for a new customer. OpeningAmount, when set,
// is recorded as an initial BORROW entry.
type CustomerCreate struct {
	Identity      ledger.CustomerIdentity
	OpeningAmount omit.Val[decimal.Decimal]
	OpeningItems  string
}

// CustomerService handles customer business logic.
type CustomerService struct {
	*base
}

// Create adds a customer with a freshly generated id.
func (s *CustomerService) Create(ctx context.Context, create CustomerCreate) (ledger.Customer, error) {
	action := &actions.CreateCustomer{
		ID:                   s.newID(),
		Identity:             create.Identity,
		OpeningAmount:        create.OpeningAmount,
		OpeningItems:         create.OpeningItems,
		OpeningTransactionID: s.newID(),
		Now:                  s.now(),
	}
	err := s.run(ctx, action, Mutation{Kind: MutationCustomerCreated, CustomerID: action.ID, At: action.Now})
	if err != nil {
		return ledger.Customer{}, err
	}
	return action.Created, nil
}

// Update replaces the identity fields of a customer.
func (s *CustomerService) Update(ctx context.Context, id string, identity ledger.CustomerIdentity) (ledger.Customer, error) {
	action := &actions.UpdateCustomer{ID: id, Identity: identity}
	if err := s.run(ctx, action, Mutation{Kind: MutationCustomerUpdated, CustomerID: id}); err != nil {
		return ledger.Customer{}, err
	}
	return action.Updated, nil
}

// Delete removes the customer and all of its transactions.
func (s *CustomerService) Delete(ctx context.Context, id string) error {
	return s.run(ctx, &actions.DeleteCustomer{ID: id}, Mutation{Kind: MutationCustomerDeleted, CustomerID: id})
}

// Get returns a customer or a *ledger.NotFoundError.
func (s *CustomerService) Get(ctx context.Context, id string) (ledger.Customer, error) {
	customer, err := s.storage.Read().FindCustomer(ctx, id)
	if err != nil {
		return ledger.Customer{}, err
	}
	if customer == nil {
		return ledger.Customer{}, &ledger.NotFoundError{Kind: "customer", ID: id}
	}
	return *customer, nil
}

// CustomerStatus narrows a customer listing by balance.
type CustomerStatus string

const (
	CustomerStatusAll  CustomerStatus = "ALL"
	CustomerStatusDue  CustomerStatus = "DUE"
	CustomerStatusPaid CustomerStatus = "PAID"
)

// CustomerFilter selects customers for List. Query matches name or phone,
// ignoring case. An empty Status means ALL.
type CustomerFilter struct {
	Query  string
	Status CustomerStatus
}

// List returns the matching customers in insertion order.
func (s *CustomerService) List(ctx context.Context, filter CustomerFilter) ([]ledger.Customer, error) {
	customers, err := s.storage.Read().ListCustomers(ctx)
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(strings.TrimSpace(filter.Query))
	matched := make([]ledger.Customer, 0, len(customers))
	for _, c := range customers {
		if query != "" && !strings.Contains(strings.ToLower(c.Name), query) && !strings.Contains(strings.ToLower(c.Phone), query) {
			continue
		}
		switch filter.Status {
		case CustomerStatusDue:
			if !c.Outstanding().IsPositive() {
				continue
			}
		case CustomerStatusPaid:
			if c.Outstanding().IsPositive() {
				continue
			}
		}
		matched = append(matched, c)
	}
	return matched, nil
}
