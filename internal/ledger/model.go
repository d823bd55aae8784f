package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel as JSON numbers so existing backups restore unchanged.
	decimal.MarshalJSONWithoutQuotes = true
}

// TransactionType is the direction of a ledger entry.
type TransactionType string

const (
	// TransactionTypeBorrow is credit extended to the customer (udhaar).
	TransactionTypeBorrow TransactionType = "BORROW"
	// TransactionTypePayment is money received from the customer (jama).
	TransactionTypePayment TransactionType = "PAYMENT"
)

func (t TransactionType) Valid() bool {
	return t == TransactionTypeBorrow || t == TransactionTypePayment
}

// PaymentMethod records how an entry was settled.
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "CASH"
	PaymentMethodUPI    PaymentMethod = "UPI"
	PaymentMethodCredit PaymentMethod = "CREDIT"
)

// Customer is a shop customer. TotalBorrowed, TotalPaid and LastTransactionDate
// are a cache of Fold over the customer's transactions and are only ever
// replaced through WithAggregate.
type Customer struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Phone               string          `json:"phone"`
	Address             string          `json:"address,omitempty"`
	PhotoURL            string          `json:"photoUrl,omitempty"`
	TotalBorrowed       decimal.Decimal `json:"totalBorrowed"`
	TotalPaid           decimal.Decimal `json:"totalPaid"`
	LastTransactionDate time.Time       `json:"lastTransactionDate"`
}

// Outstanding is what the customer owes the store. Negative means credit.
func (c Customer) Outstanding() decimal.Decimal {
	return c.TotalBorrowed.Sub(c.TotalPaid)
}

// Aggregate returns the cached aggregate fields of the customer.
func (c Customer) Aggregate() Aggregate {
	return Aggregate{
		TotalBorrowed:       c.TotalBorrowed,
		TotalPaid:           c.TotalPaid,
		LastTransactionDate: c.LastTransactionDate,
	}
}

// WithAggregate returns a copy of the customer with every aggregate field replaced.
func (c Customer) WithAggregate(agg Aggregate) Customer {
	c.TotalBorrowed = agg.TotalBorrowed
	c.TotalPaid = agg.TotalPaid
	c.LastTransactionDate = agg.LastTransactionDate
	return c
}

// CustomerIdentity holds the user-editable fields of a customer.
type CustomerIdentity struct {
	Name     string
	Phone    string
	Address  string
	PhotoURL string
}

// WithIdentity returns a copy of the customer with the identity fields replaced.
func (c Customer) WithIdentity(identity CustomerIdentity) Customer {
	c.Name = identity.Name
	c.Phone = identity.Phone
	c.Address = identity.Address
	c.PhotoURL = identity.PhotoURL
	return c
}

// Transaction is a single ledger entry owned by exactly one customer.
type Transaction struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customerId"`
	Type       TransactionType `json:"type"`
	Items      string          `json:"items"`
	Amount     decimal.Decimal `json:"amount"`
	Date       time.Time       `json:"date"`
	Method     PaymentMethod   `json:"method"`
	Notes      string          `json:"notes,omitempty"`
}

// StoreProfile describes the shop itself.
type StoreProfile struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	OwnerName string `json:"ownerName"`
}

// DefaultProfile is used until a profile has been saved.
func DefaultProfile() StoreProfile {
	return StoreProfile{
		Name:      "Kirana Store",
		OwnerName: "Admin",
	}
}

// Aggregate is the derived state of a customer.
type Aggregate struct {
	TotalBorrowed       decimal.Decimal
	TotalPaid           decimal.Decimal
	LastTransactionDate time.Time
}

// Equal compares aggregates by value.
func (a Aggregate) Equal(other Aggregate) bool {
	return a.TotalBorrowed.Equal(other.TotalBorrowed) &&
		a.TotalPaid.Equal(other.TotalPaid) &&
		a.LastTransactionDate.Equal(other.LastTransactionDate)
}

const (
	OpeningBalanceItems = "Opening Balance"
	OpeningBalanceNotes = "Initial Balance"
	SettlementNotes     = "Auto-settled via Edit"
)

// SettlementItems is the description of the payment generated when a BORROW
// entry is marked settled.
func SettlementItems(borrowItems string) string {
	if borrowItems == "" {
		borrowItems = "Credit"
	}
	return "Settlement for: " + borrowItems
}
