package customer

import (
	"time"

	"github.com/carson-networks/udhaar-ledger/internal/ledger"
)

// Customer is the API response model for a customer.
// Amounts are decimal strings.
type Customer struct {
	ID                  string `json:"id" doc:"Customer ID"`
	Name                string `json:"name" doc:"Customer name"`
	Phone               string `json:"phone" doc:"Phone number"`
	Address             string `json:"address,omitempty" doc:"Address"`
	PhotoURL            string `json:"photoUrl,omitempty" doc:"Photo URL"`
	TotalBorrowed       string `json:"totalBorrowed" doc:"Sum of BORROW entries"`
	TotalPaid           string `json:"totalPaid" doc:"Sum of PAYMENT entries"`
	Outstanding         string `json:"outstanding" doc:"totalBorrowed minus totalPaid, negative means credit"`
	LastTransactionDate string `json:"lastTransactionDate" doc:"RFC3339 date of the latest entry"`
}

func fromLedger(c ledger.Customer) Customer {
	return Customer{
		ID:                  c.ID,
		Name:                c.Name,
		Phone:               c.Phone,
		Address:             c.Address,
		PhotoURL:            c.PhotoURL,
		TotalBorrowed:       c.TotalBorrowed.String(),
		TotalPaid:           c.TotalPaid.String(),
		Outstanding:         c.Outstanding().String(),
		LastTransactionDate: c.LastTransactionDate.Format(time.RFC3339),
	}
}

// IdentityBody holds the editable customer fields shared by create and update.
type IdentityBody struct {
	Name     string `json:"name" minLength:"1" doc:"Customer name"`
	Phone    string `json:"phone" minLength:"1" doc:"Phone number"`
	Address  string `json:"address,omitempty" doc:"Address"`
	PhotoURL string `json:"photoUrl,omitempty" doc:"Photo URL"`
}

func (b IdentityBody) identity() ledger.CustomerIdentity {
	return ledger.CustomerIdentity{
		Name:     b.Name,
		Phone:    b.Phone,
		Address:  b.Address,
		PhotoURL: b.PhotoURL,
	}
}
