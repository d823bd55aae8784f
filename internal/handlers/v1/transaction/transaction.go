package transaction

import (
	"time"

	"github.com/carson-networks/udhaar-ledger/internal/ledger"
)

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID         string `json:"id" doc:"Transaction ID"`
	CustomerID string `json:"customerID" doc:"Owning customer ID"`
	Type       string `json:"type" doc:"BORROW or PAYMENT"`
	Amount     string `json:"amount" doc:"Decimal amount"`
	Items      string `json:"items" doc:"What was bought, or a payment description"`
	Date       string `json:"date" doc:"RFC3339 transaction date"`
	Method     string `json:"method" doc:"CASH, UPI or CREDIT"`
	Notes      string `json:"notes,omitempty" doc:"Free text note"`
}

// Balance is the owner's aggregate after a mutation.
type Balance struct {
	CustomerID    string `json:"customerID" doc:"Customer ID"`
	TotalBorrowed string `json:"totalBorrowed" doc:"Sum of BORROW entries"`
	TotalPaid     string `json:"totalPaid" doc:"Sum of PAYMENT entries"`
	Outstanding   string `json:"outstanding" doc:"totalBorrowed minus totalPaid"`
}

func fromLedger(tx ledger.Transaction) Transaction {
	return Transaction{
		ID:         tx.ID,
		CustomerID: tx.CustomerID,
		Type:       string(tx.Type),
		Amount:     tx.Amount.String(),
		Items:      tx.Items,
		Date:       tx.Date.Format(time.RFC3339),
		Method:     string(tx.Method),
		Notes:      tx.Notes,
	}
}

func balanceOf(c ledger.Customer) Balance {
	return Balance{
		CustomerID:    c.ID,
		TotalBorrowed: c.TotalBorrowed.String(),
		TotalPaid:     c.TotalPaid.String(),
		Outstanding:   c.Outstanding().String(),
	}
}
