package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/udhaar-ledger/internal/ledger"
)

// ReminderMessage asks the customer to clear their outstanding balance.
func ReminderMessage(c ledger.Customer) string {
	return fmt.Sprintf(
		"Hello %s, your pending balance is ₹%s. Please pay at your earliest convenience.",
		c.Name, c.Outstanding().String(),
	)
}

// TransactionMessage is the receipt sent after an entry is recorded.
func TransactionMessage(c ledger.Customer, tx ledger.Transaction, balance decimal.Decimal) string {
	var b strings.Builder
	if tx.Type == ledger.TransactionTypeBorrow {
		b.WriteString("*Credit Added*\n")
	} else {
		b.WriteString("*Payment Received*\n")
	}
	fmt.Fprintf(&b, "Name: %s\n", c.Name)
	fmt.Fprintf(&b, "Amount: ₹%s\n", tx.Amount.String())
	if tx.Type == ledger.TransactionTypeBorrow {
		fmt.Fprintf(&b, "Items: %s\n", tx.Items)
	}
	fmt.Fprintf(&b, "Current Balance: ₹%s", balance.String())
	return b.String()
}
