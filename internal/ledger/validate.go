package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts user input into a positive amount.
func ParseAmount(raw string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero, invalid("amount", "required")
	}
	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, invalid("amount", "not a number")
	}
	if err := ValidateAmount(amount); err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}

// ValidateAmount requires a strictly positive amount.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return invalid("amount", "must be greater than zero")
	}
	return nil
}

// ValidateIdentity checks the required customer fields.
func ValidateIdentity(identity CustomerIdentity) error {
	if strings.TrimSpace(identity.Name) == "" {
		return invalid("name", "required")
	}
	if strings.TrimSpace(identity.Phone) == "" {
		return invalid("phone", "required")
	}
	return nil
}

// NormalizeTransaction validates a new transaction and fills in the method
// implied by its type. BORROW entries are always CREDIT, payments default to CASH.
func NormalizeTransaction(tx Transaction) (Transaction, error) {
	if strings.TrimSpace(tx.CustomerID) == "" {
		return tx, invalid("customerId", "required")
	}
	if err := ValidateAmount(tx.Amount); err != nil {
		return tx, err
	}

	switch tx.Type {
	case TransactionTypeBorrow:
		if strings.TrimSpace(tx.Items) == "" {
			return tx, invalid("items", "required for BORROW")
		}
		switch tx.Method {
		case "", PaymentMethodCredit:
			tx.Method = PaymentMethodCredit
		default:
			return tx, invalid("method", "BORROW entries are CREDIT")
		}
	case TransactionTypePayment:
		switch tx.Method {
		case "":
			tx.Method = PaymentMethodCash
		case PaymentMethodCash, PaymentMethodUPI:
		default:
			return tx, invalid("method", "PAYMENT entries are CASH or UPI")
		}
	default:
		return tx, invalid("type", "must be BORROW or PAYMENT")
	}

	return tx, nil
}
