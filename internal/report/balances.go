package report

import (
	"github.com/shopspring/decimal"

	"github.com/carson-networks/udhaar-ledger/internal/ledger"
)

type BalanceRow struct {
	CustomerID string
	Name       string
	Phone      string
	Address    string
	Borrowed   decimal.Decimal
	Paid       decimal.Decimal
	Balance    decimal.Decimal
}

// BalanceSheet is the per-customer balance list used for the printable report.
type BalanceSheet struct {
	Rows             []BalanceRow
	TotalOutstanding decimal.Decimal
}

func Balances(customers []ledger.Customer) BalanceSheet {
	sheet := BalanceSheet{
		Rows:             make([]BalanceRow, 0, len(customers)),
		TotalOutstanding: decimal.Zero,
	}
	for _, c := range customers {
		balance := c.Outstanding()
		sheet.Rows = append(sheet.Rows, BalanceRow{
			CustomerID: c.ID,
			Name:       c.Name,
			Phone:      c.Phone,
			Address:    c.Address,
			Borrowed:   c.TotalBorrowed,
			Paid:       c.TotalPaid,
			Balance:    balance,
		})
		sheet.TotalOutstanding = sheet.TotalOutstanding.Add(balance)
	}
	return sheet
}
