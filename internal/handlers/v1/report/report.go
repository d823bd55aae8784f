package report

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/udhaar-ledger/internal/handlers/v1/apierror"
	"github.com/carson-networks/udhaar-ledger/internal/ledger"
	"github.com/carson-networks/udhaar-ledger/internal/logging"
	"github.com/carson-networks/udhaar-ledger/internal/report"
	"github.com/carson-networks/udhaar-ledger/internal/service"
)

// SummaryInput is the Huma input for the dashboard summary.
type SummaryInput struct {
	Days int `query:"days" minimum:"1" maximum:"90" default:"7" doc:"Length of the daily trend"`
}

// DayTotal is one day of the trend.
type DayTotal struct {
	Day       string `json:"day" doc:"Calendar day, YYYY-MM-DD"`
	Borrowed  string `json:"borrowed" doc:"Credit given that day"`
	Collected string `json:"collected" doc:"Payments received that day"`
}

// SummaryResponse is the dashboard summary.
type SummaryResponse struct {
	TotalOutstanding string     `json:"totalOutstanding" doc:"Sum of every customer's balance"`
	TotalCollected   string     `json:"totalCollected" doc:"Sum of every customer's payments"`
	CustomerCount    int        `json:"customerCount"`
	ActiveCustomers  int        `json:"activeCustomers" doc:"Customers who owe money"`
	OverdueCustomers int        `json:"overdueCustomers" doc:"Customers who owe money and have been inactive too long"`
	Trend            []DayTotal `json:"trend" doc:"Daily totals, oldest first"`
}

// SummaryOutput is the Huma output for the summary.
type SummaryOutput struct {
	Body SummaryResponse
}

// BalanceRow is one customer in the balance sheet.
type BalanceRow struct {
	CustomerID string `json:"customerID"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Address    string `json:"address,omitempty"`
	Borrowed   string `json:"borrowed"`
	Paid       string `json:"paid"`
	Balance    string `json:"balance"`
}

// BalancesResponse is the printable balance sheet.
type BalancesResponse struct {
	Rows             []BalanceRow `json:"rows"`
	TotalOutstanding string       `json:"totalOutstanding"`
}

// BalancesOutput is the Huma output for the balance sheet.
type BalancesOutput struct {
	Body BalancesResponse
}

type customerLister interface {
	List(ctx context.Context, filter service.CustomerFilter) ([]ledger.Customer, error)
}

type transactionLister interface {
	List(ctx context.Context, customerID string) ([]ledger.Transaction, error)
}

// Handler handles /v1/report/*. Reports only read the ledger.
type Handler struct {
	Customers    customerLister
	Transactions transactionLister
	OverdueAfter time.Duration
	Now          func() time.Time
}

// NewHandler creates a new Handler.
func NewHandler(customers customerLister, transactions transactionLister, overdueAfter time.Duration) *Handler {
	return &Handler{
		Customers:    customers,
		Transactions: transactions,
		OverdueAfter: overdueAfter,
		Now:          time.Now,
	}
}

// Register registers the report endpoints with the Huma API.
func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "report-summary",
		Method:      http.MethodGet,
		Path:        "/v1/report/summary",
		Summary:     "Dashboard summary",
		Tags:        []string{"Reports"},
	}, h.handleSummary)

	huma.Register(api, huma.Operation{
		OperationID: "report-balances",
		Method:      http.MethodGet,
		Path:        "/v1/report/balances",
		Summary:     "Customer balance sheet",
		Tags:        []string{"Reports"},
	}, h.handleBalances)
}

func (h *Handler) handleSummary(ctx context.Context, input *SummaryInput) (*SummaryOutput, error) {
	logData := logging.GetLogData(ctx)
	stopTimer := logData.AddTiming("loadLedgerMs")
	customers, err := h.Customers.List(ctx, service.CustomerFilter{})
	if err != nil {
		stopTimer()
		return nil, apierror.FromLedger("failed to list customers", err)
	}
	txs, err := h.Transactions.List(ctx, "")
	stopTimer()
	if err != nil {
		return nil, apierror.FromLedger("failed to list transactions", err)
	}

	now := h.Now()
	summary := report.Summarize(customers, now, h.OverdueAfter)
	trend := report.DailyTrend(txs, now, input.Days)

	resp := SummaryResponse{
		TotalOutstanding: summary.TotalOutstanding.String(),
		TotalCollected:   summary.TotalCollected.String(),
		CustomerCount:    summary.CustomerCount,
		ActiveCustomers:  summary.ActiveCustomers,
		OverdueCustomers: summary.OverdueCustomers,
		Trend:            make([]DayTotal, len(trend)),
	}
	for i, day := range trend {
		resp.Trend[i] = DayTotal{
			Day:       day.Day.Format(time.DateOnly),
			Borrowed:  day.Borrowed.String(),
			Collected: day.Collected.String(),
		}
	}
	return &SummaryOutput{Body: resp}, nil
}

func (h *Handler) handleBalances(ctx context.Context, _ *struct{}) (*BalancesOutput, error) {
	customers, err := h.Customers.List(ctx, service.CustomerFilter{})
	if err != nil {
		return nil, apierror.FromLedger("failed to list customers", err)
	}

	sheet := report.Balances(customers)
	resp := BalancesResponse{
		Rows:             make([]BalanceRow, len(sheet.Rows)),
		TotalOutstanding: sheet.TotalOutstanding.String(),
	}
	for i, row := range sheet.Rows {
		resp.Rows[i] = BalanceRow{
			CustomerID: row.CustomerID,
			Name:       row.Name,
			Phone:      row.Phone,
			Address:    row.Address,
			Borrowed:   row.Borrowed.String(),
			Paid:       row.Paid.String(),
			Balance:    row.Balance.String(),
		}
	}
	return &BalancesOutput{Body: resp}, nil
}
