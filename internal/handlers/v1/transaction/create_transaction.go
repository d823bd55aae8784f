package transaction

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

// CreateTransactionBody is the request body for creating a transaction.
type CreateTransactionBody struct {
	CustomerID string `json:"customerID" minLength:"1" doc:"Owning customer ID"`
	Type       string `json:"type" enum:"BORROW,PAYMENT" doc:"BORROW (udhaar) or PAYMENT (jama)"`
	Amount     string `json:"amount" minLength:"1" doc:"Decimal amount, must be positive"`
	Items      string `json:"items,omitempty" doc:"Required for BORROW"`
	Date       string `json:"date,omitempty" doc:"RFC3339 transaction date, defaults to now"`
	Method     string `json:"method,omitempty" enum:"CASH,UPI,CREDIT" doc:"Defaults to CREDIT for BORROW and CASH for PAYMENT"`
	Notes      string `json:"notes,omitempty" doc:"Free text note"`
}

// CreateTransactionInput is the Huma input for creating a transaction.
type CreateTransactionInput struct {
	Body CreateTransactionBody
}

// CreateTransactionResponse is the response body for creating a transaction.
type CreateTransactionResponse struct {
	Transaction Transaction `json:"transaction" doc:"Stored transaction"`
	Balance     Balance     `json:"balance" doc:"Customer balance after the entry"`
	Message     string      `json:"message" doc:"Receipt text for the customer"`
}

// CreateTransactionOutput is the Huma output for creating a transaction.
type CreateTransactionOutput struct {
	Status int
	Body   CreateTransactionResponse
}

// transactionCreator is the interface for creating transactions.
type transactionCreator interface {
	Add(ctx context.Context, tx ledger.Transaction) (service.TransactionAdded, error)
}

// CreateTransactionHandler handles POST /v1/transaction.
type CreateTransactionHandler struct {
	TransactionService transactionCreator
}

// NewCreateTransactionHandler creates a new CreateTransactionHandler.
func NewCreateTransactionHandler(svc transactionCreator) *CreateTransactionHandler {
	return &CreateTransactionHandler{TransactionService: svc}
}

// Register registers the create transaction endpoint with the Huma API.
func (h *CreateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-transaction",
		Method:        http.MethodPost,
		Path:          "/v1/transaction",
		Summary:       "Create transaction",
		Description:   "Records a BORROW or PAYMENT entry and recomputes the customer's balance.",
		Tags:          []string{"Transactions"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

// parseCreateTransactionInput parses and validates the API input.
// A missing date is left zero and filled in with the current time downstream.
func parseCreateTransactionInput(input *CreateTransactionInput) (ledger.Transaction, error) {
	amount, err := ledger.ParseAmount(input.Body.Amount)
	if err != nil {
		return ledger.Transaction{}, apierror.FromLedger("invalid amount", err)
	}

	var date time.Time
	if input.Body.Date != "" {
		date, err = time.Parse(time.RFC3339, input.Body.Date)
		if err != nil {
			return ledger.Transaction{}, huma.NewError(http.StatusBadRequest, "invalid date", err)
		}
	}

	return ledger.Transaction{
		CustomerID: input.Body.CustomerID,
		Type:       ledger.TransactionType(input.Body.Type),
		Items:      input.Body.Items,
		Amount:     amount,
		Date:       date,
		Method:     ledger.PaymentMethod(input.Body.Method),
		Notes:      input.Body.Notes,
	}, nil
}

func (h *CreateTransactionHandler) handle(ctx context.Context, input *CreateTransactionInput) (*CreateTransactionOutput, error) {
	logData := logging.GetLogData(ctx)

	tx, err := parseCreateTransactionInput(input)
	if err != nil {
		return nil, err
	}

	stopTimer := logData.AddTiming("addTransactionMs")
	added, err := h.TransactionService.Add(ctx, tx)
	stopTimer()
	if err != nil {
		return nil, apierror.FromLedger("failed to create transaction", err)
	}
	logData.AddData("transactionID", added.Transaction.ID)
	logData.AddData("customerID", added.Customer.ID)

	return &CreateTransactionOutput{
		Status: http.StatusCreated,
		Body: CreateTransactionResponse{
			Transaction: fromLedger(added.Transaction),
			Balance:     balanceOf(added.Customer),
			Message:     report.TransactionMessage(added.Customer, added.Transaction, added.Customer.Outstanding()),
		},
	}, nil
}
