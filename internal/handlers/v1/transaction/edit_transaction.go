package transaction

import (
	"context"
	"net/http"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/udhaar-ledger/internal/handlers/v1/apierror"
	"github.com/carson-networks/udhaar-ledger/internal/ledger"
	"github.com/carson-networks/udhaar-ledger/internal/logging"
	"github.com/carson-networks/udhaar-ledger/internal/operator/actions"
	"github.com/carson-networks/udhaar-ledger/internal/service"
)

// EditTransactionBody lists the editable fields. Absent fields keep their
// stored value.
type EditTransactionBody struct {
	Amount *string `json:"amount,omitempty" doc:"New decimal amount"`
	Items  *string `json:"items,omitempty" doc:"New description"`
	Date   *string `json:"date,omitempty" doc:"New RFC3339 date"`
	Settle bool    `json:"settle,omitempty" doc:"For BORROW entries, also record a CASH payment of the entry's amount"`
}

// EditTransactionInput is the Huma input for editing a transaction.
type EditTransactionInput struct {
	ID   string `path:"id" doc:"Transaction ID"`
	Body EditTransactionBody
}

// EditTransactionResponse is the response body for editing a transaction.
type EditTransactionResponse struct {
	Transaction Transaction  `json:"transaction" doc:"Edited transaction"`
	Settlement  *Transaction `json:"settlement,omitempty" doc:"Generated payment, present when settled"`
	Balance     Balance      `json:"balance" doc:"Customer balance after the edit"`
}

// EditTransactionOutput is the Huma output for editing a transaction.
type EditTransactionOutput struct {
	Body EditTransactionResponse
}

// transactionEditor is the interface for editing transactions.
type transactionEditor interface {
	Edit(ctx context.Context, id string, edit actions.TransactionEdit, settle bool) (service.TransactionEdited, error)
}

// EditTransactionHandler handles PUT /v1/transaction/{id}.
type EditTransactionHandler struct {
	TransactionService transactionEditor
}

// NewEditTransactionHandler creates a new EditTransactionHandler.
func NewEditTransactionHandler(svc transactionEditor) *EditTransactionHandler {
	return &EditTransactionHandler{TransactionService: svc}
}

// Register registers the edit transaction endpoint with the Huma API.
func (h *EditTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "edit-transaction",
		Method:      http.MethodPut,
		Path:        "/v1/transaction/{id}",
		Summary:     "Edit transaction",
		Description: "Overwrites amount, items or date in place and optionally settles a BORROW entry.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func parseEditTransactionInput(input *EditTransactionInput) (actions.TransactionEdit, error) {
	var edit actions.TransactionEdit
	if input.Body.Amount != nil {
		amount, err := ledger.ParseAmount(*input.Body.Amount)
		if err != nil {
			return edit, apierror.FromLedger("invalid amount", err)
		}
		edit.Amount = omit.From(amount)
	}
	if input.Body.Items != nil {
		edit.Items = omit.From(*input.Body.Items)
	}
	if input.Body.Date != nil {
		date, err := time.Parse(time.RFC3339, *input.Body.Date)
		if err != nil {
			return edit, huma.NewError(http.StatusBadRequest, "invalid date", err)
		}
		edit.Date = omit.From(date)
	}
	return edit, nil
}

func (h *EditTransactionHandler) handle(ctx context.Context, input *EditTransactionInput) (*EditTransactionOutput, error) {
	logData := logging.GetLogData(ctx)
	logData.AddData("transactionID", input.ID)
	logData.AddData("settle", input.Body.Settle)

	edit, err := parseEditTransactionInput(input)
	if err != nil {
		return nil, err
	}

	stopTimer := logData.AddTiming("editTransactionMs")
	edited, err := h.TransactionService.Edit(ctx, input.ID, edit, input.Body.Settle)
	stopTimer()
	if err != nil {
		return nil, apierror.FromLedger("failed to edit transaction", err)
	}

	resp := EditTransactionResponse{
		Transaction: fromLedger(edited.Transaction),
		Balance:     balanceOf(edited.Customer),
	}
	if edited.Settlement != nil {
		settlement := fromLedger(*edited.Settlement)
		resp.Settlement = &settlement
	}
	return &EditTransactionOutput{Body: resp}, nil
}
