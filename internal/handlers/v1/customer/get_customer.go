package customer

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/udhaar-ledger/internal/handlers/v1/apierror"
	"github.com/carson-networks/udhaar-ledger/internal/ledger"
	"github.com/carson-networks/udhaar-ledger/internal/report"
)

// CustomerPathInput addresses a single customer.
type CustomerPathInput struct {
	ID string `path:"id" doc:"Customer ID"`
}

// GetCustomerOutput is the Huma output for fetching a customer.
type GetCustomerOutput struct {
	Body Customer
}

// customerGetter is the interface for fetching a customer.
type customerGetter interface {
	Get(ctx context.Context, id string) (ledger.Customer, error)
}

// GetCustomerHandler handles GET /v1/customer/{id}.
type GetCustomerHandler struct {
	CustomerService customerGetter
}

// NewGetCustomerHandler creates a new GetCustomerHandler.
func NewGetCustomerHandler(svc customerGetter) *GetCustomerHandler {
	return &GetCustomerHandler{CustomerService: svc}
}

// Register registers the get customer and reminder endpoints with the Huma API.
func (h *GetCustomerHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-customer",
		Method:      http.MethodGet,
		Path:        "/v1/customer/{id}",
		Summary:     "Get customer",
		Tags:        []string{"Customers"},
	}, h.handle)

	huma.Register(api, huma.Operation{
		OperationID: "customer-reminder",
		Method:      http.MethodGet,
		Path:        "/v1/customer/{id}/reminder",
		Summary:     "Customer reminder",
		Description: "Returns the payment reminder text for the customer's outstanding balance.",
		Tags:        []string{"Customers"},
	}, h.handleReminder)
}

func (h *GetCustomerHandler) handle(ctx context.Context, input *CustomerPathInput) (*GetCustomerOutput, error) {
	c, err := h.CustomerService.Get(ctx, input.ID)
	if err != nil {
		return nil, apierror.FromLedger("failed to get customer", err)
	}
	return &GetCustomerOutput{Body: fromLedger(c)}, nil
}

// ReminderResponse carries a ready-to-send message.
type ReminderResponse struct {
	CustomerID string `json:"customerID" doc:"Customer ID"`
	Phone      string `json:"phone" doc:"Phone number to send to"`
	Message    string `json:"message" doc:"Reminder text"`
}

// ReminderOutput is the Huma output for the reminder endpoint.
type ReminderOutput struct {
	Body ReminderResponse
}

func (h *GetCustomerHandler) handleReminder(ctx context.Context, input *CustomerPathInput) (*ReminderOutput, error) {
	c, err := h.CustomerService.Get(ctx, input.ID)
	if err != nil {
		return nil, apierror.FromLedger("failed to get customer", err)
	}
	return &ReminderOutput{Body: ReminderResponse{
		CustomerID: c.ID,
		Phone:      c.Phone,
		Message:    report.ReminderMessage(c),
	}}, nil
}
