package customer

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/udhaar-ledger/internal/handlers/v1/apierror"
	"github.com/carson-networks/udhaar-ledger/internal/ledger"
	"github.com/carson-networks/udhaar-ledger/internal/logging"
	"github.com/carson-networks/udhaar-ledger/internal/service"
)

// ListCustomersInput is the Huma input for listing customers.
type ListCustomersInput struct {
	Query  string `query:"q" doc:"Case-insensitive match on name or phone"`
	Status string `query:"status" enum:"ALL,DUE,PAID" doc:"Filter by balance, defaults to ALL"`
}

// ListCustomersResponseBody is the response body for listing customers.
type ListCustomersResponseBody struct {
	Customers []Customer `json:"customers" doc:"Customers in insertion order"`
}

// ListCustomersOutput is the Huma output for listing customers.
type ListCustomersOutput struct {
	Body ListCustomersResponseBody
}

// customerLister is the interface for listing customers.
type customerLister interface {
	List(ctx context.Context, filter service.CustomerFilter) ([]ledger.Customer, error)
}

// ListCustomersHandler handles GET /v1/customers.
type ListCustomersHandler struct {
	CustomerService customerLister
}

// NewListCustomersHandler creates a new ListCustomersHandler.
func NewListCustomersHandler(svc customerLister) *ListCustomersHandler {
	return &ListCustomersHandler{CustomerService: svc}
}

// Register registers the list customers endpoint with the Huma API.
func (h *ListCustomersHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-customers",
		Method:      http.MethodGet,
		Path:        "/v1/customers",
		Summary:     "List customers",
		Description: "Returns customers, optionally filtered by search text and balance status.",
		Tags:        []string{"Customers"},
	}, h.handle)
}

func (h *ListCustomersHandler) handle(ctx context.Context, input *ListCustomersInput) (*ListCustomersOutput, error) {
	logData := logging.GetLogData(ctx)

	stopTimer := logData.AddTiming("listCustomersMs")
	customers, err := h.CustomerService.List(ctx, service.CustomerFilter{
		Query:  input.Query,
		Status: service.CustomerStatus(input.Status),
	})
	stopTimer()
	if err != nil {
		return nil, apierror.FromLedger("failed to list customers", err)
	}
	logData.AddData("customerCount", len(customers))

	resp := ListCustomersResponseBody{Customers: make([]Customer, len(customers))}
	for i, c := range customers {
		resp.Customers[i] = fromLedger(c)
	}
	return &ListCustomersOutput{Body: resp}, nil
}
