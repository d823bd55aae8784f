package customer

import (
	"context"
	"net/http"
	"strings"

	"github.com/aarondl/opt/omit"
	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/udhaar-ledger/internal/handlers/v1/apierror"
	"github.com/carson-networks/udhaar-ledger/internal/ledger"
	"github.com/carson-networks/udhaar-ledger/internal/logging"
	"github.com/carson-networks/udhaar-ledger/internal/service"
)

// CreateCustomerBody is the request body for creating a customer.
type CreateCustomerBody struct {
	Name          string `json:"name" minLength:"1" doc:"Customer name"`
	Phone         string `json:"phone" minLength:"1" doc:"Phone number"`
	Address       string `json:"address,omitempty" doc:"Address"`
	PhotoURL      string `json:"photoUrl,omitempty" doc:"Photo URL"`
	OpeningAmount string `json:"openingAmount,omitempty" doc:"Amount already owed, recorded as a BORROW entry"`
	OpeningItems  string `json:"openingItems,omitempty" doc:"Description of the opening entry, defaults to 'Opening Balance'"`
}

// CreateCustomerInput is the Huma input for creating a customer.
type CreateCustomerInput struct {
	Body CreateCustomerBody
}

// CreateCustomerOutput is the response for creating a customer.
type CreateCustomerOutput struct {
	Status int
	Body   Customer
}

// customerCreator is the interface for creating customers.
type customerCreator interface {
	Create(ctx context.Context, create service.CustomerCreate) (ledger.Customer, error)
}

// CreateCustomerHandler handles POST /v1/customer.
type CreateCustomerHandler struct {
	CustomerService customerCreator
}

// NewCreateCustomerHandler creates a new CreateCustomerHandler.
func NewCreateCustomerHandler(svc customerCreator) *CreateCustomerHandler {
	return &CreateCustomerHandler{CustomerService: svc}
}

// Register registers the create customer endpoint with the Huma API.
func (h *CreateCustomerHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-customer",
		Method:        http.MethodPost,
		Path:          "/v1/customer",
		Summary:       "Create customer",
		Description:   "Adds a customer, optionally with an opening balance.",
		Tags:          []string{"Customers"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

// parseCreateCustomerInput turns the request body into a service.CustomerCreate.
func parseCreateCustomerInput(input *CreateCustomerInput) (service.CustomerCreate, error) {
	create := service.CustomerCreate{
		Identity: ledger.CustomerIdentity{
			Name:     input.Body.Name,
			Phone:    input.Body.Phone,
			Address:  input.Body.Address,
			PhotoURL: input.Body.PhotoURL,
		},
		OpeningItems: input.Body.OpeningItems,
	}
	if raw := strings.TrimSpace(input.Body.OpeningAmount); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return service.CustomerCreate{}, huma.NewError(http.StatusBadRequest, "invalid openingAmount", err)
		}
		create.OpeningAmount = omit.From(amount)
	}
	return create, nil
}

func (h *CreateCustomerHandler) handle(ctx context.Context, input *CreateCustomerInput) (*CreateCustomerOutput, error) {
	logData := logging.GetLogData(ctx)

	create, err := parseCreateCustomerInput(input)
	if err != nil {
		return nil, err
	}

	stopTimer := logData.AddTiming("createCustomerMs")
	created, err := h.CustomerService.Create(ctx, create)
	stopTimer()
	if err != nil {
		return nil, apierror.FromLedger("failed to create customer", err)
	}

	logData.AddData("customerID", created.ID)
	return &CreateCustomerOutput{Status: http.StatusCreated, Body: fromLedger(created)}, nil
}
