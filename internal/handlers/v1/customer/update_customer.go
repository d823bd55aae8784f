package customer

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/udhaar-ledger/internal/handlers/v1/apierror"
	"github.com/carson-networks/udhaar-ledger/internal/ledger"
	"github.com/carson-networks/udhaar-ledger/internal/logging"
)

// UpdateCustomerInput is the Huma input for updating a customer.
type UpdateCustomerInput struct {
	ID   string `path:"id" doc:"Customer ID"`
	Body IdentityBody
}

// UpdateCustomerOutput is the Huma output for updating a customer.
type UpdateCustomerOutput struct {
	Body Customer
}

// DeleteCustomerOutput is the Huma output for deleting a customer.
type DeleteCustomerOutput struct {
	Status int
}

// customerEditor is the interface for the customer mutations other than create.
type customerEditor interface {
	Update(ctx context.Context, id string, identity ledger.CustomerIdentity) (ledger.Customer, error)
	Delete(ctx context.Context, id string) error
}

// EditCustomerHandler handles PUT and DELETE /v1/customer/{id}.
type EditCustomerHandler struct {
	CustomerService customerEditor
}

// NewEditCustomerHandler creates a new EditCustomerHandler.
func NewEditCustomerHandler(svc customerEditor) *EditCustomerHandler {
	return &EditCustomerHandler{CustomerService: svc}
}

// Register registers the update and delete customer endpoints with the Huma API.
func (h *EditCustomerHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-customer",
		Method:      http.MethodPut,
		Path:        "/v1/customer/{id}",
		Summary:     "Update customer",
		Description: "Replaces name, phone, address and photo. Balances are not editable.",
		Tags:        []string{"Customers"},
	}, h.handleUpdate)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-customer",
		Method:        http.MethodDelete,
		Path:          "/v1/customer/{id}",
		Summary:       "Delete customer",
		Description:   "Deletes the customer and every transaction it owns.",
		Tags:          []string{"Customers"},
		DefaultStatus: http.StatusNoContent,
	}, h.handleDelete)
}

func (h *EditCustomerHandler) handleUpdate(ctx context.Context, input *UpdateCustomerInput) (*UpdateCustomerOutput, error) {
	updated, err := h.CustomerService.Update(ctx, input.ID, input.Body.identity())
	if err != nil {
		return nil, apierror.FromLedger("failed to update customer", err)
	}
	return &UpdateCustomerOutput{Body: fromLedger(updated)}, nil
}

func (h *EditCustomerHandler) handleDelete(ctx context.Context, input *CustomerPathInput) (*DeleteCustomerOutput, error) {
	logData := logging.GetLogData(ctx)
	logData.AddData("customerID", input.ID)

	if err := h.CustomerService.Delete(ctx, input.ID); err != nil {
		return nil, apierror.FromLedger("failed to delete customer", err)
	}
	return &DeleteCustomerOutput{Status: http.StatusNoContent}, nil
}
