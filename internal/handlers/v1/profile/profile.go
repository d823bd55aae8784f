package profile

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/udhaar-ledger/internal/handlers/v1/apierror"
	"github.com/carson-networks/udhaar-ledger/internal/ledger"
)

// Profile is the shop profile in requests and responses.
type Profile struct {
	Name      string `json:"name" minLength:"1" doc:"Shop name"`
	Address   string `json:"address,omitempty" doc:"Shop address"`
	Phone     string `json:"phone,omitempty" doc:"Shop phone"`
	OwnerName string `json:"ownerName,omitempty" doc:"Owner name"`
}

// ProfileOutput is the Huma output for both profile operations.
type ProfileOutput struct {
	Body Profile
}

// SaveProfileInput is the Huma input for saving the profile.
type SaveProfileInput struct {
	Body Profile
}

// profileStore is the interface for reading and saving the profile.
type profileStore interface {
	Get(ctx context.Context) (ledger.StoreProfile, error)
	Save(ctx context.Context, profile ledger.StoreProfile) error
}

// Handler handles GET and PUT /v1/profile.
type Handler struct {
	ProfileService profileStore
}

// NewHandler creates a new Handler.
func NewHandler(svc profileStore) *Handler {
	return &Handler{ProfileService: svc}
}

// Register registers the profile endpoints with the Huma API.
func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-profile",
		Method:      http.MethodGet,
		Path:        "/v1/profile",
		Summary:     "Get shop profile",
		Tags:        []string{"Profile"},
	}, h.handleGet)

	huma.Register(api, huma.Operation{
		OperationID: "save-profile",
		Method:      http.MethodPut,
		Path:        "/v1/profile",
		Summary:     "Save shop profile",
		Tags:        []string{"Profile"},
	}, h.handleSave)
}

func (h *Handler) handleGet(ctx context.Context, _ *struct{}) (*ProfileOutput, error) {
	p, err := h.ProfileService.Get(ctx)
	if err != nil {
		return nil, apierror.FromLedger("failed to get profile", err)
	}
	return &ProfileOutput{Body: Profile(p)}, nil
}

func (h *Handler) handleSave(ctx context.Context, input *SaveProfileInput) (*ProfileOutput, error) {
	p := ledger.StoreProfile(input.Body)
	if err := h.ProfileService.Save(ctx, p); err != nil {
		return nil, apierror.FromLedger("failed to save profile", err)
	}
	return &ProfileOutput{Body: input.Body}, nil
}
