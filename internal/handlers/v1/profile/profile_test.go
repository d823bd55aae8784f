package profile

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/udhaar-ledger/internal/ledger"
)

type mockProfileService struct {
	mock.Mock
}

func (m *mockProfileService) Get(ctx context.Context) (ledger.StoreProfile, error) {
	args := m.Called(ctx)
	return args.Get(0).(ledger.StoreProfile), args.Error(1)
}

func (m *mockProfileService) Save(ctx context.Context, profile ledger.StoreProfile) error {
	return m.Called(ctx, profile).Error(0)
}

func newTestAPI(t *testing.T, svc *mockProfileService) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewHandler(svc).Register(api)
	return api
}

func TestHTTP_GetProfile_Default(t *testing.T) {
	mockSvc := new(mockProfileService)
	mockSvc.On("Get", mock.Anything).Return(ledger.DefaultProfile(), nil)

	resp := newTestAPI(t, mockSvc).Get("/v1/profile")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body Profile
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Kirana Store", body.Name)
	assert.Equal(t, "Admin", body.OwnerName)
}

func TestHTTP_SaveProfile(t *testing.T) {
	want := ledger.StoreProfile{Name: "Gupta General Store", Phone: "9811111111", OwnerName: "R. Gupta"}
	mockSvc := new(mockProfileService)
	mockSvc.On("Save", mock.Anything, want).Return(nil)

	resp := newTestAPI(t, mockSvc).Put("/v1/profile", Profile(want))

	assert.Equal(t, http.StatusOK, resp.Code)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_SaveProfile_StorageError(t *testing.T) {
	mockSvc := new(mockProfileService)
	mockSvc.On("Save", mock.Anything, mock.Anything).Return(&ledger.StorageError{Op: "commit", Err: errors.New("read-only")})

	resp := newTestAPI(t, mockSvc).Put("/v1/profile", Profile{Name: "Shop"})

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}
