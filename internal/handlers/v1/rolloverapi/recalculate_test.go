package rolloverapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/ledger-server/internal/faults"
	"github.com/carson-networks/ledger-server/internal/rollover"
)

type mockRecalculator struct {
	mock.Mock
}

func (m *mockRecalculator) Recalculate(ctx context.Context, ownerID uuid.UUID, yearMonth string) (*rollover.ChainResult, error) {
	args := m.Called(ctx, ownerID, yearMonth)
	result, _ := args.Get(0).(*rollover.ChainResult)
	return result, args.Error(1)
}

func newRecalcTestAPI(t *testing.T, svc recalculator) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewRecalculateHandler(svc).Register(api)
	return api
}

func TestHTTP_Recalculate_Success(t *testing.T) {
	ownerID := uuid.Must(uuid.NewV4())

	mockSvc := new(mockRecalculator)
	mockSvc.On("Recalculate", mock.Anything, ownerID, "2025-01").
		Return(&rollover.ChainResult{
			Recomputed: []string{"2025-01", "2025-02"},
		}, nil)

	resp := newRecalcTestAPI(t, mockSvc).Post("/v1/party/" + ownerID.String() + "/rollover/2025-01/recalculate")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body RecalculateResponseBody
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"2025-01", "2025-02"}, body.Recomputed)
	assert.Empty(t, body.Failed)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_Recalculate_ReportsFailedMonths(t *testing.T) {
	ownerID := uuid.Must(uuid.NewV4())

	mockSvc := new(mockRecalculator)
	mockSvc.On("Recalculate", mock.Anything, ownerID, "2025-01").
		Return(&rollover.ChainResult{
			Recomputed: []string{"2025-02"},
			Failed:     []string{"2025-01"},
		}, nil)

	resp := newRecalcTestAPI(t, mockSvc).Post("/v1/party/" + ownerID.String() + "/rollover/2025-01/recalculate")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body RecalculateResponseBody
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"2025-01"}, body.Failed)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_Recalculate_BadMonthKey(t *testing.T) {
	ownerID := uuid.Must(uuid.NewV4())

	mockSvc := new(mockRecalculator)
	mockSvc.On("Recalculate", mock.Anything, ownerID, "nope").
		Return(nil, faults.Validation("invalid month key %q", "nope"))

	resp := newRecalcTestAPI(t, mockSvc).Post("/v1/party/" + ownerID.String() + "/rollover/nope/recalculate")

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_Recalculate_InvalidPartyID(t *testing.T) {
	mockSvc := new(mockRecalculator)

	resp := newRecalcTestAPI(t, mockSvc).Post("/v1/party/not-a-uuid/rollover/2025-01/recalculate")

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockSvc.AssertNotCalled(t, "Recalculate")
}
