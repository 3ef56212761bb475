package budget

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/ledger-server/internal/faults"
	"github.com/carson-networks/ledger-server/internal/service"
)

type mockStatusReporter struct {
	mock.Mock
}

func (m *mockStatusReporter) GetBudgetStatus(ctx context.Context, ownerID uuid.UUID, yearMonth string) (*service.BudgetStatus, error) {
	args := m.Called(ctx, ownerID, yearMonth)
	status, _ := args.Get(0).(*service.BudgetStatus)
	return status, args.Error(1)
}

func newStatusTestAPI(t *testing.T, svc statusReporter) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewGetBudgetStatusHandler(svc).Register(api)
	return api
}

func TestHTTP_GetBudgetStatus_Success(t *testing.T) {
	ownerID := uuid.Must(uuid.NewV4())
	budgetID := uuid.Must(uuid.NewV4())
	categoryID := uuid.Must(uuid.NewV4())

	mockSvc := new(mockStatusReporter)
	mockSvc.On("GetBudgetStatus", mock.Anything, ownerID, "2025-01").
		Return(&service.BudgetStatus{
			BudgetID:       budgetID,
			YearMonth:      "2025-01",
			TotalBudget:    decimal.RequireFromString("120"),
			TotalSpent:     decimal.RequireFromString("30"),
			TotalRemaining: decimal.RequireFromString("90"),
			Status:         service.StatusUnderBudget,
			Categories: []service.CategoryStatus{{
				CategoryID:      categoryID,
				CategoryName:    "Groceries",
				BudgetAmount:    decimal.RequireFromString("100"),
				RolloverAmount:  decimal.RequireFromString("20"),
				EffectiveBudget: decimal.RequireFromString("120"),
				SpentAmount:     decimal.RequireFromString("30"),
				Remaining:       decimal.RequireFromString("90"),
				PercentUsed:     decimal.RequireFromString("25"),
				Status:          service.StatusUnderBudget,
			}},
		}, nil)

	resp := newStatusTestAPI(t, mockSvc).Get("/v1/party/" + ownerID.String() + "/budget/2025-01/status")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body Status
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, budgetID.String(), body.BudgetID)
	assert.Equal(t, "2025-01", body.YearMonth)
	assert.Len(t, body.Categories, 1)
	assert.Equal(t, "Groceries", body.Categories[0].CategoryName)
	assert.Equal(t, "120", body.Categories[0].EffectiveBudget)
	assert.Equal(t, "under_budget", body.Categories[0].Status)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_GetBudgetStatus_InvalidPartyID(t *testing.T) {
	mockSvc := new(mockStatusReporter)

	resp := newStatusTestAPI(t, mockSvc).Get("/v1/party/not-a-uuid/budget/2025-01/status")

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockSvc.AssertNotCalled(t, "GetBudgetStatus")
}

func TestHTTP_GetBudgetStatus_BadMonthKey(t *testing.T) {
	ownerID := uuid.Must(uuid.NewV4())

	mockSvc := new(mockStatusReporter)
	mockSvc.On("GetBudgetStatus", mock.Anything, ownerID, "2025-13").
		Return(nil, faults.Validation("invalid month key %q", "2025-13"))

	resp := newStatusTestAPI(t, mockSvc).Get("/v1/party/" + ownerID.String() + "/budget/2025-13/status")

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_GetBudgetStatus_MissingBudget(t *testing.T) {
	ownerID := uuid.Must(uuid.NewV4())

	mockSvc := new(mockStatusReporter)
	mockSvc.On("GetBudgetStatus", mock.Anything, ownerID, "2030-01").
		Return(nil, faults.NotFound("budget", "2030-01"))

	resp := newStatusTestAPI(t, mockSvc).Get("/v1/party/" + ownerID.String() + "/budget/2030-01/status")

	assert.Equal(t, http.StatusNotFound, resp.Code)
	mockSvc.AssertExpectations(t)
}
