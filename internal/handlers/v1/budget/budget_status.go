package budget

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/apierr"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/service"
)

// GetBudgetStatusInput is the Huma input for fetching a month's status.
type GetBudgetStatusInput struct {
	PartyID   string `path:"partyID" doc:"Owner party UUID"`
	YearMonth string `path:"yearMonth" doc:"Month key, YYYY-MM"`
}

// GetBudgetStatusOutput is the Huma output for fetching a month's status.
type GetBudgetStatusOutput struct {
	Body Status
}

// statusReporter is the interface for reporting a month's spending position.
type statusReporter interface {
	GetBudgetStatus(ctx context.Context, ownerID uuid.UUID, yearMonth string) (*service.BudgetStatus, error)
}

// GetBudgetStatusHandler handles GET /v1/party/{partyID}/budget/{yearMonth}/status.
type GetBudgetStatusHandler struct {
	Budget statusReporter
}

// NewGetBudgetStatusHandler creates a new GetBudgetStatusHandler.
func NewGetBudgetStatusHandler(svc statusReporter) *GetBudgetStatusHandler {
	return &GetBudgetStatusHandler{Budget: svc}
}

// Register registers the budget status endpoint with the Huma API.
func (h *GetBudgetStatusHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-budget-status",
		Method:      http.MethodGet,
		Path:        "/v1/party/{partyID}/budget/{yearMonth}/status",
		Summary:     "Get budget status",
		Description: "Reports a month's spending position per category and overall.",
		Tags:        []string{"Budgets"},
	}, h.handle)
}

func (h *GetBudgetStatusHandler) handle(ctx context.Context, input *GetBudgetStatusInput) (*GetBudgetStatusOutput, error) {
	ownerID, err := uuid.FromString(input.PartyID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid partyID", err)
	}

	var stopTimer func()
	if logData := logging.GetLogData(ctx); logData != nil {
		stopTimer = logData.AddTiming("budgetStatusMs")
	}
	status, err := h.Budget.GetBudgetStatus(ctx, ownerID, input.YearMonth)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, apierr.Map(err, "failed to get budget status")
	}

	return &GetBudgetStatusOutput{Body: statusFromService(status)}, nil
}
