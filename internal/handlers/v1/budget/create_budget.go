package budget

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/apierr"
	"github.com/carson-networks/ledger-server/internal/service"
)

// BudgetLineBody is one category allocation in a create request.
type BudgetLineBody struct {
	CategoryID      string `json:"categoryID" required:"true" doc:"Category (EXPENSE account) UUID"`
	Amount          string `json:"amount" required:"true" doc:"Non-negative decimal allocation"`
	RolloverEnabled bool   `json:"rolloverEnabled" doc:"Carry this category's remainder into the next month"`
}

// CreateBudgetBody is the request body for creating a budget.
type CreateBudgetBody struct {
	YearMonth string           `json:"yearMonth" required:"true" doc:"Month key, YYYY-MM"`
	Lines     []BudgetLineBody `json:"lines" doc:"Category allocations"`
}

// CreateBudgetInput is the Huma input for creating a budget.
type CreateBudgetInput struct {
	PartyID string `path:"partyID" doc:"Owner party UUID"`
	Body    CreateBudgetBody
}

// CreateBudgetResponseBody is the response body for creating a budget.
type CreateBudgetResponseBody struct {
	ID string `json:"id" doc:"UUID of the created budget"`
}

// CreateBudgetOutput is the Huma output for creating a budget.
type CreateBudgetOutput struct {
	Status int
	Body   CreateBudgetResponseBody
}

// budgetCreator is the interface for creating budgets.
type budgetCreator interface {
	CreateBudget(ctx context.Context, ownerID uuid.UUID, yearMonth string, lines []service.BudgetLineInput) (uuid.UUID, error)
}

// CreateBudgetHandler handles POST /v1/party/{partyID}/budget.
type CreateBudgetHandler struct {
	Budget budgetCreator
}

// NewCreateBudgetHandler creates a new CreateBudgetHandler.
func NewCreateBudgetHandler(svc budgetCreator) *CreateBudgetHandler {
	return &CreateBudgetHandler{Budget: svc}
}

// Register registers the create budget endpoint with the Huma API.
func (h *CreateBudgetHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-budget",
		Method:        http.MethodPost,
		Path:          "/v1/party/{partyID}/budget",
		Summary:       "Create budget",
		Description:   "Creates a month's budget with its category allocations.",
		Tags:          []string{"Budgets"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func (h *CreateBudgetHandler) handle(ctx context.Context, input *CreateBudgetInput) (*CreateBudgetOutput, error) {
	ownerID, err := uuid.FromString(input.PartyID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid partyID", err)
	}

	lines := make([]service.BudgetLineInput, len(input.Body.Lines))
	for i, line := range input.Body.Lines {
		categoryID, err := uuid.FromString(line.CategoryID)
		if err != nil {
			return nil, huma.NewError(http.StatusBadRequest, "invalid line categoryID", err)
		}
		amount, err := decimal.NewFromString(line.Amount)
		if err != nil {
			return nil, huma.NewError(http.StatusBadRequest, "invalid line amount", err)
		}
		lines[i] = service.BudgetLineInput{
			CategoryID:      categoryID,
			Amount:          amount,
			RolloverEnabled: line.RolloverEnabled,
		}
	}

	id, err := h.Budget.CreateBudget(ctx, ownerID, input.Body.YearMonth, lines)
	if err != nil {
		return nil, apierr.Map(err, "failed to create budget")
	}

	return &CreateBudgetOutput{
		Status: http.StatusCreated,
		Body:   CreateBudgetResponseBody{ID: id.String()},
	}, nil
}
