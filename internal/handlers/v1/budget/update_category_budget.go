package budget

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/apierr"
)

// UpdateCategoryBudgetBody is the request body for updating one category's
// allocation.
type UpdateCategoryBudgetBody struct {
	Amount          string `json:"amount" required:"true" doc:"Non-negative decimal allocation"`
	RolloverEnabled bool   `json:"rolloverEnabled" doc:"Carry this category's remainder into the next month"`
}

// UpdateCategoryBudgetInput is the Huma input for updating one category's
// allocation.
type UpdateCategoryBudgetInput struct {
	PartyID    string `path:"partyID" doc:"Owner party UUID"`
	BudgetID   string `path:"budgetID" doc:"Budget UUID"`
	CategoryID string `path:"categoryID" doc:"Category (EXPENSE account) UUID"`
	Body       UpdateCategoryBudgetBody
}

// UpdateCategoryBudgetOutput is the Huma output for updating one category's
// allocation.
type UpdateCategoryBudgetOutput struct {
	Status int `json:"status" doc:"HTTP status"`
}

// categoryBudgetUpdater is the interface for updating category allocations.
type categoryBudgetUpdater interface {
	UpdateCategoryBudget(ctx context.Context, ownerID, budgetID, categoryID uuid.UUID, amount decimal.Decimal, rolloverEnabled bool) error
}

// UpdateCategoryBudgetHandler handles PATCH /v1/party/{partyID}/budget/{budgetID}/category/{categoryID}.
type UpdateCategoryBudgetHandler struct {
	Budget categoryBudgetUpdater
}

// NewUpdateCategoryBudgetHandler creates a new UpdateCategoryBudgetHandler.
func NewUpdateCategoryBudgetHandler(svc categoryBudgetUpdater) *UpdateCategoryBudgetHandler {
	return &UpdateCategoryBudgetHandler{Budget: svc}
}

// Register registers the update category budget endpoint with the Huma API.
func (h *UpdateCategoryBudgetHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-category-budget",
		Method:      http.MethodPatch,
		Path:        "/v1/party/{partyID}/budget/{budgetID}/category/{categoryID}",
		Summary:     "Update category budget",
		Description: "Changes one category's stated amount or rollover flag.",
		Tags:        []string{"Budgets"},
	}, h.handle)
}

func (h *UpdateCategoryBudgetHandler) handle(ctx context.Context, input *UpdateCategoryBudgetInput) (*UpdateCategoryBudgetOutput, error) {
	ownerID, err := uuid.FromString(input.PartyID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid partyID", err)
	}
	budgetID, err := uuid.FromString(input.BudgetID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid budgetID", err)
	}
	categoryID, err := uuid.FromString(input.CategoryID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid categoryID", err)
	}
	amount, err := decimal.NewFromString(input.Body.Amount)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid amount", err)
	}

	if err := h.Budget.UpdateCategoryBudget(ctx, ownerID, budgetID, categoryID, amount, input.Body.RolloverEnabled); err != nil {
		return nil, apierr.Map(err, "failed to update category budget")
	}
	return &UpdateCategoryBudgetOutput{Status: http.StatusOK}, nil
}
