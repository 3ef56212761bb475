package budget

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/apierr"
)

// CopyBudgetBody is the request body for copying a budget.
type CopyBudgetBody struct {
	FromMonth string `json:"fromMonth" required:"true" doc:"Source month key, YYYY-MM"`
	ToMonth   string `json:"toMonth" required:"true" doc:"Target month key, YYYY-MM"`
}

// CopyBudgetInput is the Huma input for copying a budget.
type CopyBudgetInput struct {
	PartyID string `path:"partyID" doc:"Owner party UUID"`
	Body    CopyBudgetBody
}

// CopyBudgetResponseBody is the response body for copying a budget.
type CopyBudgetResponseBody struct {
	ID string `json:"id" doc:"UUID of the new budget"`
}

// CopyBudgetOutput is the Huma output for copying a budget.
type CopyBudgetOutput struct {
	Status int
	Body   CopyBudgetResponseBody
}

// budgetCopier is the interface for copying budgets.
type budgetCopier interface {
	CopyBudget(ctx context.Context, ownerID uuid.UUID, fromMonth, toMonth string) (uuid.UUID, error)
}

// CopyBudgetHandler handles POST /v1/party/{partyID}/budget/copy.
type CopyBudgetHandler struct {
	Budget budgetCopier
}

// NewCopyBudgetHandler creates a new CopyBudgetHandler.
func NewCopyBudgetHandler(svc budgetCopier) *CopyBudgetHandler {
	return &CopyBudgetHandler{Budget: svc}
}

// Register registers the copy budget endpoint with the Huma API.
func (h *CopyBudgetHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "copy-budget",
		Method:        http.MethodPost,
		Path:          "/v1/party/{partyID}/budget/copy",
		Summary:       "Copy budget",
		Description:   "Clones one month's category allocations into a new month.",
		Tags:          []string{"Budgets"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func (h *CopyBudgetHandler) handle(ctx context.Context, input *CopyBudgetInput) (*CopyBudgetOutput, error) {
	ownerID, err := uuid.FromString(input.PartyID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid partyID", err)
	}

	id, err := h.Budget.CopyBudget(ctx, ownerID, input.Body.FromMonth, input.Body.ToMonth)
	if err != nil {
		return nil, apierr.Map(err, "failed to copy budget")
	}

	return &CopyBudgetOutput{
		Status: http.StatusCreated,
		Body:   CopyBudgetResponseBody{ID: id.String()},
	}, nil
}
