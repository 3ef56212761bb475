package rolloverapi

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/core"
	"github.com/carson-networks/ledger-server/internal/handlers/v1/apierr"
)

// Calculation is the API response model for one rollover audit row.
type Calculation struct {
	ID              string `json:"id" doc:"Calculation UUID"`
	CategoryID      string `json:"categoryID" doc:"Category (EXPENSE account) UUID"`
	CalculatedAt    string `json:"calculatedAt" doc:"RFC3339 time the recomputation ran"`
	RolloverAmount  string `json:"rolloverAmount" doc:"Signed decimal rollover produced"`
	SourceMonth     string `json:"sourceMonth" doc:"Month the rollover was derived from, YYYY-MM"`
	Reason          string `json:"reason" doc:"What triggered the recomputation"`
	BaseBudget      string `json:"baseBudget" doc:"Source month's stated allocation"`
	PrevRollover    string `json:"prevRollover" doc:"Source month's own incoming rollover"`
	EffectiveBudget string `json:"effectiveBudget" doc:"Source month's stated allocation plus rollover"`
	SpentAmount     string `json:"spentAmount" doc:"Source month's spend"`
}

// ListCalculationsInput is the Huma input for listing rollover audit rows.
type ListCalculationsInput struct {
	PartyID    string `path:"partyID" doc:"Owner party UUID"`
	YearMonth  string `path:"yearMonth" doc:"Month key, YYYY-MM"`
	CategoryID string `query:"categoryID" required:"true" doc:"Category (EXPENSE account) UUID"`
}

// ListCalculationsResponseBody is the response body for listing rollover
// audit rows.
type ListCalculationsResponseBody struct {
	Calculations []Calculation `json:"calculations" doc:"Audit rows, oldest first"`
}

// ListCalculationsOutput is the Huma output for listing rollover audit rows.
type ListCalculationsOutput struct {
	Body ListCalculationsResponseBody
}

// calculationLister is the interface for reading the rollover audit trail.
type calculationLister interface {
	ListCalculations(ctx context.Context, ownerID uuid.UUID, yearMonth string, categoryID uuid.UUID) ([]core.RolloverCalculation, error)
}

// ListCalculationsHandler handles GET /v1/party/{partyID}/rollover/{yearMonth}/calculations.
type ListCalculationsHandler struct {
	Budget calculationLister
}

// NewListCalculationsHandler creates a new ListCalculationsHandler.
func NewListCalculationsHandler(svc calculationLister) *ListCalculationsHandler {
	return &ListCalculationsHandler{Budget: svc}
}

// Register registers the list calculations endpoint with the Huma API.
func (h *ListCalculationsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-rollover-calculations",
		Method:      http.MethodGet,
		Path:        "/v1/party/{partyID}/rollover/{yearMonth}/calculations",
		Summary:     "List rollover calculations",
		Description: "Returns the audit trail of rollover recomputations for one category.",
		Tags:        []string{"Rollover"},
	}, h.handle)
}

func (h *ListCalculationsHandler) handle(ctx context.Context, input *ListCalculationsInput) (*ListCalculationsOutput, error) {
	ownerID, err := uuid.FromString(input.PartyID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid partyID", err)
	}
	categoryID, err := uuid.FromString(input.CategoryID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid categoryID", err)
	}

	rows, err := h.Budget.ListCalculations(ctx, ownerID, input.YearMonth, categoryID)
	if err != nil {
		return nil, apierr.Map(err, "failed to list rollover calculations")
	}

	resp := ListCalculationsResponseBody{Calculations: make([]Calculation, len(rows))}
	for i, r := range rows {
		resp.Calculations[i] = Calculation{
			ID:              r.ID.String(),
			CategoryID:      r.CategoryID.String(),
			CalculatedAt:    r.CalculatedAt.Format(time.RFC3339),
			RolloverAmount:  r.RolloverAmount.String(),
			SourceMonth:     r.SourceMonth,
			Reason:          string(r.Reason),
			BaseBudget:      r.BaseBudget.String(),
			PrevRollover:    r.PrevRollover.String(),
			EffectiveBudget: r.EffectiveBudget.String(),
			SpentAmount:     r.SpentAmount.String(),
		}
	}
	return &ListCalculationsOutput{Body: resp}, nil
}
