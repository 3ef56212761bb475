// Package rolloverapi exposes the rollover chain's status, history, and
// manual recomputation endpoints.
package rolloverapi

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/apierr"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/rollover"
)

// RecalculateInput is the Huma input for a manual rollover recalculation.
type RecalculateInput struct {
	PartyID   string `path:"partyID" doc:"Owner party UUID"`
	YearMonth string `path:"yearMonth" doc:"Month key, YYYY-MM"`
}

// RecalculateResponseBody is the response body for a manual recalculation.
type RecalculateResponseBody struct {
	Recomputed []string `json:"recomputed" doc:"Months recomputed, ascending"`
	Failed     []string `json:"failed,omitempty" doc:"Months that failed and stay flagged for retry"`
}

// RecalculateOutput is the Huma output for a manual recalculation.
type RecalculateOutput struct {
	Body RecalculateResponseBody
}

// recalculator is the interface for manually re-running the chain.
type recalculator interface {
	Recalculate(ctx context.Context, ownerID uuid.UUID, yearMonth string) (*rollover.ChainResult, error)
}

// RecalculateHandler handles POST /v1/party/{partyID}/rollover/{yearMonth}/recalculate.
type RecalculateHandler struct {
	Budget recalculator
}

// NewRecalculateHandler creates a new RecalculateHandler.
func NewRecalculateHandler(svc recalculator) *RecalculateHandler {
	return &RecalculateHandler{Budget: svc}
}

// Register registers the recalculate endpoint with the Huma API.
func (h *RecalculateHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "recalculate-rollover",
		Method:      http.MethodPost,
		Path:        "/v1/party/{partyID}/rollover/{yearMonth}/recalculate",
		Summary:     "Recalculate rollover",
		Description: "Re-runs the rollover chain from the given month onward.",
		Tags:        []string{"Rollover"},
	}, h.handle)
}

func (h *RecalculateHandler) handle(ctx context.Context, input *RecalculateInput) (*RecalculateOutput, error) {
	ownerID, err := uuid.FromString(input.PartyID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid partyID", err)
	}

	var stopTimer func()
	if logData := logging.GetLogData(ctx); logData != nil {
		stopTimer = logData.AddTiming("recalculateMs")
	}
	result, err := h.Budget.Recalculate(ctx, ownerID, input.YearMonth)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, apierr.Map(err, "failed to recalculate rollover")
	}

	return &RecalculateOutput{Body: RecalculateResponseBody{
		Recomputed: result.Recomputed,
		Failed:     result.Failed,
	}}, nil
}
