package rolloverapi

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/apierr"
	"github.com/carson-networks/ledger-server/internal/rollover"
)

// GetRolloverStatusInput is the Huma input for fetching rollover status.
type GetRolloverStatusInput struct {
	PartyID   string `path:"partyID" doc:"Owner party UUID"`
	YearMonth string `path:"yearMonth" doc:"Month key, YYYY-MM"`
}

// GetRolloverStatusResponseBody is the response body for rollover status.
type GetRolloverStatusResponseBody struct {
	YearMonth      string `json:"yearMonth" doc:"Month key, YYYY-MM"`
	LastCalculated string `json:"lastCalculated,omitempty" doc:"RFC3339 time of the last successful recomputation"`
	NeedsRecalc    bool   `json:"needsRecalc" doc:"Whether cached rollovers are pending recomputation"`
}

// GetRolloverStatusOutput is the Huma output for rollover status.
type GetRolloverStatusOutput struct {
	Body GetRolloverStatusResponseBody
}

// statusGetter is the interface for reading a budget's rollover bookkeeping
// state.
type statusGetter interface {
	GetRolloverStatus(ctx context.Context, ownerID uuid.UUID, yearMonth string) (*rollover.Status, error)
}

// GetRolloverStatusHandler handles GET /v1/party/{partyID}/rollover/{yearMonth}.
type GetRolloverStatusHandler struct {
	Budget statusGetter
}

// NewGetRolloverStatusHandler creates a new GetRolloverStatusHandler.
func NewGetRolloverStatusHandler(svc statusGetter) *GetRolloverStatusHandler {
	return &GetRolloverStatusHandler{Budget: svc}
}

// Register registers the rollover status endpoint with the Huma API.
func (h *GetRolloverStatusHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-rollover-status",
		Method:      http.MethodGet,
		Path:        "/v1/party/{partyID}/rollover/{yearMonth}",
		Summary:     "Get rollover status",
		Description: "Reports whether a month's cached rollovers are current.",
		Tags:        []string{"Rollover"},
	}, h.handle)
}

func (h *GetRolloverStatusHandler) handle(ctx context.Context, input *GetRolloverStatusInput) (*GetRolloverStatusOutput, error) {
	ownerID, err := uuid.FromString(input.PartyID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid partyID", err)
	}

	status, err := h.Budget.GetRolloverStatus(ctx, ownerID, input.YearMonth)
	if err != nil {
		return nil, apierr.Map(err, "failed to get rollover status")
	}

	resp := GetRolloverStatusResponseBody{
		YearMonth:   status.YearMonth,
		NeedsRecalc: status.NeedsRecalc,
	}
	if status.LastCalculated != nil {
		resp.LastCalculated = status.LastCalculated.Format(time.RFC3339)
	}
	return &GetRolloverStatusOutput{Body: resp}, nil
}
