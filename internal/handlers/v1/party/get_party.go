package party

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/core"
	"github.com/carson-networks/ledger-server/internal/handlers/v1/apierr"
)

// GetPartyInput is the Huma input for fetching a party.
type GetPartyInput struct {
	PartyID string `path:"partyID" doc:"Party UUID"`
}

// GetPartyOutput is the Huma output for fetching a party.
type GetPartyOutput struct {
	Body Party
}

// partyGetter is the interface for fetching parties.
type partyGetter interface {
	GetParty(ctx context.Context, id uuid.UUID) (*core.Party, error)
}

// GetPartyHandler handles GET /v1/party/{partyID}.
type GetPartyHandler struct {
	Registry partyGetter
}

// NewGetPartyHandler creates a new GetPartyHandler.
func NewGetPartyHandler(svc partyGetter) *GetPartyHandler {
	return &GetPartyHandler{Registry: svc}
}

// Register registers the get party endpoint with the Huma API.
func (h *GetPartyHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-party",
		Method:      http.MethodGet,
		Path:        "/v1/party/{partyID}",
		Summary:     "Get party",
		Description: "Fetches one party by ID.",
		Tags:        []string{"Parties"},
	}, h.handle)
}

func (h *GetPartyHandler) handle(ctx context.Context, input *GetPartyInput) (*GetPartyOutput, error) {
	id, err := uuid.FromString(input.PartyID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid partyID", err)
	}

	found, err := h.Registry.GetParty(ctx, id)
	if err != nil {
		return nil, apierr.Map(err, "failed to get party")
	}

	return &GetPartyOutput{Body: Party{
		ID:        found.ID.String(),
		Name:      found.Name,
		Type:      found.Type,
		CreatedAt: found.CreatedAt.Format(time.RFC3339),
	}}, nil
}
