package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/core"
	"github.com/carson-networks/ledger-server/internal/handlers/v1/apierr"
)

// GetAccountInput is the Huma input for fetching an account.
type GetAccountInput struct {
	PartyID   string `path:"partyID" doc:"Owner party UUID"`
	AccountID string `path:"accountID" doc:"Account UUID"`
}

// GetAccountOutput is the Huma output for fetching an account.
type GetAccountOutput struct {
	Body Account
}

// accountGetter is the interface for fetching accounts.
type accountGetter interface {
	GetAccount(ctx context.Context, ownerID, id uuid.UUID) (*core.Account, error)
}

// GetAccountHandler handles GET /v1/party/{partyID}/account/{accountID}.
type GetAccountHandler struct {
	Registry accountGetter
}

// NewGetAccountHandler creates a new GetAccountHandler.
func NewGetAccountHandler(svc accountGetter) *GetAccountHandler {
	return &GetAccountHandler{Registry: svc}
}

// Register registers the get account endpoint with the Huma API.
func (h *GetAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-account",
		Method:      http.MethodGet,
		Path:        "/v1/party/{partyID}/account/{accountID}",
		Summary:     "Get account",
		Description: "Fetches one of the party's accounts by ID.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *GetAccountHandler) handle(ctx context.Context, input *GetAccountInput) (*GetAccountOutput, error) {
	ownerID, err := uuid.FromString(input.PartyID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid partyID", err)
	}
	accountID, err := uuid.FromString(input.AccountID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid accountID", err)
	}

	found, err := h.Registry.GetAccount(ctx, ownerID, accountID)
	if err != nil {
		return nil, apierr.Map(err, "failed to get account")
	}

	return &GetAccountOutput{Body: fromCore(*found)}, nil
}
