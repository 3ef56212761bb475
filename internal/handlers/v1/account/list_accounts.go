package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/core"
	"github.com/carson-networks/ledger-server/internal/handlers/v1/apierr"
	"github.com/carson-networks/ledger-server/internal/logging"
)

// ListAccountsInput is the Huma input for listing accounts.
type ListAccountsInput struct {
	PartyID string `path:"partyID" doc:"Owner party UUID"`
	Type    string `query:"type" doc:"Filter to one account type, empty for all"`
}

// ListAccountsResponseBody is the response body for listing accounts.
type ListAccountsResponseBody struct {
	Accounts []Account `json:"accounts" doc:"The party's active accounts, ordered by name"`
}

// ListAccountsOutput is the Huma output for listing accounts.
type ListAccountsOutput struct {
	Body ListAccountsResponseBody
}

// accountLister is the interface for listing accounts.
type accountLister interface {
	ListAccounts(ctx context.Context, ownerID uuid.UUID, accountType *core.AccountType) ([]core.Account, error)
}

// ListAccountsHandler handles GET /v1/party/{partyID}/account.
type ListAccountsHandler struct {
	Registry accountLister
}

// NewListAccountsHandler creates a new ListAccountsHandler.
func NewListAccountsHandler(svc accountLister) *ListAccountsHandler {
	return &ListAccountsHandler{Registry: svc}
}

// Register registers the list accounts endpoint with the Huma API.
func (h *ListAccountsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-accounts",
		Method:      http.MethodGet,
		Path:        "/v1/party/{partyID}/account",
		Summary:     "List accounts",
		Description: "Returns the party's active accounts, optionally filtered by type.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *ListAccountsHandler) handle(ctx context.Context, input *ListAccountsInput) (*ListAccountsOutput, error) {
	ownerID, err := uuid.FromString(input.PartyID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid partyID", err)
	}

	var accountType *core.AccountType
	if input.Type != "" {
		t := core.AccountType(input.Type)
		accountType = &t
	}

	accounts, err := h.Registry.ListAccounts(ctx, ownerID, accountType)
	if err != nil {
		return nil, apierr.Map(err, "failed to list accounts")
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("accountCount", len(accounts))
	}

	resp := ListAccountsResponseBody{Accounts: make([]Account, len(accounts))}
	for i, a := range accounts {
		resp.Accounts[i] = fromCore(a)
	}
	return &ListAccountsOutput{Body: resp}, nil
}
