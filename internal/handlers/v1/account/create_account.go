package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/core"
	"github.com/carson-networks/ledger-server/internal/handlers/v1/apierr"
)

// CreateAccountBody is the request body for creating an account.
type CreateAccountBody struct {
	Name     string `json:"name" required:"true" doc:"Account name, unique per owner"`
	Type     string `json:"type" required:"true" enum:"ASSET,LIABILITY,INCOME,EXPENSE" doc:"Account type"`
	ParentID string `json:"parentID,omitempty" doc:"Parent account UUID for subaccounts"`
	Currency string `json:"currency,omitempty" doc:"ISO currency code, defaults to USD"`
}

// CreateAccountInput is the Huma input for creating an account.
type CreateAccountInput struct {
	PartyID string `path:"partyID" doc:"Owner party UUID"`
	Body    CreateAccountBody
}

// CreateAccountOutput is the Huma output for creating an account.
type CreateAccountOutput struct {
	Status int
	Body   Account
}

// accountCreator is the interface for creating accounts.
type accountCreator interface {
	CreateAccount(ctx context.Context, ownerID uuid.UUID, name string, accountType core.AccountType, parentID *uuid.UUID, currency string) (*core.Account, error)
}

// CreateAccountHandler handles POST /v1/party/{partyID}/account.
type CreateAccountHandler struct {
	Registry accountCreator
}

// NewCreateAccountHandler creates a new CreateAccountHandler.
func NewCreateAccountHandler(svc accountCreator) *CreateAccountHandler {
	return &CreateAccountHandler{Registry: svc}
}

// Register registers the create account endpoint with the Huma API.
func (h *CreateAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-account",
		Method:        http.MethodPost,
		Path:          "/v1/party/{partyID}/account",
		Summary:       "Create account",
		Description:   "Adds one account to the party's chart of accounts.",
		Tags:          []string{"Accounts"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func (h *CreateAccountHandler) handle(ctx context.Context, input *CreateAccountInput) (*CreateAccountOutput, error) {
	ownerID, err := uuid.FromString(input.PartyID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid partyID", err)
	}

	var parentID *uuid.UUID
	if input.Body.ParentID != "" {
		parsed, err := uuid.FromString(input.Body.ParentID)
		if err != nil {
			return nil, huma.NewError(http.StatusBadRequest, "invalid parentID", err)
		}
		parentID = &parsed
	}

	created, err := h.Registry.CreateAccount(ctx, ownerID, input.Body.Name, core.AccountType(input.Body.Type), parentID, input.Body.Currency)
	if err != nil {
		return nil, apierr.Map(err, "failed to create account")
	}

	return &CreateAccountOutput{Status: http.StatusCreated, Body: fromCore(*created)}, nil
}
