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

// CreatePartyBody is the request body for creating a party.
type CreatePartyBody struct {
	Name         string `json:"name" required:"true" doc:"Display name"`
	Type         string `json:"type" doc:"Kind of party, defaults to person"`
	SeedAccounts bool   `json:"seedAccounts" doc:"Create the starter chart of accounts for the new party"`
}

// CreatePartyInput is the Huma input for creating a party.
type CreatePartyInput struct {
	Body CreatePartyBody
}

// CreatePartyResponseBody is the response body for creating a party.
type CreatePartyResponseBody struct {
	Party          Party     `json:"party" doc:"The created party"`
	SeededAccounts []Account `json:"seededAccounts,omitempty" doc:"Accounts created by seeding, when requested"`
}

// CreatePartyOutput is the Huma output for creating a party.
type CreatePartyOutput struct {
	Status int
	Body   CreatePartyResponseBody
}

// partyCreator is the interface for creating and seeding parties.
type partyCreator interface {
	CreateParty(ctx context.Context, name, partyType string) (*core.Party, error)
	SeedDefaultAccounts(ctx context.Context, ownerID uuid.UUID) ([]core.Account, error)
}

// CreatePartyHandler handles POST /v1/party.
type CreatePartyHandler struct {
	Registry partyCreator
}

// NewCreatePartyHandler creates a new CreatePartyHandler.
func NewCreatePartyHandler(svc partyCreator) *CreatePartyHandler {
	return &CreatePartyHandler{Registry: svc}
}

// Register registers the create party endpoint with the Huma API.
func (h *CreatePartyHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-party",
		Method:        http.MethodPost,
		Path:          "/v1/party",
		Summary:       "Create party",
		Description:   "Creates a new party, optionally seeding its starter chart of accounts.",
		Tags:          []string{"Parties"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func (h *CreatePartyHandler) handle(ctx context.Context, input *CreatePartyInput) (*CreatePartyOutput, error) {
	partyType := input.Body.Type
	if partyType == "" {
		partyType = "person"
	}

	created, err := h.Registry.CreateParty(ctx, input.Body.Name, partyType)
	if err != nil {
		return nil, apierr.Map(err, "failed to create party")
	}

	resp := CreatePartyResponseBody{
		Party: Party{
			ID:        created.ID.String(),
			Name:      created.Name,
			Type:      created.Type,
			CreatedAt: created.CreatedAt.Format(time.RFC3339),
		},
	}

	if input.Body.SeedAccounts {
		seeded, err := h.Registry.SeedDefaultAccounts(ctx, created.ID)
		if err != nil {
			return nil, apierr.Map(err, "failed to seed accounts")
		}
		resp.SeededAccounts = make([]Account, len(seeded))
		for i, a := range seeded {
			resp.SeededAccounts[i] = toAccount(a)
		}
	}

	return &CreatePartyOutput{Status: http.StatusCreated, Body: resp}, nil
}

func toAccount(a core.Account) Account {
	out := Account{
		ID:       a.ID.String(),
		Name:     a.Name,
		Type:     string(a.Type),
		Currency: a.Currency,
	}
	if a.ParentID != nil {
		parent := a.ParentID.String()
		out.ParentID = &parent
	}
	return out
}
