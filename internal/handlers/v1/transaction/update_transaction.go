package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/apierr"
	"github.com/carson-networks/ledger-server/internal/service"
)

// UpdateTransactionBody is the request body for updating a transaction. The
// entry set replaces the old one wholesale.
type UpdateTransactionBody struct {
	Description string      `json:"description" required:"true" doc:"What happened"`
	Notes       string      `json:"notes,omitempty" doc:"Free-form notes"`
	OccurredOn  string      `json:"occurredOn" required:"true" doc:"RFC3339 date the transaction took place"`
	Entries     []EntryBody `json:"entries" required:"true" minItems:"2" doc:"Replacement postings, must sum to zero"`
}

// UpdateTransactionInput is the Huma input for updating a transaction.
type UpdateTransactionInput struct {
	PartyID       string `path:"partyID" doc:"Owner party UUID"`
	TransactionID string `path:"transactionID" doc:"Transaction UUID"`
	Body          UpdateTransactionBody
}

// UpdateTransactionOutput is the Huma output for updating a transaction.
type UpdateTransactionOutput struct {
	Status int `json:"status" doc:"HTTP status"`
}

// transactionUpdater is the interface for updating transactions.
type transactionUpdater interface {
	UpdateTransaction(ctx context.Context, ownerID, transactionID uuid.UUID, input service.TransactionInput) error
}

// UpdateTransactionHandler handles PUT /v1/party/{partyID}/transaction/{transactionID}.
type UpdateTransactionHandler struct {
	Ledger transactionUpdater
}

// NewUpdateTransactionHandler creates a new UpdateTransactionHandler.
func NewUpdateTransactionHandler(svc transactionUpdater) *UpdateTransactionHandler {
	return &UpdateTransactionHandler{Ledger: svc}
}

// Register registers the update transaction endpoint with the Huma API.
func (h *UpdateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-transaction",
		Method:      http.MethodPut,
		Path:        "/v1/party/{partyID}/transaction/{transactionID}",
		Summary:     "Update transaction",
		Description: "Replaces a transaction's description, date, and entry set atomically.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *UpdateTransactionHandler) handle(ctx context.Context, input *UpdateTransactionInput) (*UpdateTransactionOutput, error) {
	ownerID, err := uuid.FromString(input.PartyID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid partyID", err)
	}
	transactionID, err := uuid.FromString(input.TransactionID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid transactionID", err)
	}
	entries, err := parseEntries(input.Body.Entries)
	if err != nil {
		return nil, err
	}
	occurredOn, err := parseDate(input.Body.OccurredOn)
	if err != nil {
		return nil, err
	}

	err = h.Ledger.UpdateTransaction(ctx, ownerID, transactionID, service.TransactionInput{
		Description: input.Body.Description,
		Notes:       input.Body.Notes,
		Date:        occurredOn,
		Entries:     entries,
	})
	if err != nil {
		return nil, apierr.Map(err, "failed to update transaction")
	}

	return &UpdateTransactionOutput{Status: http.StatusOK}, nil
}
