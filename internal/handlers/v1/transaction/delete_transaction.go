package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/apierr"
)

// DeleteTransactionInput is the Huma input for deleting a transaction.
type DeleteTransactionInput struct {
	PartyID       string `path:"partyID" doc:"Owner party UUID"`
	TransactionID string `path:"transactionID" doc:"Transaction UUID"`
}

// DeleteTransactionOutput is the Huma output for deleting a transaction.
type DeleteTransactionOutput struct {
	Status int `json:"status" doc:"HTTP status"`
}

// transactionDeleter is the interface for deleting transactions.
type transactionDeleter interface {
	DeleteTransaction(ctx context.Context, ownerID, transactionID uuid.UUID) error
}

// DeleteTransactionHandler handles DELETE /v1/party/{partyID}/transaction/{transactionID}.
type DeleteTransactionHandler struct {
	Ledger transactionDeleter
}

// NewDeleteTransactionHandler creates a new DeleteTransactionHandler.
func NewDeleteTransactionHandler(svc transactionDeleter) *DeleteTransactionHandler {
	return &DeleteTransactionHandler{Ledger: svc}
}

// Register registers the delete transaction endpoint with the Huma API.
func (h *DeleteTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "delete-transaction",
		Method:      http.MethodDelete,
		Path:        "/v1/party/{partyID}/transaction/{transactionID}",
		Summary:     "Delete transaction",
		Description: "Soft-deletes a transaction and removes its postings from aggregates.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *DeleteTransactionHandler) handle(ctx context.Context, input *DeleteTransactionInput) (*DeleteTransactionOutput, error) {
	ownerID, err := uuid.FromString(input.PartyID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid partyID", err)
	}
	transactionID, err := uuid.FromString(input.TransactionID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid transactionID", err)
	}

	if err := h.Ledger.DeleteTransaction(ctx, ownerID, transactionID); err != nil {
		return nil, apierr.Map(err, "failed to delete transaction")
	}
	return &DeleteTransactionOutput{Status: http.StatusOK}, nil
}
