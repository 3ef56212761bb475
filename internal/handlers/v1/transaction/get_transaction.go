package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/apierr"
	"github.com/carson-networks/ledger-server/internal/service"
)

// GetTransactionInput is the Huma input for fetching a transaction.
type GetTransactionInput struct {
	PartyID       string `path:"partyID" doc:"Owner party UUID"`
	TransactionID string `path:"transactionID" doc:"Transaction UUID"`
}

// GetTransactionResponseBody is the response body for fetching a transaction.
type GetTransactionResponseBody struct {
	Transaction Transaction `json:"transaction" doc:"The transaction"`
	Entries     []Entry     `json:"entries" doc:"Its postings"`
}

// GetTransactionOutput is the Huma output for fetching a transaction.
type GetTransactionOutput struct {
	Body GetTransactionResponseBody
}

// transactionGetter is the interface for fetching one transaction.
type transactionGetter interface {
	GetTransaction(ctx context.Context, ownerID, transactionID uuid.UUID) (*service.TransactionDetail, error)
}

// GetTransactionHandler handles GET /v1/party/{partyID}/transaction/{transactionID}.
type GetTransactionHandler struct {
	Ledger transactionGetter
}

// NewGetTransactionHandler creates a new GetTransactionHandler.
func NewGetTransactionHandler(svc transactionGetter) *GetTransactionHandler {
	return &GetTransactionHandler{Ledger: svc}
}

// Register registers the get transaction endpoint with the Huma API.
func (h *GetTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-transaction",
		Method:      http.MethodGet,
		Path:        "/v1/party/{partyID}/transaction/{transactionID}",
		Summary:     "Get transaction",
		Description: "Returns one transaction with its entries.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *GetTransactionHandler) handle(ctx context.Context, input *GetTransactionInput) (*GetTransactionOutput, error) {
	ownerID, err := uuid.FromString(input.PartyID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid partyID", err)
	}
	transactionID, err := uuid.FromString(input.TransactionID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid transactionID", err)
	}

	detail, err := h.Ledger.GetTransaction(ctx, ownerID, transactionID)
	if err != nil {
		return nil, apierr.Map(err, "failed to get transaction")
	}

	resp := GetTransactionResponseBody{
		Transaction: fromCore(detail.Transaction),
		Entries:     make([]Entry, len(detail.Entries)),
	}
	for i, e := range detail.Entries {
		resp.Entries[i] = entryFromCore(e)
	}
	return &GetTransactionOutput{Body: resp}, nil
}
