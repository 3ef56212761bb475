package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/core"
	"github.com/carson-networks/ledger-server/internal/handlers/v1/apierr"
	"github.com/carson-networks/ledger-server/internal/logging"
)

// ListTransactionsInput is the Huma input for listing transactions.
type ListTransactionsInput struct {
	PartyID string `path:"partyID" doc:"Owner party UUID"`
	Limit   int    `query:"limit" minimum:"0" maximum:"100" doc:"Page size, defaults to 20"`
	Offset  int    `query:"offset" minimum:"0" doc:"Offset into the result set"`
}

// ListTransactionsResponseBody is the response body for listing transactions.
type ListTransactionsResponseBody struct {
	Transactions []Transaction `json:"transactions" doc:"Page of transactions, newest first"`
}

// ListTransactionsOutput is the Huma output for listing transactions.
type ListTransactionsOutput struct {
	Body ListTransactionsResponseBody
}

// transactionLister is the interface for listing transactions.
type transactionLister interface {
	ListTransactions(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]core.Transaction, error)
}

// ListTransactionsHandler handles GET /v1/party/{partyID}/transaction.
type ListTransactionsHandler struct {
	Ledger transactionLister
}

// NewListTransactionsHandler creates a new ListTransactionsHandler.
func NewListTransactionsHandler(svc transactionLister) *ListTransactionsHandler {
	return &ListTransactionsHandler{Ledger: svc}
}

// Register registers the list transactions endpoint with the Huma API.
func (h *ListTransactionsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-transactions",
		Method:      http.MethodGet,
		Path:        "/v1/party/{partyID}/transaction",
		Summary:     "List transactions",
		Description: "Returns a page of the party's transactions, newest first.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *ListTransactionsHandler) handle(ctx context.Context, input *ListTransactionsInput) (*ListTransactionsOutput, error) {
	ownerID, err := uuid.FromString(input.PartyID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid partyID", err)
	}

	logData := logging.GetLogData(ctx)
	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("listTransactionsMs")
	}
	transactions, err := h.Ledger.ListTransactions(ctx, ownerID, input.Limit, input.Offset)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, apierr.Map(err, "failed to list transactions")
	}

	if logData != nil {
		logData.AddData("transactionCount", len(transactions))
	}

	resp := ListTransactionsResponseBody{Transactions: make([]Transaction, len(transactions))}
	for i, t := range transactions {
		resp.Transactions[i] = fromCore(t)
	}
	return &ListTransactionsOutput{Body: resp}, nil
}
