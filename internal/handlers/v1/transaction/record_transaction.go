package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/apierr"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/service"
)

// RecordTransactionBody is the request body for recording a transaction.
type RecordTransactionBody struct {
	Description string      `json:"description" required:"true" doc:"What happened"`
	Notes       string      `json:"notes,omitempty" doc:"Free-form notes"`
	ExternalID  string      `json:"externalID,omitempty" doc:"Caller-supplied correlation ID"`
	OccurredOn  string      `json:"occurredOn,omitempty" doc:"RFC3339 date, defaults to now"`
	Entries     []EntryBody `json:"entries" required:"true" minItems:"2" doc:"Signed postings, must sum to zero"`
}

// RecordTransactionInput is the Huma input for recording a transaction.
type RecordTransactionInput struct {
	PartyID string `path:"partyID" doc:"Owner party UUID"`
	Body    RecordTransactionBody
}

// RecordTransactionResponseBody is the response body for recording a
// transaction.
type RecordTransactionResponseBody struct {
	ID string `json:"id" doc:"UUID of the recorded transaction"`
}

// RecordTransactionOutput is the Huma output for recording a transaction.
type RecordTransactionOutput struct {
	Status int
	Body   RecordTransactionResponseBody
}

// transactionRecorder is the interface for recording transactions.
type transactionRecorder interface {
	RecordTransaction(ctx context.Context, ownerID uuid.UUID, input service.TransactionInput) (uuid.UUID, error)
}

// RecordTransactionHandler handles POST /v1/party/{partyID}/transaction.
type RecordTransactionHandler struct {
	Ledger transactionRecorder
}

// NewRecordTransactionHandler creates a new RecordTransactionHandler.
func NewRecordTransactionHandler(svc transactionRecorder) *RecordTransactionHandler {
	return &RecordTransactionHandler{Ledger: svc}
}

// Register registers the record transaction endpoint with the Huma API.
func (h *RecordTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "record-transaction",
		Method:        http.MethodPost,
		Path:          "/v1/party/{partyID}/transaction",
		Summary:       "Record transaction",
		Description:   "Records one balanced transaction and its entries atomically.",
		Tags:          []string{"Transactions"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func (h *RecordTransactionHandler) handle(ctx context.Context, input *RecordTransactionInput) (*RecordTransactionOutput, error) {
	ownerID, err := uuid.FromString(input.PartyID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid partyID", err)
	}
	entries, err := parseEntries(input.Body.Entries)
	if err != nil {
		return nil, err
	}
	occurredOn, err := parseDate(input.Body.OccurredOn)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData := logging.GetLogData(ctx); logData != nil {
		stopTimer = logData.AddTiming("recordTransactionMs")
	}
	id, err := h.Ledger.RecordTransaction(ctx, ownerID, service.TransactionInput{
		Description: input.Body.Description,
		Notes:       input.Body.Notes,
		ExternalID:  input.Body.ExternalID,
		Date:        occurredOn,
		Entries:     entries,
	})
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, apierr.Map(err, "failed to record transaction")
	}

	return &RecordTransactionOutput{
		Status: http.StatusCreated,
		Body:   RecordTransactionResponseBody{ID: id.String()},
	}, nil
}
