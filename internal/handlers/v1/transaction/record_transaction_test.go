package transaction

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/ledger-server/internal/faults"
	"github.com/carson-networks/ledger-server/internal/service"
)

// mockTransactionRecorder is a mock for transactionRecorder.
type mockTransactionRecorder struct {
	mock.Mock
}

func (m *mockTransactionRecorder) RecordTransaction(ctx context.Context, ownerID uuid.UUID, input service.TransactionInput) (uuid.UUID, error) {
	args := m.Called(ctx, ownerID, input)
	if args.Get(0) == nil {
		return uuid.Nil, args.Error(1)
	}
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// newRecordTestAPI registers the handler against a humatest API and returns it.
func newRecordTestAPI(t *testing.T, svc transactionRecorder) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewRecordTransactionHandler(svc).Register(api)
	return api
}

func balancedEntries(account1, account2 uuid.UUID) []EntryBody {
	return []EntryBody{
		{AccountID: account1.String(), Amount: "50.00"},
		{AccountID: account2.String(), Amount: "-50.00"},
	}
}

// -- parseEntries / parseDate unit tests --

func TestParseEntries_DefaultsReportable(t *testing.T) {
	account := uuid.Must(uuid.NewV4())
	no := false

	entries, err := parseEntries([]EntryBody{
		{AccountID: account.String(), Amount: "12.50"},
		{AccountID: account.String(), Amount: "-12.50", IsReportable: &no},
	})
	assert.NoError(t, err)
	assert.Equal(t, account, entries[0].AccountID)
	assert.True(t, entries[0].Amount.Equal(decimal.RequireFromString("12.50")))
	assert.True(t, entries[0].IsReportable)
	assert.False(t, entries[1].IsReportable)
}

func TestParseEntries_InvalidAccountID(t *testing.T) {
	_, err := parseEntries([]EntryBody{{AccountID: "not-a-uuid", Amount: "1"}})
	assert.Error(t, err)
}

func TestParseEntries_InvalidAmount(t *testing.T) {
	account := uuid.Must(uuid.NewV4())
	_, err := parseEntries([]EntryBody{{AccountID: account.String(), Amount: "not-a-decimal"}})
	assert.Error(t, err)
}

func TestParseDate_EmptyDefaultsToNow(t *testing.T) {
	got, err := parseDate("")
	assert.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), got, time.Minute)
}

func TestParseDate_RFC3339(t *testing.T) {
	got, err := parseDate("2025-01-15T10:30:00Z")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC), got.UTC())

	_, err = parseDate("not-a-date")
	assert.Error(t, err)
}

// -- HTTP integration tests (full Huma stack via humatest) --

func TestHTTP_RecordTransaction_Success(t *testing.T) {
	ownerID := uuid.Must(uuid.NewV4())
	groceries := uuid.Must(uuid.NewV4())
	cash := uuid.Must(uuid.NewV4())
	txID := uuid.Must(uuid.NewV4())

	mockSvc := new(mockTransactionRecorder)
	mockSvc.On("RecordTransaction", mock.Anything, ownerID, mock.MatchedBy(func(in service.TransactionInput) bool {
		return in.Description == "weekly shop" &&
			len(in.Entries) == 2 &&
			in.Entries[0].Amount.Equal(decimal.RequireFromString("50.00"))
	})).Return(txID, nil)

	resp := newRecordTestAPI(t, mockSvc).Post("/v1/party/"+ownerID.String()+"/transaction", RecordTransactionBody{
		Description: "weekly shop",
		OccurredOn:  "2025-01-10T12:00:00Z",
		Entries:     balancedEntries(groceries, cash),
	})

	assert.Equal(t, http.StatusCreated, resp.Code)
	var body RecordTransactionResponseBody
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, txID.String(), body.ID)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_RecordTransaction_TooFewEntries(t *testing.T) {
	ownerID := uuid.Must(uuid.NewV4())
	mockSvc := new(mockTransactionRecorder)

	// Huma's minItems schema validation rejects this before the handler runs.
	resp := newRecordTestAPI(t, mockSvc).Post("/v1/party/"+ownerID.String()+"/transaction", RecordTransactionBody{
		Description: "half a trade",
		Entries:     []EntryBody{{AccountID: uuid.Must(uuid.NewV4()).String(), Amount: "10"}},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	mockSvc.AssertNotCalled(t, "RecordTransaction")
}

func TestHTTP_RecordTransaction_InvalidPartyID(t *testing.T) {
	mockSvc := new(mockTransactionRecorder)

	resp := newRecordTestAPI(t, mockSvc).Post("/v1/party/not-a-uuid/transaction", RecordTransactionBody{
		Description: "shop",
		Entries:     balancedEntries(uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4())),
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockSvc.AssertNotCalled(t, "RecordTransaction")
}

func TestHTTP_RecordTransaction_InvalidAmount(t *testing.T) {
	mockSvc := new(mockTransactionRecorder)

	// Amount is a plain string with no Huma format tag, so parseEntries
	// handles validation and returns 400.
	resp := newRecordTestAPI(t, mockSvc).Post("/v1/party/"+uuid.Must(uuid.NewV4()).String()+"/transaction", RecordTransactionBody{
		Description: "shop",
		Entries: []EntryBody{
			{AccountID: uuid.Must(uuid.NewV4()).String(), Amount: "not-a-decimal"},
			{AccountID: uuid.Must(uuid.NewV4()).String(), Amount: "-10"},
		},
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockSvc.AssertNotCalled(t, "RecordTransaction")
}

func TestHTTP_RecordTransaction_UnbalancedEntries(t *testing.T) {
	ownerID := uuid.Must(uuid.NewV4())

	mockSvc := new(mockTransactionRecorder)
	mockSvc.On("RecordTransaction", mock.Anything, ownerID, mock.Anything).
		Return(nil, faults.Validation("entries must sum to zero, got -5"))

	resp := newRecordTestAPI(t, mockSvc).Post("/v1/party/"+ownerID.String()+"/transaction", RecordTransactionBody{
		Description: "bad books",
		Entries: []EntryBody{
			{AccountID: uuid.Must(uuid.NewV4()).String(), Amount: "45"},
			{AccountID: uuid.Must(uuid.NewV4()).String(), Amount: "-50"},
		},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_RecordTransaction_ServiceError(t *testing.T) {
	ownerID := uuid.Must(uuid.NewV4())

	mockSvc := new(mockTransactionRecorder)
	mockSvc.On("RecordTransaction", mock.Anything, ownerID, mock.Anything).
		Return(nil, errors.New("database unavailable"))

	resp := newRecordTestAPI(t, mockSvc).Post("/v1/party/"+ownerID.String()+"/transaction", RecordTransactionBody{
		Description: "shop",
		Entries:     balancedEntries(uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4())),
	})

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	mockSvc.AssertExpectations(t)
}
