// Package transaction exposes the journal endpoints.
package transaction

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/core"
)

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID          string `json:"id" doc:"Transaction UUID"`
	Description string `json:"description" doc:"What happened"`
	Notes       string `json:"notes,omitempty" doc:"Free-form notes"`
	ExternalID  string `json:"externalID,omitempty" doc:"Caller-supplied correlation ID"`
	OccurredOn  string `json:"occurredOn" doc:"RFC3339 date the transaction took place"`
	CreatedAt   string `json:"createdAt" doc:"RFC3339 creation time"`
}

// Entry is the API response model for one posting of a transaction.
type Entry struct {
	ID           string `json:"id" doc:"Entry UUID"`
	AccountID    string `json:"accountID" doc:"Posted account UUID"`
	Amount       string `json:"amount" doc:"Signed decimal amount, positive debit, negative credit"`
	IsReportable bool   `json:"isReportable" doc:"Whether the entry counts toward reports"`
}

// EntryBody is one posting in a request body.
type EntryBody struct {
	AccountID    string `json:"accountID" required:"true" doc:"Account UUID to post against"`
	Amount       string `json:"amount" required:"true" doc:"Signed decimal amount, positive debit, negative credit"`
	IsReportable *bool  `json:"isReportable,omitempty" doc:"Whether the entry counts toward reports, defaults to true"`
}

func fromCore(t core.Transaction) Transaction {
	return Transaction{
		ID:          t.ID.String(),
		Description: t.Description,
		Notes:       t.Notes,
		ExternalID:  t.ExternalID,
		OccurredOn:  t.OccurredOn.Format(time.RFC3339),
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
	}
}

func entryFromCore(e core.Entry) Entry {
	return Entry{
		ID:           e.ID.String(),
		AccountID:    e.AccountID.String(),
		Amount:       e.Amount.String(),
		IsReportable: e.IsReportable,
	}
}

// parseEntries converts request postings into journal inputs. Amount and
// account parsing fail fast with a 400; balance rules are the service's job.
func parseEntries(bodies []EntryBody) ([]core.EntryInput, error) {
	entries := make([]core.EntryInput, len(bodies))
	for i, b := range bodies {
		accountID, err := uuid.FromString(b.AccountID)
		if err != nil {
			return nil, huma.NewError(http.StatusBadRequest, "invalid entry accountID", err)
		}
		amount, err := decimal.NewFromString(b.Amount)
		if err != nil {
			return nil, huma.NewError(http.StatusBadRequest, "invalid entry amount", err)
		}
		reportable := true
		if b.IsReportable != nil {
			reportable = *b.IsReportable
		}
		entries[i] = core.EntryInput{
			AccountID:    accountID,
			Amount:       amount,
			IsReportable: reportable,
		}
	}
	return entries, nil
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, huma.NewError(http.StatusBadRequest, "invalid occurredOn", err)
	}
	return t, nil
}
