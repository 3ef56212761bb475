package actions

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-server/internal/core"
	"github.com/carson-networks/ledger-server/internal/month"
	"github.com/carson-networks/ledger-server/internal/rollover"
	"github.com/carson-networks/ledger-server/internal/storage"
)

// RecordTransaction persists one balanced transaction and its entries as a
// single atomic unit, then re-propagates rollover for the affected month.
// The caller has already validated balance and account ownership.
type RecordTransaction struct {
	OwnerID     uuid.UUID
	Description string
	Notes       string
	ExternalID  string
	Date        time.Time
	Entries     []core.EntryInput

	Engine *rollover.Engine
	Logger *logrus.Logger

	// TransactionID is set on success.
	TransactionID uuid.UUID
}

var _ IAction = (*RecordTransaction)(nil)

func (a *RecordTransaction) Perform(ctx context.Context, store storage.Store) error {
	date := a.Date.UTC()
	transaction := &core.Transaction{
		ID:          uuid.Must(uuid.NewV4()),
		OwnerID:     a.OwnerID,
		Description: a.Description,
		Notes:       a.Notes,
		ExternalID:  a.ExternalID,
		OccurredOn:  date,
		CreatedAt:   time.Now().UTC(),
	}

	err := store.InTx(ctx, func(s storage.Store) error {
		if err := s.Ledger().InsertTransaction(ctx, transaction); err != nil {
			return err
		}
		return s.Ledger().InsertEntries(ctx, buildEntries(transaction, a.Entries))
	})
	if err != nil {
		return err
	}
	a.TransactionID = transaction.ID

	triggerChain(ctx, a.Engine, a.Logger, a.OwnerID, month.FromTime(date), core.ReasonTransactionCreated)
	return nil
}

func buildEntries(t *core.Transaction, inputs []core.EntryInput) []core.Entry {
	entries := make([]core.Entry, len(inputs))
	for i, in := range inputs {
		entries[i] = core.Entry{
			ID:            uuid.Must(uuid.NewV4()),
			TransactionID: t.ID,
			AccountID:     in.AccountID,
			OwnerID:       t.OwnerID,
			OccurredOn:    t.OccurredOn,
			Amount:        in.Amount,
			IsReportable:  in.IsReportable,
		}
	}
	return entries
}

// triggerChain re-propagates rollover after a committed mutation. The
// mutation has already succeeded, so chain problems are logged rather than
// surfaced; failed months stay flagged for retry.
func triggerChain(ctx context.Context, engine *rollover.Engine, logger *logrus.Logger, ownerID uuid.UUID, changed month.Month, reason core.RolloverReason) {
	if engine == nil {
		return
	}
	if _, err := engine.RecomputeChain(ctx, ownerID, changed, reason); err != nil && logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"ownerID":      ownerID,
			"changedMonth": changed.Key(),
			"reason":       reason,
		}).Error("Actions.triggerChain.chain walk could not start")
	}
}
