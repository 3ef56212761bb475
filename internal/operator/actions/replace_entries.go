package actions

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-server/internal/core"
	"github.com/carson-networks/ledger-server/internal/faults"
	"github.com/carson-networks/ledger-server/internal/month"
	"github.com/carson-networks/ledger-server/internal/rollover"
	"github.com/carson-networks/ledger-server/internal/storage"
)

// ReplaceEntries edits a transaction by swapping its entry set wholesale:
// the old entries are deleted and the new ones inserted in one transaction,
// so the journal is never visible with a partial posting.
type ReplaceEntries struct {
	TransactionID uuid.UUID
	OwnerID       uuid.UUID
	Description   string
	Notes         string
	Date          time.Time
	Entries       []core.EntryInput

	Engine *rollover.Engine
	Logger *logrus.Logger
}

var _ IAction = (*ReplaceEntries)(nil)

func (a *ReplaceEntries) Perform(ctx context.Context, store storage.Store) error {
	newDate := a.Date.UTC()
	var oldDate time.Time

	err := store.InTx(ctx, func(s storage.Store) error {
		transaction, err := s.Ledger().FindTransaction(ctx, a.TransactionID)
		if err != nil {
			return err
		}
		if transaction.OwnerID != a.OwnerID || transaction.IsDeleted {
			return faults.NotFound("transaction", a.TransactionID.String())
		}
		oldDate = transaction.OccurredOn

		if err := s.Ledger().DeleteEntries(ctx, transaction.ID); err != nil {
			return err
		}

		transaction.Description = a.Description
		transaction.Notes = a.Notes
		transaction.OccurredOn = newDate
		if err := s.Ledger().UpdateTransaction(ctx, transaction); err != nil {
			return err
		}
		return s.Ledger().InsertEntries(ctx, buildEntries(transaction, a.Entries))
	})
	if err != nil {
		return err
	}

	// A date moved across a month boundary dirties both months; propagate
	// from the earlier one.
	changed := month.FromTime(newDate)
	if old := month.FromTime(oldDate); old.Before(changed) {
		changed = old
	}
	triggerChain(ctx, a.Engine, a.Logger, a.OwnerID, changed, core.ReasonTransactionUpdated)
	return nil
}
