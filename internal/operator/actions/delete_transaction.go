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

// DeleteTransaction removes a transaction's entries and soft-flags the
// transaction row, keeping it for audit while taking its postings out of
// every aggregate.
type DeleteTransaction struct {
	TransactionID uuid.UUID
	OwnerID       uuid.UUID

	Engine *rollover.Engine
	Logger *logrus.Logger
}

var _ IAction = (*DeleteTransaction)(nil)

func (a *DeleteTransaction) Perform(ctx context.Context, store storage.Store) error {
	var occurredOn time.Time

	err := store.InTx(ctx, func(s storage.Store) error {
		transaction, err := s.Ledger().FindTransaction(ctx, a.TransactionID)
		if err != nil {
			return err
		}
		if transaction.OwnerID != a.OwnerID || transaction.IsDeleted {
			return faults.NotFound("transaction", a.TransactionID.String())
		}
		occurredOn = transaction.OccurredOn

		if err := s.Ledger().DeleteEntries(ctx, transaction.ID); err != nil {
			return err
		}
		transaction.IsDeleted = true
		return s.Ledger().UpdateTransaction(ctx, transaction)
	})
	if err != nil {
		return err
	}

	triggerChain(ctx, a.Engine, a.Logger, a.OwnerID, month.FromTime(occurredOn), core.ReasonTransactionDeleted)
	return nil
}
