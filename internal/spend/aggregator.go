// Package spend computes realized spend for a category over a date range
// from recorded ledger entries.
package spend

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/month"
	"github.com/carson-networks/ledger-server/internal/storage"
)

// Aggregator is a read-only view over the entries of one store (or one
// transaction within it).
type Aggregator struct {
	ledger storage.ILedgerTable
}

// New returns an Aggregator over the given ledger table.
func New(ledger storage.ILedgerTable) *Aggregator {
	return &Aggregator{ledger: ledger}
}

// Spend sums the signed entry amounts for the category inside the inclusive
// [start, end] range. Both bounds are normalized to UTC before comparison;
// stored dates are already UTC. Returns zero when nothing matches.
func (a *Aggregator) Spend(ctx context.Context, ownerID, categoryID uuid.UUID, start, end time.Time) (decimal.Decimal, error) {
	return a.ledger.SumAmounts(ctx, ownerID, categoryID, start.UTC(), end.UTC())
}

// MonthSpend sums the category's spend across one whole month.
func (a *Aggregator) MonthSpend(ctx context.Context, ownerID, categoryID uuid.UUID, m month.Month) (decimal.Decimal, error) {
	return a.Spend(ctx, ownerID, categoryID, m.Start(), m.End())
}
