package actions

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-server/internal/core"
	"github.com/carson-networks/ledger-server/internal/month"
	"github.com/carson-networks/ledger-server/internal/rollover"
	"github.com/carson-networks/ledger-server/internal/storage"
)

// CopyBudget clones one month's category allocations into a new month.
// Cached rollover amounts are not copied; the engine derives them for the
// target month when the chain runs.
type CopyBudget struct {
	OwnerID   uuid.UUID
	FromMonth month.Month
	ToMonth   month.Month

	Engine *rollover.Engine
	Logger *logrus.Logger

	// BudgetID is the new budget's ID, set on success.
	BudgetID uuid.UUID
}

var _ IAction = (*CopyBudget)(nil)

func (a *CopyBudget) Perform(ctx context.Context, store storage.Store) error {
	budget := &core.Budget{
		ID:        uuid.Must(uuid.NewV4()),
		OwnerID:   a.OwnerID,
		YearMonth: a.ToMonth.Key(),
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}

	err := store.InTx(ctx, func(s storage.Store) error {
		source, err := s.Budgets().FindByMonth(ctx, a.OwnerID, a.FromMonth.Key())
		if err != nil {
			return err
		}
		lines, err := s.Budgets().CategoryBudgets(ctx, source.ID)
		if err != nil {
			return err
		}

		if err := s.Budgets().Insert(ctx, budget); err != nil {
			return err
		}
		for _, line := range lines {
			cb := &core.CategoryBudget{
				ID:              uuid.Must(uuid.NewV4()),
				BudgetID:        budget.ID,
				CategoryID:      line.CategoryID,
				BudgetAmount:    line.BudgetAmount,
				RolloverEnabled: line.RolloverEnabled,
				RolloverAmount:  decimal.Zero,
			}
			if err := s.Budgets().InsertCategoryBudget(ctx, cb); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	a.BudgetID = budget.ID

	triggerChain(ctx, a.Engine, a.Logger, a.OwnerID, a.ToMonth.Prev(), core.ReasonBudgetCopied)
	return nil
}
