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

// BudgetLine is one category allocation supplied when creating a budget.
type BudgetLine struct {
	CategoryID      uuid.UUID
	Amount          decimal.Decimal
	RolloverEnabled bool
}

// CreateBudget persists a month's budget with its category allocations,
// then runs the chain from the preceding month so the new budget's own
// rollover is computed along with everything downstream.
type CreateBudget struct {
	OwnerID uuid.UUID
	Month   month.Month
	Lines   []BudgetLine

	Engine *rollover.Engine
	Logger *logrus.Logger

	// BudgetID is set on success.
	BudgetID uuid.UUID
}

var _ IAction = (*CreateBudget)(nil)

func (a *CreateBudget) Perform(ctx context.Context, store storage.Store) error {
	budget := &core.Budget{
		ID:        uuid.Must(uuid.NewV4()),
		OwnerID:   a.OwnerID,
		YearMonth: a.Month.Key(),
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}

	err := store.InTx(ctx, func(s storage.Store) error {
		if err := s.Budgets().Insert(ctx, budget); err != nil {
			return err
		}
		for _, line := range a.Lines {
			cb := &core.CategoryBudget{
				ID:              uuid.Must(uuid.NewV4()),
				BudgetID:        budget.ID,
				CategoryID:      line.CategoryID,
				BudgetAmount:    line.Amount,
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

	triggerChain(ctx, a.Engine, a.Logger, a.OwnerID, a.Month.Prev(), core.ReasonBudgetCreated)
	return nil
}
