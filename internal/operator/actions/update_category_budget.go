package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-server/internal/core"
	"github.com/carson-networks/ledger-server/internal/faults"
	"github.com/carson-networks/ledger-server/internal/month"
	"github.com/carson-networks/ledger-server/internal/rollover"
	"github.com/carson-networks/ledger-server/internal/storage"
)

// UpdateCategoryBudget changes one category's stated amount or rollover
// flag inside an existing budget. The month's own incoming rollover is
// unaffected (it depends on the previous month), so the chain runs for the
// months after it.
type UpdateCategoryBudget struct {
	OwnerID         uuid.UUID
	BudgetID        uuid.UUID
	CategoryID      uuid.UUID
	Amount          decimal.Decimal
	RolloverEnabled bool

	Engine *rollover.Engine
	Logger *logrus.Logger
}

var _ IAction = (*UpdateCategoryBudget)(nil)

func (a *UpdateCategoryBudget) Perform(ctx context.Context, store storage.Store) error {
	var yearMonth string

	err := store.InTx(ctx, func(s storage.Store) error {
		budget, err := s.Budgets().FindByID(ctx, a.BudgetID)
		if err != nil {
			return err
		}
		if budget.OwnerID != a.OwnerID {
			return faults.NotFound("budget", a.BudgetID.String())
		}
		yearMonth = budget.YearMonth

		cb, err := s.Budgets().FindCategoryBudget(ctx, budget.ID, a.CategoryID)
		if err != nil {
			return err
		}
		return s.Budgets().UpdateCategoryBudget(ctx, cb.ID, a.Amount, a.RolloverEnabled)
	})
	if err != nil {
		return err
	}

	changed, err := month.Parse(yearMonth)
	if err != nil {
		return err
	}
	triggerChain(ctx, a.Engine, a.Logger, a.OwnerID, changed, core.ReasonBudgetUpdated)
	return nil
}
