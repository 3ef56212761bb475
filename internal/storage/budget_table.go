package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/ledger-server/internal/core"
	"github.com/carson-networks/ledger-server/internal/faults"
)

// BudgetsTable provides access to the budgets, category_budgets, and
// rollover_calculations tables.
type BudgetsTable struct {
	exec bob.Executor
}

var _ IBudgetTable = (*BudgetsTable)(nil)

func (t *BudgetsTable) Insert(ctx context.Context, b *core.Budget) error {
	q := psql.Insert(
		im.Into("budgets",
			"id", "owner_id", "year_month", "is_active", "rollover_last_calculated", "rollover_needs_recalc", "created_at"),
		im.Values(psql.Arg(b.ID, b.OwnerID, b.YearMonth, b.IsActive, b.RolloverLastCalculated, b.RolloverNeedsRecalc, b.CreatedAt)),
	)
	_, err := bob.Exec(ctx, t.exec, q)
	return faults.Database("budgets.Insert", err)
}

func (t *BudgetsTable) FindByID(ctx context.Context, id uuid.UUID) (*core.Budget, error) {
	q := psql.Select(
		sm.Columns("id", "owner_id", "year_month", "is_active", "rollover_last_calculated", "rollover_needs_recalc", "created_at"),
		sm.From("budgets"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	row, err := bob.One(ctx, t.exec, q, scan.StructMapper[core.Budget]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, faults.NotFound("budget", id.String())
	}
	if err != nil {
		return nil, faults.Database("budgets.FindByID", err)
	}
	return &row, nil
}

func (t *BudgetsTable) FindByMonth(ctx context.Context, ownerID uuid.UUID, yearMonth string) (*core.Budget, error) {
	q := psql.Select(
		sm.Columns("id", "owner_id", "year_month", "is_active", "rollover_last_calculated", "rollover_needs_recalc", "created_at"),
		sm.From("budgets"),
		sm.Where(psql.Quote("owner_id").EQ(psql.Arg(ownerID))),
		sm.Where(psql.Quote("year_month").EQ(psql.Arg(yearMonth))),
		sm.Where(psql.Quote("is_active").EQ(psql.Arg(true))),
	)
	row, err := bob.One(ctx, t.exec, q, scan.StructMapper[core.Budget]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, faults.NotFound("budget", yearMonth)
	}
	if err != nil {
		return nil, faults.Database("budgets.FindByMonth", err)
	}
	return &row, nil
}

// ListAfter relies on year_month being zero-padded "YYYY-MM": lexicographic
// string order is chronological order.
func (t *BudgetsTable) ListAfter(ctx context.Context, ownerID uuid.UUID, yearMonth string) ([]core.Budget, error) {
	q := psql.Select(
		sm.Columns("id", "owner_id", "year_month", "is_active", "rollover_last_calculated", "rollover_needs_recalc", "created_at"),
		sm.From("budgets"),
		sm.Where(psql.Quote("owner_id").EQ(psql.Arg(ownerID))),
		sm.Where(psql.Quote("year_month").GT(psql.Arg(yearMonth))),
		sm.Where(psql.Quote("is_active").EQ(psql.Arg(true))),
		sm.OrderBy("year_month").Asc(),
	)
	rows, err := bob.All(ctx, t.exec, q, scan.StructMapper[core.Budget]())
	if err != nil {
		return nil, faults.Database("budgets.ListAfter", err)
	}
	return rows, nil
}

func (t *BudgetsTable) SetRolloverStatus(ctx context.Context, budgetID uuid.UUID, needsRecalc bool, lastCalculated *time.Time) error {
	q := psql.Update(
		um.Table("budgets"),
		um.SetCol("rollover_needs_recalc").ToArg(needsRecalc),
		um.SetCol("rollover_last_calculated").ToArg(lastCalculated),
		um.Where(psql.Quote("id").EQ(psql.Arg(budgetID))),
	)
	_, err := bob.Exec(ctx, t.exec, q)
	return faults.Database("budgets.SetRolloverStatus", err)
}

func (t *BudgetsTable) InsertCategoryBudget(ctx context.Context, cb *core.CategoryBudget) error {
	q := psql.Insert(
		im.Into("category_budgets",
			"id", "budget_id", "category_id", "budget_amount", "rollover_enabled", "rollover_amount"),
		im.Values(psql.Arg(cb.ID, cb.BudgetID, cb.CategoryID, cb.BudgetAmount, cb.RolloverEnabled, cb.RolloverAmount)),
	)
	_, err := bob.Exec(ctx, t.exec, q)
	return faults.Database("budgets.InsertCategoryBudget", err)
}

func (t *BudgetsTable) CategoryBudgets(ctx context.Context, budgetID uuid.UUID) ([]core.CategoryBudget, error) {
	q := psql.Select(
		sm.Columns("id", "budget_id", "category_id", "budget_amount", "rollover_enabled", "rollover_amount"),
		sm.From("category_budgets"),
		sm.Where(psql.Quote("budget_id").EQ(psql.Arg(budgetID))),
		sm.OrderBy("category_id").Asc(),
	)
	rows, err := bob.All(ctx, t.exec, q, scan.StructMapper[core.CategoryBudget]())
	if err != nil {
		return nil, faults.Database("budgets.CategoryBudgets", err)
	}
	return rows, nil
}

func (t *BudgetsTable) FindCategoryBudget(ctx context.Context, budgetID, categoryID uuid.UUID) (*core.CategoryBudget, error) {
	q := psql.Select(
		sm.Columns("id", "budget_id", "category_id", "budget_amount", "rollover_enabled", "rollover_amount"),
		sm.From("category_budgets"),
		sm.Where(psql.Quote("budget_id").EQ(psql.Arg(budgetID))),
		sm.Where(psql.Quote("category_id").EQ(psql.Arg(categoryID))),
	)
	row, err := bob.One(ctx, t.exec, q, scan.StructMapper[core.CategoryBudget]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, faults.NotFound("category budget", categoryID.String())
	}
	if err != nil {
		return nil, faults.Database("budgets.FindCategoryBudget", err)
	}
	return &row, nil
}

func (t *BudgetsTable) UpdateCategoryBudget(ctx context.Context, id uuid.UUID, amount decimal.Decimal, rolloverEnabled bool) error {
	q := psql.Update(
		um.Table("category_budgets"),
		um.SetCol("budget_amount").ToArg(amount),
		um.SetCol("rollover_enabled").ToArg(rolloverEnabled),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	_, err := bob.Exec(ctx, t.exec, q)
	return faults.Database("budgets.UpdateCategoryBudget", err)
}

func (t *BudgetsTable) SetRolloverAmount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	q := psql.Update(
		um.Table("category_budgets"),
		um.SetCol("rollover_amount").ToArg(amount),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	_, err := bob.Exec(ctx, t.exec, q)
	return faults.Database("budgets.SetRolloverAmount", err)
}

func (t *BudgetsTable) InsertCalculation(ctx context.Context, calc *core.RolloverCalculation) error {
	q := psql.Insert(
		im.Into("rollover_calculations",
			"id", "budget_id", "category_id", "calculated_at", "rollover_amount",
			"source_month", "reason", "base_budget", "prev_rollover", "effective_budget", "spent_amount"),
		im.Values(psql.Arg(
			calc.ID, calc.BudgetID, calc.CategoryID, calc.CalculatedAt, calc.RolloverAmount,
			calc.SourceMonth, string(calc.Reason), calc.BaseBudget, calc.PrevRollover, calc.EffectiveBudget, calc.SpentAmount)),
	)
	_, err := bob.Exec(ctx, t.exec, q)
	return faults.Database("budgets.InsertCalculation", err)
}

func (t *BudgetsTable) Calculations(ctx context.Context, budgetID, categoryID uuid.UUID) ([]core.RolloverCalculation, error) {
	q := psql.Select(
		sm.Columns("id", "budget_id", "category_id", "calculated_at", "rollover_amount",
			"source_month", "reason", "base_budget", "prev_rollover", "effective_budget", "spent_amount"),
		sm.From("rollover_calculations"),
		sm.Where(psql.Quote("budget_id").EQ(psql.Arg(budgetID))),
		sm.Where(psql.Quote("category_id").EQ(psql.Arg(categoryID))),
		sm.OrderBy("calculated_at").Asc(),
	)
	rows, err := bob.All(ctx, t.exec, q, scan.StructMapper[core.RolloverCalculation]())
	if err != nil {
		return nil, faults.Database("budgets.Calculations", err)
	}
	return rows, nil
}
