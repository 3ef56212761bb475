package service

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-server/internal/core"
	"github.com/carson-networks/ledger-server/internal/faults"
	"github.com/carson-networks/ledger-server/internal/month"
	"github.com/carson-networks/ledger-server/internal/operator/actions"
	"github.com/carson-networks/ledger-server/internal/rollover"
	"github.com/carson-networks/ledger-server/internal/spend"
	"github.com/carson-networks/ledger-server/internal/storage"
)

// Category spending status relative to the effective budget.
const (
	StatusUnderBudget = "under_budget"
	StatusNearLimit   = "near_limit"
	StatusOverBudget  = "over_budget"
)

var nearLimitRatio = decimal.RequireFromString("0.8")

// parseMonth converts a caller-supplied "YYYY-MM" key, surfacing bad input
// as a validation failure rather than an internal error.
func parseMonth(key string) (month.Month, error) {
	m, err := month.Parse(key)
	if err != nil {
		return month.Month{}, faults.Validation("%s", err)
	}
	return m, nil
}

// BudgetService handles budget business logic. Reads go straight to storage;
// mutations run through the processor so they serialize with chain walks.
type BudgetService struct {
	storage   storage.Store
	processor Processor
	engine    *rollover.Engine
	logger    *logrus.Logger
}

// NewBudgetService creates a new BudgetService.
func NewBudgetService(store storage.Store, processor Processor, engine *rollover.Engine, logger *logrus.Logger) *BudgetService {
	return &BudgetService{
		storage:   store,
		processor: processor,
		engine:    engine,
		logger:    logger,
	}
}

// BudgetLineInput is one category allocation supplied when creating a budget.
type BudgetLineInput struct {
	CategoryID      uuid.UUID
	Amount          decimal.Decimal
	RolloverEnabled bool
}

// CategoryStatus is one category's spending position within a month.
type CategoryStatus struct {
	CategoryID      uuid.UUID
	CategoryName    string
	BudgetAmount    decimal.Decimal
	RolloverAmount  decimal.Decimal
	EffectiveBudget decimal.Decimal
	SpentAmount     decimal.Decimal
	Remaining       decimal.Decimal
	PercentUsed     decimal.Decimal
	Status          string
}

// BudgetStatus is a month's full spending position: the per-category rows
// plus their roll-up.
type BudgetStatus struct {
	BudgetID       uuid.UUID
	YearMonth      string
	TotalBudget    decimal.Decimal
	TotalSpent     decimal.Decimal
	TotalRemaining decimal.Decimal
	Status         string
	NeedsRecalc    bool
	Categories     []CategoryStatus
}

// CreateBudget validates and creates a month's budget, returning its ID.
func (s *BudgetService) CreateBudget(ctx context.Context, ownerID uuid.UUID, yearMonth string, lines []BudgetLineInput) (uuid.UUID, error) {
	m, err := parseMonth(yearMonth)
	if err != nil {
		return uuid.Nil, err
	}
	if err := s.ensureNoBudget(ctx, ownerID, m); err != nil {
		return uuid.Nil, err
	}

	actionLines := make([]actions.BudgetLine, len(lines))
	for i, line := range lines {
		if line.Amount.IsNegative() {
			return uuid.Nil, faults.Validation("budget amount for category %s must not be negative", line.CategoryID)
		}
		if _, err := expenseCategory(ctx, s.storage, ownerID, line.CategoryID); err != nil {
			return uuid.Nil, err
		}
		actionLines[i] = actions.BudgetLine{
			CategoryID:      line.CategoryID,
			Amount:          line.Amount,
			RolloverEnabled: line.RolloverEnabled,
		}
	}

	action := &actions.CreateBudget{
		OwnerID: ownerID,
		Month:   m,
		Lines:   actionLines,
		Engine:  s.engine,
		Logger:  s.logger,
	}
	if err := s.processor.Process(ctx, action); err != nil {
		return uuid.Nil, err
	}
	return action.BudgetID, nil
}

// CopyBudget clones an existing month's allocations into a new month and
// returns the new budget's ID.
func (s *BudgetService) CopyBudget(ctx context.Context, ownerID uuid.UUID, fromMonth, toMonth string) (uuid.UUID, error) {
	from, err := parseMonth(fromMonth)
	if err != nil {
		return uuid.Nil, err
	}
	to, err := parseMonth(toMonth)
	if err != nil {
		return uuid.Nil, err
	}
	if from == to {
		return uuid.Nil, faults.Validation("cannot copy a budget onto itself")
	}

	if _, err := s.storage.Budgets().FindByMonth(ctx, ownerID, from.Key()); err != nil {
		if faults.IsNotFound(err) {
			return uuid.Nil, faults.Validation("no budget exists for %s", from.Key())
		}
		return uuid.Nil, err
	}
	if err := s.ensureNoBudget(ctx, ownerID, to); err != nil {
		return uuid.Nil, err
	}

	action := &actions.CopyBudget{
		OwnerID:   ownerID,
		FromMonth: from,
		ToMonth:   to,
		Engine:    s.engine,
		Logger:    s.logger,
	}
	if err := s.processor.Process(ctx, action); err != nil {
		return uuid.Nil, err
	}
	return action.BudgetID, nil
}

// UpdateCategoryBudget changes one category's stated amount or rollover flag.
func (s *BudgetService) UpdateCategoryBudget(ctx context.Context, ownerID, budgetID, categoryID uuid.UUID, amount decimal.Decimal, rolloverEnabled bool) error {
	if amount.IsNegative() {
		return faults.Validation("budget amount for category %s must not be negative", categoryID)
	}

	return s.processor.Process(ctx, &actions.UpdateCategoryBudget{
		OwnerID:         ownerID,
		BudgetID:        budgetID,
		CategoryID:      categoryID,
		Amount:          amount,
		RolloverEnabled: rolloverEnabled,
		Engine:          s.engine,
		Logger:          s.logger,
	})
}

// GetBudgetStatus reports a month's spending position per category and
// overall, against the effective budgets (stated amount plus rollover).
func (s *BudgetService) GetBudgetStatus(ctx context.Context, ownerID uuid.UUID, yearMonth string) (*BudgetStatus, error) {
	m, err := parseMonth(yearMonth)
	if err != nil {
		return nil, err
	}
	budget, err := s.storage.Budgets().FindByMonth(ctx, ownerID, m.Key())
	if err != nil {
		return nil, err
	}
	cats, err := s.storage.Budgets().CategoryBudgets(ctx, budget.ID)
	if err != nil {
		return nil, err
	}

	status := &BudgetStatus{
		BudgetID:       budget.ID,
		YearMonth:      budget.YearMonth,
		TotalBudget:    decimal.Zero,
		TotalSpent:     decimal.Zero,
		TotalRemaining: decimal.Zero,
		NeedsRecalc:    budget.RolloverNeedsRecalc,
		Categories:     make([]CategoryStatus, 0, len(cats)),
	}

	agg := spend.New(s.storage.Ledger())
	for _, cb := range cats {
		account, err := s.storage.Accounts().FindByID(ctx, cb.CategoryID)
		if err != nil {
			return nil, err
		}
		spent, err := agg.MonthSpend(ctx, ownerID, cb.CategoryID, m)
		if err != nil {
			return nil, err
		}

		effective := cb.EffectiveBudget()
		status.Categories = append(status.Categories, CategoryStatus{
			CategoryID:      cb.CategoryID,
			CategoryName:    account.Name,
			BudgetAmount:    cb.BudgetAmount,
			RolloverAmount:  cb.RolloverAmount,
			EffectiveBudget: effective,
			SpentAmount:     spent,
			Remaining:       effective.Sub(spent),
			PercentUsed:     percentUsed(spent, effective),
			Status:          classifySpending(spent, effective),
		})

		status.TotalBudget = status.TotalBudget.Add(effective)
		status.TotalSpent = status.TotalSpent.Add(spent)
	}

	status.TotalRemaining = status.TotalBudget.Sub(status.TotalSpent)
	status.Status = classifySpending(status.TotalSpent, status.TotalBudget)
	return status, nil
}

// Recalculate manually re-runs the rollover chain ending at the given month's
// budget and everything after it. The chain starts at the preceding month so
// the named month itself is recomputed.
func (s *BudgetService) Recalculate(ctx context.Context, ownerID uuid.UUID, yearMonth string) (*rollover.ChainResult, error) {
	m, err := parseMonth(yearMonth)
	if err != nil {
		return nil, err
	}

	action := &actions.RecomputeChain{
		OwnerID:      ownerID,
		ChangedMonth: m.Prev(),
		Reason:       core.ReasonManual,
		Engine:       s.engine,
	}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}
	return action.Result, nil
}

// GetRolloverStatus reports the rollover bookkeeping state of a month's
// budget.
func (s *BudgetService) GetRolloverStatus(ctx context.Context, ownerID uuid.UUID, yearMonth string) (*rollover.Status, error) {
	m, err := parseMonth(yearMonth)
	if err != nil {
		return nil, err
	}
	return s.engine.GetStatus(ctx, ownerID, m)
}

// ListCalculations returns the rollover audit trail for one category of a
// month's budget, oldest first.
func (s *BudgetService) ListCalculations(ctx context.Context, ownerID uuid.UUID, yearMonth string, categoryID uuid.UUID) ([]core.RolloverCalculation, error) {
	m, err := parseMonth(yearMonth)
	if err != nil {
		return nil, err
	}
	budget, err := s.storage.Budgets().FindByMonth(ctx, ownerID, m.Key())
	if err != nil {
		return nil, err
	}
	return s.storage.Budgets().Calculations(ctx, budget.ID, categoryID)
}

func (s *BudgetService) ensureNoBudget(ctx context.Context, ownerID uuid.UUID, m month.Month) error {
	_, err := s.storage.Budgets().FindByMonth(ctx, ownerID, m.Key())
	if err == nil {
		return faults.Validation("a budget for %s already exists", m.Key())
	}
	if !faults.IsNotFound(err) {
		return err
	}
	return nil
}

func percentUsed(spent, effective decimal.Decimal) decimal.Decimal {
	if !effective.IsPositive() {
		return decimal.Zero
	}
	return spent.Div(effective).Mul(decimal.NewFromInt(100)).Round(2)
}

func classifySpending(spent, effective decimal.Decimal) string {
	if !effective.IsPositive() {
		if spent.IsPositive() {
			return StatusOverBudget
		}
		return StatusUnderBudget
	}
	if spent.GreaterThanOrEqual(effective) {
		return StatusOverBudget
	}
	if spent.GreaterThanOrEqual(effective.Mul(nearLimitRatio)) {
		return StatusNearLimit
	}
	return StatusUnderBudget
}
