// Package rollover computes, caches, and re-propagates month-to-month budget
// rollover amounts.
//
// The month dependency is a chain, not a tree: month N+1's rollover is
// derived from month N's already-committed rollover. The engine therefore
// never recurses; it materializes the affected months as an ordered work
// list keyed by "YYYY-MM" and walks it ascending, committing each month as
// its own transaction before reading it back for the next one.
package rollover

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-server/internal/core"
	"github.com/carson-networks/ledger-server/internal/faults"
	"github.com/carson-networks/ledger-server/internal/month"
	"github.com/carson-networks/ledger-server/internal/notify"
	"github.com/carson-networks/ledger-server/internal/spend"
	"github.com/carson-networks/ledger-server/internal/storage"
)

// churnThreshold suppresses cache writes for sub-cent deltas so repeated
// walks don't rewrite rows over floating-point noise.
var churnThreshold = decimal.RequireFromString("0.01")

// Engine owns every write to CategoryBudget.RolloverAmount.
type Engine struct {
	store    storage.Store
	notifier notify.Broadcaster
	logger   *logrus.Logger
	now      func() time.Time
}

// NewEngine returns an Engine over the given store. notifier may be nil.
func NewEngine(store storage.Store, notifier notify.Broadcaster, logger *logrus.Logger) *Engine {
	return &Engine{
		store:    store,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Calculation is one category's rollover for one month together with the
// intermediate values that produced it.
type Calculation struct {
	Rollover        decimal.Decimal
	SourceMonth     string
	BaseBudget      decimal.Decimal
	PrevRollover    decimal.Decimal
	EffectiveBudget decimal.Decimal
	SpentAmount     decimal.Decimal
}

// ChainResult reports which months a chain walk touched.
type ChainResult struct {
	Recomputed []string
	Failed     []string
}

// Status is the rollover bookkeeping state of one budget.
type Status struct {
	YearMonth      string
	LastCalculated *time.Time
	NeedsRecalc    bool
}

// CalculateRollover derives the rollover carried into month m for one
// category, reading only already-committed state of m's predecessor.
//
// The base case: no budget or no category allocation in the previous month
// means there is nothing to carry forward, so the rollover is zero. The
// rollover_enabled flag consulted is the previous month's, since it is that
// month's remainder being carried out.
func (e *Engine) CalculateRollover(ctx context.Context, s storage.Store, ownerID, categoryID uuid.UUID, m month.Month) (*Calculation, error) {
	prev := m.Prev()
	calc := &Calculation{
		Rollover:        decimal.Zero,
		SourceMonth:     prev.Key(),
		BaseBudget:      decimal.Zero,
		PrevRollover:    decimal.Zero,
		EffectiveBudget: decimal.Zero,
		SpentAmount:     decimal.Zero,
	}

	prevBudget, err := s.Budgets().FindByMonth(ctx, ownerID, prev.Key())
	if faults.IsNotFound(err) {
		return calc, nil
	}
	if err != nil {
		return nil, err
	}

	prevCat, err := s.Budgets().FindCategoryBudget(ctx, prevBudget.ID, categoryID)
	if faults.IsNotFound(err) {
		return calc, nil
	}
	if err != nil {
		return nil, err
	}

	spent, err := spend.New(s.Ledger()).MonthSpend(ctx, ownerID, categoryID, prev)
	if err != nil {
		return nil, err
	}

	calc.BaseBudget = prevCat.BudgetAmount
	calc.PrevRollover = prevCat.RolloverAmount
	calc.EffectiveBudget = prevCat.EffectiveBudget()
	calc.SpentAmount = spent

	if prevCat.RolloverEnabled {
		// Positive difference: leftover carried forward. Negative:
		// overspend deducted from the next month.
		calc.Rollover = calc.EffectiveBudget.Sub(spent)
	}
	return calc, nil
}

// RecomputeChain marks every budget after changed stale, then walks them in
// ascending month order, recomputing and committing each month as its own
// transaction.
//
// A month that fails is rolled back, logged, and left flagged for a later
// retry; the walk continues downstream so one bad month never blocks the
// rest. Months computed against a stale predecessor are corrected by the
// next full walk once the predecessor succeeds.
func (e *Engine) RecomputeChain(ctx context.Context, ownerID uuid.UUID, changed month.Month, reason core.RolloverReason) (*ChainResult, error) {
	var chain []core.Budget
	err := e.store.InTx(ctx, func(s storage.Store) error {
		budgets, err := s.Budgets().ListAfter(ctx, ownerID, changed.Key())
		if err != nil {
			return err
		}
		for _, b := range budgets {
			if err := s.Budgets().SetRolloverStatus(ctx, b.ID, true, b.RolloverLastCalculated); err != nil {
				return err
			}
		}
		chain = budgets
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &ChainResult{}
	for _, b := range chain {
		m, err := month.Parse(b.YearMonth)
		if err != nil {
			e.logger.WithError(err).WithField("budgetID", b.ID).Error("Rollover.RecomputeChain.bad month key")
			result.Failed = append(result.Failed, b.YearMonth)
			continue
		}

		if err := e.recomputeMonth(ctx, ownerID, b.ID, m, reason); err != nil {
			e.logger.WithError(err).WithFields(logrus.Fields{
				"ownerID":   ownerID,
				"yearMonth": b.YearMonth,
			}).Error("Rollover.RecomputeChain.month failed, continuing")
			result.Failed = append(result.Failed, b.YearMonth)
			continue
		}
		result.Recomputed = append(result.Recomputed, b.YearMonth)

		if e.notifier != nil {
			e.notifier.Broadcast(ctx, notify.Event{
				OwnerID:   ownerID,
				YearMonth: b.YearMonth,
				Reason:    string(reason),
				At:        e.now().UTC(),
			})
		}
	}
	return result, nil
}

// recomputeMonth recalculates every category of one budget and commits the
// whole month atomically: the cached amounts, the audit rows, and the
// cleared stale flag land together or not at all.
func (e *Engine) recomputeMonth(ctx context.Context, ownerID, budgetID uuid.UUID, m month.Month, reason core.RolloverReason) error {
	now := e.now().UTC()

	return e.store.InTx(ctx, func(s storage.Store) error {
		cats, err := s.Budgets().CategoryBudgets(ctx, budgetID)
		if err != nil {
			return err
		}

		for _, cb := range cats {
			calc, err := e.CalculateRollover(ctx, s, ownerID, cb.CategoryID, m)
			if err != nil {
				return err
			}

			if calc.Rollover.Sub(cb.RolloverAmount).Abs().GreaterThan(churnThreshold) {
				if err := s.Budgets().SetRolloverAmount(ctx, cb.ID, calc.Rollover); err != nil {
					return err
				}
			}

			audit := &core.RolloverCalculation{
				ID:              uuid.Must(uuid.NewV4()),
				BudgetID:        budgetID,
				CategoryID:      cb.CategoryID,
				CalculatedAt:    now,
				RolloverAmount:  calc.Rollover,
				SourceMonth:     calc.SourceMonth,
				Reason:          reason,
				BaseBudget:      calc.BaseBudget,
				PrevRollover:    calc.PrevRollover,
				EffectiveBudget: calc.EffectiveBudget,
				SpentAmount:     calc.SpentAmount,
			}
			if err := s.Budgets().InsertCalculation(ctx, audit); err != nil {
				return err
			}
		}

		calculated := now
		return s.Budgets().SetRolloverStatus(ctx, budgetID, false, &calculated)
	})
}

// GetStatus reports the rollover bookkeeping state of the owner's budget for
// the given month.
func (e *Engine) GetStatus(ctx context.Context, ownerID uuid.UUID, m month.Month) (*Status, error) {
	b, err := e.store.Budgets().FindByMonth(ctx, ownerID, m.Key())
	if err != nil {
		return nil, err
	}
	return &Status{
		YearMonth:      b.YearMonth,
		LastCalculated: b.RolloverLastCalculated,
		NeedsRecalc:    b.RolloverNeedsRecalc,
	}, nil
}
