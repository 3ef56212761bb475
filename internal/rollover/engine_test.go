package rollover

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/carson-networks/ledger-server/internal/core"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/month"
	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/memstore"
)

type fixture struct {
	store     *memstore.Store
	engine    *Engine
	owner     uuid.UUID
	cash      uuid.UUID
	groceries uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	ctx := context.Background()

	owner := uuid.Must(uuid.NewV4())
	err := store.Parties().Insert(ctx, &core.Party{ID: owner, Name: "Tester", Type: "person", CreatedAt: time.Now().UTC()})
	assert.NoError(t, err)

	cash := addAccount(t, store, owner, "Cash", core.AccountTypeAsset)
	groceries := addAccount(t, store, owner, "Groceries", core.AccountTypeExpense)

	return &fixture{
		store:     store,
		engine:    NewEngine(store, nil, logging.SetupLogging()),
		owner:     owner,
		cash:      cash,
		groceries: groceries,
	}
}

func addAccount(t *testing.T, store *memstore.Store, owner uuid.UUID, name string, accountType core.AccountType) uuid.UUID {
	t.Helper()
	id := uuid.Must(uuid.NewV4())
	err := store.Accounts().Insert(context.Background(), &core.Account{
		ID:        id,
		OwnerID:   owner,
		Name:      name,
		Type:      accountType,
		Currency:  "USD",
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	})
	assert.NoError(t, err)
	return id
}

// addBudget inserts a budget with one category allocation and returns both IDs.
func (f *fixture) addBudget(t *testing.T, key string, amount string, rolloverEnabled bool) (uuid.UUID, uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	budgetID := uuid.Must(uuid.NewV4())
	err := f.store.Budgets().Insert(ctx, &core.Budget{
		ID:        budgetID,
		OwnerID:   f.owner,
		YearMonth: key,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	})
	assert.NoError(t, err)

	cbID := uuid.Must(uuid.NewV4())
	err = f.store.Budgets().InsertCategoryBudget(ctx, &core.CategoryBudget{
		ID:              cbID,
		BudgetID:        budgetID,
		CategoryID:      f.groceries,
		BudgetAmount:    decimal.RequireFromString(amount),
		RolloverEnabled: rolloverEnabled,
		RolloverAmount:  decimal.Zero,
	})
	assert.NoError(t, err)
	return budgetID, cbID
}

// spend records a balanced transaction debiting groceries on the given date.
func (f *fixture) spend(t *testing.T, date time.Time, amount string) {
	t.Helper()
	ctx := context.Background()
	amt := decimal.RequireFromString(amount)
	txID := uuid.Must(uuid.NewV4())

	err := f.store.InTx(ctx, func(s storage.Store) error {
		if err := s.Ledger().InsertTransaction(ctx, &core.Transaction{
			ID:          txID,
			OwnerID:     f.owner,
			Description: "groceries run",
			OccurredOn:  date,
			CreatedAt:   time.Now().UTC(),
		}); err != nil {
			return err
		}
		return s.Ledger().InsertEntries(ctx, []core.Entry{
			{ID: uuid.Must(uuid.NewV4()), TransactionID: txID, AccountID: f.groceries, OwnerID: f.owner, OccurredOn: date, Amount: amt, IsReportable: true},
			{ID: uuid.Must(uuid.NewV4()), TransactionID: txID, AccountID: f.cash, OwnerID: f.owner, OccurredOn: date, Amount: amt.Neg(), IsReportable: true},
		})
	})
	assert.NoError(t, err)
}

func (f *fixture) categoryBudget(t *testing.T, budgetID uuid.UUID) *core.CategoryBudget {
	t.Helper()
	cb, err := f.store.Budgets().FindCategoryBudget(context.Background(), budgetID, f.groceries)
	assert.NoError(t, err)
	return cb
}

func (f *fixture) budget(t *testing.T, budgetID uuid.UUID) *core.Budget {
	t.Helper()
	b, err := f.store.Budgets().FindByID(context.Background(), budgetID)
	assert.NoError(t, err)
	return b
}

func mid(key string, day int) time.Time {
	m, err := month.Parse(key)
	if err != nil {
		panic(err)
	}
	return m.Start().AddDate(0, 0, day-1).Add(12 * time.Hour)
}

// -- CalculateRollover unit tests --

func TestCalculateRollover_LeftoverCarriesForward(t *testing.T) {
	f := newFixture(t)
	f.addBudget(t, "2025-01", "100", true)
	f.spend(t, mid("2025-01", 10), "80")

	calc, err := f.engine.CalculateRollover(context.Background(), f.store, f.owner, f.groceries, month.New(2025, time.February))
	assert.NoError(t, err)
	assert.True(t, calc.Rollover.Equal(decimal.RequireFromString("20")), "got %s", calc.Rollover)
	assert.Equal(t, "2025-01", calc.SourceMonth)
	assert.True(t, calc.SpentAmount.Equal(decimal.RequireFromString("80")))
	assert.True(t, calc.EffectiveBudget.Equal(decimal.RequireFromString("100")))
}

func TestCalculateRollover_OverspendCarriesNegative(t *testing.T) {
	f := newFixture(t)
	f.addBudget(t, "2025-01", "100", true)
	f.spend(t, mid("2025-01", 5), "150")

	calc, err := f.engine.CalculateRollover(context.Background(), f.store, f.owner, f.groceries, month.New(2025, time.February))
	assert.NoError(t, err)
	assert.True(t, calc.Rollover.Equal(decimal.RequireFromString("-50")), "got %s", calc.Rollover)
}

func TestCalculateRollover_NoPreviousBudget(t *testing.T) {
	f := newFixture(t)
	f.spend(t, mid("2025-01", 5), "80")

	calc, err := f.engine.CalculateRollover(context.Background(), f.store, f.owner, f.groceries, month.New(2025, time.February))
	assert.NoError(t, err)
	assert.True(t, calc.Rollover.IsZero())
	assert.True(t, calc.EffectiveBudget.IsZero())
}

func TestCalculateRollover_NoPreviousAllocation(t *testing.T) {
	f := newFixture(t)
	f.addBudget(t, "2025-01", "100", true)

	// A category the January budget never allocated.
	dining := addAccount(t, f.store, f.owner, "Dining", core.AccountTypeExpense)

	calc, err := f.engine.CalculateRollover(context.Background(), f.store, f.owner, dining, month.New(2025, time.February))
	assert.NoError(t, err)
	assert.True(t, calc.Rollover.IsZero())
}

func TestCalculateRollover_DisabledFlagYieldsZero(t *testing.T) {
	f := newFixture(t)
	f.addBudget(t, "2025-01", "100", false)
	f.spend(t, mid("2025-01", 5), "20")

	calc, err := f.engine.CalculateRollover(context.Background(), f.store, f.owner, f.groceries, month.New(2025, time.February))
	assert.NoError(t, err)
	assert.True(t, calc.Rollover.IsZero())
	// Inputs are still reported for the audit trail.
	assert.True(t, calc.SpentAmount.Equal(decimal.RequireFromString("20")))
	assert.True(t, calc.BaseBudget.Equal(decimal.RequireFromString("100")))
}

func TestCalculateRollover_UsesEffectiveBudget(t *testing.T) {
	f := newFixture(t)
	_, cbID := f.addBudget(t, "2025-01", "100", true)
	err := f.store.Budgets().SetRolloverAmount(context.Background(), cbID, decimal.RequireFromString("25"))
	assert.NoError(t, err)
	f.spend(t, mid("2025-01", 5), "80")

	// (100 + 25) - 80 = 45.
	calc, err := f.engine.CalculateRollover(context.Background(), f.store, f.owner, f.groceries, month.New(2025, time.February))
	assert.NoError(t, err)
	assert.True(t, calc.Rollover.Equal(decimal.RequireFromString("45")), "got %s", calc.Rollover)
	assert.True(t, calc.PrevRollover.Equal(decimal.RequireFromString("25")))
}

// -- RecomputeChain tests --

func TestRecomputeChain_PropagatesLeftover(t *testing.T) {
	f := newFixture(t)
	f.addBudget(t, "2025-01", "100", true)
	febID, _ := f.addBudget(t, "2025-02", "100", true)
	f.spend(t, mid("2025-01", 10), "80")

	result, err := f.engine.RecomputeChain(context.Background(), f.owner, month.New(2025, time.January), core.ReasonTransactionCreated)
	assert.NoError(t, err)
	assert.Equal(t, []string{"2025-02"}, result.Recomputed)
	assert.Empty(t, result.Failed)

	cb := f.categoryBudget(t, febID)
	assert.True(t, cb.RolloverAmount.Equal(decimal.RequireFromString("20")), "got %s", cb.RolloverAmount)

	b := f.budget(t, febID)
	assert.False(t, b.RolloverNeedsRecalc)
	assert.NotNil(t, b.RolloverLastCalculated)
}

func TestRecomputeChain_RolloverCompounds(t *testing.T) {
	f := newFixture(t)
	f.addBudget(t, "2025-01", "100", true)
	febID, _ := f.addBudget(t, "2025-02", "100", true)
	marID, _ := f.addBudget(t, "2025-03", "100", true)
	f.spend(t, mid("2025-01", 10), "80")
	f.spend(t, mid("2025-02", 10), "90")

	result, err := f.engine.RecomputeChain(context.Background(), f.owner, month.New(2025, time.January), core.ReasonManual)
	assert.NoError(t, err)
	assert.Equal(t, []string{"2025-02", "2025-03"}, result.Recomputed)

	// Feb: 100 - 80 = 20. Mar: (100 + 20) - 90 = 30.
	assert.True(t, f.categoryBudget(t, febID).RolloverAmount.Equal(decimal.RequireFromString("20")))
	assert.True(t, f.categoryBudget(t, marID).RolloverAmount.Equal(decimal.RequireFromString("30")))
}

func TestRecomputeChain_LateTransactionReflowsDownstream(t *testing.T) {
	f := newFixture(t)
	f.addBudget(t, "2025-01", "100", true)
	febID, _ := f.addBudget(t, "2025-02", "100", true)
	marID, _ := f.addBudget(t, "2025-03", "100", true)
	f.spend(t, mid("2025-01", 10), "80")

	_, err := f.engine.RecomputeChain(context.Background(), f.owner, month.New(2025, time.January), core.ReasonTransactionCreated)
	assert.NoError(t, err)
	assert.True(t, f.categoryBudget(t, febID).RolloverAmount.Equal(decimal.RequireFromString("20")))

	// A January transaction lands late: spend becomes 110.
	f.spend(t, mid("2025-01", 28), "30")
	result, err := f.engine.RecomputeChain(context.Background(), f.owner, month.New(2025, time.January), core.ReasonTransactionCreated)
	assert.NoError(t, err)
	assert.Equal(t, []string{"2025-02", "2025-03"}, result.Recomputed)

	// Feb: 100 - 110 = -10. Mar: (100 - 10) - 0 = 90.
	assert.True(t, f.categoryBudget(t, febID).RolloverAmount.Equal(decimal.RequireFromString("-10")))
	assert.True(t, f.categoryBudget(t, marID).RolloverAmount.Equal(decimal.RequireFromString("90")))
}

func TestRecomputeChain_Idempotent(t *testing.T) {
	f := newFixture(t)
	f.addBudget(t, "2025-01", "100", true)
	febID, _ := f.addBudget(t, "2025-02", "100", true)
	f.spend(t, mid("2025-01", 10), "80")

	_, err := f.engine.RecomputeChain(context.Background(), f.owner, month.New(2025, time.January), core.ReasonManual)
	assert.NoError(t, err)
	first := f.categoryBudget(t, febID).RolloverAmount

	_, err = f.engine.RecomputeChain(context.Background(), f.owner, month.New(2025, time.January), core.ReasonManual)
	assert.NoError(t, err)
	assert.True(t, f.categoryBudget(t, febID).RolloverAmount.Equal(first))
}

func TestRecomputeChain_AppendsAuditRows(t *testing.T) {
	f := newFixture(t)
	f.addBudget(t, "2025-01", "100", true)
	febID, _ := f.addBudget(t, "2025-02", "100", true)
	f.spend(t, mid("2025-01", 10), "80")

	ctx := context.Background()
	_, err := f.engine.RecomputeChain(ctx, f.owner, month.New(2025, time.January), core.ReasonTransactionCreated)
	assert.NoError(t, err)
	_, err = f.engine.RecomputeChain(ctx, f.owner, month.New(2025, time.January), core.ReasonManual)
	assert.NoError(t, err)

	rows, err := f.store.Budgets().Calculations(ctx, febID, f.groceries)
	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, core.ReasonTransactionCreated, rows[0].Reason)
	assert.Equal(t, core.ReasonManual, rows[1].Reason)
	for _, row := range rows {
		assert.Equal(t, "2025-01", row.SourceMonth)
		assert.True(t, row.RolloverAmount.Equal(decimal.RequireFromString("20")))
		assert.True(t, row.SpentAmount.Equal(decimal.RequireFromString("80")))
	}
}

func TestRecomputeChain_FailedMonthIsIsolated(t *testing.T) {
	f := newFixture(t)
	f.addBudget(t, "2025-01", "100", true)
	febID, febCB := f.addBudget(t, "2025-02", "100", true)
	marID, _ := f.addBudget(t, "2025-03", "100", true)
	f.spend(t, mid("2025-01", 10), "80")

	f.store.FailureHook = func(op string, id uuid.UUID) error {
		if op == "budgets.SetRolloverAmount" && id == febCB {
			return assert.AnError
		}
		return nil
	}

	result, err := f.engine.RecomputeChain(context.Background(), f.owner, month.New(2025, time.January), core.ReasonTransactionCreated)
	assert.NoError(t, err)
	assert.Equal(t, []string{"2025-02"}, result.Failed)
	assert.Equal(t, []string{"2025-03"}, result.Recomputed)

	// February rolled back wholesale: no cached amount, no audit row, and it
	// stays flagged for a retry.
	cb := f.categoryBudget(t, febID)
	assert.True(t, cb.RolloverAmount.IsZero())
	rows, err := f.store.Budgets().Calculations(context.Background(), febID, f.groceries)
	assert.NoError(t, err)
	assert.Empty(t, rows)
	assert.True(t, f.budget(t, febID).RolloverNeedsRecalc)

	// March was still walked.
	assert.False(t, f.budget(t, marID).RolloverNeedsRecalc)

	// The retry heals February once the fault clears.
	f.store.FailureHook = nil
	result, err = f.engine.RecomputeChain(context.Background(), f.owner, month.New(2025, time.January), core.ReasonManual)
	assert.NoError(t, err)
	assert.Equal(t, []string{"2025-02", "2025-03"}, result.Recomputed)
	assert.True(t, f.categoryBudget(t, febID).RolloverAmount.Equal(decimal.RequireFromString("20")))
	assert.False(t, f.budget(t, febID).RolloverNeedsRecalc)
}

func TestRecomputeChain_OnlyMonthsAfterChange(t *testing.T) {
	f := newFixture(t)
	janID, _ := f.addBudget(t, "2025-01", "100", true)
	f.addBudget(t, "2025-02", "100", true)

	result, err := f.engine.RecomputeChain(context.Background(), f.owner, month.New(2025, time.January), core.ReasonManual)
	assert.NoError(t, err)
	assert.Equal(t, []string{"2025-02"}, result.Recomputed)

	// January itself is untouched: nothing before the change is stale.
	assert.False(t, f.budget(t, janID).RolloverNeedsRecalc)
}

func TestGetStatus(t *testing.T) {
	f := newFixture(t)
	f.addBudget(t, "2025-01", "100", true)
	f.addBudget(t, "2025-02", "100", true)

	ctx := context.Background()
	status, err := f.engine.GetStatus(ctx, f.owner, month.New(2025, time.February))
	assert.NoError(t, err)
	assert.Equal(t, "2025-02", status.YearMonth)
	assert.False(t, status.NeedsRecalc)
	assert.Nil(t, status.LastCalculated)

	_, err = f.engine.RecomputeChain(ctx, f.owner, month.New(2025, time.January), core.ReasonManual)
	assert.NoError(t, err)

	status, err = f.engine.GetStatus(ctx, f.owner, month.New(2025, time.February))
	assert.NoError(t, err)
	assert.NotNil(t, status.LastCalculated)
}
