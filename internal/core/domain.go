// Package core holds the domain types shared by storage, services, and the
// rollover engine.
package core

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// BalanceEpsilon is the tolerance for the double-entry law: the entries of a
// transaction must sum to zero within this bound.
var BalanceEpsilon = decimal.RequireFromString("0.0001")

// AccountType classifies an account in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeIncome    AccountType = "INCOME"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// Valid reports whether t is one of the four account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeIncome, AccountTypeExpense:
		return true
	}
	return false
}

// Party is an economic actor that owns accounts and budgets.
type Party struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	Type      string    `db:"type"`
	CreatedAt time.Time `db:"created_at"`
}

// Account is one node of a party's chart of accounts. Budget categories are
// EXPENSE accounts; see ExpenseCategory.
type Account struct {
	ID        uuid.UUID  `db:"id"`
	OwnerID   uuid.UUID  `db:"owner_id"`
	Name      string     `db:"name"`
	Type      AccountType `db:"type"`
	ParentID  *uuid.UUID `db:"parent_id"`
	Currency  string     `db:"currency"`
	IsActive  bool       `db:"is_active"`
	CreatedAt time.Time  `db:"created_at"`
}

// Transaction is one balanced economic event. Its entries are created with
// it atomically and replaced as a unit on edit.
type Transaction struct {
	ID          uuid.UUID `db:"id"`
	OwnerID     uuid.UUID `db:"owner_id"`
	Description string    `db:"description"`
	Notes       string    `db:"notes"`
	ExternalID  string    `db:"external_id"`
	OccurredOn  time.Time `db:"occurred_on"`
	IsDeleted   bool      `db:"is_deleted"`
	CreatedAt   time.Time `db:"created_at"`
}

// Entry is a signed posting against one account. Positive is a debit,
// negative a credit. OwnerID and OccurredOn are copies of the parent
// transaction's values so date-range aggregation is a single-table scan;
// the journal keeps them in sync on every write.
type Entry struct {
	ID            uuid.UUID       `db:"id"`
	TransactionID uuid.UUID       `db:"transaction_id"`
	AccountID     uuid.UUID       `db:"account_id"`
	OwnerID       uuid.UUID       `db:"owner_id"`
	OccurredOn    time.Time       `db:"occurred_on"`
	Amount        decimal.Decimal `db:"amount"`
	IsReportable  bool            `db:"is_reportable"`
}

// EntryInput is one posting supplied to the journal by a caller.
type EntryInput struct {
	AccountID    uuid.UUID
	Amount       decimal.Decimal
	IsReportable bool
}

// SumEntries returns the signed sum of the given postings.
func SumEntries(entries []EntryInput) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return total
}

// Balanced reports whether the postings satisfy the double-entry law.
func Balanced(entries []EntryInput) bool {
	return SumEntries(entries).Abs().LessThanOrEqual(BalanceEpsilon)
}

// Budget is one party's allocation plan for a single month.
type Budget struct {
	ID                       uuid.UUID  `db:"id"`
	OwnerID                  uuid.UUID  `db:"owner_id"`
	YearMonth                string     `db:"year_month"`
	IsActive                 bool       `db:"is_active"`
	RolloverLastCalculated   *time.Time `db:"rollover_last_calculated"`
	RolloverNeedsRecalc      bool       `db:"rollover_needs_recalc"`
	CreatedAt                time.Time  `db:"created_at"`
}

// CategoryBudget is one category's allocation inside a Budget.
// RolloverAmount is derived and cached; only the rollover engine writes it.
type CategoryBudget struct {
	ID              uuid.UUID       `db:"id"`
	BudgetID        uuid.UUID       `db:"budget_id"`
	CategoryID      uuid.UUID       `db:"category_id"`
	BudgetAmount    decimal.Decimal `db:"budget_amount"`
	RolloverEnabled bool            `db:"rollover_enabled"`
	RolloverAmount  decimal.Decimal `db:"rollover_amount"`
}

// EffectiveBudget is the stated amount plus the carried-forward rollover.
func (c CategoryBudget) EffectiveBudget() decimal.Decimal {
	return c.BudgetAmount.Add(c.RolloverAmount)
}

// RolloverReason records why a rollover recomputation ran.
type RolloverReason string

const (
	ReasonBudgetCreated      RolloverReason = "budget_created"
	ReasonBudgetCopied       RolloverReason = "budget_copied"
	ReasonBudgetUpdated      RolloverReason = "budget_updated"
	ReasonTransactionCreated RolloverReason = "transaction_created"
	ReasonTransactionUpdated RolloverReason = "transaction_updated"
	ReasonTransactionDeleted RolloverReason = "transaction_deleted"
	ReasonManual             RolloverReason = "manual_recalculation"
)

// RolloverCalculation is one append-only audit row describing a single
// rollover recomputation and all of its inputs.
type RolloverCalculation struct {
	ID              uuid.UUID       `db:"id"`
	BudgetID        uuid.UUID       `db:"budget_id"`
	CategoryID      uuid.UUID       `db:"category_id"`
	CalculatedAt    time.Time       `db:"calculated_at"`
	RolloverAmount  decimal.Decimal `db:"rollover_amount"`
	SourceMonth     string          `db:"source_month"`
	Reason          RolloverReason  `db:"reason"`
	BaseBudget      decimal.Decimal `db:"base_budget"`
	PrevRollover    decimal.Decimal `db:"prev_rollover"`
	EffectiveBudget decimal.Decimal `db:"effective_budget"`
	SpentAmount     decimal.Decimal `db:"spent_amount"`
}
