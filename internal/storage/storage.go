// Package storage defines the persistence surface of the ledger and its
// Postgres implementation. Tables are exposed behind interfaces so the
// implementation (Bob over lib/pq, or the in-memory memstore) can be swapped
// without changing callers.
package storage

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/core"
)

// Store bundles the ledger tables behind one connection or transaction.
//
// InTx runs fn against a transaction-scoped view of the store: every write fn
// makes commits together or rolls back together. Calling InTx on a store that
// is already transaction-scoped joins the surrounding transaction.
type Store interface {
	Parties() IPartyTable
	Accounts() IAccountTable
	Ledger() ILedgerTable
	Budgets() IBudgetTable
	InTx(ctx context.Context, fn func(Store) error) error
}

// IPartyTable defines party storage operations.
type IPartyTable interface {
	Insert(ctx context.Context, p *core.Party) error
	FindByID(ctx context.Context, id uuid.UUID) (*core.Party, error)
}

// IAccountTable defines chart-of-accounts storage operations.
type IAccountTable interface {
	Insert(ctx context.Context, a *core.Account) error
	FindByID(ctx context.Context, id uuid.UUID) (*core.Account, error)
	FindByName(ctx context.Context, ownerID uuid.UUID, name string) (*core.Account, error)
	// List returns the owner's active accounts, optionally filtered by type,
	// ordered by name.
	List(ctx context.Context, ownerID uuid.UUID, accountType *core.AccountType) ([]core.Account, error)
}

// ILedgerTable defines journal storage operations. Entries are written and
// removed only in whole-transaction units.
type ILedgerTable interface {
	InsertTransaction(ctx context.Context, t *core.Transaction) error
	UpdateTransaction(ctx context.Context, t *core.Transaction) error
	FindTransaction(ctx context.Context, id uuid.UUID) (*core.Transaction, error)
	ListTransactions(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]core.Transaction, error)
	InsertEntries(ctx context.Context, entries []core.Entry) error
	EntriesForTransaction(ctx context.Context, transactionID uuid.UUID) ([]core.Entry, error)
	DeleteEntries(ctx context.Context, transactionID uuid.UUID) error
	// SumAmounts returns the signed sum of entry amounts for one owner and
	// account over the inclusive [start, end] range. Zero when nothing matches.
	SumAmounts(ctx context.Context, ownerID, accountID uuid.UUID, start, end time.Time) (decimal.Decimal, error)
}

// IBudgetTable defines budget, category-budget, and rollover-audit storage
// operations. Rollover calculation rows are append-only: there is no update
// or delete for them.
type IBudgetTable interface {
	Insert(ctx context.Context, b *core.Budget) error
	FindByID(ctx context.Context, id uuid.UUID) (*core.Budget, error)
	FindByMonth(ctx context.Context, ownerID uuid.UUID, yearMonth string) (*core.Budget, error)
	// ListAfter returns the owner's active budgets with year_month strictly
	// greater than the given key, ordered ascending by year_month.
	ListAfter(ctx context.Context, ownerID uuid.UUID, yearMonth string) ([]core.Budget, error)
	SetRolloverStatus(ctx context.Context, budgetID uuid.UUID, needsRecalc bool, lastCalculated *time.Time) error

	InsertCategoryBudget(ctx context.Context, cb *core.CategoryBudget) error
	CategoryBudgets(ctx context.Context, budgetID uuid.UUID) ([]core.CategoryBudget, error)
	FindCategoryBudget(ctx context.Context, budgetID, categoryID uuid.UUID) (*core.CategoryBudget, error)
	UpdateCategoryBudget(ctx context.Context, id uuid.UUID, amount decimal.Decimal, rolloverEnabled bool) error
	SetRolloverAmount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error

	InsertCalculation(ctx context.Context, calc *core.RolloverCalculation) error
	Calculations(ctx context.Context, budgetID, categoryID uuid.UUID) ([]core.RolloverCalculation, error)
}
