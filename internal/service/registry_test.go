package service

import (
	"context"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"

	"github.com/carson-networks/ledger-server/internal/core"
	"github.com/carson-networks/ledger-server/internal/faults"
)

func TestCreateParty_RejectsEmptyName(t *testing.T) {
	f := newSvcFixture(t)
	_, err := f.svc.Registry.CreateParty(context.Background(), "   ", "person")
	assert.True(t, faults.IsValidation(err))
}

func TestCreateAccount_Validations(t *testing.T) {
	f := newSvcFixture(t)
	ctx := context.Background()

	_, err := f.svc.Registry.CreateAccount(ctx, f.owner, "", core.AccountTypeAsset, nil, "")
	assert.True(t, faults.IsValidation(err))

	_, err = f.svc.Registry.CreateAccount(ctx, f.owner, "Junk", core.AccountType("JUNK"), nil, "")
	assert.True(t, faults.IsValidation(err))

	phantom := uuid.Must(uuid.NewV4())
	_, err = f.svc.Registry.CreateAccount(ctx, f.owner, "Orphan", core.AccountTypeAsset, &phantom, "")
	assert.True(t, faults.IsValidation(err))
}

func TestCreateAccount_RejectsForeignParent(t *testing.T) {
	f := newSvcFixture(t)
	ctx := context.Background()

	other, err := f.svc.Registry.CreateParty(ctx, "Someone Else", "person")
	assert.NoError(t, err)
	theirs, err := f.svc.Registry.CreateAccount(ctx, other.ID, "Their Assets", core.AccountTypeAsset, nil, "")
	assert.NoError(t, err)

	_, err = f.svc.Registry.CreateAccount(ctx, f.owner, "Sneaky", core.AccountTypeAsset, &theirs.ID, "")
	assert.True(t, faults.IsValidation(err))
}

func TestGetOrCreateAccount(t *testing.T) {
	f := newSvcFixture(t)
	ctx := context.Background()

	// Existing account by name wins, even with a different requested type.
	got, err := f.svc.Registry.GetOrCreateAccount(ctx, f.owner, "Groceries", core.AccountTypeAsset)
	assert.NoError(t, err)
	assert.Equal(t, f.groceries, got.ID)
	assert.Equal(t, core.AccountTypeExpense, got.Type)

	created, err := f.svc.Registry.GetOrCreateAccount(ctx, f.owner, "Utilities", core.AccountTypeExpense)
	assert.NoError(t, err)
	assert.Equal(t, "Utilities", created.Name)

	again, err := f.svc.Registry.GetOrCreateAccount(ctx, f.owner, "Utilities", core.AccountTypeExpense)
	assert.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)
}

func TestListAccounts_FiltersByType(t *testing.T) {
	f := newSvcFixture(t)
	ctx := context.Background()

	expenseType := core.AccountTypeExpense
	expenses, err := f.svc.Registry.ListAccounts(ctx, f.owner, &expenseType)
	assert.NoError(t, err)
	assert.Len(t, expenses, 1)
	assert.Equal(t, "Groceries", expenses[0].Name)

	all, err := f.svc.Registry.ListAccounts(ctx, f.owner, nil)
	assert.NoError(t, err)
	assert.Len(t, all, 2)

	junk := core.AccountType("JUNK")
	_, err = f.svc.Registry.ListAccounts(ctx, f.owner, &junk)
	assert.True(t, faults.IsValidation(err))
}

func TestSeedDefaultAccounts_CreatesHierarchy(t *testing.T) {
	f := newSvcFixture(t)
	ctx := context.Background()

	owner, err := f.svc.Registry.CreateParty(ctx, "Fresh", "person")
	assert.NoError(t, err)

	created, err := f.svc.Registry.SeedDefaultAccounts(ctx, owner.ID)
	assert.NoError(t, err)
	assert.Len(t, created, 7)

	cash, err := f.svc.Registry.GetOrCreateAccount(ctx, owner.ID, "Cash", core.AccountTypeAsset)
	assert.NoError(t, err)
	assets, err := f.svc.Registry.GetOrCreateAccount(ctx, owner.ID, "Assets", core.AccountTypeAsset)
	assert.NoError(t, err)
	assert.NotNil(t, cash.ParentID)
	assert.Equal(t, assets.ID, *cash.ParentID)
}

func TestSeedDefaultAccounts_Idempotent(t *testing.T) {
	f := newSvcFixture(t)
	ctx := context.Background()

	owner, err := f.svc.Registry.CreateParty(ctx, "Fresh", "person")
	assert.NoError(t, err)

	_, err = f.svc.Registry.SeedDefaultAccounts(ctx, owner.ID)
	assert.NoError(t, err)
	second, err := f.svc.Registry.SeedDefaultAccounts(ctx, owner.ID)
	assert.NoError(t, err)
	assert.Empty(t, second)

	all, err := f.svc.Registry.ListAccounts(ctx, owner.ID, nil)
	assert.NoError(t, err)
	assert.Len(t, all, 7)
}

func TestExpenseCategory(t *testing.T) {
	f := newSvcFixture(t)
	ctx := context.Background()

	got, err := f.svc.Registry.ExpenseCategory(ctx, f.owner, f.groceries)
	assert.NoError(t, err)
	assert.Equal(t, f.groceries, got.ID)

	_, err = f.svc.Registry.ExpenseCategory(ctx, f.owner, f.cash)
	assert.True(t, faults.IsValidation(err), "non-expense account is not a category")

	_, err = f.svc.Registry.ExpenseCategory(ctx, f.owner, uuid.Must(uuid.NewV4()))
	assert.True(t, faults.IsValidation(err))
}
