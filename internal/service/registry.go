package service

import (
	"context"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-server/internal/core"
	"github.com/carson-networks/ledger-server/internal/faults"
	"github.com/carson-networks/ledger-server/internal/storage"
)

const defaultCurrency = "USD"

// RegistryService handles parties and the chart of accounts. Registry writes
// are plain inserts with no rollover consequences, so they go straight to
// storage instead of through the operator queue.
type RegistryService struct {
	storage storage.Store
	logger  *logrus.Logger
}

// NewRegistryService creates a new RegistryService.
func NewRegistryService(store storage.Store, logger *logrus.Logger) *RegistryService {
	return &RegistryService{storage: store, logger: logger}
}

// CreateParty creates a new party and returns it.
func (s *RegistryService) CreateParty(ctx context.Context, name, partyType string) (*core.Party, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, faults.Validation("party name must not be empty")
	}

	party := &core.Party{
		ID:        uuid.Must(uuid.NewV4()),
		Name:      name,
		Type:      partyType,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.storage.Parties().Insert(ctx, party); err != nil {
		return nil, err
	}
	return party, nil
}

// GetParty retrieves a party by ID.
func (s *RegistryService) GetParty(ctx context.Context, id uuid.UUID) (*core.Party, error) {
	return s.storage.Parties().FindByID(ctx, id)
}

// CreateAccount adds one account to the owner's chart of accounts. The
// parent, when given, must belong to the same owner.
func (s *RegistryService) CreateAccount(ctx context.Context, ownerID uuid.UUID, name string, accountType core.AccountType, parentID *uuid.UUID, currency string) (*core.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, faults.Validation("account name must not be empty")
	}
	if !accountType.Valid() {
		return nil, faults.Validation("unknown account type %q", accountType)
	}
	if currency == "" {
		currency = defaultCurrency
	}

	if parentID != nil {
		parent, err := s.storage.Accounts().FindByID(ctx, *parentID)
		if err != nil {
			if faults.IsNotFound(err) {
				return nil, faults.Validation("parent account %s does not exist", parentID)
			}
			return nil, err
		}
		if parent.OwnerID != ownerID {
			return nil, faults.Validation("parent account %s does not exist", parentID)
		}
	}

	account := &core.Account{
		ID:        uuid.Must(uuid.NewV4()),
		OwnerID:   ownerID,
		Name:      name,
		Type:      accountType,
		ParentID:  parentID,
		Currency:  currency,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.storage.Accounts().Insert(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// GetAccount retrieves one of the owner's accounts by ID.
func (s *RegistryService) GetAccount(ctx context.Context, ownerID, id uuid.UUID) (*core.Account, error) {
	account, err := s.storage.Accounts().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account.OwnerID != ownerID {
		return nil, faults.NotFound("account", id.String())
	}
	return account, nil
}

// GetOrCreateAccount finds the owner's account with the given name, creating
// it with the given type when absent. An existing account wins even when its
// type differs from the requested one.
func (s *RegistryService) GetOrCreateAccount(ctx context.Context, ownerID uuid.UUID, name string, accountType core.AccountType) (*core.Account, error) {
	account, err := s.storage.Accounts().FindByName(ctx, ownerID, strings.TrimSpace(name))
	if err == nil {
		return account, nil
	}
	if !faults.IsNotFound(err) {
		return nil, err
	}
	return s.CreateAccount(ctx, ownerID, name, accountType, nil, "")
}

// ListAccounts returns the owner's active accounts, optionally filtered by
// type.
func (s *RegistryService) ListAccounts(ctx context.Context, ownerID uuid.UUID, accountType *core.AccountType) ([]core.Account, error) {
	if accountType != nil && !accountType.Valid() {
		return nil, faults.Validation("unknown account type %q", *accountType)
	}
	return s.storage.Accounts().List(ctx, ownerID, accountType)
}

// ExpenseCategory resolves an account ID to a budget category: the account
// must exist, belong to the owner, and be an EXPENSE account.
func (s *RegistryService) ExpenseCategory(ctx context.Context, ownerID, accountID uuid.UUID) (*core.Account, error) {
	return expenseCategory(ctx, s.storage, ownerID, accountID)
}

func expenseCategory(ctx context.Context, store storage.Store, ownerID, accountID uuid.UUID) (*core.Account, error) {
	account, err := store.Accounts().FindByID(ctx, accountID)
	if err != nil {
		if faults.IsNotFound(err) {
			return nil, faults.Validation("category %s does not exist", accountID)
		}
		return nil, err
	}
	if account.OwnerID != ownerID {
		return nil, faults.Validation("category %s does not exist", accountID)
	}
	if account.Type != core.AccountTypeExpense {
		return nil, faults.Validation("account %q is %s, budget categories must be EXPENSE accounts", account.Name, account.Type)
	}
	return account, nil
}

// defaultAccounts is the starter chart of accounts seeded for a new party.
var defaultAccounts = []struct {
	name    string
	accType core.AccountType
	parent  string
}{
	{name: "Assets", accType: core.AccountTypeAsset},
	{name: "Liabilities", accType: core.AccountTypeLiability},
	{name: "Income", accType: core.AccountTypeIncome},
	{name: "Expenses", accType: core.AccountTypeExpense},
	{name: "Cash", accType: core.AccountTypeAsset, parent: "Assets"},
	{name: "Salary", accType: core.AccountTypeIncome, parent: "Income"},
	{name: "Groceries", accType: core.AccountTypeExpense, parent: "Expenses"},
}

// SeedDefaultAccounts creates the starter chart of accounts for an owner.
// Idempotent: accounts that already exist by name are left alone.
func (s *RegistryService) SeedDefaultAccounts(ctx context.Context, ownerID uuid.UUID) ([]core.Account, error) {
	created := make([]core.Account, 0, len(defaultAccounts))
	byName := make(map[string]uuid.UUID)

	for _, def := range defaultAccounts {
		existing, err := s.storage.Accounts().FindByName(ctx, ownerID, def.name)
		if err == nil {
			byName[def.name] = existing.ID
			continue
		}
		if !faults.IsNotFound(err) {
			return nil, err
		}

		var parentID *uuid.UUID
		if def.parent != "" {
			if id, ok := byName[def.parent]; ok {
				parentID = &id
			}
		}
		account, err := s.CreateAccount(ctx, ownerID, def.name, def.accType, parentID, defaultCurrency)
		if err != nil {
			return nil, err
		}
		byName[def.name] = account.ID
		created = append(created, *account)
	}

	s.logger.WithFields(logrus.Fields{
		"ownerID": ownerID,
		"created": len(created),
	}).Info("Registry.SeedDefaultAccounts.done")
	return created, nil
}
