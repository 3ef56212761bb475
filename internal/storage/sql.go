package storage

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/ledger-server/internal/config"
	"github.com/carson-networks/ledger-server/internal/faults"
)

// SQLStore is the Postgres-backed Store built on Bob's psql dialect.
type SQLStore struct {
	db       *sql.DB
	exec     bob.Executor
	tx       bool
	parties  *PartiesTable
	accounts *AccountsTable
	ledger   *LedgerTable
	budgets  *BudgetsTable
}

var _ Store = (*SQLStore)(nil)

// NewStorage opens the database described by the config and returns the
// Store over it.
func NewStorage(env *config.Config) (*SQLStore, error) {
	connStr := "postgres://" + env.PostgresUsername + ":" +
		env.PostgresPassword + "@" + env.PostgresAddress + ":" +
		env.PostgresPort + "/" + env.PostgresDB + "?sslmode=disable"

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, faults.Database("sql.Open", err)
	}

	s := newSQLStore(bob.NewDB(db))
	s.db = db
	return s, nil
}

func newSQLStore(exec bob.Executor) *SQLStore {
	return &SQLStore{
		exec:     exec,
		parties:  &PartiesTable{exec: exec},
		accounts: &AccountsTable{exec: exec},
		ledger:   &LedgerTable{exec: exec},
		budgets:  &BudgetsTable{exec: exec},
	}
}

// DB exposes the raw handle for migrations and shutdown.
func (s *SQLStore) DB() *sql.DB { return s.db }

func (s *SQLStore) Parties() IPartyTable   { return s.parties }
func (s *SQLStore) Accounts() IAccountTable { return s.accounts }
func (s *SQLStore) Ledger() ILedgerTable   { return s.ledger }
func (s *SQLStore) Budgets() IBudgetTable  { return s.budgets }

// InTx begins a database transaction and runs fn against a store bound to
// it. On a store already bound to a transaction, fn joins it.
func (s *SQLStore) InTx(ctx context.Context, fn func(Store) error) error {
	if s.tx {
		return fn(s)
	}

	tx, err := bob.NewDB(s.db).BeginTx(ctx, nil)
	if err != nil {
		return faults.Database("begin", err)
	}

	txStore := newSQLStore(tx)
	txStore.db = s.db
	txStore.tx = true

	if err := fn(txStore); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return faults.Database("commit", err)
	}
	return nil
}
