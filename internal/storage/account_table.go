package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/ledger-server/internal/core"
	"github.com/carson-networks/ledger-server/internal/faults"
)

// AccountsTable provides access to the accounts table.
type AccountsTable struct {
	exec bob.Executor
}

var _ IAccountTable = (*AccountsTable)(nil)

func (t *AccountsTable) Insert(ctx context.Context, a *core.Account) error {
	q := psql.Insert(
		im.Into("accounts", "id", "owner_id", "name", "type", "parent_id", "currency", "is_active", "created_at"),
		im.Values(psql.Arg(a.ID, a.OwnerID, a.Name, string(a.Type), a.ParentID, a.Currency, a.IsActive, a.CreatedAt)),
	)
	_, err := bob.Exec(ctx, t.exec, q)
	return faults.Database("accounts.Insert", err)
}

func (t *AccountsTable) FindByID(ctx context.Context, id uuid.UUID) (*core.Account, error) {
	q := psql.Select(
		sm.Columns("id", "owner_id", "name", "type", "parent_id", "currency", "is_active", "created_at"),
		sm.From("accounts"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	row, err := bob.One(ctx, t.exec, q, scan.StructMapper[core.Account]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, faults.NotFound("account", id.String())
	}
	if err != nil {
		return nil, faults.Database("accounts.FindByID", err)
	}
	return &row, nil
}

func (t *AccountsTable) FindByName(ctx context.Context, ownerID uuid.UUID, name string) (*core.Account, error) {
	q := psql.Select(
		sm.Columns("id", "owner_id", "name", "type", "parent_id", "currency", "is_active", "created_at"),
		sm.From("accounts"),
		sm.Where(psql.Quote("owner_id").EQ(psql.Arg(ownerID))),
		sm.Where(psql.Quote("name").EQ(psql.Arg(name))),
		sm.Where(psql.Quote("is_active").EQ(psql.Arg(true))),
	)
	row, err := bob.One(ctx, t.exec, q, scan.StructMapper[core.Account]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, faults.NotFound("account", name)
	}
	if err != nil {
		return nil, faults.Database("accounts.FindByName", err)
	}
	return &row, nil
}

func (t *AccountsTable) List(ctx context.Context, ownerID uuid.UUID, accountType *core.AccountType) ([]core.Account, error) {
	mods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns("id", "owner_id", "name", "type", "parent_id", "currency", "is_active", "created_at"),
		sm.From("accounts"),
		sm.Where(psql.Quote("owner_id").EQ(psql.Arg(ownerID))),
		sm.Where(psql.Quote("is_active").EQ(psql.Arg(true))),
		sm.OrderBy("name").Asc(),
	}
	if accountType != nil {
		mods = append(mods, sm.Where(psql.Quote("type").EQ(psql.Arg(string(*accountType)))))
	}
	rows, err := bob.All(ctx, t.exec, psql.Select(mods...), scan.StructMapper[core.Account]())
	if err != nil {
		return nil, faults.Database("accounts.List", err)
	}
	return rows, nil
}
