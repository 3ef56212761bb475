package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/ledger-server/internal/core"
	"github.com/carson-networks/ledger-server/internal/faults"
)

// PartiesTable provides access to the parties table.
type PartiesTable struct {
	exec bob.Executor
}

var _ IPartyTable = (*PartiesTable)(nil)

func (t *PartiesTable) Insert(ctx context.Context, p *core.Party) error {
	q := psql.Insert(
		im.Into("parties", "id", "name", "type", "created_at"),
		im.Values(psql.Arg(p.ID, p.Name, p.Type, p.CreatedAt)),
	)
	_, err := bob.Exec(ctx, t.exec, q)
	return faults.Database("parties.Insert", err)
}

func (t *PartiesTable) FindByID(ctx context.Context, id uuid.UUID) (*core.Party, error) {
	q := psql.Select(
		sm.Columns("id", "name", "type", "created_at"),
		sm.From("parties"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	row, err := bob.One(ctx, t.exec, q, scan.StructMapper[core.Party]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, faults.NotFound("party", id.String())
	}
	if err != nil {
		return nil, faults.Database("parties.FindByID", err)
	}
	return &row, nil
}
