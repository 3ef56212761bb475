package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/ledger-server/internal/core"
	"github.com/carson-networks/ledger-server/internal/faults"
)

// LedgerTable provides access to the ledger_transactions and entries tables.
type LedgerTable struct {
	exec bob.Executor
}

var _ ILedgerTable = (*LedgerTable)(nil)

func (t *LedgerTable) InsertTransaction(ctx context.Context, tr *core.Transaction) error {
	q := psql.Insert(
		im.Into("ledger_transactions",
			"id", "owner_id", "description", "notes", "external_id", "occurred_on", "is_deleted", "created_at"),
		im.Values(psql.Arg(tr.ID, tr.OwnerID, tr.Description, tr.Notes, tr.ExternalID, tr.OccurredOn, tr.IsDeleted, tr.CreatedAt)),
	)
	_, err := bob.Exec(ctx, t.exec, q)
	return faults.Database("ledger.InsertTransaction", err)
}

func (t *LedgerTable) UpdateTransaction(ctx context.Context, tr *core.Transaction) error {
	q := psql.Update(
		um.Table("ledger_transactions"),
		um.SetCol("description").ToArg(tr.Description),
		um.SetCol("notes").ToArg(tr.Notes),
		um.SetCol("external_id").ToArg(tr.ExternalID),
		um.SetCol("occurred_on").ToArg(tr.OccurredOn),
		um.SetCol("is_deleted").ToArg(tr.IsDeleted),
		um.Where(psql.Quote("id").EQ(psql.Arg(tr.ID))),
	)
	_, err := bob.Exec(ctx, t.exec, q)
	return faults.Database("ledger.UpdateTransaction", err)
}

func (t *LedgerTable) FindTransaction(ctx context.Context, id uuid.UUID) (*core.Transaction, error) {
	q := psql.Select(
		sm.Columns("id", "owner_id", "description", "notes", "external_id", "occurred_on", "is_deleted", "created_at"),
		sm.From("ledger_transactions"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	row, err := bob.One(ctx, t.exec, q, scan.StructMapper[core.Transaction]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, faults.NotFound("transaction", id.String())
	}
	if err != nil {
		return nil, faults.Database("ledger.FindTransaction", err)
	}
	return &row, nil
}

func (t *LedgerTable) ListTransactions(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]core.Transaction, error) {
	mods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns("id", "owner_id", "description", "notes", "external_id", "occurred_on", "is_deleted", "created_at"),
		sm.From("ledger_transactions"),
		sm.Where(psql.Quote("owner_id").EQ(psql.Arg(ownerID))),
		sm.Where(psql.Quote("is_deleted").EQ(psql.Arg(false))),
		sm.OrderBy("occurred_on").Desc(),
		sm.OrderBy("id").Desc(),
	}
	if limit > 0 {
		mods = append(mods, sm.Limit(limit))
	}
	if offset > 0 {
		mods = append(mods, sm.Offset(offset))
	}
	rows, err := bob.All(ctx, t.exec, psql.Select(mods...), scan.StructMapper[core.Transaction]())
	if err != nil {
		return nil, faults.Database("ledger.ListTransactions", err)
	}
	return rows, nil
}

func (t *LedgerTable) InsertEntries(ctx context.Context, entries []core.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	valueMods := make([]bob.Mod[*dialect.InsertQuery], 0, len(entries)+1)
	valueMods = append(valueMods, im.Into("entries",
		"id", "transaction_id", "account_id", "owner_id", "occurred_on", "amount", "is_reportable"))
	for _, e := range entries {
		valueMods = append(valueMods, im.Values(psql.Arg(
			e.ID, e.TransactionID, e.AccountID, e.OwnerID, e.OccurredOn, e.Amount, e.IsReportable)))
	}
	_, err := bob.Exec(ctx, t.exec, psql.Insert(valueMods...))
	return faults.Database("ledger.InsertEntries", err)
}

func (t *LedgerTable) EntriesForTransaction(ctx context.Context, transactionID uuid.UUID) ([]core.Entry, error) {
	q := psql.Select(
		sm.Columns("id", "transaction_id", "account_id", "owner_id", "occurred_on", "amount", "is_reportable"),
		sm.From("entries"),
		sm.Where(psql.Quote("transaction_id").EQ(psql.Arg(transactionID))),
	)
	rows, err := bob.All(ctx, t.exec, q, scan.StructMapper[core.Entry]())
	if err != nil {
		return nil, faults.Database("ledger.EntriesForTransaction", err)
	}
	return rows, nil
}

func (t *LedgerTable) DeleteEntries(ctx context.Context, transactionID uuid.UUID) error {
	q := psql.Delete(
		dm.From("entries"),
		dm.Where(psql.Quote("transaction_id").EQ(psql.Arg(transactionID))),
	)
	_, err := bob.Exec(ctx, t.exec, q)
	return faults.Database("ledger.DeleteEntries", err)
}

// SumAmounts sums signed entry amounts in Go rather than in SQL so decimal
// precision is preserved end to end.
func (t *LedgerTable) SumAmounts(ctx context.Context, ownerID, accountID uuid.UUID, start, end time.Time) (decimal.Decimal, error) {
	q := psql.Select(
		sm.Columns("amount"),
		sm.From("entries"),
		sm.Where(psql.Quote("owner_id").EQ(psql.Arg(ownerID))),
		sm.Where(psql.Quote("account_id").EQ(psql.Arg(accountID))),
		sm.Where(psql.Quote("occurred_on").GTE(psql.Arg(start))),
		sm.Where(psql.Quote("occurred_on").LTE(psql.Arg(end))),
	)
	amounts, err := bob.All(ctx, t.exec, q, scan.SingleColumnMapper[decimal.Decimal])
	if err != nil {
		return decimal.Zero, faults.Database("ledger.SumAmounts", err)
	}
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total, nil
}
