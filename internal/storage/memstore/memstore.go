// Package memstore is an in-memory implementation of storage.Store. It backs
// local development without Postgres and the service and engine tests, where
// its transaction snapshots make commit/rollback behavior observable.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/core"
	"github.com/carson-networks/ledger-server/internal/faults"
	"github.com/carson-networks/ledger-server/internal/storage"
)

type data struct {
	parties         map[uuid.UUID]core.Party
	accounts        map[uuid.UUID]core.Account
	transactions    map[uuid.UUID]core.Transaction
	entries         map[uuid.UUID]core.Entry
	budgets         map[uuid.UUID]core.Budget
	categoryBudgets map[uuid.UUID]core.CategoryBudget
	calculations    []core.RolloverCalculation
}

func newData() *data {
	return &data{
		parties:         make(map[uuid.UUID]core.Party),
		accounts:        make(map[uuid.UUID]core.Account),
		transactions:    make(map[uuid.UUID]core.Transaction),
		entries:         make(map[uuid.UUID]core.Entry),
		budgets:         make(map[uuid.UUID]core.Budget),
		categoryBudgets: make(map[uuid.UUID]core.CategoryBudget),
	}
}

func (d *data) clone() *data {
	c := newData()
	for k, v := range d.parties {
		c.parties[k] = v
	}
	for k, v := range d.accounts {
		c.accounts[k] = v
	}
	for k, v := range d.transactions {
		c.transactions[k] = v
	}
	for k, v := range d.entries {
		c.entries[k] = v
	}
	for k, v := range d.budgets {
		if v.RolloverLastCalculated != nil {
			t := *v.RolloverLastCalculated
			v.RolloverLastCalculated = &t
		}
		c.budgets[k] = v
	}
	for k, v := range d.categoryBudgets {
		c.categoryBudgets[k] = v
	}
	c.calculations = append([]core.RolloverCalculation(nil), d.calculations...)
	return c
}

// Store is the in-memory storage.Store.
type Store struct {
	mu     sync.Mutex
	data   *data
	locked bool

	// FailureHook, when set, is consulted before every write with the
	// operation name and the primary ID involved. Returning an error makes
	// the write fail, which lets tests simulate persistence faults.
	FailureHook func(op string, id uuid.UUID) error
}

var _ storage.Store = (*Store)(nil)

// New returns an empty in-memory store.
func New() *Store {
	return &Store{data: newData()}
}

func (s *Store) Parties() storage.IPartyTable   { return &partyView{s} }
func (s *Store) Accounts() storage.IAccountTable { return &accountView{s} }
func (s *Store) Ledger() storage.ILedgerTable   { return &ledgerView{s} }
func (s *Store) Budgets() storage.IBudgetTable  { return &budgetView{s} }

// InTx snapshots the state, runs fn against the snapshot, and swaps it in on
// success. An error from fn discards the snapshot, so partial writes are
// never visible. The store-wide lock is held for the whole transaction.
func (s *Store) InTx(ctx context.Context, fn func(storage.Store) error) error {
	if s.locked {
		return fn(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	txStore := &Store{data: snapshot, locked: true, FailureHook: s.FailureHook}
	if err := fn(txStore); err != nil {
		return err
	}
	s.data = snapshot
	return nil
}

func (s *Store) lock() func() {
	if s.locked {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) failWrite(op string, id uuid.UUID) error {
	if s.FailureHook == nil {
		return nil
	}
	return s.FailureHook(op, id)
}

// -- parties --

type partyView struct{ s *Store }

func (v *partyView) Insert(ctx context.Context, p *core.Party) error {
	defer v.s.lock()()
	if err := v.s.failWrite("parties.Insert", p.ID); err != nil {
		return err
	}
	v.s.data.parties[p.ID] = *p
	return nil
}

func (v *partyView) FindByID(ctx context.Context, id uuid.UUID) (*core.Party, error) {
	defer v.s.lock()()
	p, ok := v.s.data.parties[id]
	if !ok {
		return nil, faults.NotFound("party", id.String())
	}
	return &p, nil
}

// -- accounts --

type accountView struct{ s *Store }

func (v *accountView) Insert(ctx context.Context, a *core.Account) error {
	defer v.s.lock()()
	if err := v.s.failWrite("accounts.Insert", a.ID); err != nil {
		return err
	}
	v.s.data.accounts[a.ID] = *a
	return nil
}

func (v *accountView) FindByID(ctx context.Context, id uuid.UUID) (*core.Account, error) {
	defer v.s.lock()()
	a, ok := v.s.data.accounts[id]
	if !ok {
		return nil, faults.NotFound("account", id.String())
	}
	return &a, nil
}

func (v *accountView) FindByName(ctx context.Context, ownerID uuid.UUID, name string) (*core.Account, error) {
	defer v.s.lock()()
	for _, a := range v.s.data.accounts {
		if a.OwnerID == ownerID && a.Name == name && a.IsActive {
			found := a
			return &found, nil
		}
	}
	return nil, faults.NotFound("account", name)
}

func (v *accountView) List(ctx context.Context, ownerID uuid.UUID, accountType *core.AccountType) ([]core.Account, error) {
	defer v.s.lock()()
	var out []core.Account
	for _, a := range v.s.data.accounts {
		if a.OwnerID != ownerID || !a.IsActive {
			continue
		}
		if accountType != nil && a.Type != *accountType {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// -- ledger --

type ledgerView struct{ s *Store }

func (v *ledgerView) InsertTransaction(ctx context.Context, t *core.Transaction) error {
	defer v.s.lock()()
	if err := v.s.failWrite("ledger.InsertTransaction", t.ID); err != nil {
		return err
	}
	v.s.data.transactions[t.ID] = *t
	return nil
}

func (v *ledgerView) UpdateTransaction(ctx context.Context, t *core.Transaction) error {
	defer v.s.lock()()
	if err := v.s.failWrite("ledger.UpdateTransaction", t.ID); err != nil {
		return err
	}
	if _, ok := v.s.data.transactions[t.ID]; !ok {
		return faults.NotFound("transaction", t.ID.String())
	}
	v.s.data.transactions[t.ID] = *t
	return nil
}

func (v *ledgerView) FindTransaction(ctx context.Context, id uuid.UUID) (*core.Transaction, error) {
	defer v.s.lock()()
	t, ok := v.s.data.transactions[id]
	if !ok {
		return nil, faults.NotFound("transaction", id.String())
	}
	return &t, nil
}

func (v *ledgerView) ListTransactions(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]core.Transaction, error) {
	defer v.s.lock()()
	var out []core.Transaction
	for _, t := range v.s.data.transactions {
		if t.OwnerID == ownerID && !t.IsDeleted {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OccurredOn.After(out[j].OccurredOn) })
	if offset > 0 {
		if offset >= len(out) {
			return nil, nil
		}
		out = out[offset:]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (v *ledgerView) InsertEntries(ctx context.Context, entries []core.Entry) error {
	defer v.s.lock()()
	for _, e := range entries {
		if err := v.s.failWrite("ledger.InsertEntries", e.ID); err != nil {
			return err
		}
	}
	for _, e := range entries {
		v.s.data.entries[e.ID] = e
	}
	return nil
}

func (v *ledgerView) EntriesForTransaction(ctx context.Context, transactionID uuid.UUID) ([]core.Entry, error) {
	defer v.s.lock()()
	var out []core.Entry
	for _, e := range v.s.data.entries {
		if e.TransactionID == transactionID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (v *ledgerView) DeleteEntries(ctx context.Context, transactionID uuid.UUID) error {
	defer v.s.lock()()
	if err := v.s.failWrite("ledger.DeleteEntries", transactionID); err != nil {
		return err
	}
	for id, e := range v.s.data.entries {
		if e.TransactionID == transactionID {
			delete(v.s.data.entries, id)
		}
	}
	return nil
}

func (v *ledgerView) SumAmounts(ctx context.Context, ownerID, accountID uuid.UUID, start, end time.Time) (decimal.Decimal, error) {
	defer v.s.lock()()
	total := decimal.Zero
	for _, e := range v.s.data.entries {
		if e.OwnerID != ownerID || e.AccountID != accountID {
			continue
		}
		if e.OccurredOn.Before(start) || e.OccurredOn.After(end) {
			continue
		}
		total = total.Add(e.Amount)
	}
	return total, nil
}

// -- budgets --

type budgetView struct{ s *Store }

func (v *budgetView) Insert(ctx context.Context, b *core.Budget) error {
	defer v.s.lock()()
	if err := v.s.failWrite("budgets.Insert", b.ID); err != nil {
		return err
	}
	v.s.data.budgets[b.ID] = *b
	return nil
}

func (v *budgetView) FindByID(ctx context.Context, id uuid.UUID) (*core.Budget, error) {
	defer v.s.lock()()
	b, ok := v.s.data.budgets[id]
	if !ok {
		return nil, faults.NotFound("budget", id.String())
	}
	return &b, nil
}

func (v *budgetView) FindByMonth(ctx context.Context, ownerID uuid.UUID, yearMonth string) (*core.Budget, error) {
	defer v.s.lock()()
	for _, b := range v.s.data.budgets {
		if b.OwnerID == ownerID && b.YearMonth == yearMonth && b.IsActive {
			found := b
			return &found, nil
		}
	}
	return nil, faults.NotFound("budget", yearMonth)
}

func (v *budgetView) ListAfter(ctx context.Context, ownerID uuid.UUID, yearMonth string) ([]core.Budget, error) {
	defer v.s.lock()()
	var out []core.Budget
	for _, b := range v.s.data.budgets {
		if b.OwnerID == ownerID && b.IsActive && b.YearMonth > yearMonth {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].YearMonth < out[j].YearMonth })
	return out, nil
}

func (v *budgetView) SetRolloverStatus(ctx context.Context, budgetID uuid.UUID, needsRecalc bool, lastCalculated *time.Time) error {
	defer v.s.lock()()
	if err := v.s.failWrite("budgets.SetRolloverStatus", budgetID); err != nil {
		return err
	}
	b, ok := v.s.data.budgets[budgetID]
	if !ok {
		return faults.NotFound("budget", budgetID.String())
	}
	b.RolloverNeedsRecalc = needsRecalc
	b.RolloverLastCalculated = lastCalculated
	v.s.data.budgets[budgetID] = b
	return nil
}

func (v *budgetView) InsertCategoryBudget(ctx context.Context, cb *core.CategoryBudget) error {
	defer v.s.lock()()
	if err := v.s.failWrite("budgets.InsertCategoryBudget", cb.ID); err != nil {
		return err
	}
	v.s.data.categoryBudgets[cb.ID] = *cb
	return nil
}

func (v *budgetView) CategoryBudgets(ctx context.Context, budgetID uuid.UUID) ([]core.CategoryBudget, error) {
	defer v.s.lock()()
	var out []core.CategoryBudget
	for _, cb := range v.s.data.categoryBudgets {
		if cb.BudgetID == budgetID {
			out = append(out, cb)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CategoryID.String() < out[j].CategoryID.String() })
	return out, nil
}

func (v *budgetView) FindCategoryBudget(ctx context.Context, budgetID, categoryID uuid.UUID) (*core.CategoryBudget, error) {
	defer v.s.lock()()
	for _, cb := range v.s.data.categoryBudgets {
		if cb.BudgetID == budgetID && cb.CategoryID == categoryID {
			found := cb
			return &found, nil
		}
	}
	return nil, faults.NotFound("category budget", categoryID.String())
}

func (v *budgetView) UpdateCategoryBudget(ctx context.Context, id uuid.UUID, amount decimal.Decimal, rolloverEnabled bool) error {
	defer v.s.lock()()
	if err := v.s.failWrite("budgets.UpdateCategoryBudget", id); err != nil {
		return err
	}
	cb, ok := v.s.data.categoryBudgets[id]
	if !ok {
		return faults.NotFound("category budget", id.String())
	}
	cb.BudgetAmount = amount
	cb.RolloverEnabled = rolloverEnabled
	v.s.data.categoryBudgets[id] = cb
	return nil
}

func (v *budgetView) SetRolloverAmount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	defer v.s.lock()()
	if err := v.s.failWrite("budgets.SetRolloverAmount", id); err != nil {
		return err
	}
	cb, ok := v.s.data.categoryBudgets[id]
	if !ok {
		return faults.NotFound("category budget", id.String())
	}
	cb.RolloverAmount = amount
	v.s.data.categoryBudgets[id] = cb
	return nil
}

func (v *budgetView) InsertCalculation(ctx context.Context, calc *core.RolloverCalculation) error {
	defer v.s.lock()()
	if err := v.s.failWrite("budgets.InsertCalculation", calc.ID); err != nil {
		return err
	}
	v.s.data.calculations = append(v.s.data.calculations, *calc)
	return nil
}

func (v *budgetView) Calculations(ctx context.Context, budgetID, categoryID uuid.UUID) ([]core.RolloverCalculation, error) {
	defer v.s.lock()()
	var out []core.RolloverCalculation
	for _, c := range v.s.data.calculations {
		if c.BudgetID == budgetID && c.CategoryID == categoryID {
			out = append(out, c)
		}
	}
	return out, nil
}
