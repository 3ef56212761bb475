package service

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"

	"github.com/carson-networks/ledger-server/internal/core"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/operator/actions"
	"github.com/carson-networks/ledger-server/internal/rollover"
	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/memstore"
)

// inlineProcessor performs actions synchronously on the calling goroutine,
// standing in for the operator queue.
type inlineProcessor struct {
	store storage.Store
}

func (p inlineProcessor) Process(ctx context.Context, action actions.IAction) error {
	return action.Perform(ctx, p.store)
}

type svcFixture struct {
	store     *memstore.Store
	svc       *Service
	owner     uuid.UUID
	cash      uuid.UUID
	groceries uuid.UUID
}

func newSvcFixture(t *testing.T) *svcFixture {
	t.Helper()
	store := memstore.New()
	logger := logging.SetupLogging()
	engine := rollover.NewEngine(store, nil, logger)
	svc := NewService(store, inlineProcessor{store: store}, engine, logger)

	owner, err := svc.Registry.CreateParty(context.Background(), "Tester", "person")
	assert.NoError(t, err)

	cash, err := svc.Registry.CreateAccount(context.Background(), owner.ID, "Cash", core.AccountTypeAsset, nil, "")
	assert.NoError(t, err)
	groceries, err := svc.Registry.CreateAccount(context.Background(), owner.ID, "Groceries", core.AccountTypeExpense, nil, "")
	assert.NoError(t, err)

	return &svcFixture{
		store:     store,
		svc:       svc,
		owner:     owner.ID,
		cash:      cash.ID,
		groceries: groceries.ID,
	}
}

func day(year int, mon time.Month, d int) time.Time {
	return time.Date(year, mon, d, 12, 0, 0, 0, time.UTC)
}
