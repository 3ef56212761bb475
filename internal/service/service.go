package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-server/internal/operator/actions"
	"github.com/carson-networks/ledger-server/internal/rollover"
	"github.com/carson-networks/ledger-server/internal/storage"
)

// Processor runs an action to completion. In the server it is the operator
// delegator; tests can substitute an inline runner.
type Processor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// Service holds all business logic services.
type Service struct {
	Registry *RegistryService
	Ledger   *LedgerService
	Budget   *BudgetService
}

// NewService creates a new Service with the given storage, processor, and
// rollover engine.
func NewService(store storage.Store, processor Processor, engine *rollover.Engine, logger *logrus.Logger) *Service {
	return &Service{
		Registry: NewRegistryService(store, logger),
		Ledger:   NewLedgerService(store, processor, engine, logger),
		Budget:   NewBudgetService(store, processor, engine, logger),
	}
}
