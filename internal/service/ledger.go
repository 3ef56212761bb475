package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-server/internal/core"
	"github.com/carson-networks/ledger-server/internal/faults"
	"github.com/carson-networks/ledger-server/internal/operator/actions"
	"github.com/carson-networks/ledger-server/internal/rollover"
	"github.com/carson-networks/ledger-server/internal/storage"
)

const defaultTransactionLimit = 20

// LedgerService handles journal business logic. Reads go straight to
// storage; every mutation is validated here and then performed through the
// processor so it serializes with rollover chain walks.
type LedgerService struct {
	storage   storage.Store
	processor Processor
	engine    *rollover.Engine
	logger    *logrus.Logger
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(store storage.Store, processor Processor, engine *rollover.Engine, logger *logrus.Logger) *LedgerService {
	return &LedgerService{
		storage:   store,
		processor: processor,
		engine:    engine,
		logger:    logger,
	}
}

// TransactionInput describes one transaction to record or an edit to apply.
type TransactionInput struct {
	Description string
	Notes       string
	ExternalID  string
	Date        time.Time
	Entries     []core.EntryInput
}

// TransactionDetail is a transaction together with its entries.
type TransactionDetail struct {
	Transaction core.Transaction
	Entries     []core.Entry
}

// RecordTransaction validates and records one transaction, returning its ID.
// Nothing is persisted when validation fails.
func (s *LedgerService) RecordTransaction(ctx context.Context, ownerID uuid.UUID, input TransactionInput) (uuid.UUID, error) {
	if err := s.validateEntries(ctx, ownerID, input.Entries); err != nil {
		return uuid.Nil, err
	}

	action := &actions.RecordTransaction{
		OwnerID:     ownerID,
		Description: input.Description,
		Notes:       input.Notes,
		ExternalID:  input.ExternalID,
		Date:        input.Date,
		Entries:     input.Entries,
		Engine:      s.engine,
		Logger:      s.logger,
	}
	if err := s.processor.Process(ctx, action); err != nil {
		return uuid.Nil, err
	}
	return action.TransactionID, nil
}

// UpdateTransaction replaces a transaction's description, date, and entry
// set. The new entry set is validated like a fresh transaction.
func (s *LedgerService) UpdateTransaction(ctx context.Context, ownerID, transactionID uuid.UUID, input TransactionInput) error {
	if err := s.validateEntries(ctx, ownerID, input.Entries); err != nil {
		return err
	}

	return s.processor.Process(ctx, &actions.ReplaceEntries{
		TransactionID: transactionID,
		OwnerID:       ownerID,
		Description:   input.Description,
		Notes:         input.Notes,
		Date:          input.Date,
		Entries:       input.Entries,
		Engine:        s.engine,
		Logger:        s.logger,
	})
}

// DeleteTransaction soft-deletes a transaction and removes its postings from
// every aggregate.
func (s *LedgerService) DeleteTransaction(ctx context.Context, ownerID, transactionID uuid.UUID) error {
	return s.processor.Process(ctx, &actions.DeleteTransaction{
		TransactionID: transactionID,
		OwnerID:       ownerID,
		Engine:        s.engine,
		Logger:        s.logger,
	})
}

// GetTransaction retrieves one of the owner's transactions with its entries.
func (s *LedgerService) GetTransaction(ctx context.Context, ownerID, transactionID uuid.UUID) (*TransactionDetail, error) {
	transaction, err := s.storage.Ledger().FindTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if transaction.OwnerID != ownerID || transaction.IsDeleted {
		return nil, faults.NotFound("transaction", transactionID.String())
	}

	entries, err := s.storage.Ledger().EntriesForTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	return &TransactionDetail{Transaction: *transaction, Entries: entries}, nil
}

// ListTransactions returns a page of the owner's transactions, newest first.
func (s *LedgerService) ListTransactions(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]core.Transaction, error) {
	if limit <= 0 {
		limit = defaultTransactionLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.storage.Ledger().ListTransactions(ctx, ownerID, limit, offset)
}

// validateEntries enforces the journal's write preconditions: at least two
// postings, a zero signed sum within tolerance, and every referenced account
// existing under this owner.
func (s *LedgerService) validateEntries(ctx context.Context, ownerID uuid.UUID, entries []core.EntryInput) error {
	if len(entries) < 2 {
		return faults.Validation("a transaction needs at least two entries, got %d", len(entries))
	}
	if !core.Balanced(entries) {
		return faults.Validation("entries must sum to zero, got %s", core.SumEntries(entries))
	}

	for _, e := range entries {
		account, err := s.storage.Accounts().FindByID(ctx, e.AccountID)
		if err != nil {
			if faults.IsNotFound(err) {
				return faults.Validation("account %s does not exist", e.AccountID)
			}
			return err
		}
		if account.OwnerID != ownerID {
			return faults.Validation("account %s does not exist", e.AccountID)
		}
	}
	return nil
}
