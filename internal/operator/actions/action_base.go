package actions

import (
	"context"

	"github.com/carson-networks/ledger-server/internal/storage"
)

// IAction is one unit of write work processed by the operator. Perform is
// responsible for its own transaction boundaries via store.InTx.
type IAction interface {
	Perform(ctx context.Context, store storage.Store) error
}
