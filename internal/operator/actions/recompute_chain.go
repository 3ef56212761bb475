package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/core"
	"github.com/carson-networks/ledger-server/internal/month"
	"github.com/carson-networks/ledger-server/internal/rollover"
	"github.com/carson-networks/ledger-server/internal/storage"
)

// RecomputeChain runs a manual (or retry) rollover chain walk. Funneling it
// through the operator keeps it from interleaving with other walks for the
// same owner.
type RecomputeChain struct {
	OwnerID      uuid.UUID
	ChangedMonth month.Month
	Reason       core.RolloverReason

	Engine *rollover.Engine

	// Result is set on success.
	Result *rollover.ChainResult
}

var _ IAction = (*RecomputeChain)(nil)

func (a *RecomputeChain) Perform(ctx context.Context, store storage.Store) error {
	result, err := a.Engine.RecomputeChain(ctx, a.OwnerID, a.ChangedMonth, a.Reason)
	if err != nil {
		return err
	}
	a.Result = result
	return nil
}
