package operator

import (
	"context"

	"github.com/carson-networks/ledger-server/internal/operator/actions"
	"github.com/carson-networks/ledger-server/internal/storage"
)

// Operator is the worker that processes items from the queue. Actions open
// their own store transactions; the operator only orders them.
type Operator struct {
	store storage.Store
	queue chan ActionItem
}

func NewOperator(s storage.Store, queue chan ActionItem) *Operator {
	return &Operator{
		store: s,
		queue: queue,
	}
}

// Run listens to the queue and processes items. Exits when the queue is closed.
func (o *Operator) Run() {
	for item := range o.queue {
		item.response <- ActionItemResponse{err: item.action.Perform(item.ctx, o.store)}
	}
}

type ActionItem struct {
	ctx      context.Context
	action   actions.IAction
	response chan ActionItemResponse
}

type ActionItemResponse struct {
	err error
}
