// Package notify delivers "rollover updated" events to connected clients.
// Delivery is best-effort: a subscriber or broker that cannot accept an
// event loses it, and the failure is logged, never propagated.
package notify

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
)

// Event announces that a month's rollover amounts were recomputed.
type Event struct {
	OwnerID   uuid.UUID `json:"ownerID"`
	YearMonth string    `json:"yearMonth"`
	Reason    string    `json:"reason"`
	At        time.Time `json:"at"`
}

// Broadcaster pushes events to whatever is listening.
type Broadcaster interface {
	Broadcast(ctx context.Context, ev Event)
}

// Multi fans one event out to several broadcasters.
type Multi []Broadcaster

func (m Multi) Broadcast(ctx context.Context, ev Event) {
	for _, b := range m {
		b.Broadcast(ctx, ev)
	}
}
