package notify

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"

	"github.com/carson-networks/ledger-server/internal/logging"
)

func event(yearMonth string) Event {
	return Event{
		OwnerID:   uuid.Must(uuid.NewV4()),
		YearMonth: yearMonth,
		Reason:    "manual",
		At:        time.Now().UTC(),
	}
}

func TestManager_BroadcastReachesSubscribers(t *testing.T) {
	m := NewManager(logging.SetupLogging())

	id1, ch1 := m.Register()
	_, ch2 := m.Register()
	assert.Equal(t, 2, m.Subscribers())

	m.Broadcast(context.Background(), event("2025-01"))

	got1 := <-ch1
	got2 := <-ch2
	assert.Equal(t, "2025-01", got1.YearMonth)
	assert.Equal(t, "2025-01", got2.YearMonth)

	m.Unregister(id1)
	assert.Equal(t, 1, m.Subscribers())

	_, open := <-ch1
	assert.False(t, open, "unregister should close the channel")
}

func TestManager_UnregisterTwiceIsHarmless(t *testing.T) {
	m := NewManager(logging.SetupLogging())

	id, _ := m.Register()
	m.Unregister(id)
	m.Unregister(id)
	assert.Equal(t, 0, m.Subscribers())
}

func TestManager_SlowSubscriberDropsEvents(t *testing.T) {
	m := NewManager(logging.SetupLogging())

	_, slow := m.Register()
	ctx := context.Background()

	// Fill the buffer and then some. Broadcast must never block.
	for i := 0; i < subscriberBuffer+5; i++ {
		m.Broadcast(ctx, event("2025-01"))
	}
	assert.Len(t, slow, subscriberBuffer)
}

func TestMulti_FansOut(t *testing.T) {
	m1 := NewManager(logging.SetupLogging())
	m2 := NewManager(logging.SetupLogging())
	_, ch1 := m1.Register()
	_, ch2 := m2.Register()

	multi := Multi{m1, m2}
	multi.Broadcast(context.Background(), event("2025-03"))

	assert.Equal(t, "2025-03", (<-ch1).YearMonth)
	assert.Equal(t, "2025-03", (<-ch2).YearMonth)
}
