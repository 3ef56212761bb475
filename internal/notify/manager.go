package notify

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

const subscriberBuffer = 16

// Manager is the in-process connection manager for live rollover updates.
// Subscribers register for a channel, unregister when they disconnect, and
// slow subscribers simply miss events.
type Manager struct {
	mu     sync.Mutex
	logger *logrus.Logger
	subs   map[uint64]chan Event
	nextID uint64
}

var _ Broadcaster = (*Manager)(nil)

// NewManager returns an empty connection manager.
func NewManager(logger *logrus.Logger) *Manager {
	return &Manager{
		logger: logger,
		subs:   make(map[uint64]chan Event),
	}
}

// Register adds a subscriber and returns its ID and event channel. The
// channel is closed on Unregister.
func (m *Manager) Register() (uint64, <-chan Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := m.nextID
	ch := make(chan Event, subscriberBuffer)
	m.subs[id] = ch
	return id, ch
}

// Unregister removes a subscriber and closes its channel.
func (m *Manager) Unregister(id uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ch, ok := m.subs[id]; ok {
		delete(m.subs, id)
		close(ch)
	}
}

// Broadcast sends the event to every subscriber without blocking. A full
// subscriber buffer drops the event for that subscriber.
func (m *Manager) Broadcast(ctx context.Context, ev Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, ch := range m.subs {
		select {
		case ch <- ev:
		default:
			m.logger.WithFields(logrus.Fields{
				"subscriber": id,
				"yearMonth":  ev.YearMonth,
			}).Warn("Notify.Broadcast.subscriber buffer full, event dropped")
		}
	}
}

// Subscribers reports the current subscriber count.
func (m *Manager) Subscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}
