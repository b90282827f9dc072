// Package events publishes cache-invalidation events emitted by write operations.
//
// Each event names the query whose cached result is now stale ("tasks" for the
// task list of Date, "analytics" for every window containing Date), so readers
// refresh only what a write affected.
package events

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/jonathan/career-tracker/internal/types"
)

// Query kinds an event can invalidate
const (
	QueryTasks     = "tasks"
	QueryAnalytics = "analytics"
)

// Event says the cached result of Query for Date is stale for UserID.
type Event struct {
	Query  string     `json:"query"`
	UserID uuid.UUID  `json:"user_id"`
	Date   types.Date `json:"date"`
}

// Publisher accepts invalidation events.
type Publisher interface {
	Publish(events ...Event)
}

// Invalidations returns the events a completion change on dates causes.
func Invalidations(userID uuid.UUID, dates ...types.Date) []Event {
	out := make([]Event, 0, 2*len(dates))
	for _, d := range dates {
		out = append(out,
			Event{Query: QueryTasks, UserID: userID, Date: d},
			Event{Query: QueryAnalytics, UserID: userID, Date: d},
		)
	}
	return out
}

// subscriberBuffer bounds how far a slow subscriber may lag before events
// for it are dropped.
const subscriberBuffer = 64

type subscriber struct {
	userID uuid.UUID
	ch     chan Event
}

// Bus fans events out to per-user subscribers. Publish never blocks.
type Bus struct {
	mu      sync.RWMutex
	nextID  int
	subs    map[int]subscriber
	dropped atomic.Int64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]subscriber)}
}

// Subscribe registers for userID's events. Call the returned cancel func to
// unsubscribe; it closes the channel.
func (b *Bus) Subscribe(userID uuid.UUID) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Event, subscriberBuffer)
	b.subs[id] = subscriber{userID: userID, ch: ch}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers events to matching subscribers, dropping them for any
// subscriber whose buffer is full.
func (b *Bus) Publish(events ...Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ev := range events {
		for _, sub := range b.subs {
			if sub.userID != ev.UserID {
				continue
			}
			select {
			case sub.ch <- ev:
			default:
				b.dropped.Add(1)
			}
		}
	}
}

// Dropped returns how many deliveries were skipped because a subscriber lagged.
func (b *Bus) Dropped() int64 {
	return b.dropped.Load()
}

// Nop discards every event.
type Nop struct{}

// Publish does nothing.
func (Nop) Publish(...Event) {}
