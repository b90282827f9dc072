package events

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-tracker/internal/types"
)

func TestInvalidations(t *testing.T) {
	user := uuid.New()
	d1 := types.MustParseDate("2024-01-03")
	d2 := types.MustParseDate("2024-01-01")

	evs := Invalidations(user, d1, d2)
	require.Len(t, evs, 4)
	assert.Equal(t, Event{Query: QueryTasks, UserID: user, Date: d1}, evs[0])
	assert.Equal(t, Event{Query: QueryAnalytics, UserID: user, Date: d1}, evs[1])
	assert.Equal(t, Event{Query: QueryTasks, UserID: user, Date: d2}, evs[2])
}

func TestBus_DeliversOnlyToMatchingUser(t *testing.T) {
	bus := NewBus()
	alice, bob := uuid.New(), uuid.New()

	aliceCh, cancelAlice := bus.Subscribe(alice)
	defer cancelAlice()
	bobCh, cancelBob := bus.Subscribe(bob)
	defer cancelBob()

	day := types.MustParseDate("2024-01-03")
	bus.Publish(Event{Query: QueryTasks, UserID: alice, Date: day})

	select {
	case ev := <-aliceCh:
		assert.Equal(t, QueryTasks, ev.Query)
		assert.Equal(t, day, ev.Date)
	default:
		t.Fatal("expected event for alice")
	}

	select {
	case ev := <-bobCh:
		t.Fatalf("bob received unexpected event %+v", ev)
	default:
	}
}

func TestBus_CancelClosesChannel(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe(uuid.New())
	cancel()
	cancel() // second call is a no-op

	_, open := <-ch
	assert.False(t, open)
}

func TestBus_DropsWhenSubscriberLags(t *testing.T) {
	bus := NewBus()
	user := uuid.New()
	_, cancel := bus.Subscribe(user)
	defer cancel()

	for i := 0; i < subscriberBuffer+5; i++ {
		bus.Publish(Event{Query: QueryTasks, UserID: user})
	}
	assert.Equal(t, int64(5), bus.Dropped())
}
