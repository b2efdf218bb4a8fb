package publisher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "storefront/pkg/domain"
	audit "storefront/pkg/platform/audit"
	"storefront/pkg/platform/audit/store/memory"
)

func TestPublisher_SyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	userID := id.UserID(uuid.New())
	err := pub.Emit(context.Background(), audit.Event{
		UserID: userID,
		Action: string(audit.EventStoreSelected),
	})
	require.NoError(t, err)

	events, err := pub.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, string(audit.EventStoreSelected), events[0].Action)
	assert.Equal(t, audit.CategoryOperations, events[0].Category)
}

func TestPublisher_AsyncDrainsOnClose(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(100))

	userID := id.UserID(uuid.New())
	for range 10 {
		require.NoError(t, pub.Emit(context.Background(), audit.Event{
			UserID: userID,
			Action: string(audit.EventPromoCreated),
		}))
	}

	pub.Close()

	events, err := store.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, events, 10, "all events should be drained on close")
}

func TestPublisher_CloseIsIdempotent(t *testing.T) {
	pub := NewPublisher(memory.NewInMemoryStore(), WithAsyncBuffer(1))
	pub.Close()
	assert.NotPanics(t, pub.Close)
}

type blockingSink struct {
	release chan struct{}
}

func (s *blockingSink) Append(ctx context.Context, _ audit.Event) error {
	select {
	case <-s.release:
	case <-ctx.Done():
	}
	return nil
}

func TestPublisher_BufferFullReturnsError(t *testing.T) {
	sink := &blockingSink{release: make(chan struct{})}
	pub := NewPublisher(sink, WithAsyncBuffer(1))

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		errored int
	)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := pub.Emit(context.Background(), audit.Event{Action: string(audit.EventStoreSelected)}); err != nil {
				mu.Lock()
				errored++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	close(sink.release)
	pub.Close()

	assert.Positive(t, errored, "a one-slot buffer cannot absorb ten blocked events")
}

func TestPublisher_SetsTimestamp(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	userID := id.UserID(uuid.New())
	before := time.Now()
	require.NoError(t, pub.Emit(context.Background(), audit.Event{UserID: userID, Action: string(audit.EventStoreSelected)}))
	after := time.Now()

	events, err := pub.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.False(t, events[0].Timestamp.Before(before))
	assert.False(t, events[0].Timestamp.After(after))
}

func TestPublisher_PreservesExistingTimestamp(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	userID := id.UserID(uuid.New())
	custom := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, pub.Emit(context.Background(), audit.Event{UserID: userID, Action: "x", Timestamp: custom}))

	events, err := pub.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, custom, events[0].Timestamp)
}

type failingSink struct {
	calls int
}

func (s *failingSink) Append(context.Context, audit.Event) error {
	s.calls++
	return errors.New("broker unavailable")
}

func TestPublisher_CircuitOpensAfterRepeatedFailures(t *testing.T) {
	sink := &failingSink{}
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	pub := NewPublisher(sink, WithCircuitBreaker(2, time.Hour), WithMetrics(m))
	defer pub.Close()

	ctx := context.Background()
	assert.Error(t, pub.Emit(ctx, audit.Event{Action: "a"}))
	assert.Error(t, pub.Emit(ctx, audit.Event{Action: "b"}))
	assert.NoError(t, pub.Emit(ctx, audit.Event{Action: "c"}), "open circuit drops silently")

	assert.Equal(t, 2, sink.calls)
	assert.Equal(t, float64(2), testutil.ToFloat64(m.Failed))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Dropped))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CircuitBreakerState))
}

func TestPublisher_ListUnsupported(t *testing.T) {
	pub := NewPublisher(&failingSink{})
	_, err := pub.List(context.Background(), id.UserID(uuid.New()))
	assert.Error(t, err)
}

func TestBreaker(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newClocked := func(threshold int) *breaker {
		b := newBreaker(threshold, time.Minute)
		b.now = func() time.Time { return now }
		return b
	}
	failure := errors.New("down")

	t.Run("success resets the failure count", func(t *testing.T) {
		b := newClocked(2)
		assert.False(t, b.record(failure))
		assert.False(t, b.record(nil))
		assert.False(t, b.record(failure))
		assert.True(t, b.allow())
	})

	t.Run("single trial after cooldown closes on success", func(t *testing.T) {
		b := newClocked(1)
		assert.True(t, b.record(failure))
		assert.False(t, b.allow())

		now = now.Add(2 * time.Minute)
		assert.True(t, b.allow())
		assert.False(t, b.allow(), "only one trial at a time")
		assert.True(t, b.open())

		assert.False(t, b.record(nil))
		assert.False(t, b.open())
		assert.True(t, b.allow())
	})

	t.Run("failed trial reopens for another cooldown", func(t *testing.T) {
		b := newClocked(3)
		b.record(failure)
		b.record(failure)
		assert.True(t, b.record(failure))

		now = now.Add(2 * time.Minute)
		assert.True(t, b.allow())
		assert.True(t, b.record(failure))
		assert.False(t, b.allow())

		now = now.Add(30 * time.Second)
		assert.False(t, b.allow())
	})

	t.Run("defaults for non-positive settings", func(t *testing.T) {
		b := newBreaker(0, 0)
		assert.Equal(t, 5, b.threshold)
		assert.Equal(t, time.Minute, b.cooldown)
	})
}
