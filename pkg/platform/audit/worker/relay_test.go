package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "storefront/pkg/platform/audit"
)

type fakeOutbox struct {
	mu        sync.Mutex
	entries   []audit.OutboxEntry
	published map[uuid.UUID]time.Time
	purgedAt  time.Time
	pendErr   error
}

func newFakeOutbox(actions ...string) *fakeOutbox {
	o := &fakeOutbox{published: map[uuid.UUID]time.Time{}}
	for _, action := range actions {
		o.entries = append(o.entries, audit.OutboxEntry{ID: uuid.New(), Event: audit.Event{Action: action}})
	}
	return o
}

func (o *fakeOutbox) Pending(_ context.Context, limit int) ([]audit.OutboxEntry, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.pendErr != nil {
		return nil, o.pendErr
	}
	var out []audit.OutboxEntry
	for _, e := range o.entries {
		if _, done := o.published[e.ID]; done {
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, e)
	}
	return out, nil
}

func (o *fakeOutbox) MarkPublished(_ context.Context, ids []uuid.UUID, at time.Time) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, id := range ids {
		o.published[id] = at
	}
	return nil
}

func (o *fakeOutbox) PurgePublished(_ context.Context, before time.Time) (int64, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.purgedAt = before
	return 0, nil
}

func (o *fakeOutbox) pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.entries) - len(o.published)
}

type recordingSink struct {
	mu      sync.Mutex
	actions []string
	failOn  string
}

func (s *recordingSink) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if event.Action == s.failOn {
		return errors.New("broker unavailable")
	}
	s.actions = append(s.actions, event.Action)
	return nil
}

func (s *recordingSink) delivered() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.actions...)
}

func TestFlush(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("delivers in order and marks rows published", func(t *testing.T) {
		outbox := newFakeOutbox("a", "b", "c")
		sink := &recordingSink{}
		relay := NewRelay(nil, outbox, sink, WithClock(func() time.Time { return fixed }))

		n, err := relay.Flush(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
		assert.Equal(t, []string{"a", "b", "c"}, sink.delivered())
		assert.Zero(t, outbox.pending())
		for _, at := range outbox.published {
			assert.Equal(t, fixed, at)
		}
	})

	t.Run("respects the batch size", func(t *testing.T) {
		outbox := newFakeOutbox("a", "b", "c")
		sink := &recordingSink{}
		relay := NewRelay(nil, outbox, sink, WithBatchSize(2))

		n, err := relay.Flush(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, 1, outbox.pending())
	})

	t.Run("sink failure keeps the failed row and everything after it pending", func(t *testing.T) {
		outbox := newFakeOutbox("a", "b", "c")
		sink := &recordingSink{failOn: "b"}
		relay := NewRelay(nil, outbox, sink)

		n, err := relay.Flush(ctx)
		require.Error(t, err)
		assert.Equal(t, 1, n)
		assert.Equal(t, 2, outbox.pending())

		sink.failOn = ""
		n, err = relay.Flush(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, []string{"a", "b", "c"}, sink.delivered())
	})

	t.Run("outbox read failure delivers nothing", func(t *testing.T) {
		outbox := newFakeOutbox("a")
		outbox.pendErr = errors.New("connection reset")
		sink := &recordingSink{}

		n, err := NewRelay(nil, outbox, sink).Flush(ctx)
		require.Error(t, err)
		assert.Zero(t, n)
		assert.Empty(t, sink.delivered())
	})

	t.Run("retention purges rows older than the window", func(t *testing.T) {
		outbox := newFakeOutbox("a")
		relay := NewRelay(nil, outbox, &recordingSink{},
			WithClock(func() time.Time { return fixed }),
			WithRetention(24*time.Hour))

		_, err := relay.Flush(ctx)
		require.NoError(t, err)
		assert.Equal(t, fixed.Add(-24*time.Hour), outbox.purgedAt)
	})
}

func TestRunDrainsUntilCancelled(t *testing.T) {
	outbox := newFakeOutbox("a", "b", "c", "d", "e")
	sink := &recordingSink{}
	relay := NewRelay(nil, outbox, sink, WithBatchSize(2), WithInterval(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		relay.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return outbox.pending() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("relay did not stop after cancel")
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, sink.delivered())
}
