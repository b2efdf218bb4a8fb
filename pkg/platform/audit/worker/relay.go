// Package worker relays audit events from the Postgres outbox to a broker.
package worker

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	audit "storefront/pkg/platform/audit"
	"storefront/pkg/platform/tx"
)

// Outbox is the queue side of the audit outbox store.
type Outbox interface {
	Pending(ctx context.Context, limit int) ([]audit.OutboxEntry, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID, at time.Time) error
	PurgePublished(ctx context.Context, before time.Time) (int64, error)
}

// Sink receives relayed events.
type Sink interface {
	Append(ctx context.Context, event audit.Event) error
}

// Relay moves pending outbox rows to a Sink. Delivery is at least once: a row
// is marked published only after the sink accepts it.
type Relay struct {
	db        *sql.DB
	outbox    Outbox
	sink      Sink
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
	retention time.Duration
	now       func() time.Time
}

type Option func(*Relay)

func WithInterval(d time.Duration) Option {
	return func(r *Relay) {
		if d > 0 {
			r.interval = d
		}
	}
}

func WithBatchSize(n int) Option {
	return func(r *Relay) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

// WithRetention purges delivered rows older than d after each pass.
func WithRetention(d time.Duration) Option {
	return func(r *Relay) {
		r.retention = d
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) {
		r.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Relay) {
		r.now = now
	}
}

// NewRelay builds a relay. Each pass runs in a transaction on db so
// concurrent relays skip each other's rows; a nil db runs passes without one.
func NewRelay(db *sql.DB, outbox Outbox, sink Sink, opts ...Option) *Relay {
	r := &Relay{
		db:        db,
		outbox:    outbox,
		sink:      sink,
		logger:    slog.Default(),
		interval:  2 * time.Second,
		batchSize: 100,
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Run relays until ctx is cancelled. A full batch is followed immediately by
// another pass; otherwise the relay waits for the next tick.
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		n, err := r.Flush(ctx)
		if err != nil && ctx.Err() == nil {
			r.logger.WarnContext(ctx, "audit relay pass failed", "error", err, "delivered", n)
		}
		if err == nil && n == r.batchSize {
			continue
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Flush delivers one batch and returns how many events reached the sink.
// A sink failure stops the batch; rows delivered before it stay published.
func (r *Relay) Flush(ctx context.Context) (int, error) {
	var delivered int
	var deliverErr error
	err := r.inTx(ctx, func(ctx context.Context) error {
		entries, err := r.outbox.Pending(ctx, r.batchSize)
		if err != nil {
			return err
		}
		ids := make([]uuid.UUID, 0, len(entries))
		for _, entry := range entries {
			if err := r.sink.Append(ctx, entry.Event); err != nil {
				deliverErr = err
				break
			}
			ids = append(ids, entry.ID)
		}
		delivered = len(ids)
		return r.outbox.MarkPublished(ctx, ids, r.now())
	})
	if err != nil {
		return 0, err
	}
	if deliverErr != nil {
		return delivered, deliverErr
	}
	if r.retention > 0 {
		purged, err := r.outbox.PurgePublished(ctx, r.now().Add(-r.retention))
		if err != nil {
			return delivered, err
		}
		if purged > 0 {
			r.logger.DebugContext(ctx, "purged delivered audit events", "count", purged)
		}
	}
	return delivered, nil
}

func (r *Relay) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if r.db == nil {
		return fn(ctx)
	}
	return tx.Run(ctx, r.db, fn)
}
