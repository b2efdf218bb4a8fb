// Package publisher delivers audit events to a sink, synchronously or through
// a bounded buffer drained by a background worker.
package publisher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	id "storefront/pkg/domain"
	audit "storefront/pkg/platform/audit"
)

var errBufferFull = errors.New("audit buffer full")

// Sink persists or forwards audit events.
type Sink interface {
	Append(ctx context.Context, event audit.Event) error
}

// Lister is implemented by sinks that can read events back.
type Lister interface {
	ListByUser(ctx context.Context, userID id.UserID) ([]audit.Event, error)
}

// Publisher emits audit events to a Sink. Sink outages open a circuit breaker
// so request paths stop paying for a dead backend.
type Publisher struct {
	sink    Sink
	logger  *slog.Logger
	metrics *Metrics
	breaker *breaker

	buffer    chan audit.Event
	wg        sync.WaitGroup
	closeOnce sync.Once
}

type Option func(*Publisher)

// WithAsyncBuffer queues up to size events for a background worker.
// Emit returns an error instead of blocking when the queue is full.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		if size > 0 {
			p.buffer = make(chan audit.Event, size)
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

func WithCircuitBreaker(threshold int, cooldown time.Duration) Option {
	return func(p *Publisher) {
		p.breaker = newBreaker(threshold, cooldown)
	}
}

func NewPublisher(sink Sink, opts ...Option) *Publisher {
	p := &Publisher{sink: sink, logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.breaker == nil {
		p.breaker = newBreaker(5, time.Minute)
	}
	if p.buffer != nil {
		p.wg.Add(1)
		go p.run()
	}
	return p
}

// Emit records event, stamping it with the current time when unset.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}
	if p.buffer == nil {
		return p.deliver(ctx, event)
	}
	select {
	case p.buffer <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		p.metrics.incDropped()
		return errBufferFull
	}
}

// List reads back a user's events when the sink supports it.
func (p *Publisher) List(ctx context.Context, userID id.UserID) ([]audit.Event, error) {
	lister, ok := p.sink.(Lister)
	if !ok {
		return nil, errors.New("audit sink does not support listing")
	}
	return lister.ListByUser(ctx, userID)
}

// Close drains buffered events and stops the worker.
func (p *Publisher) Close() {
	p.closeOnce.Do(func() {
		if p.buffer != nil {
			close(p.buffer)
			p.wg.Wait()
		}
	})
}

func (p *Publisher) run() {
	defer p.wg.Done()
	for event := range p.buffer {
		if err := p.deliver(context.Background(), event); err != nil {
			p.logger.Warn("audit event not delivered", "action", event.Action, "error", err)
		}
	}
}

func (p *Publisher) deliver(ctx context.Context, event audit.Event) error {
	if !p.breaker.allow() {
		p.metrics.incDropped()
		return nil
	}
	err := p.sink.Append(ctx, event)
	p.metrics.setBreakerOpen(p.breaker.record(err))
	if err != nil {
		p.metrics.incFailed()
		return err
	}
	p.metrics.incPublished()
	return nil
}
