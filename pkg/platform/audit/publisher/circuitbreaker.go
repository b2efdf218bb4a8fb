package publisher

import (
	"sync"
	"time"
)

type breakerState int

const (
	stateClosed breakerState = iota
	stateOpen
	stateProbing
)

// breaker guards the audit sink. After threshold consecutive failures it
// opens and events are dropped until cooldown passes. The first event after
// that is a trial: success closes the breaker, failure reopens it for
// another cooldown. Other events are dropped while the trial is in flight.
type breaker struct {
	mu        sync.Mutex
	threshold int
	cooldown  time.Duration
	now       func() time.Time

	state     breakerState
	failures  int
	openUntil time.Time
}

func newBreaker(threshold int, cooldown time.Duration) *breaker {
	if threshold <= 0 {
		threshold = 5
	}
	if cooldown <= 0 {
		cooldown = time.Minute
	}
	return &breaker{threshold: threshold, cooldown: cooldown, now: time.Now}
}

// allow reports whether the caller may try the sink.
func (b *breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.state {
	case stateClosed:
		return true
	case stateOpen:
		if b.now().Before(b.openUntil) {
			return false
		}
		b.state = stateProbing
		return true
	default:
		return false
	}
}

// record reports the outcome of an allowed attempt and returns whether the
// breaker is now open.
func (b *breaker) record(err error) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		b.state = stateClosed
		b.failures = 0
		return false
	}
	b.failures++
	if b.state == stateProbing || b.failures >= b.threshold {
		b.state = stateOpen
		b.openUntil = b.now().Add(b.cooldown)
	}
	return b.state == stateOpen
}

func (b *breaker) open() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state != stateClosed
}
