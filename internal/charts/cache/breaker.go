package cache

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned while the breaker short-circuits calls to the
// wrapped store.
var ErrCircuitOpen = errors.New("chart cache circuit open")

type breakerState int

const (
	stateClosed breakerState = iota
	stateOpen
	stateHalfOpen
)

// Breaker wraps a Store and stops calling it after threshold consecutive
// failures. Once cooldown has elapsed exactly one trial call is let through;
// its success closes the circuit and its failure re-opens it for another
// cooldown. Callers arriving while the trial is in flight are rejected.
type Breaker struct {
	next Store

	mu        sync.Mutex
	threshold int
	cooldown  time.Duration
	failures  int
	openUntil time.Time
	state     breakerState
	now       func() time.Time
}

type BreakerOption func(*Breaker)

func WithBreakerClock(now func() time.Time) BreakerOption {
	return func(b *Breaker) { b.now = now }
}

// NewBreaker defaults to 5 failures and a one minute cooldown.
func NewBreaker(next Store, threshold int, cooldown time.Duration, opts ...BreakerOption) *Breaker {
	if threshold <= 0 {
		threshold = 5
	}
	if cooldown <= 0 {
		cooldown = time.Minute
	}
	b := &Breaker{next: next, threshold: threshold, cooldown: cooldown, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Breaker) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if !b.allow() {
		return nil, false, ErrCircuitOpen
	}
	val, ok, err := b.next.Get(ctx, key)
	b.record(err)
	return val, ok, err
}

func (b *Breaker) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if !b.allow() {
		return ErrCircuitOpen
	}
	err := b.next.Set(ctx, key, value, ttl)
	b.record(err)
	return err
}

// IsOpen reports whether calls are currently being short-circuited.
func (b *Breaker) IsOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.state {
	case stateHalfOpen:
		return true
	case stateOpen:
		return b.now().Before(b.openUntil)
	default:
		return false
	}
}

func (b *Breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.state {
	case stateClosed:
		return true
	case stateOpen:
		if b.now().Before(b.openUntil) {
			return false
		}
		b.state = stateHalfOpen
		return true
	default:
		// a trial call is already in flight
		return false
	}
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if errors.Is(err, context.Canceled) {
		if b.state == stateHalfOpen {
			// the trial proved nothing; let the next caller try
			b.state = stateOpen
			b.openUntil = b.now()
		}
		return
	}
	if err == nil {
		b.failures = 0
		b.state = stateClosed
		return
	}
	b.failures++
	if b.state == stateHalfOpen || b.failures >= b.threshold {
		b.state = stateOpen
		b.openUntil = b.now().Add(b.cooldown)
	}
}
