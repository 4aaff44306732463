// Package circuit provides a consecutive-failure circuit breaker used to
// shield transfer checks from a misbehaving chain RPC endpoint.
package circuit

import (
	"sync"
	"time"
)

// State is the breaker position.
type State int

const (
	// StateClosed lets calls through to the guarded dependency.
	StateClosed State = iota
	// StateOpen short-circuits calls so the guarded dependency can recover.
	StateOpen
)

// StateChange reports a transition caused by the last recorded outcome.
type StateChange struct {
	Opened bool
	Closed bool
}

// Breaker counts consecutive outcomes of a guarded call. It opens after
// failureThreshold consecutive failures and closes again after
// successThreshold consecutive successes recorded while open. With a
// cooldown configured, an open breaker starts admitting probe calls once the
// cooldown has elapsed since it opened.
type Breaker struct {
	mu        sync.Mutex
	state     State
	name      string
	failures  int
	successes int
	openedAt  time.Time

	failureThreshold int
	successThreshold int
	cooldown         time.Duration
	now              func() time.Time
}

// Option configures a Breaker.
type Option func(*Breaker)

// WithFailureThreshold sets how many consecutive failures open the circuit.
// Default is 5.
func WithFailureThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.failureThreshold = n
		}
	}
}

// WithSuccessThreshold sets how many consecutive successes close an open
// circuit. Default is 3.
func WithSuccessThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.successThreshold = n
		}
	}
}

// WithCooldown lets an open circuit admit probe calls after d has elapsed
// since it opened. Zero (the default) keeps the circuit open until enough
// successes are recorded or Reset is called.
func WithCooldown(d time.Duration) Option {
	return func(b *Breaker) {
		if d > 0 {
			b.cooldown = d
		}
	}
}

// New creates a closed breaker with the given name.
func New(name string, opts ...Option) *Breaker {
	b := &Breaker{
		name:             name,
		state:            StateClosed,
		failureThreshold: 5,
		successThreshold: 3,
		now:              time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Name identifies the breaker in logs and metrics.
func (b *Breaker) Name() string {
	return b.name
}

// IsOpen reports whether calls should be short-circuited right now. An open
// circuit whose cooldown has elapsed reports false so a probe call can reach
// the dependency.
func (b *Breaker) IsOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != StateOpen {
		return false
	}
	if b.cooldown > 0 && b.now().Sub(b.openedAt) >= b.cooldown {
		return false
	}
	return true
}

// State returns the breaker position without cooldown interpretation.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// RecordFailure notes a failed call and returns whether callers should fall
// back, plus any transition the failure caused.
func (b *Breaker) RecordFailure() (useFallback bool, change StateChange) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures++
	b.successes = 0

	if b.state == StateOpen {
		// A failed probe restarts the cooldown clock.
		b.openedAt = b.now()
		return true, StateChange{}
	}

	if b.failures >= b.failureThreshold {
		b.state = StateOpen
		b.openedAt = b.now()
		return true, StateChange{Opened: true}
	}

	return false, StateChange{}
}

// RecordSuccess notes a successful call and returns whether callers should
// use the primary path, plus any transition the success caused.
func (b *Breaker) RecordSuccess() (usePrimary bool, change StateChange) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen {
		b.successes++
		if b.successes >= b.successThreshold {
			b.state = StateClosed
			b.failures = 0
			b.successes = 0
			return true, StateChange{Closed: true}
		}
		return false, StateChange{}
	}

	b.failures = 0
	return true, StateChange{}
}

// Reset forces the breaker closed and clears all counters.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateClosed
	b.failures = 0
	b.successes = 0
	b.openedAt = time.Time{}
}
