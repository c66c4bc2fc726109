package source

import (
	"sync"
	"time"
)

// CircuitBreaker guards the registry fetch path. It records the timestamp of
// the last failure; while the cooldown window has not elapsed the breaker
// reports open and callers skip the network call entirely.
//
// The breaker is advisory: concurrent callers may both observe it closed and
// both attempt a fetch, which is safe because the fallback path is
// side-effect-free.
type CircuitBreaker struct {
	mu          sync.Mutex
	lastFailure time.Time
	cooldown    time.Duration
	now         func() time.Time
}

// NewCircuitBreaker creates a breaker with the given cooldown window.
func NewCircuitBreaker(cooldown time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		cooldown: cooldown,
		now:      time.Now,
	}
}

// Open reports whether the breaker is currently open (a failure occurred
// within the cooldown window).
func (b *CircuitBreaker) Open() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.lastFailure.IsZero() {
		return false
	}
	return b.now().Sub(b.lastFailure) < b.cooldown
}

// Trip records a failure, opening the breaker for one cooldown window.
func (b *CircuitBreaker) Trip() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastFailure = b.now()
}

// Reset clears the failure state after a successful fetch.
func (b *CircuitBreaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastFailure = time.Time{}
}
