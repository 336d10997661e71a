package skimcache

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
)

// Breaker wraps sony/gobreaker around the skim routing collaborator so a
// sustained outage fails the stage fast instead of hammering a down
// service (spec §7 "core refuses to start").
type Breaker struct {
	cb *gobreaker.CircuitBreaker
}

// NewBreaker configures a breaker that opens after consecutiveFailures
// failures and attempts recovery after openTimeout.
func NewBreaker(name string, consecutiveFailures uint32, openTimeout time.Duration) *Breaker {
	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    0,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= consecutiveFailures
		},
	}
	return &Breaker{cb: gobreaker.NewCircuitBreaker(st)}
}

// Call runs fn through the breaker. ctx is threaded into fn so a cancelled
// stage still aborts the in-flight collaborator call.
func (b *Breaker) Call(ctx context.Context, fn func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	return b.cb.Execute(func() (interface{}, error) {
		return fn(ctx)
	})
}

// State reports the current breaker state for health/ops reporting.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}
