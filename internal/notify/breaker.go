package notify

import (
	"context"

	"github.com/sony/gobreaker"
)

// Breaker wraps a Notifier with a circuit breaker so a dead push endpoint
// stops consuming delivery goroutines. Open-circuit rejections surface as
// ordinary send errors and keep the fire-and-forget semantics.
type Breaker struct {
	next Notifier
	cb   *gobreaker.CircuitBreaker
}

// WithBreaker trips after five consecutive failures and probes again after
// 30 seconds.
func WithBreaker(next Notifier, name string) *Breaker {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &Breaker{next: next, cb: cb}
}

func (b *Breaker) Send(ctx context.Context, token, title, body string) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.Send(ctx, token, title, body)
	})
	return err
}
