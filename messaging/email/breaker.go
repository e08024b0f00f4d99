package email

import (
	"context"
	"time"

	"github.com/ncobase/shopfront/config"
	"github.com/ncobase/shopfront/logging/logger"
	"github.com/sony/gobreaker"
)

// Breaker wraps a Sender in a circuit breaker.
type Breaker struct {
	next Sender
	cb   *gobreaker.CircuitBreaker
}

// NewBreaker wraps next. A nil cfg uses conservative defaults.
func NewBreaker(next Sender, cfg *config.Breaker, l *logger.Logger) *Breaker {
	if cfg == nil {
		cfg = &config.Breaker{MaxRequests: 1, MinRequests: 3, Interval: time.Minute, Timeout: 30 * time.Second, FailureRatio: 0.6}
	}
	if l == nil {
		l = logger.StdLogger()
	}

	settings := gobreaker.Settings{
		Name:        "email",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			l.Warn(context.Background(), "circuit breaker state changed",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	}

	return &Breaker{next: next, cb: gobreaker.NewCircuitBreaker(settings)}
}

// Send implements Sender.
func (b *Breaker) Send(ctx context.Context, msg Message) (string, error) {
	id, err := b.cb.Execute(func() (any, error) {
		return b.next.Send(ctx, msg)
	})
	if err != nil {
		return "", err
	}
	return id.(string), nil
}

// State returns the breaker state.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}
