package kafka

import (
	"context"
	"errors"
	"time"

	"skin-marketplace/internal/core/domain"
	"skin-marketplace/internal/core/ports"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

// ErrBreakerOpen is returned while the broker is considered down.
var ErrBreakerOpen = errors.New("event publisher circuit open")

// BreakerSettings trips the breaker after ConsecutiveFailures and probes again after Timeout.
type BreakerSettings struct {
	ConsecutiveFailures uint32
	Timeout             time.Duration
}

// DefaultBreakerSettings returns the settings used in production.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{ConsecutiveFailures: 5, Timeout: 30 * time.Second}
}

// BreakerPublisher stops calling a failing broker so committed requests do not
// wait on write timeouts.
type BreakerPublisher struct {
	next    ports.EventPublisher
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerPublisher wraps next with a circuit breaker.
func NewBreakerPublisher(next ports.EventPublisher, s BreakerSettings, log zerolog.Logger) *BreakerPublisher {
	return &BreakerPublisher{
		next: next,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "kafka-publisher",
			MaxRequests: 1,
			Timeout:     s.Timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= s.ConsecutiveFailures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
			},
		}),
	}
}

// Publish forwards event unless the breaker is open.
func (p *BreakerPublisher) Publish(ctx context.Context, event domain.MarketEvent) error {
	_, err := p.breaker.Execute(func() (interface{}, error) {
		return nil, p.next.Publish(ctx, event)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrBreakerOpen
	}
	return err
}

// State reports the breaker state, for health output and tests.
func (p *BreakerPublisher) State() gobreaker.State {
	return p.breaker.State()
}

// Close closes the wrapped publisher.
func (p *BreakerPublisher) Close() error {
	return p.next.Close()
}
