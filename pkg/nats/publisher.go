package nats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/abgdnv/salesledger/pkg/config"
	"github.com/abgdnv/salesledger/pkg/messaging"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/sony/gobreaker/v2"
)

// streamPublisher is the part of jetstream.JetStream the publisher needs.
type streamPublisher interface {
	Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// NatsPublisher publishes events to JetStream behind a circuit breaker,
// so an unavailable broker fails fast instead of stalling every sale.
type NatsPublisher struct {
	js      streamPublisher
	breaker *gobreaker.CircuitBreaker[*jetstream.PubAck]
}

func NewNatsPublisher(js streamPublisher, cfg config.CircuitBreakerConfig, logger *slog.Logger) *NatsPublisher {
	st := gobreaker.Settings{
		Name:        "nats-publisher-cb",
		MaxRequests: cfg.HalfOpenRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			total := counts.TotalSuccesses + counts.TotalFailures
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures ||
				(total > cfg.ConsecutiveFailures &&
					float64(counts.TotalFailures)/float64(total)*100 > float64(cfg.ErrorRatePercent))
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
		IsSuccessful: func(err error) bool {
			// a cancelled caller says nothing about broker health
			return err == nil || errors.Is(err, context.Canceled)
		},
	}
	return &NatsPublisher{
		js:      js,
		breaker: gobreaker.NewCircuitBreaker[*jetstream.PubAck](st),
	}
}

func (p *NatsPublisher) Publish(ctx context.Context, event messaging.Event) error {
	data, err := event.Payload()
	if err != nil {
		return fmt.Errorf("failed to get event payload: %w", err)
	}
	_, err = p.breaker.Execute(func() (*jetstream.PubAck, error) {
		return p.js.Publish(ctx, event.Subject(), data)
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Subject(), err)
	}
	return nil
}
