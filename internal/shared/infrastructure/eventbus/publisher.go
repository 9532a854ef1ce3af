package eventbus

import (
	"context"
	"errors"
	"log/slog"
)

// Publisher delivers an encoded event under a topic routing key. The outbox
// processor drives it.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
	Close() error
}

// NoopPublisher drops every message. Used when no broker is configured and
// nothing consumes events in process.
type NoopPublisher struct {
	logger *slog.Logger
}

// NewNoopPublisher creates a publisher that does nothing.
func NewNoopPublisher(logger *slog.Logger) *NoopPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopPublisher{logger: logger}
}

// Publish logs the message but doesn't actually publish.
func (p *NoopPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	p.logger.Debug("noop publish",
		"routing_key", routingKey,
		"size", len(payload),
	)
	return nil
}

// Close is a no-op.
func (p *NoopPublisher) Close() error {
	return nil
}

// MultiPublisher fans every message out to several publishers, e.g. the
// in-process bus for local consumers plus RabbitMQ for remote ones.
type MultiPublisher struct {
	publishers []Publisher
}

// NewMultiPublisher creates a fan-out publisher. Nil entries are skipped.
func NewMultiPublisher(publishers ...Publisher) *MultiPublisher {
	m := &MultiPublisher{}
	for _, p := range publishers {
		if p != nil {
			m.publishers = append(m.publishers, p)
		}
	}
	return m
}

// Publish delivers to every publisher and joins their errors.
func (m *MultiPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	var errs []error
	for _, p := range m.publishers {
		if err := p.Publish(ctx, routingKey, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every publisher and joins their errors.
func (m *MultiPublisher) Close() error {
	var errs []error
	for _, p := range m.publishers {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
