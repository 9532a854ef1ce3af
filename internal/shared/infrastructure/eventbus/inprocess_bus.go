package eventbus

import (
	"context"
	"log/slog"
	"sync"

	"github.com/felixgeelhaar/cadence/pkg/observability"
)

// InProcessEventBus delivers outbox messages to consumers living in the same
// process, such as the dashboard cache invalidator. Delivery is synchronous
// and serialised, so consumers observe events in publish order.
type InProcessEventBus struct {
	mu       sync.Mutex
	registry *ConsumerRegistry
	logger   *slog.Logger
}

// NewInProcessEventBus creates a bus with an empty registry.
func NewInProcessEventBus(logger *slog.Logger) *InProcessEventBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InProcessEventBus{registry: NewConsumerRegistry(logger), logger: logger}
}

// RegisterConsumer subscribes consumer to its event types.
func (b *InProcessEventBus) RegisterConsumer(consumer EventConsumer) {
	b.registry.Register(consumer)
}

// Registry exposes the bindings, mainly for diagnostics.
func (b *InProcessEventBus) Registry() *ConsumerRegistry {
	return b.registry
}

// Publish decodes the envelope and dispatches it. It never fails: a local
// consumer must not block outbox delivery to other publishers, so decode
// and consumer errors are only logged.
func (b *InProcessEventBus) Publish(ctx context.Context, routingKey string, payload []byte) error {
	event, err := DecodeEnvelope(payload, routingKey)
	if err != nil {
		b.logger.Error("dropping undecodable event", "routing_key", routingKey, "error", err)
		return nil
	}

	timer := observability.StartTimer(b.logger, "dispatch "+event.RoutingKey)
	timer.Stop(ctx, b.Dispatch(ctx, event))
	return nil
}

// Dispatch delivers an already decoded event and returns consumer errors.
func (b *InProcessEventBus) Dispatch(ctx context.Context, event *ConsumedEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.registry.Dispatch(ctx, event)
}

// Close is a no-op; the bus holds no connections.
func (b *InProcessEventBus) Close() error {
	return nil
}
