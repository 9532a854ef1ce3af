package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/felixgeelhaar/cadence/pkg/observability"
)

// DefaultConsumerQueueName is the durable queue shared consumers read from.
const DefaultConsumerQueueName = "cadence.consumer"

// ErrConsumerRunning is returned by Start when the consumer is already
// reading its queue.
var ErrConsumerRunning = errors.New("consumer already running")

// RabbitMQConsumerConfig configures a RabbitMQConsumer.
type RabbitMQConsumerConfig struct {
	URL       string
	QueueName string
	Exchange  string
	// Exclusive queues are private to the connection and vanish with it,
	// which suits short-lived followers such as "events tail".
	Exclusive bool
	// Prefetch bounds unacknowledged deliveries; 0 means 1.
	Prefetch int
	Logger   *slog.Logger
}

// RabbitMQConsumer reads event envelopes from a queue bound to the topic
// exchange and dispatches them through a ConsumerRegistry.
type RabbitMQConsumer struct {
	cfg      RabbitMQConsumerConfig
	conn     *amqp.Connection
	channel  *amqp.Channel
	registry *ConsumerRegistry
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
	done    chan struct{}
}

// NewRabbitMQConsumer dials the broker and declares the queue.
func NewRabbitMQConsumer(cfg RabbitMQConsumerConfig, registry *ConsumerRegistry) (*RabbitMQConsumer, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.QueueName == "" {
		cfg.QueueName = DefaultConsumerQueueName
	}
	if cfg.Exchange == "" {
		cfg.Exchange = ExchangeName
	}
	if cfg.Prefetch <= 0 {
		cfg.Prefetch = 1
	}
	if registry == nil {
		registry = NewConsumerRegistry(cfg.Logger)
	}

	conn, ch, err := dialExchange(cfg.URL, cfg.Exchange)
	if err != nil {
		return nil, err
	}

	durable := !cfg.Exclusive
	if _, err := ch.QueueDeclare(cfg.QueueName, durable, cfg.Exclusive, cfg.Exclusive, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", cfg.QueueName, err)
	}

	cfg.Logger.Debug("RabbitMQ consumer connected", "queue", cfg.QueueName, "exchange", cfg.Exchange)

	return &RabbitMQConsumer{
		cfg:      cfg,
		conn:     conn,
		channel:  ch,
		registry: registry,
		logger:   cfg.Logger,
		done:     make(chan struct{}),
	}, nil
}

// RegisterConsumer adds consumer to the registry and binds the queue to each
// of its patterns. A failed binding is logged; the other patterns still bind.
func (c *RabbitMQConsumer) RegisterConsumer(consumer EventConsumer) {
	c.registry.Register(consumer)

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, pattern := range consumer.EventTypes() {
		if err := c.channel.QueueBind(c.cfg.QueueName, pattern, c.cfg.Exchange, false, nil); err != nil {
			c.logger.Error("failed to bind queue", "queue", c.cfg.QueueName, "pattern", pattern, "error", err)
			continue
		}
		c.logger.Debug("queue bound", "queue", c.cfg.QueueName, "pattern", pattern)
	}
}

// Start consumes until ctx is cancelled, Close is called or the broker
// drops the channel.
func (c *RabbitMQConsumer) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return ErrConsumerRunning
	}
	c.running = true
	c.mu.Unlock()

	if err := c.channel.Qos(c.cfg.Prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}
	deliveries, err := c.channel.Consume(c.cfg.QueueName, "", false, c.cfg.Exclusive, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume %s: %w", c.cfg.QueueName, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.done:
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel for %s closed", c.cfg.QueueName)
			}
			c.settle(d, c.handle(ctx, d))
		}
	}
}

// errUndecodable marks a body that can never be processed.
var errUndecodable = errors.New("undecodable event envelope")

func (c *RabbitMQConsumer) handle(ctx context.Context, d amqp.Delivery) error {
	event, err := DecodeEnvelope(d.Body, d.RoutingKey)
	if err != nil {
		return fmt.Errorf("%w: %v", errUndecodable, err)
	}

	timer := observability.StartTimer(c.logger, "dispatch "+event.RoutingKey)
	err = c.registry.Dispatch(ctx, event)
	timer.Stop(ctx, err)
	return err
}

// settle acks handled deliveries. An undecodable body is dropped; a failed
// dispatch is requeued once and dropped when it fails again.
func (c *RabbitMQConsumer) settle(d amqp.Delivery, err error) {
	var settleErr error
	switch {
	case err == nil:
		settleErr = d.Ack(false)
	case errors.Is(err, errUndecodable) || d.Redelivered:
		c.logger.Warn("dropping event", "routing_key", d.RoutingKey, "redelivered", d.Redelivered, "error", err)
		settleErr = d.Reject(false)
	default:
		settleErr = d.Nack(false, true)
	}
	if settleErr != nil {
		c.logger.Error("failed to settle delivery", "routing_key", d.RoutingKey, "error", settleErr)
	}
}

// Close stops Start and closes the channel and connection. It is safe to
// call more than once.
func (c *RabbitMQConsumer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.done:
		return nil
	default:
		close(c.done)
	}
	c.running = false

	if err := c.channel.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		c.logger.Warn("error closing channel", "error", err)
	}
	if err := c.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		return err
	}
	return nil
}
