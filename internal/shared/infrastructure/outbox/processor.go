package outbox

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/convert"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/eventbus"
)

// ProcessorConfig holds configuration for the outbox processor.
type ProcessorConfig struct {
	BatchSize        int
	MaxRetries       int
	RetryBackoffBase time.Duration
	RetryBackoffMax  time.Duration
	// MaxRounds bounds a single Drain call.
	MaxRounds int
	// Retention is how long published messages are kept before Cleanup removes them.
	Retention time.Duration
}

// DefaultProcessorConfig returns sensible defaults.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		BatchSize:        100,
		MaxRetries:       5,
		RetryBackoffBase: time.Second,
		RetryBackoffMax:  time.Minute,
		MaxRounds:        10,
		Retention:        7 * 24 * time.Hour,
	}
}

// Processor reads pending outbox messages and hands them to a publisher.
// The CLI drains it once per command; nothing runs in the background.
type Processor struct {
	repo      Repository
	publisher eventbus.Publisher
	config    ProcessorConfig
	logger    *slog.Logger
	now       func() time.Time

	mu    sync.Mutex
	stats Stats
}

// Stats summarises what the processor has done so far.
type Stats struct {
	PublishedCount  uint64
	FailedCount     uint64
	DeadCount       uint64
	LastError       string
	LastErrorAt     *time.Time
	LastProcessedAt *time.Time
}

// NewProcessor creates a new outbox processor.
func NewProcessor(repo Repository, publisher eventbus.Publisher, config ProcessorConfig, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if publisher == nil {
		publisher = eventbus.NewNoopPublisher(logger)
	}
	return &Processor{
		repo:      repo,
		publisher: publisher,
		config:    config,
		logger:    logger,
		now:       time.Now,
	}
}

// ProcessOnce publishes a single batch and reports how many messages it saw.
func (p *Processor) ProcessOnce(ctx context.Context) (int, error) {
	messages, err := p.repo.GetUnpublished(ctx, p.config.BatchSize)
	if err != nil {
		p.recordError(err)
		return 0, err
	}
	p.recordProcessed()

	for _, msg := range messages {
		p.deliver(ctx, msg)
	}
	return len(messages), nil
}

// Drain repeats ProcessOnce until a batch comes back short or MaxRounds is hit.
func (p *Processor) Drain(ctx context.Context) error {
	rounds := p.config.MaxRounds
	if rounds <= 0 {
		rounds = 1
	}
	for i := 0; i < rounds; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := p.ProcessOnce(ctx)
		if err != nil {
			return err
		}
		if p.config.BatchSize <= 0 || n < p.config.BatchSize {
			return nil
		}
	}
	return nil
}

// Cleanup removes published messages older than the configured retention.
func (p *Processor) Cleanup(ctx context.Context) (int64, error) {
	if p.config.Retention <= 0 {
		return 0, nil
	}
	deleted, err := p.repo.DeleteOld(ctx, p.config.Retention)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		p.logger.Debug("outbox cleanup", "deleted", deleted)
	}
	return deleted, nil
}

func (p *Processor) deliver(ctx context.Context, msg *Message) {
	meta := decodeMetadata(msg.Metadata)

	if err := p.publisher.Publish(ctx, msg.RoutingKey, msg.Payload); err != nil {
		p.logger.Warn("failed to publish outbox message",
			"id", msg.ID,
			"routing_key", msg.RoutingKey,
			"event_id", msg.EventID,
			"correlation_id", meta.CorrelationID,
			"error", err,
		)
		if p.shouldDeadLetter(msg) {
			p.recordDead(err)
			if markErr := p.repo.MarkDead(ctx, msg.ID, err.Error()); markErr != nil {
				p.logger.Error("failed to dead-letter outbox message", "id", msg.ID, "error", markErr)
			}
			return
		}
		p.recordFailed(err)
		next := p.now().Add(p.retryBackoff(msg.RetryCount + 1))
		if markErr := p.repo.MarkFailed(ctx, msg.ID, err.Error(), next); markErr != nil {
			p.logger.Error("failed to mark outbox message failed", "id", msg.ID, "error", markErr)
		}
		return
	}

	if err := p.repo.MarkPublished(ctx, msg.ID); err != nil {
		p.logger.Error("failed to mark outbox message published", "id", msg.ID, "error", err)
		return
	}
	p.recordPublished()
	p.logger.Debug("published event",
		"routing_key", msg.RoutingKey,
		"aggregate_id", msg.AggregateID,
		"correlation_id", meta.CorrelationID,
	)
}

func (p *Processor) shouldDeadLetter(msg *Message) bool {
	if p.config.MaxRetries <= 0 {
		return true
	}
	return msg.RetryCount+1 >= p.config.MaxRetries
}

func (p *Processor) retryBackoff(attempt int) time.Duration {
	base := p.config.RetryBackoffBase
	if base <= 0 {
		base = time.Second
	}
	ceiling := p.config.RetryBackoffMax
	if ceiling <= 0 {
		ceiling = time.Minute
	}
	if attempt < 1 {
		attempt = 1
	}
	// Past 30 doublings the ceiling always wins.
	if attempt > 31 {
		return ceiling
	}

	backoff := base * time.Duration(1<<convert.IntToUintClamped(attempt-1))
	if backoff <= 0 || backoff > ceiling {
		return ceiling
	}
	return backoff
}

func decodeMetadata(raw json.RawMessage) eventbus.EventMetadata {
	var meta eventbus.EventMetadata
	if len(raw) == 0 {
		return meta
	}
	_ = json.Unmarshal(raw, &meta)
	return meta
}

// GetStats returns current processor statistics.
func (p *Processor) GetStats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

func (p *Processor) recordPublished() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats.PublishedCount++
}

func (p *Processor) recordFailed(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats.FailedCount++
	p.setLastError(err)
}

func (p *Processor) recordDead(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats.DeadCount++
	p.setLastError(err)
}

func (p *Processor) recordError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setLastError(err)
}

func (p *Processor) setLastError(err error) {
	now := p.now()
	p.stats.LastError = err.Error()
	p.stats.LastErrorAt = &now
}

func (p *Processor) recordProcessed() {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := p.now()
	p.stats.LastProcessedAt = &now
}
