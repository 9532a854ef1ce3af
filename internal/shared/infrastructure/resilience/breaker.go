// Package resilience guards storage calls with a circuit breaker so a dead
// database fails fast instead of stalling every command.
package resilience

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/convert"
)

// ErrUnavailable is wrapped into the PersistenceError returned while the
// breaker is open.
var ErrUnavailable = errors.New("storage temporarily unavailable")

// Config holds breaker settings.
type Config struct {
	Name             string
	FailureThreshold int
	Timeout          time.Duration
	MaxRequests      int
	Interval         time.Duration
}

// DefaultConfig returns settings tripping after five consecutive failures.
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		FailureThreshold: 5,
		Timeout:          30 * time.Second,
		MaxRequests:      1,
	}
}

// Breaker wraps a gobreaker circuit breaker.
type Breaker struct {
	cb     *gobreaker.CircuitBreaker[any]
	logger *slog.Logger
}

// NewBreaker creates a breaker from cfg.
func NewBreaker(cfg Config, logger *slog.Logger) *Breaker {
	if logger == nil {
		logger = slog.Default()
	}
	threshold := convert.IntToUint32Clamped(cfg.FailureThreshold)
	if threshold == 0 {
		threshold = 1
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: convert.IntToUint32Clamped(cfg.MaxRequests),
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
		IsSuccessful: isSuccessful,
	}
	return &Breaker{cb: gobreaker.NewCircuitBreaker[any](settings), logger: logger}
}

// Do runs fn through the breaker. op names the operation in the error
// returned when the breaker rejects the call.
func (b *Breaker) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	_, err := Call(ctx, b, op, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// Call runs fn through the breaker and returns its value.
func Call[T any](ctx context.Context, b *Breaker, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if b == nil {
		return fn(ctx)
	}
	result, err := b.cb.Execute(func() (any, error) {
		return fn(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, domain.NewPersistenceError(op, errors.Join(ErrUnavailable, err))
		}
		return zero, err
	}
	value, _ := result.(T)
	return value, nil
}

// State reports the breaker state.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

// Caller mistakes and missing rows say nothing about storage health.
func isSuccessful(err error) bool {
	if err == nil {
		return true
	}
	var verr *domain.ValidationError
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.As(err, &verr)
}
