package observability

import (
	"context"
	"log/slog"
	"time"
)

// Timer measures one operation and logs its duration when stopped.
type Timer struct {
	operation string
	start     time.Time
	logger    *slog.Logger
	now       func() time.Time
}

// StartTimer creates a timer for operation.
func StartTimer(logger *slog.Logger, operation string) *Timer {
	return &Timer{operation: operation, start: time.Now(), logger: logger, now: time.Now}
}

// Stop logs the outcome of the operation and returns its duration.
// Success logs at debug, failure at error.
func (t *Timer) Stop(ctx context.Context, err error) time.Duration {
	duration := t.now().Sub(t.start)
	if t.logger == nil {
		return duration
	}

	attrs := []any{
		slog.String("operation", t.operation),
		slog.Int64(DurationKey, duration.Milliseconds()),
	}
	if err != nil {
		t.logger.ErrorContext(ctx, "operation failed", append(attrs, slog.String(ErrorKey, err.Error()))...)
	} else {
		t.logger.DebugContext(ctx, "operation completed", attrs...)
	}
	return duration
}

// TimeOperation runs fn and logs how long it took.
func TimeOperation(ctx context.Context, logger *slog.Logger, operation string, fn func(context.Context) error) error {
	timer := StartTimer(logger, operation)
	err := fn(ctx)
	timer.Stop(ctx, err)
	return err
}
