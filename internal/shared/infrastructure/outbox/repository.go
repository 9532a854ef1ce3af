package outbox

import (
	"context"
	"time"
)

// Repository defines the interface for outbox persistence. SaveBatch joins
// the caller's unit of work when the context carries one.
type Repository interface {
	// SaveBatch stores messages and assigns their IDs.
	SaveBatch(ctx context.Context, msgs []*Message) error

	// GetUnpublished returns pending messages due for (re)delivery, oldest first.
	GetUnpublished(ctx context.Context, limit int) ([]*Message, error)

	// MarkPublished marks a message as successfully published.
	MarkPublished(ctx context.Context, id int64) error

	// MarkFailed records a publish failure and schedules the next attempt.
	MarkFailed(ctx context.Context, id int64, err string, nextRetryAt time.Time) error

	// MarkDead marks a message as dead-lettered.
	MarkDead(ctx context.Context, id int64, reason string) error

	// DeleteOld removes published messages older than the retention period.
	DeleteOld(ctx context.Context, olderThan time.Duration) (int64, error)
}
