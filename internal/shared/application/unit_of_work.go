package application

import (
	"context"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
)

// UnitOfWork scopes a read-modify-write sequence. SQL adapters map it to a
// transaction; the memory adapter serialises callers.
type UnitOfWork interface {
	Begin(ctx context.Context) (context.Context, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UnitOfWorkFunc runs against the context returned by Begin.
type UnitOfWorkFunc func(ctx context.Context) error

// WithUnitOfWork commits when fn succeeds and rolls back otherwise. A
// rollback failure never masks fn's error.
func WithUnitOfWork(ctx context.Context, uow UnitOfWork, fn UnitOfWorkFunc) error {
	txCtx, err := uow.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(txCtx); err != nil {
		_ = uow.Rollback(txCtx)
		return err
	}
	return uow.Commit(txCtx)
}

// RecordEvents stamps events with command metadata and stores them in the
// outbox. Call it with the unit of work context so the messages commit or
// roll back together with the state change.
func RecordEvents(ctx context.Context, outboxRepo outbox.Repository, correlationID string, events ...domain.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	ApplyEventMetadata(events, NewEventMetadata(correlationID))

	msgs, err := outbox.NewMessages(events)
	if err != nil {
		return err
	}
	return outboxRepo.SaveBatch(ctx, msgs)
}

// NewEventMetadata creates command-scoped metadata. An empty correlationID
// gets a fresh one, so events of one command always share an id.
func NewEventMetadata(correlationID string) domain.EventMetadata {
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	return domain.EventMetadata{
		CorrelationID: correlationID,
		CausationID:   uuid.New(),
	}
}

// ApplyEventMetadata sets metadata on the events that accept it.
func ApplyEventMetadata(events []domain.DomainEvent, metadata domain.EventMetadata) {
	for _, event := range events {
		if setter, ok := event.(interface{ SetMetadata(domain.EventMetadata) }); ok {
			setter.SetMetadata(metadata)
		}
	}
}
