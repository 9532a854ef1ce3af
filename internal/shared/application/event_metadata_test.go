package application

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEventMetadata(t *testing.T) {
	t.Run("keeps the given correlation ID", func(t *testing.T) {
		metadata := NewEventMetadata("corr-1")

		assert.Equal(t, "corr-1", metadata.CorrelationID)
		assert.NotEqual(t, uuid.Nil, metadata.CausationID)
	})

	t.Run("generates a correlation ID when empty", func(t *testing.T) {
		metadata1 := NewEventMetadata("")
		metadata2 := NewEventMetadata("")

		assert.NotEmpty(t, metadata1.CorrelationID)
		assert.NotEqual(t, metadata1.CorrelationID, metadata2.CorrelationID)
		assert.NotEqual(t, metadata1.CausationID, metadata2.CausationID)
	})
}

type testEvent struct {
	domain.BaseEvent
}

type nonSetterEvent struct {
	eventID uuid.UUID
}

func (e nonSetterEvent) EventID() uuid.UUID             { return e.eventID }
func (e nonSetterEvent) AggregateID() string            { return "" }
func (e nonSetterEvent) AggregateType() string          { return "test" }
func (e nonSetterEvent) RoutingKey() string             { return "test.event" }
func (e nonSetterEvent) OccurredAt() time.Time          { return time.Time{} }
func (e nonSetterEvent) Metadata() domain.EventMetadata { return domain.EventMetadata{} }

func TestApplyEventMetadata(t *testing.T) {
	t.Run("applies metadata to events with setter", func(t *testing.T) {
		event1 := &testEvent{BaseEvent: domain.NewBaseEvent("a", "test", "test.event1", time.Now())}
		event2 := &testEvent{BaseEvent: domain.NewBaseEvent("b", "test", "test.event2", time.Now())}

		metadata := NewEventMetadata("corr-1")
		ApplyEventMetadata([]domain.DomainEvent{event1, event2}, metadata)

		assert.Equal(t, metadata, event1.Metadata())
		assert.Equal(t, metadata, event2.Metadata())
	})

	t.Run("skips events without setter", func(t *testing.T) {
		event := nonSetterEvent{eventID: uuid.New()}

		require.NotPanics(t, func() {
			ApplyEventMetadata([]domain.DomainEvent{event}, NewEventMetadata("corr-1"))
		})
		assert.Empty(t, event.Metadata().CorrelationID)
	})

	t.Run("handles nil event list", func(t *testing.T) {
		require.NotPanics(t, func() {
			ApplyEventMetadata(nil, NewEventMetadata(""))
		})
	})
}
