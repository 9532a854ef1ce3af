package consumers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/cadence/internal/insights/infrastructure/cache"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/eventbus"
)

func TestCacheInvalidator_OnBus(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := cache.NewMemoryCache()
	bus := eventbus.NewInProcessEventBus(logger)
	bus.RegisterConsumer(NewCacheInvalidator(c, logger))

	publish := func(routingKey string) {
		payload, err := json.Marshal(eventbus.ConsumedEvent{
			EventID:     uuid.New(),
			AggregateID: "a1",
			RoutingKey:  routingKey,
		})
		require.NoError(t, err)
		require.NoError(t, bus.Publish(ctx, routingKey, payload))
	}

	tests := []struct {
		routingKey  string
		invalidates bool
	}{
		{"productivity.task.created", true},
		{"productivity.task.deleted", true},
		{"habits.habit.completion_toggled", true},
		{"habits.habit.updated", true},
		{"billing.invoice.created", false},
	}
	for _, tt := range tests {
		t.Run(tt.routingKey, func(t *testing.T) {
			require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
			publish(tt.routingKey)
			if tt.invalidates {
				assert.Zero(t, c.Len())
			} else {
				assert.Equal(t, 1, c.Len())
			}
		})
	}
}
