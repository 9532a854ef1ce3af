// Package consumers holds event consumers for the insights bounded context.
package consumers

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/cadence/internal/insights/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/eventbus"
)

// CacheInvalidator drops memoised dashboards whenever a task or habit
// changes.
type CacheInvalidator struct {
	cache  domain.SnapshotCache
	logger *slog.Logger
}

// NewCacheInvalidator creates a new CacheInvalidator.
func NewCacheInvalidator(cache domain.SnapshotCache, logger *slog.Logger) *CacheInvalidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &CacheInvalidator{cache: cache, logger: logger}
}

// EventTypes returns the routing key patterns this consumer handles.
func (c *CacheInvalidator) EventTypes() []string {
	return []string{
		"productivity.task.*",
		"habits.habit.*",
	}
}

// Handle invalidates the dashboard cache.
func (c *CacheInvalidator) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	if err := c.cache.Invalidate(ctx); err != nil {
		return err
	}
	c.logger.DebugContext(ctx, "dashboard cache invalidated",
		"routing_key", event.RoutingKey,
		"aggregate_id", event.AggregateID,
	)
	return nil
}
