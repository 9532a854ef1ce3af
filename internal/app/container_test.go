package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	habitCommands "github.com/felixgeelhaar/cadence/internal/habits/application/commands"
	insightsQueries "github.com/felixgeelhaar/cadence/internal/insights/application/queries"
	"github.com/felixgeelhaar/cadence/internal/productivity/application/commands"
	"github.com/felixgeelhaar/cadence/internal/productivity/application/queries"
	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	sharedApplication "github.com/felixgeelhaar/cadence/internal/shared/application"
	"github.com/felixgeelhaar/cadence/internal/shared/domain/dates"
	"github.com/felixgeelhaar/cadence/internal/transfer"
	"github.com/felixgeelhaar/cadence/pkg/config"
	"github.com/felixgeelhaar/cadence/pkg/observability"
)

func testConfig(storage string) *config.Config {
	return &config.Config{
		AppEnv:                  "test",
		Timezone:                "UTC",
		Storage:                 storage,
		StatsCacheTTL:           time.Minute,
		BreakerFailureThreshold: 5,
		BreakerTimeout:          time.Second,
		OutboxBatchSize:         10,
		OutboxMaxRetries:        3,
		OutboxRetention:         time.Hour,
	}
}

func newTestContainer(t *testing.T, cfg *config.Config) *Container {
	t.Helper()
	c, err := NewContainer(context.Background(), cfg, observability.DiscardLogger())
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestNewContainer_MemoryStorage(t *testing.T) {
	c := newTestContainer(t, testConfig(config.StorageMemory))
	ctx := context.Background()

	assert.Nil(t, c.Storage.Conn)
	assert.Nil(t, c.RedisClient)
	assert.Nil(t, c.RabbitMQPublisher)

	created, err := c.CreateTaskHandler.Handle(ctx, commands.CreateTaskCommand{Title: "Write report", Priority: "high"})
	require.NoError(t, err)

	today := dates.FromTime(c.Clock())
	dashboard, err := c.GetDashboardHandler.Handle(ctx, insightsQueries.GetDashboardQuery{Today: today})
	require.NoError(t, err)
	assert.Equal(t, 1, dashboard.Tasks.Total)
	assert.False(t, dashboard.Cached)

	again, err := c.GetDashboardHandler.Handle(ctx, insightsQueries.GetDashboardQuery{Today: today})
	require.NoError(t, err)
	assert.True(t, again.Cached)

	done := "done"
	_, err = c.UpdateTaskHandler.Handle(ctx, commands.UpdateTaskCommand{TaskID: created.ID, Patch: task.Patch{Status: &done}})
	require.NoError(t, err)

	// Publishing the outbox runs the cache invalidator.
	c.Flush(ctx)
	pending, err := c.Storage.Outbox.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	fresh, err := c.GetDashboardHandler.Handle(ctx, insightsQueries.GetDashboardQuery{Today: today})
	require.NoError(t, err)
	assert.False(t, fresh.Cached)
	assert.Equal(t, 1, fresh.Tasks.Completed)
	assert.Equal(t, 100, fresh.Tasks.CompletionRate)
}

func TestNewContainer_SQLiteStorage(t *testing.T) {
	cfg := testConfig(config.StorageSQL)
	cfg.SQLitePath = filepath.Join(t.TempDir(), "cadence.db")
	c := newTestContainer(t, cfg)
	ctx := context.Background()

	require.NotNil(t, c.Storage.Conn)
	require.NoError(t, c.Storage.Ping(ctx))

	habit, err := c.CreateHabitHandler.Handle(ctx, habitCommands.CreateHabitCommand{Title: "Stretch", Frequency: "daily"})
	require.NoError(t, err)

	result, err := c.ToggleCompletionHandler.Handle(ctx, habitCommands.ToggleCompletionCommand{HabitID: habit.ID})
	require.NoError(t, err)
	assert.True(t, result.Completed)
	assert.Equal(t, 1, result.Streak)

	exported, err := c.Transfer.Export(ctx, transfer.KindHabits)
	require.NoError(t, err)
	assert.Contains(t, string(exported), habit.ID)

	c.Flush(ctx)
	pending, err := c.Storage.Outbox.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestNewContainer_TaskListing(t *testing.T) {
	c := newTestContainer(t, testConfig(config.StorageMemory))
	ctx := context.Background()

	for _, title := range []string{"b", "a", "c"} {
		_, err := c.CreateTaskHandler.Handle(ctx, commands.CreateTaskCommand{Title: title})
		require.NoError(t, err)
	}

	list, err := c.ListTasksHandler.Handle(ctx, queries.ListTasksQuery{SortBy: queries.SortByTitle, Order: queries.Ascending})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "a", list[0].Title)
}

func TestNewContainer_HealthChecks(t *testing.T) {
	c := newTestContainer(t, testConfig(config.StorageMemory))

	results := c.Health.Check(context.Background())
	require.Len(t, results, 1)
	assert.Equal(t, "storage", results[0].Name)
	assert.Equal(t, observability.HealthStatusHealthy, observability.OverallStatus(results))
}

func TestNewContainer_RejectsBadDriver(t *testing.T) {
	cfg := testConfig(config.StorageSQL)
	cfg.DatabaseDriver = "oracle"

	_, err := NewContainer(context.Background(), cfg, observability.DiscardLogger())
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestNewContainer_WithClock(t *testing.T) {
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	c, err := NewContainer(context.Background(), testConfig(config.StorageMemory), observability.DiscardLogger(),
		WithClock(sharedApplication.FixedClock(now)))
	require.NoError(t, err)
	t.Cleanup(c.Close)
	ctx := context.Background()

	assert.Equal(t, dates.Key("2024-01-10"), c.Clock.Today())

	created, err := c.CreateTaskHandler.Handle(ctx, commands.CreateTaskCommand{Title: "File taxes", DueDate: "2024-01-15"})
	require.NoError(t, err)
	assert.Equal(t, now, created.CreatedAt)

	_, err = c.CreateTaskHandler.Handle(ctx, commands.CreateTaskCommand{Title: "Too late", DueDate: "2024-01-09"})
	assert.Error(t, err)
}
