// Package app wires Cadence's repositories, handlers and event plumbing.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	habitCommands "github.com/felixgeelhaar/cadence/internal/habits/application/commands"
	habitQueries "github.com/felixgeelhaar/cadence/internal/habits/application/queries"
	insightsConsumers "github.com/felixgeelhaar/cadence/internal/insights/application/consumers"
	insightsQueries "github.com/felixgeelhaar/cadence/internal/insights/application/queries"
	insightsDomain "github.com/felixgeelhaar/cadence/internal/insights/domain"
	insightsCache "github.com/felixgeelhaar/cadence/internal/insights/infrastructure/cache"
	"github.com/felixgeelhaar/cadence/internal/productivity/application/commands"
	"github.com/felixgeelhaar/cadence/internal/productivity/application/queries"
	sharedApplication "github.com/felixgeelhaar/cadence/internal/shared/application"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/cadence/internal/transfer"
	"github.com/felixgeelhaar/cadence/pkg/config"
	"github.com/felixgeelhaar/cadence/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	Clock  sharedApplication.Clock

	Storage *Storage

	// Redis is nil when the stats cache lives in memory.
	RedisClient *redis.Client
	StatsCache  insightsDomain.SnapshotCache

	// Publishers
	EventBus          *eventbus.InProcessEventBus
	RabbitMQPublisher *eventbus.RabbitMQPublisher
	EventPublisher    eventbus.Publisher
	OutboxProcessor   *outbox.Processor

	// Task handlers
	CreateTaskHandler *commands.CreateTaskHandler
	UpdateTaskHandler *commands.UpdateTaskHandler
	DeleteTaskHandler *commands.DeleteTaskHandler
	ListTasksHandler  *queries.ListTasksHandler
	GetTaskHandler    *queries.GetTaskHandler
	TaskStatsHandler  *queries.TaskStatsHandler

	// Habit handlers
	CreateHabitHandler      *habitCommands.CreateHabitHandler
	UpdateHabitHandler      *habitCommands.UpdateHabitHandler
	DeleteHabitHandler      *habitCommands.DeleteHabitHandler
	ToggleCompletionHandler *habitCommands.ToggleCompletionHandler
	ListHabitsHandler       *habitQueries.ListHabitsHandler
	GetHabitHandler         *habitQueries.GetHabitHandler
	HabitStatsHandler       *habitQueries.HabitStatsHandler

	// Insights
	GetDashboardHandler *insightsQueries.GetDashboardHandler

	Transfer *transfer.Service
	Health   *observability.HealthRegistry
}

// Option customises a Container before its handlers are wired.
type Option func(*Container)

// WithClock replaces the wall clock handlers use to resolve "today".
func WithClock(clock sharedApplication.Clock) Option {
	return func(c *Container) {
		if clock != nil {
			c.Clock = clock
		}
	}
}

// NewContainer creates and wires all dependencies.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Container, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
		Clock:  sharedApplication.SystemClock(loc),
		Health: observability.NewHealthRegistry(),
	}
	for _, opt := range opts {
		opt(c)
	}

	storage, err := NewRepositoryFactory(cfg, logger).Open(ctx)
	if err != nil {
		return nil, err
	}
	c.Storage = storage
	c.Health.Register("storage", observability.StorageHealthChecker(storage.Ping))

	if err := c.connectStatsCache(ctx); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.connectPublishers(); err != nil {
		c.Close()
		return nil, err
	}

	c.wireHandlers()
	return c, nil
}

// connectStatsCache prefers Redis when REDIS_URL is set. Outside production
// an unreachable Redis falls back to the in-memory cache.
func (c *Container) connectStatsCache(ctx context.Context) error {
	c.StatsCache = insightsCache.NewMemoryCache()
	if c.Config.RedisURL == "" {
		return nil
	}

	opt, err := redis.ParseURL(c.Config.RedisURL)
	if err != nil {
		if c.Config.IsProduction() {
			return fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		c.Logger.Warn("invalid Redis URL, stats cache will use in-memory fallback", "error", err)
		return nil
	}

	client := redis.NewClient(opt)
	redisCache := insightsCache.NewRedisCache(client, insightsCache.DefaultKeyPrefix)
	if err := redisCache.Ping(ctx); err != nil {
		_ = client.Close()
		if c.Config.IsProduction() {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.Logger.Warn("Redis not available, stats cache will use in-memory fallback", "error", err)
		return nil
	}

	c.RedisClient = client
	c.StatsCache = redisCache
	c.Health.Register("redis", observability.CacheHealthChecker(redisCache.Ping))
	c.Logger.Debug("connected to Redis")
	return nil
}

// connectPublishers routes outbox messages to the in-process bus and, when
// configured, to RabbitMQ as well.
func (c *Container) connectPublishers() error {
	c.EventBus = eventbus.NewInProcessEventBus(c.Logger)
	c.EventBus.RegisterConsumer(insightsConsumers.NewCacheInvalidator(c.StatsCache, c.Logger))

	publishers := []eventbus.Publisher{c.EventBus}
	if c.Config.RabbitMQURL != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(c.Config.RabbitMQURL, c.Logger)
		if err != nil {
			if c.Config.IsProduction() {
				return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
			}
			c.Logger.Warn("RabbitMQ not available, events stay in process", "error", err)
		} else {
			c.RabbitMQPublisher = publisher
			publishers = append(publishers, publisher)
			c.Health.Register("rabbitmq", observability.BrokerHealthChecker(publisher.Ping))
		}
	}
	c.EventPublisher = eventbus.NewMultiPublisher(publishers...)

	processorConfig := outbox.DefaultProcessorConfig()
	if c.Config.OutboxBatchSize > 0 {
		processorConfig.BatchSize = c.Config.OutboxBatchSize
	}
	if c.Config.OutboxMaxRetries > 0 {
		processorConfig.MaxRetries = c.Config.OutboxMaxRetries
	}
	processorConfig.Retention = c.Config.OutboxRetention
	c.OutboxProcessor = outbox.NewProcessor(c.Storage.Outbox, c.EventPublisher, processorConfig, c.Logger)
	return nil
}

func (c *Container) wireHandlers() {
	s := c.Storage

	c.CreateTaskHandler = commands.NewCreateTaskHandler(s.Tasks, s.Outbox, s.UnitOfWork, c.Clock, c.Logger)
	c.UpdateTaskHandler = commands.NewUpdateTaskHandler(s.Tasks, s.Outbox, s.UnitOfWork, c.Clock, c.Logger)
	c.DeleteTaskHandler = commands.NewDeleteTaskHandler(s.Tasks, s.Outbox, s.UnitOfWork, c.Clock, c.Logger)
	c.ListTasksHandler = queries.NewListTasksHandler(s.Tasks)
	c.GetTaskHandler = queries.NewGetTaskHandler(s.Tasks)
	c.TaskStatsHandler = queries.NewTaskStatsHandler(s.Tasks)

	c.CreateHabitHandler = habitCommands.NewCreateHabitHandler(s.Habits, s.Outbox, s.UnitOfWork, c.Clock, c.Logger)
	c.UpdateHabitHandler = habitCommands.NewUpdateHabitHandler(s.Habits, s.Outbox, s.UnitOfWork, c.Clock, c.Logger)
	c.DeleteHabitHandler = habitCommands.NewDeleteHabitHandler(s.Habits, s.Outbox, s.UnitOfWork, c.Clock, c.Logger)
	c.ToggleCompletionHandler = habitCommands.NewToggleCompletionHandler(s.Habits, s.Outbox, s.UnitOfWork, c.Clock, c.Logger)
	c.ListHabitsHandler = habitQueries.NewListHabitsHandler(s.Habits)
	c.GetHabitHandler = habitQueries.NewGetHabitHandler(s.Habits)
	c.HabitStatsHandler = habitQueries.NewHabitStatsHandler(s.Habits)

	ttl := c.Config.StatsCacheTTL
	if ttl <= 0 {
		ttl = insightsQueries.DefaultCacheTTL
	}
	c.GetDashboardHandler = insightsQueries.NewGetDashboardHandler(s.Tasks, s.Habits, c.StatsCache, ttl, c.Logger)

	c.Transfer = transfer.NewService(s.Tasks, s.Habits, s.UnitOfWork, c.Clock, c.Logger)
}

// Flush publishes pending outbox messages and prunes old ones. Delivery
// problems are logged; the messages stay queued for the next command.
func (c *Container) Flush(ctx context.Context) {
	if c.OutboxProcessor == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := observability.TimeOperation(ctx, c.Logger, "outbox drain", c.OutboxProcessor.Drain); err != nil {
		c.Logger.WarnContext(ctx, "failed to drain outbox", "error", err)
	}
	if _, err := c.OutboxProcessor.Cleanup(ctx); err != nil {
		c.Logger.WarnContext(ctx, "failed to clean up outbox", "error", err)
	}
}

// Close cleans up all resources.
func (c *Container) Close() {
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", "error", err)
		}
	}
	if c.Storage != nil {
		if err := c.Storage.Close(); err != nil {
			c.Logger.Warn("error closing database connection", "error", err)
		}
	}
}
