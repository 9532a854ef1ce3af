package app

import (
	"context"
	"fmt"
	"log/slog"

	habitsDomain "github.com/felixgeelhaar/cadence/internal/habits/domain"
	habitsPersistence "github.com/felixgeelhaar/cadence/internal/habits/infrastructure/persistence"
	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	productivityPersistence "github.com/felixgeelhaar/cadence/internal/productivity/infrastructure/persistence"
	sharedApplication "github.com/felixgeelhaar/cadence/internal/shared/application"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
	sharedPersistence "github.com/felixgeelhaar/cadence/internal/shared/infrastructure/persistence"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/resilience"
	"github.com/felixgeelhaar/cadence/pkg/config"
)

// Storage bundles the repositories and the unit of work that spans them.
type Storage struct {
	Tasks      task.Repository
	Habits     habitsDomain.Repository
	Outbox     outbox.Repository
	UnitOfWork sharedApplication.UnitOfWork

	// Conn is nil for in-memory storage.
	Conn database.Connection
}

// Ping checks the backing store.
func (s *Storage) Ping(ctx context.Context) error {
	if s.Conn == nil {
		return ctx.Err()
	}
	return s.Conn.Ping(ctx)
}

// Close releases the database connection, if any.
func (s *Storage) Close() error {
	if s.Conn == nil {
		return nil
	}
	return s.Conn.Close()
}

// RepositoryFactory creates storage for the configured backend.
type RepositoryFactory struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewRepositoryFactory creates a new repository factory.
func NewRepositoryFactory(cfg *config.Config, logger *slog.Logger) *RepositoryFactory {
	return &RepositoryFactory{cfg: cfg, logger: logger}
}

// Open builds in-memory or SQL storage. SQL storage is migrated before it
// is returned. Both variants put the task and habit repositories behind
// circuit breakers.
func (f *RepositoryFactory) Open(ctx context.Context) (*Storage, error) {
	var (
		storage *Storage
		err     error
	)
	if f.cfg.UsesMemoryStorage() {
		storage = f.memoryStorage()
	} else {
		storage, err = f.sqlStorage(ctx)
		if err != nil {
			return nil, err
		}
	}

	storage.Tasks = productivityPersistence.NewBreakerTaskRepository(storage.Tasks, f.breaker("tasks"))
	storage.Habits = habitsPersistence.NewBreakerHabitRepository(storage.Habits, f.breaker("habits"))
	return storage, nil
}

func (f *RepositoryFactory) memoryStorage() *Storage {
	tasks := productivityPersistence.NewMemoryTaskRepository()
	habits := habitsPersistence.NewMemoryHabitRepository()
	outboxRepo := outbox.NewInMemoryRepository()

	f.logger.Debug("using in-memory storage")
	return &Storage{
		Tasks:      tasks,
		Habits:     habits,
		Outbox:     outboxRepo,
		UnitOfWork: sharedPersistence.NewMemoryUnitOfWork(tasks, habits, outboxRepo),
	}
}

func (f *RepositoryFactory) sqlStorage(ctx context.Context) (*Storage, error) {
	dbCfg := database.Config{
		URL:        f.cfg.DatabaseURL,
		SQLitePath: f.cfg.SQLitePath,
		MaxConns:   f.cfg.DatabaseMaxConns,
	}
	if f.cfg.DatabaseDriver != "" {
		driver, err := database.ParseDriver(f.cfg.DatabaseDriver)
		if err != nil {
			return nil, err
		}
		dbCfg.Driver = driver
	}

	conn, err := database.Open(ctx, dbCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	applied, err := migrations.Run(ctx, conn)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	if len(applied) > 0 {
		f.logger.Info("applied migrations", "driver", conn.Driver(), "versions", applied)
	}

	return &Storage{
		Tasks:      productivityPersistence.NewSQLTaskRepository(conn),
		Habits:     habitsPersistence.NewSQLHabitRepository(conn),
		Outbox:     outbox.NewSQLRepository(conn),
		UnitOfWork: database.NewUnitOfWork(conn),
		Conn:       conn,
	}, nil
}

func (f *RepositoryFactory) breaker(name string) *resilience.Breaker {
	cfg := resilience.DefaultConfig(name)
	if f.cfg.BreakerFailureThreshold > 0 {
		cfg.FailureThreshold = f.cfg.BreakerFailureThreshold
	}
	if f.cfg.BreakerTimeout > 0 {
		cfg.Timeout = f.cfg.BreakerTimeout
	}
	return resilience.NewBreaker(cfg, f.logger)
}
