package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	sharedDomain "github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/domain/dates"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/resilience"
)

var now = time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)

func newHabit(t *testing.T, title string, offset time.Duration, days ...dates.Key) domain.Habit {
	t.Helper()
	h, err := domain.NewHabit(domain.HabitInput{Title: title, Frequency: "daily", Category: "health"}, now.Add(offset))
	require.NoError(t, err)
	for _, day := range days {
		h, _, err = domain.ToggleCompletion(h, day, now.Add(offset))
		require.NoError(t, err)
	}
	return h
}

func openSQL(t *testing.T) database.Connection {
	t.Helper()
	ctx := context.Background()
	conn, err := sqlite.Open(ctx, database.Config{SQLitePath: filepath.Join(t.TempDir(), "habits.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	_, err = migrations.Run(ctx, conn)
	require.NoError(t, err)
	return conn
}

func TestHabitRepository_Contract(t *testing.T) {
	repos := map[string]domain.Repository{
		"memory": NewMemoryHabitRepository(),
		"sqlite": NewSQLHabitRepository(openSQL(t)),
		"breaker": NewBreakerHabitRepository(NewMemoryHabitRepository(),
			resilience.NewBreaker(resilience.DefaultConfig("habits"), nil)),
	}

	for name, repo := range repos {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			missing, err := repo.FindByID(ctx, "nope")
			require.NoError(t, err)
			assert.Nil(t, missing)

			run := newHabit(t, "Run", 0, "2024-06-09", "2024-06-10")
			read := newHabit(t, "Read", time.Minute)
			require.NoError(t, repo.Save(ctx, run))
			require.NoError(t, repo.Save(ctx, read))

			found, err := repo.FindByID(ctx, run.ID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, []dates.Key{"2024-06-09", "2024-06-10"}, found.Completions)
			assert.Equal(t, domain.FrequencyDaily, found.Frequency)
			assert.Equal(t, 1, found.TargetCount)

			toggled, completed, err := domain.ToggleCompletion(*found, "2024-06-09", now.Add(time.Hour))
			require.NoError(t, err)
			assert.False(t, completed)
			require.NoError(t, repo.Save(ctx, toggled))

			all, err := repo.FindAll(ctx)
			require.NoError(t, err)
			require.Len(t, all, 2)
			assert.Equal(t, run.ID, all[0].ID)
			assert.Equal(t, []dates.Key{"2024-06-10"}, all[0].Completions)
			assert.NotNil(t, all[1].Completions)
			assert.Empty(t, all[1].Completions)

			require.NoError(t, repo.Delete(ctx, run.ID))
			gone, err := repo.FindByID(ctx, run.ID)
			require.NoError(t, err)
			assert.Nil(t, gone)
		})
	}
}

func TestSQLHabitRepository_DeleteRemovesCompletions(t *testing.T) {
	conn := openSQL(t)
	repo := NewSQLHabitRepository(conn)
	ctx := context.Background()

	h := newHabit(t, "Stretch", 0, "2024-06-01", "2024-06-02")
	require.NoError(t, repo.Save(ctx, h))
	require.NoError(t, repo.Delete(ctx, h.ID))

	var n int
	require.NoError(t, conn.QueryRow(ctx, `SELECT COUNT(*) FROM habit_completions`).Scan(&n))
	assert.Zero(t, n)
}

func TestSQLHabitRepository_SaveJoinsUnitOfWork(t *testing.T) {
	conn := openSQL(t)
	repo := NewSQLHabitRepository(conn)
	uow := database.NewUnitOfWork(conn)
	ctx := context.Background()

	txCtx, err := uow.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.Save(txCtx, newHabit(t, "Meditate", 0, "2024-06-10")))
	require.NoError(t, uow.Rollback(txCtx))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSQLHabitRepository_RejectsInvalidCompletion(t *testing.T) {
	conn := openSQL(t)
	repo := NewSQLHabitRepository(conn)
	ctx := context.Background()

	h := newHabit(t, "Journal", 0)
	require.NoError(t, repo.Save(ctx, h))
	_, err := conn.Exec(ctx, `INSERT INTO habit_completions (habit_id, day) VALUES (?, ?)`, h.ID, "2024-02-31")
	require.NoError(t, err)

	_, err = repo.FindAll(ctx)
	var perr *sharedDomain.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "habit.load", perr.Op)

	_, err = repo.FindByID(ctx, h.ID)
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "habit.find", perr.Op)
}

func TestMemoryHabitRepository_ReturnsDetachedCopies(t *testing.T) {
	repo := NewMemoryHabitRepository()
	ctx := context.Background()
	h := newHabit(t, "Walk", 0, "2024-06-10")
	require.NoError(t, repo.Save(ctx, h))

	h.Completions[0] = "1999-01-01"
	found, err := repo.FindByID(ctx, h.ID)
	require.NoError(t, err)
	found.Completions[0] = "2000-01-01"

	again, err := repo.FindByID(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, []dates.Key{"2024-06-10"}, again.Completions)
}

func TestMemoryHabitRepository_SnapshotRestores(t *testing.T) {
	repo := NewMemoryHabitRepository()
	ctx := context.Background()
	h := newHabit(t, "Walk", 0)
	require.NoError(t, repo.Save(ctx, h))

	restore := repo.Snapshot()
	require.NoError(t, repo.Delete(ctx, h.ID))
	restore()

	found, err := repo.FindByID(ctx, h.ID)
	require.NoError(t, err)
	assert.NotNil(t, found)
}
