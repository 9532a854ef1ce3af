package persistence

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	sharedDomain "github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/domain/dates"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database"
)

const habitColumns = `id, title, description, frequency, category, target_count, created_at, updated_at`

// SQLHabitRepository implements domain.Repository on SQLite or PostgreSQL.
// Completions live in habit_completions and are replaced as a whole on Save.
type SQLHabitRepository struct {
	conn database.Connection
}

// NewSQLHabitRepository creates a repository over conn.
func NewSQLHabitRepository(conn database.Connection) *SQLHabitRepository {
	return &SQLHabitRepository{conn: conn}
}

func (r *SQLHabitRepository) q(query string) string {
	return database.Rebind(r.conn.Driver(), query)
}

// Save upserts h and its completion set atomically. It joins the caller's
// transaction when there is one.
func (r *SQLHabitRepository) Save(ctx context.Context, h domain.Habit) error {
	err := r.inTx(ctx, func(exec database.Executor) error {
		_, err := exec.Exec(ctx, r.q(`INSERT INTO habits (`+habitColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				title = excluded.title,
				description = excluded.description,
				frequency = excluded.frequency,
				category = excluded.category,
				target_count = excluded.target_count,
				created_at = excluded.created_at,
				updated_at = excluded.updated_at`),
			h.ID,
			h.Title,
			h.Description,
			h.Frequency.String(),
			h.Category,
			h.TargetCount,
			database.FormatTimestamp(h.CreatedAt),
			database.FormatTimestamp(h.UpdatedAt),
		)
		if err != nil {
			return err
		}

		if _, err := exec.Exec(ctx, r.q(`DELETE FROM habit_completions WHERE habit_id = ?`), h.ID); err != nil {
			return err
		}
		insert := r.q(`INSERT INTO habit_completions (habit_id, day) VALUES (?, ?)`)
		for _, day := range domain.NormalizeCompletions(h.Completions) {
			if _, err := exec.Exec(ctx, insert, h.ID, string(day)); err != nil {
				return err
			}
		}
		return nil
	})
	return sharedDomain.NewPersistenceError("habit.save", err)
}

func (r *SQLHabitRepository) FindByID(ctx context.Context, id string) (*domain.Habit, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)

	h, err := scanHabit(exec.QueryRow(ctx, r.q(`SELECT `+habitColumns+` FROM habits WHERE id = ?`), id))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, sharedDomain.NewPersistenceError("habit.find", err)
	}

	completions, err := r.loadCompletions(ctx, exec, r.q(`SELECT habit_id, day FROM habit_completions WHERE habit_id = ? ORDER BY day`), id)
	if err != nil {
		return nil, sharedDomain.NewPersistenceError("habit.find", err)
	}
	h.Completions = completionsOf(completions, h.ID)

	if err := domain.ValidateRecord(h); err != nil {
		return nil, sharedDomain.NewPersistenceError("habit.find", fmt.Errorf("habit %s: %w", h.ID, err))
	}
	return &h, nil
}

func (r *SQLHabitRepository) FindAll(ctx context.Context) ([]domain.Habit, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)

	habits, err := r.loadHabits(ctx, exec)
	if err != nil {
		return nil, sharedDomain.NewPersistenceError("habit.load", err)
	}
	// The habit cursor is closed before this query; SQLite runs one
	// statement per connection.
	completions, err := r.loadCompletions(ctx, exec, `SELECT habit_id, day FROM habit_completions ORDER BY habit_id, day`)
	if err != nil {
		return nil, sharedDomain.NewPersistenceError("habit.load", err)
	}

	for i := range habits {
		habits[i].Completions = completionsOf(completions, habits[i].ID)
		if err := domain.ValidateRecord(habits[i]); err != nil {
			return nil, sharedDomain.NewPersistenceError("habit.load", fmt.Errorf("habit %s: %w", habits[i].ID, err))
		}
	}
	return habits, nil
}

func (r *SQLHabitRepository) Delete(ctx context.Context, id string) error {
	err := r.inTx(ctx, func(exec database.Executor) error {
		if _, err := exec.Exec(ctx, r.q(`DELETE FROM habit_completions WHERE habit_id = ?`), id); err != nil {
			return err
		}
		_, err := exec.Exec(ctx, r.q(`DELETE FROM habits WHERE id = ?`), id)
		return err
	})
	return sharedDomain.NewPersistenceError("habit.delete", err)
}

func (r *SQLHabitRepository) loadHabits(ctx context.Context, exec database.Executor) ([]domain.Habit, error) {
	rows, err := exec.Query(ctx, `SELECT `+habitColumns+` FROM habits ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	habits := make([]domain.Habit, 0)
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (r *SQLHabitRepository) loadCompletions(ctx context.Context, exec database.Executor, query string, args ...any) (map[string][]dates.Key, error) {
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byHabit := make(map[string][]dates.Key)
	for rows.Next() {
		var habitID, day string
		if err := rows.Scan(&habitID, &day); err != nil {
			return nil, err
		}
		byHabit[habitID] = append(byHabit[habitID], dates.Key(day))
	}
	return byHabit, rows.Err()
}

// inTx runs fn on the caller's transaction, or on a new one it commits.
func (r *SQLHabitRepository) inTx(ctx context.Context, fn func(database.Executor) error) error {
	if tx := database.TxFromContext(ctx); tx != nil {
		return fn(tx)
	}
	tx, err := r.conn.BeginTx(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func completionsOf(byHabit map[string][]dates.Key, id string) []dates.Key {
	if c := byHabit[id]; c != nil {
		return c
	}
	return make([]dates.Key, 0)
}

func scanHabit(row database.Row) (domain.Habit, error) {
	var (
		id, title, description, frequency, category string
		targetCount                                 int
		createdAt, updatedAt                        string
	)
	if err := row.Scan(&id, &title, &description, &frequency, &category, &targetCount, &createdAt, &updatedAt); err != nil {
		return domain.Habit{}, err
	}
	created, err := database.ParseTimestamp(createdAt)
	if err != nil {
		return domain.Habit{}, fmt.Errorf("habit %s: created_at: %w", id, err)
	}
	updated, err := database.ParseTimestamp(updatedAt)
	if err != nil {
		return domain.Habit{}, fmt.Errorf("habit %s: updated_at: %w", id, err)
	}
	return domain.Habit{
		Entity:      sharedDomain.RehydrateEntity(id, created, updated),
		Title:       title,
		Description: description,
		Frequency:   domain.Frequency(frequency),
		Category:    category,
		TargetCount: targetCount,
	}, nil
}
