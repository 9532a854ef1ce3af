package persistence

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	"github.com/felixgeelhaar/cadence/internal/productivity/domain/value_objects"
	sharedDomain "github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/domain/dates"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database"
)

const taskColumns = `id, title, description, due_date, priority, status, category, created_at, updated_at`

// SQLTaskRepository implements task.Repository on SQLite or PostgreSQL.
type SQLTaskRepository struct {
	conn database.Connection
}

// NewSQLTaskRepository creates a repository over conn.
func NewSQLTaskRepository(conn database.Connection) *SQLTaskRepository {
	return &SQLTaskRepository{conn: conn}
}

func (r *SQLTaskRepository) executor(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

func (r *SQLTaskRepository) q(query string) string {
	return database.Rebind(r.conn.Driver(), query)
}

// Save upserts t; the last write for an id wins.
func (r *SQLTaskRepository) Save(ctx context.Context, t task.Task) error {
	_, err := r.executor(ctx).Exec(ctx, r.q(`INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			due_date = excluded.due_date,
			priority = excluded.priority,
			status = excluded.status,
			category = excluded.category,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`),
		t.ID,
		t.Title,
		t.Description,
		string(t.DueDate),
		t.Priority.String(),
		t.Status.String(),
		t.Category,
		database.FormatTimestamp(t.CreatedAt),
		database.FormatTimestamp(t.UpdatedAt),
	)
	return sharedDomain.NewPersistenceError("task.save", err)
}

func (r *SQLTaskRepository) FindByID(ctx context.Context, id string) (*task.Task, error) {
	row := r.executor(ctx).QueryRow(ctx, r.q(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`), id)
	t, err := scanTask(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, sharedDomain.NewPersistenceError("task.find", err)
	}
	return &t, nil
}

func (r *SQLTaskRepository) FindAll(ctx context.Context) ([]task.Task, error) {
	rows, err := r.executor(ctx).Query(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY created_at, id`)
	if err != nil {
		return nil, sharedDomain.NewPersistenceError("task.load", err)
	}
	defer rows.Close()

	tasks := make([]task.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, sharedDomain.NewPersistenceError("task.load", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, sharedDomain.NewPersistenceError("task.load", err)
	}
	return tasks, nil
}

func (r *SQLTaskRepository) Delete(ctx context.Context, id string) error {
	_, err := r.executor(ctx).Exec(ctx, r.q(`DELETE FROM tasks WHERE id = ?`), id)
	return sharedDomain.NewPersistenceError("task.delete", err)
}

// scanTask decodes one row and rejects rows that do not form a valid task.
func scanTask(row database.Row) (task.Task, error) {
	var (
		id, title, description, dueDate string
		priority, status, category      string
		createdAt, updatedAt            string
	)
	if err := row.Scan(&id, &title, &description, &dueDate, &priority, &status, &category, &createdAt, &updatedAt); err != nil {
		return task.Task{}, err
	}

	created, err := database.ParseTimestamp(createdAt)
	if err != nil {
		return task.Task{}, fmt.Errorf("task %s: created_at: %w", id, err)
	}
	updated, err := database.ParseTimestamp(updatedAt)
	if err != nil {
		return task.Task{}, fmt.Errorf("task %s: updated_at: %w", id, err)
	}

	t := task.Task{
		Entity:      sharedDomain.RehydrateEntity(id, created, updated),
		Title:       title,
		Description: description,
		DueDate:     dates.Key(dueDate),
		Priority:    value_objects.Priority(priority),
		Status:      task.Status(status),
		Category:    category,
	}
	if err := task.ValidateRecord(t); err != nil {
		return task.Task{}, fmt.Errorf("task %s: %w", id, err)
	}
	return t, nil
}
