package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database"
)

// SQLRepository stores outbox messages in the outbox_events table on
// either SQL backend.
type SQLRepository struct {
	conn database.Connection
	now  func() time.Time
}

// NewSQLRepository creates an outbox repository over conn.
func NewSQLRepository(conn database.Connection) *SQLRepository {
	return &SQLRepository{conn: conn, now: time.Now}
}

func (r *SQLRepository) q(query string) string {
	return database.Rebind(r.conn.Driver(), query)
}

func (r *SQLRepository) SaveBatch(ctx context.Context, msgs []*Message) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	insert := r.q(`INSERT INTO outbox_events
		(event_id, aggregate_type, aggregate_id, event_type, routing_key, payload, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`)

	for _, msg := range msgs {
		createdAt := msg.CreatedAt
		if createdAt.IsZero() {
			createdAt = r.now()
		}
		metadata := string(msg.Metadata)
		if metadata == "" {
			metadata = "{}"
		}
		err := exec.QueryRow(ctx, insert,
			msg.EventID.String(),
			msg.AggregateType,
			msg.AggregateID,
			msg.EventType,
			msg.RoutingKey,
			string(msg.Payload),
			metadata,
			database.FormatTimestamp(createdAt),
		).Scan(&msg.ID)
		if err != nil {
			return fmt.Errorf("insert outbox event %s: %w", msg.EventID, err)
		}
	}
	return nil
}

func (r *SQLRepository) GetUnpublished(ctx context.Context, limit int) ([]*Message, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, r.q(`SELECT id, event_id, aggregate_type, aggregate_id, event_type,
		routing_key, payload, metadata, created_at, next_retry_at, retry_count, last_error
		FROM outbox_events
		WHERE published_at IS NULL AND dead_lettered_at IS NULL
		  AND (next_retry_at IS NULL OR next_retry_at <= ?)
		ORDER BY id
		LIMIT ?`), database.FormatTimestamp(r.now()), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []*Message
	for rows.Next() {
		var (
			msg         Message
			eventID     string
			payload     string
			metadata    string
			createdAt   string
			nextRetryAt *string
		)
		if err := rows.Scan(&msg.ID, &eventID, &msg.AggregateType, &msg.AggregateID, &msg.EventType,
			&msg.RoutingKey, &payload, &metadata, &createdAt, &nextRetryAt, &msg.RetryCount, &msg.LastError); err != nil {
			return nil, err
		}
		if msg.EventID, err = uuid.Parse(eventID); err != nil {
			return nil, fmt.Errorf("outbox event %d: %w", msg.ID, err)
		}
		if msg.CreatedAt, err = database.ParseTimestamp(createdAt); err != nil {
			return nil, fmt.Errorf("outbox event %d: %w", msg.ID, err)
		}
		if nextRetryAt != nil {
			at, err := database.ParseTimestamp(*nextRetryAt)
			if err != nil {
				return nil, fmt.Errorf("outbox event %d: %w", msg.ID, err)
			}
			msg.NextRetryAt = &at
		}
		msg.Payload = []byte(payload)
		msg.Metadata = []byte(metadata)
		msgs = append(msgs, &msg)
	}
	return msgs, rows.Err()
}

func (r *SQLRepository) MarkPublished(ctx context.Context, id int64) error {
	return r.exec(ctx, `UPDATE outbox_events SET published_at = ? WHERE id = ?`,
		database.FormatTimestamp(r.now()), id)
}

func (r *SQLRepository) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	return r.exec(ctx, `UPDATE outbox_events
		SET retry_count = retry_count + 1, last_error = ?, next_retry_at = ?
		WHERE id = ?`, errMsg, database.FormatTimestamp(nextRetryAt), id)
}

func (r *SQLRepository) MarkDead(ctx context.Context, id int64, reason string) error {
	return r.exec(ctx, `UPDATE outbox_events
		SET retry_count = retry_count + 1, dead_lettered_at = ?, dead_letter_reason = ?
		WHERE id = ?`, database.FormatTimestamp(r.now()), reason, id)
}

func (r *SQLRepository) DeleteOld(ctx context.Context, olderThan time.Duration) (int64, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	res, err := exec.Exec(ctx, r.q(`DELETE FROM outbox_events WHERE published_at IS NOT NULL AND published_at < ?`),
		database.FormatTimestamp(r.now().Add(-olderThan)))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *SQLRepository) exec(ctx context.Context, query string, args ...any) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, r.q(query), args...)
	return err
}
