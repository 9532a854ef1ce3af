package transfer

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	habitDomain "github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	"github.com/felixgeelhaar/cadence/internal/productivity/domain/value_objects"
	sharedDomain "github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/domain/dates"
)

// taskRecord mirrors the exported task shape. Pointers tell absent fields
// from empty ones.
type taskRecord struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     string     `json:"dueDate"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	Category    string     `json:"category"`
	CreatedAt   *time.Time `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt"`
}

type habitRecord struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Frequency   string     `json:"frequency"`
	Category    string     `json:"category"`
	TargetCount *int       `json:"targetCount"`
	Completions []string   `json:"completions"`
	CreatedAt   *time.Time `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt"`
}

// decodeTask fills defaults the way the factory does, then applies the
// stored-record rules. The past due date rule does not apply.
func decodeTask(raw json.RawMessage, now time.Time) (task.Task, error) {
	var rec taskRecord
	if err := decodeObject(raw, &rec); err != nil {
		return task.Task{}, err
	}

	t := task.Task{
		Entity:      entityFor(rec.ID, rec.CreatedAt, rec.UpdatedAt, now),
		Title:       strings.TrimSpace(rec.Title),
		Description: strings.TrimSpace(rec.Description),
		Category:    strings.TrimSpace(rec.Category),
		Priority:    value_objects.DefaultPriority,
		Status:      task.StatusTodo,
	}
	if p := strings.TrimSpace(rec.Priority); p != "" {
		t.Priority = value_objects.Priority(strings.ToLower(p))
	}
	if st := strings.TrimSpace(rec.Status); st != "" {
		t.Status = task.Status(strings.ToLower(st))
	}
	if due := strings.TrimSpace(rec.DueDate); due != "" {
		t.DueDate = dates.Normalize(due)
		if t.DueDate.IsZero() {
			t.DueDate = dates.Key(due)
		}
	}

	return t, task.ValidateRecord(t)
}

// decodeHabit rejects a record with any unreadable completion date rather
// than dropping it.
func decodeHabit(raw json.RawMessage, now time.Time) (habitDomain.Habit, error) {
	var rec habitRecord
	if err := decodeObject(raw, &rec); err != nil {
		return habitDomain.Habit{}, err
	}

	h := habitDomain.Habit{
		Entity:      entityFor(rec.ID, rec.CreatedAt, rec.UpdatedAt, now),
		Title:       strings.TrimSpace(rec.Title),
		Description: strings.TrimSpace(rec.Description),
		Frequency:   habitDomain.FrequencyDaily,
		Category:    strings.TrimSpace(rec.Category),
		TargetCount: habitDomain.DefaultTargetCount,
	}
	if f := strings.TrimSpace(rec.Frequency); f != "" {
		h.Frequency, _ = habitDomain.ParseFrequency(f)
	}
	if rec.TargetCount != nil {
		h.TargetCount = *rec.TargetCount
	}

	keys := make([]dates.Key, 0, len(rec.Completions))
	for _, c := range rec.Completions {
		key := dates.Normalize(c)
		if key.IsZero() {
			verr := sharedDomain.NewValidationError()
			verr.Add("completions", fmt.Sprintf("completions must contain valid dates (YYYY-MM-DD), got %q", c))
			return h, verr
		}
		keys = append(keys, key)
	}
	h.Completions = habitDomain.NormalizeCompletions(keys)

	return h, habitDomain.ValidateRecord(h)
}

func decodeObject(raw json.RawMessage, v any) error {
	trimmed := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(trimmed, "{") {
		return fmt.Errorf("record must be a JSON object")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid record: %w", err)
	}
	return nil
}

// entityFor assigns a fresh id when absent. A missing createdAt takes
// updatedAt when present, otherwise now; a missing updatedAt takes the later
// of createdAt and now.
func entityFor(id string, createdAt, updatedAt *time.Time, now time.Time) sharedDomain.Entity {
	now = now.UTC()
	id = strings.TrimSpace(id)
	if id == "" {
		id = sharedDomain.NewEntity(now).ID
	}

	var created, updated time.Time
	switch {
	case createdAt != nil:
		created = createdAt.UTC()
	case updatedAt != nil:
		created = updatedAt.UTC()
	default:
		created = now
	}
	switch {
	case updatedAt != nil:
		updated = updatedAt.UTC()
	case created.After(now):
		updated = created
	default:
		updated = now
	}
	return sharedDomain.RehydrateEntity(id, created, updated)
}

// recordID extracts the id of a rejected record for error reports. It is
// empty when the record has none or cannot be read.
func recordID(raw json.RawMessage) string {
	var record struct {
		ID any `json:"id"`
	}
	if err := json.Unmarshal(raw, &record); err != nil {
		return ""
	}
	if id, ok := record.ID.(string); ok {
		return strings.TrimSpace(id)
	}
	return ""
}
