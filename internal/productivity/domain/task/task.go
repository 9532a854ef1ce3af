package task

import (
	"strings"
	"time"

	"github.com/felixgeelhaar/cadence/internal/productivity/domain/value_objects"
	"github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/domain/dates"
)

// Field limits, in characters.
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
	MaxCategoryLength    = 50
)

// Status represents the task lifecycle state. Any status may follow any other.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

var statusRanks = map[Status]int{
	StatusTodo:       1,
	StatusInProgress: 2,
	StatusDone:       3,
}

// Statuses lists every status in workflow order.
func Statuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusDone}
}

// ParseStatus creates a Status from a string, ignoring case and surrounding
// whitespace. The second result is false for unknown values.
func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	return st, st.IsValid()
}

func (s Status) String() string { return string(s) }

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	_, ok := statusRanks[s]
	return ok
}

// Rank orders statuses todo < in-progress < done. Unknown statuses rank 0.
func (s Status) Rank() int {
	return statusRanks[s]
}

// Task is a one-off work item. Tasks are plain values: operations return an
// updated copy and never modify their receiver.
type Task struct {
	domain.Entity
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	DueDate     dates.Key              `json:"dueDate,omitempty"`
	Priority    value_objects.Priority `json:"priority"`
	Status      Status                 `json:"status"`
	Category    string                 `json:"category"`
}

// Input holds the caller-supplied fields of a new task. Empty Priority and
// Status fall back to medium and todo.
type Input struct {
	Title       string
	Description string
	DueDate     string
	Priority    string
	Status      string
	Category    string
}

// Patch is a partial update. Nil fields are left unchanged; an empty DueDate
// clears the due date.
type Patch struct {
	Title       *string
	Description *string
	DueDate     *string
	Priority    *string
	Status      *string
	Category    *string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.DueDate == nil &&
		p.Priority == nil && p.Status == nil && p.Category == nil
}

// Fields returns the names of the fields the patch sets.
func (p Patch) Fields() []string {
	var fields []string
	if p.Title != nil {
		fields = append(fields, "title")
	}
	if p.Description != nil {
		fields = append(fields, "description")
	}
	if p.DueDate != nil {
		fields = append(fields, "dueDate")
	}
	if p.Priority != nil {
		fields = append(fields, "priority")
	}
	if p.Status != nil {
		fields = append(fields, "status")
	}
	if p.Category != nil {
		fields = append(fields, "category")
	}
	return fields
}

// New creates a task from in. The reference "today" for the due date check is
// the calendar day of now in now's own location, so callers pass a time in
// the user's zone. Failures are returned as *domain.ValidationError.
func New(in Input, now time.Time) (Task, error) {
	verr := domain.NewValidationError()

	t := Task{
		Entity:      domain.NewEntity(now),
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		Priority:    value_objects.DefaultPriority,
		Status:      StatusTodo,
	}

	if strings.TrimSpace(in.Priority) != "" {
		t.Priority = value_objects.Priority(strings.ToLower(strings.TrimSpace(in.Priority)))
	}
	if strings.TrimSpace(in.Status) != "" {
		t.Status = Status(strings.ToLower(strings.TrimSpace(in.Status)))
	}
	t.DueDate = parseDueDate(in.DueDate, verr)

	validateFields(t, verr)
	checkNotPast(t.DueDate, dates.FromTime(now), verr)

	if err := verr.OrNil(); err != nil {
		return Task{}, err
	}
	return t, nil
}

// ApplyUpdate merges p over t and re-validates the result with the creation
// rules, so an overdue task must be rescheduled or have its due date cleared
// before any other change is accepted. UpdatedAt is refreshed to now.
func ApplyUpdate(t Task, p Patch, now time.Time) (Task, error) {
	verr := domain.NewValidationError()
	updated := t

	if p.Title != nil {
		updated.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		updated.Description = strings.TrimSpace(*p.Description)
	}
	if p.Category != nil {
		updated.Category = strings.TrimSpace(*p.Category)
	}
	if p.Priority != nil {
		updated.Priority = value_objects.Priority(strings.ToLower(strings.TrimSpace(*p.Priority)))
	}
	if p.Status != nil {
		updated.Status = Status(strings.ToLower(strings.TrimSpace(*p.Status)))
	}
	if p.DueDate != nil {
		updated.DueDate = parseDueDate(*p.DueDate, verr)
	}
	checkNotPast(updated.DueDate, dates.FromTime(now), verr)

	validateFields(updated, verr)
	if err := verr.OrNil(); err != nil {
		return t, err
	}

	updated.Entity = updated.Touched(now)
	return updated, nil
}

// Validate checks t against the creation rules, including the past due date
// rule relative to today.
func Validate(t Task, today dates.Key) error {
	verr := domain.NewValidationError()
	if !t.DueDate.IsZero() && !t.DueDate.Valid() {
		verr.Add("dueDate", "due date must be a valid date (YYYY-MM-DD)")
	}
	validateFields(t, verr)
	checkNotPast(t.DueDate, today, verr)
	return verr.OrNil()
}

// ValidateRecord checks a stored or imported task. A record may legitimately
// be overdue, so the past due date rule does not apply; identity and
// timestamps must be present instead.
func ValidateRecord(t Task) error {
	verr := domain.NewValidationError()
	if strings.TrimSpace(t.ID) == "" {
		verr.Add("id", "id is required")
	}
	if !t.DueDate.IsZero() && !t.DueDate.Valid() {
		verr.Add("dueDate", "due date must be a valid date (YYYY-MM-DD)")
	}
	validateFields(t, verr)
	domain.ValidateTimestamps(t.Entity, verr)
	return verr.OrNil()
}

// IsDone reports whether the task is done.
func (t Task) IsDone() bool { return t.Status == StatusDone }

// IsOverdue reports whether the task is due before today and not done.
func (t Task) IsOverdue(today dates.Key) bool {
	return !t.IsDone() && dates.IsOverdue(t.DueDate, today)
}

// HasDueDate reports whether the task has a valid due date.
func (t Task) HasDueDate() bool { return t.DueDate.Valid() }

func parseDueDate(raw string, verr *domain.ValidationError) dates.Key {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	key := dates.Normalize(raw)
	if key.IsZero() {
		verr.Add("dueDate", "due date must be a valid date (YYYY-MM-DD)")
	}
	return key
}

func checkNotPast(due, today dates.Key, verr *domain.ValidationError) {
	if dates.IsOverdue(due, today) {
		verr.Add("dueDate", "due date cannot be in the past")
	}
}

func validateFields(t Task, verr *domain.ValidationError) {
	domain.ValidateTitle(t.Title, MaxTitleLength, verr)
	domain.ValidateLength("description", t.Description, MaxDescriptionLength, verr)
	domain.ValidateLength("category", t.Category, MaxCategoryLength, verr)
	if !t.Priority.IsValid() {
		verr.Add("priority", "priority must be one of low, medium, high")
	}
	if !t.Status.IsValid() {
		verr.Add("status", "status must be one of todo, in-progress, done")
	}
}
