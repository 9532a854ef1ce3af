package queries

import (
	"strings"

	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	"github.com/felixgeelhaar/cadence/internal/productivity/domain/value_objects"
	"github.com/felixgeelhaar/cadence/internal/shared/domain/dates"
)

// All disables a criterion.
const All = "all"

// DateRange bounds a due date inclusively. An empty or invalid bound is open.
type DateRange struct {
	Start dates.Key
	End   dates.Key
}

// IsSet reports whether at least one bound constrains the range.
func (r DateRange) IsSet() bool {
	return r.Start.Valid() || r.End.Valid()
}

// TaskCriteria selects tasks. Empty fields and "all" impose no constraint,
// and so do status or priority values that are not recognised.
type TaskCriteria struct {
	Search    string
	Status    string
	Priority  string
	Category  string
	DateRange DateRange
}

// FilterTasks returns the tasks matching every criterion, in input order.
// The input slice is not modified.
func FilterTasks(tasks []task.Task, c TaskCriteria) []task.Task {
	search := strings.ToLower(strings.TrimSpace(c.Search))
	status, filterStatus := task.ParseStatus(c.Status)
	priority, err := value_objects.ParsePriority(c.Priority)
	filterPriority := err == nil
	category := strings.TrimSpace(c.Category)
	filterCategory := category != "" && !strings.EqualFold(category, All)

	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if search != "" && !containsFold(search, t.Title, t.Description, t.Category) {
			continue
		}
		if filterStatus && t.Status != status {
			continue
		}
		if filterPriority && t.Priority != priority {
			continue
		}
		if filterCategory && t.Category != category {
			continue
		}
		if c.DateRange.IsSet() && !dates.Between(t.DueDate, c.DateRange.Start, c.DateRange.End) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// containsFold reports whether any field contains needle, which must
// already be lower case.
func containsFold(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
