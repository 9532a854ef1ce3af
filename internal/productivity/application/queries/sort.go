package queries

import (
	"sort"
	"strings"

	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	"github.com/felixgeelhaar/cadence/internal/shared/domain/dates"
)

// SortKey names a task ordering.
type SortKey string

const (
	SortByDueDate   SortKey = "dueDate"
	SortByPriority  SortKey = "priority"
	SortByStatus    SortKey = "status"
	SortByTitle     SortKey = "title"
	SortByCreatedAt SortKey = "createdAt"
)

// SortOrder is asc or desc. Anything else sorts ascending.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// ParseSortKey accepts the camelCase key names and their snake_case forms.
// Unknown names yield "" which keeps input order.
func ParseSortKey(s string) SortKey {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", "")) {
	case "duedate", "due":
		return SortByDueDate
	case "priority":
		return SortByPriority
	case "status":
		return SortByStatus
	case "title":
		return SortByTitle
	case "createdat", "created":
		return SortByCreatedAt
	default:
		return ""
	}
}

// SortTasks returns a stably sorted copy of tasks. A task without a due date
// sorts as if due on the latest possible day. Priority ascends low, medium,
// high; status ascends todo, in-progress, done. An unknown key keeps input
// order.
func SortTasks(tasks []task.Task, key SortKey, order SortOrder) []task.Task {
	sorted := make([]task.Task, len(tasks))
	copy(sorted, tasks)

	compare := taskComparator(key)
	if compare == nil {
		return sorted
	}
	desc := order == Descending
	sort.SliceStable(sorted, func(i, j int) bool {
		c := compare(sorted[i], sorted[j])
		if desc {
			return c > 0
		}
		return c < 0
	})
	return sorted
}

func taskComparator(key SortKey) func(a, b task.Task) int {
	switch key {
	case SortByDueDate:
		return func(a, b task.Task) int { return dates.Compare(a.DueDate, b.DueDate) }
	case SortByPriority:
		return func(a, b task.Task) int { return a.Priority.Rank() - b.Priority.Rank() }
	case SortByStatus:
		return func(a, b task.Task) int { return a.Status.Rank() - b.Status.Rank() }
	case SortByTitle:
		return func(a, b task.Task) int {
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		}
	case SortByCreatedAt:
		return func(a, b task.Task) int { return a.CreatedAt.Compare(b.CreatedAt) }
	default:
		return nil
	}
}
