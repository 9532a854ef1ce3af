package queries

import (
	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	"github.com/felixgeelhaar/cadence/internal/productivity/domain/value_objects"
	sharedDomain "github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/domain/dates"
)

// UpcomingWindowDays is how far ahead Upcoming looks, today included.
const UpcomingWindowDays = 7

// PriorityBreakdown counts tasks per priority.
type PriorityBreakdown struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// TaskStats summarises a task collection relative to a reference day.
type TaskStats struct {
	Total             int               `json:"total"`
	Completed         int               `json:"completed"`
	InProgress        int               `json:"inProgress"`
	Todo              int               `json:"todo"`
	Overdue           int               `json:"overdue"`
	DueToday          int               `json:"dueToday"`
	Upcoming          int               `json:"upcoming"`
	CompletionRate    int               `json:"completionRate"`
	PriorityBreakdown PriorityBreakdown `json:"priorityBreakdown"`
}

// ComputeTaskStats rolls tasks up into counts. Overdue, DueToday and
// Upcoming only count tasks that are not done; Upcoming covers
// [today, today+7].
func ComputeTaskStats(tasks []task.Task, today dates.Key) TaskStats {
	stats := TaskStats{Total: len(tasks)}
	horizon := dates.AddDays(today, UpcomingWindowDays)

	for _, t := range tasks {
		switch t.Status {
		case task.StatusDone:
			stats.Completed++
		case task.StatusInProgress:
			stats.InProgress++
		case task.StatusTodo:
			stats.Todo++
		}

		switch t.Priority {
		case value_objects.PriorityHigh:
			stats.PriorityBreakdown.High++
		case value_objects.PriorityMedium:
			stats.PriorityBreakdown.Medium++
		case value_objects.PriorityLow:
			stats.PriorityBreakdown.Low++
		}

		if t.IsDone() || !today.Valid() {
			continue
		}
		if t.IsOverdue(today) {
			stats.Overdue++
		}
		if dates.IsToday(t.DueDate, today) {
			stats.DueToday++
		}
		if dates.Between(t.DueDate, today, horizon) {
			stats.Upcoming++
		}
	}

	stats.CompletionRate = sharedDomain.Percent(stats.Completed, stats.Total)
	return stats
}
