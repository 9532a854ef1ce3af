package task

import (
	"time"

	"github.com/felixgeelhaar/cadence/internal/shared/domain"
)

const (
	AggregateType = "Task"

	RoutingKeyCreated = "productivity.task.created"
	RoutingKeyUpdated = "productivity.task.updated"
	RoutingKeyDeleted = "productivity.task.deleted"
)

// TaskCreated is emitted when a new task is created.
type TaskCreated struct {
	domain.BaseEvent
	Title    string `json:"title"`
	Priority string `json:"priority"`
	DueDate  string `json:"dueDate,omitempty"`
}

// NewTaskCreated creates a TaskCreated event.
func NewTaskCreated(t Task, at time.Time) *TaskCreated {
	return &TaskCreated{
		BaseEvent: domain.NewBaseEvent(t.ID, AggregateType, RoutingKeyCreated, at),
		Title:     t.Title,
		Priority:  t.Priority.String(),
		DueDate:   t.DueDate.String(),
	}
}

// TaskUpdated is emitted when a task is updated.
type TaskUpdated struct {
	domain.BaseEvent
	Fields []string `json:"fields"` // Names of fields that were updated
	Status string   `json:"status"`
}

// NewTaskUpdated creates a TaskUpdated event.
func NewTaskUpdated(t Task, fields []string, at time.Time) *TaskUpdated {
	return &TaskUpdated{
		BaseEvent: domain.NewBaseEvent(t.ID, AggregateType, RoutingKeyUpdated, at),
		Fields:    fields,
		Status:    t.Status.String(),
	}
}

// TaskDeleted is emitted when a task is removed.
type TaskDeleted struct {
	domain.BaseEvent
}

// NewTaskDeleted creates a TaskDeleted event.
func NewTaskDeleted(taskID string, at time.Time) *TaskDeleted {
	return &TaskDeleted{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyDeleted, at),
	}
}
