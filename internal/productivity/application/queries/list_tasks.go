package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	"github.com/felixgeelhaar/cadence/internal/shared/domain/dates"
)

// TaskDTO is a data transfer object for tasks.
type TaskDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	DueDate     string    `json:"dueDate,omitempty"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	Category    string    `json:"category,omitempty"`
	Overdue     bool      `json:"overdue"`
	DueToday    bool      `json:"dueToday"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ToTaskDTO converts t, deriving the due flags relative to today.
func ToTaskDTO(t task.Task, today dates.Key) TaskDTO {
	return TaskDTO{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate.String(),
		Priority:    t.Priority.String(),
		Status:      t.Status.String(),
		Category:    t.Category,
		Overdue:     t.IsOverdue(today),
		DueToday:    !t.IsDone() && dates.IsToday(t.DueDate, today),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// ListTasksQuery contains the parameters for listing tasks.
type ListTasksQuery struct {
	Criteria TaskCriteria
	SortBy   SortKey
	Order    SortOrder
	Today    dates.Key
	Limit    int // 0 means no limit
}

// ListTasksHandler loads every task, then filters and sorts the snapshot.
type ListTasksHandler struct {
	taskRepo task.Repository
}

// NewListTasksHandler creates a new ListTasksHandler.
func NewListTasksHandler(taskRepo task.Repository) *ListTasksHandler {
	return &ListTasksHandler{taskRepo: taskRepo}
}

// Handle executes the ListTasksQuery.
func (h *ListTasksHandler) Handle(ctx context.Context, query ListTasksQuery) ([]TaskDTO, error) {
	tasks, err := h.taskRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	tasks = SortTasks(FilterTasks(tasks, query.Criteria), query.SortBy, query.Order)
	if query.Limit > 0 && len(tasks) > query.Limit {
		tasks = tasks[:query.Limit]
	}

	dtos := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		dtos[i] = ToTaskDTO(t, query.Today)
	}
	return dtos, nil
}
