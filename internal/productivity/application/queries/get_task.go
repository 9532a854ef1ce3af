package queries

import (
	"context"

	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	sharedDomain "github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/domain/dates"
)

// GetTaskQuery contains the parameters for getting a single task.
type GetTaskQuery struct {
	TaskID string
	Today  dates.Key
}

// GetTaskHandler handles the GetTaskQuery.
type GetTaskHandler struct {
	taskRepo task.Repository
}

// NewGetTaskHandler creates a new GetTaskHandler.
func NewGetTaskHandler(taskRepo task.Repository) *GetTaskHandler {
	return &GetTaskHandler{taskRepo: taskRepo}
}

// Handle executes the GetTaskQuery.
func (h *GetTaskHandler) Handle(ctx context.Context, query GetTaskQuery) (*TaskDTO, error) {
	t, err := h.taskRepo.FindByID(ctx, query.TaskID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, sharedDomain.NewNotFoundError("task", query.TaskID)
	}
	dto := ToTaskDTO(*t, query.Today)
	return &dto, nil
}

// TaskStatsQuery asks for the task roll-up on a reference day.
type TaskStatsQuery struct {
	Today dates.Key
}

// TaskStatsHandler computes TaskStats over every stored task.
type TaskStatsHandler struct {
	taskRepo task.Repository
}

// NewTaskStatsHandler creates a new TaskStatsHandler.
func NewTaskStatsHandler(taskRepo task.Repository) *TaskStatsHandler {
	return &TaskStatsHandler{taskRepo: taskRepo}
}

// Handle executes the TaskStatsQuery.
func (h *TaskStatsHandler) Handle(ctx context.Context, query TaskStatsQuery) (TaskStats, error) {
	tasks, err := h.taskRepo.FindAll(ctx)
	if err != nil {
		return TaskStats{}, err
	}
	return ComputeTaskStats(tasks, query.Today), nil
}
