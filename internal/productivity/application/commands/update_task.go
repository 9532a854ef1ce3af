package commands

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	sharedApplication "github.com/felixgeelhaar/cadence/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/cadence/pkg/observability"
)

// UpdateTaskCommand applies Patch to the task with TaskID.
type UpdateTaskCommand struct {
	TaskID string
	Patch  task.Patch
}

// UpdateTaskHandler handles the UpdateTaskCommand.
type UpdateTaskHandler struct {
	taskRepo   task.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	clock      sharedApplication.Clock
	logger     *slog.Logger
}

// NewUpdateTaskHandler creates a new UpdateTaskHandler.
func NewUpdateTaskHandler(
	taskRepo task.Repository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	clock sharedApplication.Clock,
	logger *slog.Logger,
) *UpdateTaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UpdateTaskHandler{
		taskRepo:   taskRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		clock:      clock,
		logger:     logger,
	}
}

// Handle loads the task, merges the patch and stores the result. An empty
// patch is a no-op: the stored task comes back with its UpdatedAt unchanged
// and no event is recorded.
func (h *UpdateTaskHandler) Handle(ctx context.Context, cmd UpdateTaskCommand) (task.Task, error) {
	var updated task.Task

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		existing, err := h.taskRepo.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return err
		}
		if existing == nil {
			return sharedDomain.NewNotFoundError("task", cmd.TaskID)
		}
		if cmd.Patch.IsEmpty() {
			updated = *existing
			return nil
		}

		now := h.clock()
		t, err := task.ApplyUpdate(*existing, cmd.Patch, now)
		if err != nil {
			return err
		}

		if err := h.taskRepo.Save(txCtx, t); err != nil {
			return err
		}

		if err := sharedApplication.RecordEvents(txCtx, h.outboxRepo,
			observability.CorrelationIDFromContext(ctx), task.NewTaskUpdated(t, cmd.Patch.Fields(), now)); err != nil {
			return err
		}

		updated = t
		return nil
	})
	if err != nil {
		return task.Task{}, err
	}

	h.logger.DebugContext(ctx, "task updated", "task_id", updated.ID, "fields", cmd.Patch.Fields())
	return updated, nil
}
