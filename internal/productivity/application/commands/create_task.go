package commands

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	sharedApplication "github.com/felixgeelhaar/cadence/internal/shared/application"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/cadence/pkg/observability"
)

// CreateTaskCommand contains the data needed to create a task.
type CreateTaskCommand struct {
	Title       string
	Description string
	DueDate     string
	Priority    string
	Status      string
	Category    string
}

// CreateTaskHandler handles the CreateTaskCommand.
type CreateTaskHandler struct {
	taskRepo   task.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	clock      sharedApplication.Clock
	logger     *slog.Logger
}

// NewCreateTaskHandler creates a new CreateTaskHandler.
func NewCreateTaskHandler(
	taskRepo task.Repository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	clock sharedApplication.Clock,
	logger *slog.Logger,
) *CreateTaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CreateTaskHandler{
		taskRepo:   taskRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		clock:      clock,
		logger:     logger,
	}
}

// Handle validates and stores a new task, returning it as persisted.
func (h *CreateTaskHandler) Handle(ctx context.Context, cmd CreateTaskCommand) (task.Task, error) {
	var created task.Task

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		now := h.clock()
		t, err := task.New(task.Input{
			Title:       cmd.Title,
			Description: cmd.Description,
			DueDate:     cmd.DueDate,
			Priority:    cmd.Priority,
			Status:      cmd.Status,
			Category:    cmd.Category,
		}, now)
		if err != nil {
			return err
		}

		if err := h.taskRepo.Save(txCtx, t); err != nil {
			return err
		}

		if err := sharedApplication.RecordEvents(txCtx, h.outboxRepo,
			observability.CorrelationIDFromContext(ctx), task.NewTaskCreated(t, now)); err != nil {
			return err
		}

		created = t
		return nil
	})
	if err != nil {
		return task.Task{}, err
	}

	h.logger.DebugContext(ctx, "task created", "task_id", created.ID)
	return created, nil
}
