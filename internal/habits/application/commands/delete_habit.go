package commands

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	sharedApplication "github.com/felixgeelhaar/cadence/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/cadence/pkg/observability"
)

// DeleteHabitCommand removes the habit with HabitID and its completions.
type DeleteHabitCommand struct {
	HabitID string
}

// DeleteHabitHandler handles the DeleteHabitCommand.
type DeleteHabitHandler struct {
	habitRepo  domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	clock      sharedApplication.Clock
	logger     *slog.Logger
}

// NewDeleteHabitHandler creates a new DeleteHabitHandler.
func NewDeleteHabitHandler(
	habitRepo domain.Repository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	clock sharedApplication.Clock,
	logger *slog.Logger,
) *DeleteHabitHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeleteHabitHandler{
		habitRepo:  habitRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		clock:      clock,
		logger:     logger,
	}
}

// Handle executes the DeleteHabitCommand.
func (h *DeleteHabitHandler) Handle(ctx context.Context, cmd DeleteHabitCommand) error {
	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		existing, err := h.habitRepo.FindByID(txCtx, cmd.HabitID)
		if err != nil {
			return err
		}
		if existing == nil {
			return sharedDomain.NewNotFoundError("habit", cmd.HabitID)
		}

		if err := h.habitRepo.Delete(txCtx, cmd.HabitID); err != nil {
			return err
		}

		return sharedApplication.RecordEvents(txCtx, h.outboxRepo,
			observability.CorrelationIDFromContext(ctx), domain.NewHabitDeleted(cmd.HabitID, h.clock()))
	})
	if err != nil {
		return err
	}

	h.logger.DebugContext(ctx, "habit deleted", "habit_id", cmd.HabitID)
	return nil
}
