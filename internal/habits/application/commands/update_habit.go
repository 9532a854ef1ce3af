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

// UpdateHabitCommand applies Patch to the habit with HabitID.
type UpdateHabitCommand struct {
	HabitID string
	Patch   domain.HabitPatch
}

// UpdateHabitHandler handles the UpdateHabitCommand.
type UpdateHabitHandler struct {
	habitRepo  domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	clock      sharedApplication.Clock
	logger     *slog.Logger
}

// NewUpdateHabitHandler creates a new UpdateHabitHandler.
func NewUpdateHabitHandler(
	habitRepo domain.Repository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	clock sharedApplication.Clock,
	logger *slog.Logger,
) *UpdateHabitHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UpdateHabitHandler{
		habitRepo:  habitRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		clock:      clock,
		logger:     logger,
	}
}

// Handle merges the patch into the stored habit. Completions are kept. An
// empty patch is a no-op: UpdatedAt keeps its stored value and no event is
// recorded.
func (h *UpdateHabitHandler) Handle(ctx context.Context, cmd UpdateHabitCommand) (domain.Habit, error) {
	var updated domain.Habit

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		existing, err := h.habitRepo.FindByID(txCtx, cmd.HabitID)
		if err != nil {
			return err
		}
		if existing == nil {
			return sharedDomain.NewNotFoundError("habit", cmd.HabitID)
		}
		if cmd.Patch.IsEmpty() {
			updated = *existing
			return nil
		}

		now := h.clock()
		habit, err := domain.ApplyUpdate(*existing, cmd.Patch, now)
		if err != nil {
			return err
		}

		if err := h.habitRepo.Save(txCtx, habit); err != nil {
			return err
		}

		if err := sharedApplication.RecordEvents(txCtx, h.outboxRepo,
			observability.CorrelationIDFromContext(ctx), domain.NewHabitUpdated(habit, cmd.Patch.Fields(), now)); err != nil {
			return err
		}

		updated = habit
		return nil
	})
	if err != nil {
		return domain.Habit{}, err
	}

	h.logger.DebugContext(ctx, "habit updated", "habit_id", updated.ID, "fields", cmd.Patch.Fields())
	return updated, nil
}
