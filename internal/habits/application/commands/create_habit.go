package commands

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	sharedApplication "github.com/felixgeelhaar/cadence/internal/shared/application"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/cadence/pkg/observability"
)

// CreateHabitCommand contains the data needed to create a habit.
type CreateHabitCommand struct {
	Title       string
	Description string
	Frequency   string
	Category    string
	TargetCount int
}

// CreateHabitHandler handles the CreateHabitCommand.
type CreateHabitHandler struct {
	habitRepo  domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	clock      sharedApplication.Clock
	logger     *slog.Logger
}

// NewCreateHabitHandler creates a new CreateHabitHandler.
func NewCreateHabitHandler(
	habitRepo domain.Repository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	clock sharedApplication.Clock,
	logger *slog.Logger,
) *CreateHabitHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CreateHabitHandler{
		habitRepo:  habitRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		clock:      clock,
		logger:     logger,
	}
}

// Handle executes the CreateHabitCommand.
func (h *CreateHabitHandler) Handle(ctx context.Context, cmd CreateHabitCommand) (domain.Habit, error) {
	var created domain.Habit

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		now := h.clock()
		habit, err := domain.NewHabit(domain.HabitInput{
			Title:       cmd.Title,
			Description: cmd.Description,
			Frequency:   cmd.Frequency,
			Category:    cmd.Category,
			TargetCount: cmd.TargetCount,
		}, now)
		if err != nil {
			return err
		}

		if err := h.habitRepo.Save(txCtx, habit); err != nil {
			return err
		}

		if err := sharedApplication.RecordEvents(txCtx, h.outboxRepo,
			observability.CorrelationIDFromContext(ctx), domain.NewHabitCreated(habit, now)); err != nil {
			return err
		}

		created = habit
		return nil
	})
	if err != nil {
		return domain.Habit{}, err
	}

	h.logger.DebugContext(ctx, "habit created", "habit_id", created.ID, "frequency", created.Frequency)
	return created, nil
}
