package commands

import (
	"context"
	"log/slog"
	"strings"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	sharedApplication "github.com/felixgeelhaar/cadence/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/domain/dates"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/cadence/pkg/observability"
)

// ToggleCompletionCommand flips the completion of HabitID on Date. An empty
// Date means today.
type ToggleCompletionCommand struct {
	HabitID string
	Date    string
}

// ToggleCompletionResult is the habit as persisted after the toggle.
type ToggleCompletionResult struct {
	Habit     domain.Habit
	Date      dates.Key
	Completed bool
	Streak    int
}

// ToggleCompletionHandler handles the ToggleCompletionCommand.
type ToggleCompletionHandler struct {
	habitRepo  domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	clock      sharedApplication.Clock
	logger     *slog.Logger
}

// NewToggleCompletionHandler creates a new ToggleCompletionHandler.
func NewToggleCompletionHandler(
	habitRepo domain.Repository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	clock sharedApplication.Clock,
	logger *slog.Logger,
) *ToggleCompletionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ToggleCompletionHandler{
		habitRepo:  habitRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		clock:      clock,
		logger:     logger,
	}
}

// Handle executes the ToggleCompletionCommand. The reported streak is the
// current streak on the clock's day, not on the toggled day.
func (h *ToggleCompletionHandler) Handle(ctx context.Context, cmd ToggleCompletionCommand) (ToggleCompletionResult, error) {
	var result ToggleCompletionResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		now := h.clock()
		today := dates.FromTime(now)

		day := today
		if strings.TrimSpace(cmd.Date) != "" {
			day = dates.Normalize(cmd.Date)
		}

		existing, err := h.habitRepo.FindByID(txCtx, cmd.HabitID)
		if err != nil {
			return err
		}
		if existing == nil {
			return sharedDomain.NewNotFoundError("habit", cmd.HabitID)
		}

		habit, completed, err := domain.ToggleCompletion(*existing, day, now)
		if err != nil {
			return err
		}

		if err := h.habitRepo.Save(txCtx, habit); err != nil {
			return err
		}

		streak := domain.CurrentStreak(habit.Frequency, habit.Completions, today)
		if err := sharedApplication.RecordEvents(txCtx, h.outboxRepo,
			observability.CorrelationIDFromContext(ctx),
			domain.NewHabitCompletionToggled(habit, day, completed, streak, now)); err != nil {
			return err
		}

		result = ToggleCompletionResult{Habit: habit, Date: day, Completed: completed, Streak: streak}
		return nil
	})
	if err != nil {
		return ToggleCompletionResult{}, err
	}

	h.logger.DebugContext(ctx, "habit completion toggled",
		"habit_id", result.Habit.ID,
		"date", result.Date,
		"completed", result.Completed,
		"streak", result.Streak,
	)
	return result, nil
}
