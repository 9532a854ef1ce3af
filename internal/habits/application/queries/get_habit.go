package queries

import (
	"context"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	sharedDomain "github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/domain/dates"
)

// GetHabitQuery contains the parameters for getting a single habit.
type GetHabitQuery struct {
	HabitID string
	Today   dates.Key
}

// GetHabitHandler handles the GetHabitQuery.
type GetHabitHandler struct {
	habitRepo domain.Repository
}

// NewGetHabitHandler creates a new GetHabitHandler.
func NewGetHabitHandler(habitRepo domain.Repository) *GetHabitHandler {
	return &GetHabitHandler{habitRepo: habitRepo}
}

// Handle executes the GetHabitQuery.
func (h *GetHabitHandler) Handle(ctx context.Context, query GetHabitQuery) (*HabitDTO, error) {
	habit, err := h.habitRepo.FindByID(ctx, query.HabitID)
	if err != nil {
		return nil, err
	}
	if habit == nil {
		return nil, sharedDomain.NewNotFoundError("habit", query.HabitID)
	}
	dto := ToHabitDTO(*habit, query.Today)
	return &dto, nil
}

// HabitStatsQuery asks for the habit roll-up on a reference day.
type HabitStatsQuery struct {
	Today dates.Key
}

// HabitStatsHandler computes HabitStats over every stored habit.
type HabitStatsHandler struct {
	habitRepo domain.Repository
}

// NewHabitStatsHandler creates a new HabitStatsHandler.
func NewHabitStatsHandler(habitRepo domain.Repository) *HabitStatsHandler {
	return &HabitStatsHandler{habitRepo: habitRepo}
}

// Handle executes the HabitStatsQuery.
func (h *HabitStatsHandler) Handle(ctx context.Context, query HabitStatsQuery) (HabitStats, error) {
	habits, err := h.habitRepo.FindAll(ctx)
	if err != nil {
		return HabitStats{}, err
	}
	return ComputeHabitStats(habits, query.Today), nil
}
