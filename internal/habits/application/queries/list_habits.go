package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/domain/dates"
)

// HabitDTO is a data transfer object for habits.
type HabitDTO struct {
	ID               string               `json:"id"`
	Title            string               `json:"title"`
	Description      string               `json:"description,omitempty"`
	Frequency        string               `json:"frequency"`
	Category         string               `json:"category,omitempty"`
	TargetCount      int                  `json:"targetCount"`
	TotalCompletions int                  `json:"totalCompletions"`
	Streak           domain.StreakSummary `json:"streak"`
	CreatedAt        time.Time            `json:"createdAt"`
	UpdatedAt        time.Time            `json:"updatedAt"`
}

// ToHabitDTO converts h with its streak summary on today.
func ToHabitDTO(h domain.Habit, today dates.Key) HabitDTO {
	return HabitDTO{
		ID:               h.ID,
		Title:            h.Title,
		Description:      h.Description,
		Frequency:        h.Frequency.String(),
		Category:         h.Category,
		TargetCount:      h.TargetCount,
		TotalCompletions: h.TotalCompletions(),
		Streak:           domain.Summarize(h, today),
		CreatedAt:        h.CreatedAt,
		UpdatedAt:        h.UpdatedAt,
	}
}

// ListHabitsQuery contains the parameters for listing habits.
type ListHabitsQuery struct {
	Criteria HabitCriteria
	SortBy   SortKey
	Order    SortOrder
	Today    dates.Key
}

// ListHabitsHandler loads every habit, then filters and sorts the snapshot.
type ListHabitsHandler struct {
	habitRepo domain.Repository
}

// NewListHabitsHandler creates a new ListHabitsHandler.
func NewListHabitsHandler(habitRepo domain.Repository) *ListHabitsHandler {
	return &ListHabitsHandler{habitRepo: habitRepo}
}

// Handle executes the ListHabitsQuery.
func (h *ListHabitsHandler) Handle(ctx context.Context, query ListHabitsQuery) ([]HabitDTO, error) {
	habits, err := h.habitRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	habits = SortHabits(FilterHabits(habits, query.Criteria, query.Today), query.SortBy, query.Order, query.Today)

	dtos := make([]HabitDTO, len(habits))
	for i, habit := range habits {
		dtos[i] = ToHabitDTO(habit, query.Today)
	}
	return dtos, nil
}
