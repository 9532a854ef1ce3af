package queries

import (
	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	sharedDomain "github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/domain/dates"
)

// HabitStreak is one habit's current streak.
type HabitStreak struct {
	HabitID    string `json:"habitId"`
	HabitTitle string `json:"habitTitle"`
	Streak     int    `json:"streak"`
}

// FrequencyBreakdown counts habits per frequency.
type FrequencyBreakdown struct {
	Daily  int `json:"daily"`
	Weekly int `json:"weekly"`
}

// HabitStats summarises a habit collection relative to a reference day.
type HabitStats struct {
	TotalHabits            int                `json:"totalHabits"`
	ActiveHabits           int                `json:"activeHabits"`
	CompletedToday         int                `json:"completedToday"`
	TotalCompletions       int                `json:"totalCompletions"`
	LongestStreakAcrossAll int                `json:"longestStreakAcrossAll"`
	PerHabitCurrentStreaks []HabitStreak      `json:"perHabitCurrentStreaks"`
	CompletionRateToday    int                `json:"completionRateToday"`
	FrequencyBreakdown     FrequencyBreakdown `json:"frequencyBreakdown"`
}

// ComputeHabitStats rolls habits up. A habit is active while its current
// streak is positive. PerHabitCurrentStreaks follows input order.
func ComputeHabitStats(habits []domain.Habit, today dates.Key) HabitStats {
	stats := HabitStats{
		TotalHabits:            len(habits),
		PerHabitCurrentStreaks: make([]HabitStreak, 0, len(habits)),
	}

	for _, h := range habits {
		current := domain.CurrentStreak(h.Frequency, h.Completions, today)
		if current > 0 {
			stats.ActiveHabits++
		}
		if h.IsCompletedOn(today) {
			stats.CompletedToday++
		}
		stats.TotalCompletions += h.TotalCompletions()
		if longest := domain.LongestStreak(h.Frequency, h.Completions); longest > stats.LongestStreakAcrossAll {
			stats.LongestStreakAcrossAll = longest
		}
		stats.PerHabitCurrentStreaks = append(stats.PerHabitCurrentStreaks, HabitStreak{
			HabitID:    h.ID,
			HabitTitle: h.Title,
			Streak:     current,
		})

		switch h.Frequency {
		case domain.FrequencyDaily:
			stats.FrequencyBreakdown.Daily++
		case domain.FrequencyWeekly:
			stats.FrequencyBreakdown.Weekly++
		}
	}

	stats.CompletionRateToday = sharedDomain.Percent(stats.CompletedToday, stats.TotalHabits)
	return stats
}
