package queries

import (
	"sort"
	"strings"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/domain/dates"
)

// SortKey names a habit ordering.
type SortKey string

const (
	SortByTitle     SortKey = "title"
	SortByCreatedAt SortKey = "createdAt"
	SortByStreak    SortKey = "streak"
	SortByFrequency SortKey = "frequency"
)

// SortOrder is asc or desc. Anything else sorts ascending.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// ParseSortKey maps user input to a SortKey, or "" for input order.
func ParseSortKey(s string) SortKey {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", "")) {
	case "title", "name":
		return SortByTitle
	case "createdat", "created":
		return SortByCreatedAt
	case "streak":
		return SortByStreak
	case "frequency":
		return SortByFrequency
	default:
		return ""
	}
}

// SortHabits returns a stably sorted copy of habits. Streaks are measured
// on today. Daily sorts before weekly.
func SortHabits(habits []domain.Habit, key SortKey, order SortOrder, today dates.Key) []domain.Habit {
	sorted := make([]domain.Habit, len(habits))
	copy(sorted, habits)

	var rank func(a, b domain.Habit) int
	switch key {
	case SortByTitle:
		rank = func(a, b domain.Habit) int {
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		}
	case SortByCreatedAt:
		rank = func(a, b domain.Habit) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case SortByFrequency:
		rank = func(a, b domain.Habit) int { return frequencyRank(a.Frequency) - frequencyRank(b.Frequency) }
	case SortByStreak:
		streaks := make(map[string]int, len(sorted))
		for _, h := range sorted {
			streaks[h.ID] = domain.CurrentStreak(h.Frequency, h.Completions, today)
		}
		rank = func(a, b domain.Habit) int { return streaks[a.ID] - streaks[b.ID] }
	default:
		return sorted
	}

	desc := order == Descending
	sort.SliceStable(sorted, func(i, j int) bool {
		c := rank(sorted[i], sorted[j])
		if desc {
			return c > 0
		}
		return c < 0
	})
	return sorted
}

func frequencyRank(f domain.Frequency) int {
	switch f {
	case domain.FrequencyDaily:
		return 0
	case domain.FrequencyWeekly:
		return 1
	default:
		return 2
	}
}
