package queries

import (
	"strings"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/domain/dates"
)

// All disables a criterion.
const All = "all"

// HabitCriteria selects habits. Empty fields, "all" and unrecognised values
// impose no constraint. CompletedToday is "yes", "no" or "all".
type HabitCriteria struct {
	Search         string
	Frequency      string
	Category       string
	CompletedToday string
}

// FilterHabits returns the habits matching every criterion, in input order.
func FilterHabits(habits []domain.Habit, c HabitCriteria, today dates.Key) []domain.Habit {
	search := strings.ToLower(strings.TrimSpace(c.Search))
	freq, filterFreq := domain.ParseFrequency(c.Frequency)
	category := strings.TrimSpace(c.Category)
	filterCategory := category != "" && !strings.EqualFold(category, All)

	var wantDone, filterDone bool
	switch strings.ToLower(strings.TrimSpace(c.CompletedToday)) {
	case "yes":
		wantDone, filterDone = true, true
	case "no":
		wantDone, filterDone = false, true
	}

	out := make([]domain.Habit, 0, len(habits))
	for _, h := range habits {
		if search != "" && !matches(search, h) {
			continue
		}
		if filterFreq && h.Frequency != freq {
			continue
		}
		if filterCategory && h.Category != category {
			continue
		}
		if filterDone && h.IsCompletedOn(today) != wantDone {
			continue
		}
		out = append(out, h)
	}
	return out
}

func matches(needle string, h domain.Habit) bool {
	for _, field := range []string{h.Title, h.Description, h.Category} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
