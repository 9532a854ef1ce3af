package domain

import (
	"sort"

	sharedDomain "github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/domain/dates"
)

// StreakSummary bundles the streak metrics of one habit on a given day.
type StreakSummary struct {
	Current        int  `json:"current"`
	Longest        int  `json:"longest"`
	Rate7Days      int  `json:"rate7Days"`
	Rate30Days     int  `json:"rate30Days"`
	CompletedToday bool `json:"completedToday"`
}

// Summarize computes every streak metric for h relative to today.
func Summarize(h Habit, today dates.Key) StreakSummary {
	return StreakSummary{
		Current:        CurrentStreak(h.Frequency, h.Completions, today),
		Longest:        LongestStreak(h.Frequency, h.Completions),
		Rate7Days:      CompletionRate(h.Completions, 7, today),
		Rate30Days:     CompletionRate(h.Completions, 30, today),
		CompletedToday: h.IsCompletedOn(today),
	}
}

// CurrentStreak returns the number of consecutive completed periods ending at
// today (or, for daily habits, at yesterday). Weekly habits count weeks;
// anything else counts days.
func CurrentStreak(freq Frequency, completions []dates.Key, today dates.Key) int {
	if len(completions) == 0 || !today.Valid() {
		return 0
	}
	if freq == FrequencyWeekly {
		return currentWeeklyStreak(completions, today)
	}
	return currentDailyStreak(completions, today)
}

// LongestStreak returns the longest run of consecutive completed periods.
func LongestStreak(freq Frequency, completions []dates.Key) int {
	if len(completions) == 0 {
		return 0
	}
	if freq == FrequencyWeekly {
		return longestRun(weekStarts(completions), 7)
	}
	return longestRun(sortedDays(completions), 1)
}

// CompletionRate returns the percentage of the days in [today-days+1, today]
// that are completed, rounded half up.
func CompletionRate(completions []dates.Key, days int, today dates.Key) int {
	if len(completions) == 0 || days <= 0 || !today.Valid() {
		return 0
	}
	set := daySet(completions)
	start := dates.AddDays(today, -(days - 1))

	completed := 0
	for day := start; dates.Compare(day, today) <= 0; day = dates.AddDays(day, 1) {
		if _, ok := set[day]; ok {
			completed++
		}
	}
	return sharedDomain.Percent(completed, days)
}

// A day that is not completed yet does not break the streak: when today is
// absent the count starts at yesterday, so the streak can end on a day
// before today.
func currentDailyStreak(completions []dates.Key, today dates.Key) int {
	set := daySet(completions)

	day := today
	if _, ok := set[today]; !ok {
		day = dates.AddDays(today, -1)
	}

	streak := 0
	for {
		if _, ok := set[day]; !ok {
			return streak
		}
		streak++
		day = dates.AddDays(day, -1)
	}
}

// Weeks start on Sunday. The count starts at the current week, so a weekly
// habit not yet done this week has a current streak of 0.
func currentWeeklyStreak(completions []dates.Key, today dates.Key) int {
	weeks := make(map[dates.Key]struct{}, len(completions))
	for _, start := range weekStarts(completions) {
		weeks[start] = struct{}{}
	}

	week := dates.StartOfWeek(today)
	streak := 0
	for {
		if _, ok := weeks[week]; !ok {
			return streak
		}
		streak++
		week = dates.AddDays(week, -7)
	}
}

// longestRun scans ascending keys and counts runs whose neighbours are exactly
// step days apart.
func longestRun(sorted []dates.Key, step int) int {
	if len(sorted) == 0 {
		return 0
	}
	longest, run := 1, 1
	for i := 1; i < len(sorted); i++ {
		if dates.DaysBetween(sorted[i-1], sorted[i]) == step {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// daySet returns the valid completion days. Invalid entries are skipped.
func daySet(completions []dates.Key) map[dates.Key]struct{} {
	set := make(map[dates.Key]struct{}, len(completions))
	for _, c := range completions {
		if c.Valid() {
			set[c] = struct{}{}
		}
	}
	return set
}

func sortedDays(completions []dates.Key) []dates.Key {
	set := daySet(completions)
	days := make([]dates.Key, 0, len(set))
	for d := range set {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days
}

func weekStarts(completions []dates.Key) []dates.Key {
	seen := make(map[dates.Key]struct{})
	weeks := make([]dates.Key, 0)
	for _, d := range sortedDays(completions) {
		start := dates.StartOfWeek(d)
		if _, ok := seen[start]; ok {
			continue
		}
		seen[start] = struct{}{}
		weeks = append(weeks, start)
	}
	return weeks
}
