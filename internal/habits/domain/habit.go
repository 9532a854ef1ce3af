package domain

import (
	"sort"
	"strings"
	"time"

	sharedDomain "github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/domain/dates"
)

// Field limits.
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
	MaxCategoryLength    = 50
	MinTargetCount       = 1
	MaxTargetCount       = 100
	DefaultTargetCount   = 1
)

// Frequency represents how often a habit should be performed.
type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
)

// IsValid checks if the frequency is valid.
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly:
		return true
	default:
		return false
	}
}

func (f Frequency) String() string { return string(f) }

// ParseFrequency normalises case and whitespace. The second result is false
// for unknown values.
func ParseFrequency(s string) (Frequency, bool) {
	f := Frequency(strings.ToLower(strings.TrimSpace(s)))
	return f, f.IsValid()
}

// Habit represents a recurring activity the user wants to build.
// Completions is the set of days the habit was done, kept sorted and free of
// duplicates. It is never nil.
type Habit struct {
	sharedDomain.Entity
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Frequency   Frequency   `json:"frequency"`
	Category    string      `json:"category"`
	TargetCount int         `json:"targetCount"`
	Completions []dates.Key `json:"completions"`
}

// HabitInput holds the caller-supplied fields of a new habit. An empty
// Frequency means daily and a zero TargetCount means 1.
type HabitInput struct {
	Title       string
	Description string
	Frequency   string
	Category    string
	TargetCount int
}

// HabitPatch is a partial update. Nil fields are left unchanged.
// Completions are changed through ToggleCompletion only.
type HabitPatch struct {
	Title       *string
	Description *string
	Frequency   *string
	Category    *string
	TargetCount *int
}

// IsEmpty reports whether the patch changes nothing.
func (p HabitPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Frequency == nil &&
		p.Category == nil && p.TargetCount == nil
}

// Fields returns the names of the fields the patch sets.
func (p HabitPatch) Fields() []string {
	var fields []string
	if p.Title != nil {
		fields = append(fields, "title")
	}
	if p.Description != nil {
		fields = append(fields, "description")
	}
	if p.Frequency != nil {
		fields = append(fields, "frequency")
	}
	if p.Category != nil {
		fields = append(fields, "category")
	}
	if p.TargetCount != nil {
		fields = append(fields, "targetCount")
	}
	return fields
}

// NewHabit creates a habit with an empty completion set. Failures are
// returned as *sharedDomain.ValidationError.
func NewHabit(in HabitInput, now time.Time) (Habit, error) {
	h := Habit{
		Entity:      sharedDomain.NewEntity(now),
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Frequency:   FrequencyDaily,
		Category:    strings.TrimSpace(in.Category),
		TargetCount: in.TargetCount,
		Completions: []dates.Key{},
	}
	if strings.TrimSpace(in.Frequency) != "" {
		h.Frequency, _ = ParseFrequency(in.Frequency)
	}
	if h.TargetCount == 0 {
		h.TargetCount = DefaultTargetCount
	}

	verr := sharedDomain.NewValidationError()
	validateFields(h, verr)
	if err := verr.OrNil(); err != nil {
		return Habit{}, err
	}
	return h, nil
}

// ApplyUpdate merges p over h, refreshes UpdatedAt and re-validates.
// The input habit is not modified.
func ApplyUpdate(h Habit, p HabitPatch, now time.Time) (Habit, error) {
	updated := h
	updated.Completions = cloneCompletions(h.Completions)

	if p.Title != nil {
		updated.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		updated.Description = strings.TrimSpace(*p.Description)
	}
	if p.Frequency != nil {
		updated.Frequency, _ = ParseFrequency(*p.Frequency)
	}
	if p.Category != nil {
		updated.Category = strings.TrimSpace(*p.Category)
	}
	if p.TargetCount != nil {
		updated.TargetCount = *p.TargetCount
	}

	verr := sharedDomain.NewValidationError()
	validateFields(updated, verr)
	if err := verr.OrNil(); err != nil {
		return h, err
	}

	updated.Entity = updated.Touched(now)
	return updated, nil
}

// ToggleCompletion adds day to the completion set when absent and removes it
// when present. Toggling the same day twice restores the original set. The
// second result reports whether the habit is completed on day afterwards.
func ToggleCompletion(h Habit, day dates.Key, now time.Time) (Habit, bool, error) {
	if !day.Valid() {
		verr := sharedDomain.NewValidationError()
		verr.Add("date", "date must be a valid date (YYYY-MM-DD)")
		return h, false, verr
	}

	updated := h
	completions := make([]dates.Key, 0, len(h.Completions)+1)
	completed := true
	for _, c := range h.Completions {
		if c == day {
			completed = false
			continue
		}
		completions = append(completions, c)
	}
	if completed {
		completions = append(completions, day)
	}

	updated.Completions = NormalizeCompletions(completions)
	updated.Entity = updated.Touched(now)
	return updated, completed, nil
}

// IsCompletedOn reports whether the habit was completed on day.
func (h Habit) IsCompletedOn(day dates.Key) bool {
	if !day.Valid() {
		return false
	}
	for _, c := range h.Completions {
		if c == day {
			return true
		}
	}
	return false
}

// TotalCompletions returns the number of completed days.
func (h Habit) TotalCompletions() int {
	return len(h.Completions)
}

// ValidateRecord checks a stored or imported habit, including every
// completion date.
func ValidateRecord(h Habit) error {
	verr := sharedDomain.NewValidationError()
	if strings.TrimSpace(h.ID) == "" {
		verr.Add("id", "id is required")
	}
	validateFields(h, verr)
	for _, c := range h.Completions {
		if !c.Valid() {
			verr.Add("completions", "completions must contain valid dates (YYYY-MM-DD), got "+string(c))
			break
		}
	}
	sharedDomain.ValidateTimestamps(h.Entity, verr)
	return verr.OrNil()
}

// NormalizeCompletions canonicalises each entry, dropping empty and invalid
// ones, and returns a sorted set. The result is never nil.
func NormalizeCompletions(raw []dates.Key) []dates.Key {
	seen := make(map[dates.Key]struct{}, len(raw))
	out := make([]dates.Key, 0, len(raw))
	for _, c := range raw {
		key := dates.Normalize(string(c))
		if key.IsZero() {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func cloneCompletions(c []dates.Key) []dates.Key {
	out := make([]dates.Key, len(c))
	copy(out, c)
	return out
}

func validateFields(h Habit, verr *sharedDomain.ValidationError) {
	sharedDomain.ValidateTitle(h.Title, MaxTitleLength, verr)
	sharedDomain.ValidateLength("description", h.Description, MaxDescriptionLength, verr)
	sharedDomain.ValidateLength("category", h.Category, MaxCategoryLength, verr)
	if !h.Frequency.IsValid() {
		verr.Add("frequency", "frequency must be one of daily, weekly")
	}
	if h.TargetCount < MinTargetCount || h.TargetCount > MaxTargetCount {
		verr.Add("targetCount", "targetCount must be between 1 and 100")
	}
}
