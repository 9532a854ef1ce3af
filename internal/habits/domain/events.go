package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/domain/dates"
)

const aggregateType = "Habit"

const (
	RoutingKeyCreated          = "habits.habit.created"
	RoutingKeyUpdated          = "habits.habit.updated"
	RoutingKeyDeleted          = "habits.habit.deleted"
	RoutingKeyCompletionToggle = "habits.habit.completion_toggled"
)

// HabitCreated is emitted when a habit is created.
type HabitCreated struct {
	sharedDomain.BaseEvent
	HabitID   string `json:"habit_id"`
	Title     string `json:"title"`
	Frequency string `json:"frequency"`
}

// NewHabitCreated creates a HabitCreated event.
func NewHabitCreated(h Habit, at time.Time) *HabitCreated {
	return &HabitCreated{
		BaseEvent: sharedDomain.NewBaseEvent(h.ID, aggregateType, RoutingKeyCreated, at),
		HabitID:   h.ID,
		Title:     h.Title,
		Frequency: h.Frequency.String(),
	}
}

// HabitUpdated is emitted when habit fields change.
type HabitUpdated struct {
	sharedDomain.BaseEvent
	HabitID string   `json:"habit_id"`
	Fields  []string `json:"fields"`
}

// NewHabitUpdated creates a HabitUpdated event.
func NewHabitUpdated(h Habit, fields []string, at time.Time) *HabitUpdated {
	return &HabitUpdated{
		BaseEvent: sharedDomain.NewBaseEvent(h.ID, aggregateType, RoutingKeyUpdated, at),
		HabitID:   h.ID,
		Fields:    fields,
	}
}

// HabitDeleted is emitted when a habit and its completions are removed.
type HabitDeleted struct {
	sharedDomain.BaseEvent
	HabitID string `json:"habit_id"`
}

// NewHabitDeleted creates a HabitDeleted event.
func NewHabitDeleted(habitID string, at time.Time) *HabitDeleted {
	return &HabitDeleted{
		BaseEvent: sharedDomain.NewBaseEvent(habitID, aggregateType, RoutingKeyDeleted, at),
		HabitID:   habitID,
	}
}

// HabitCompletionToggled is emitted when a day is added to or removed from
// the completion set.
type HabitCompletionToggled struct {
	sharedDomain.BaseEvent
	HabitID   string `json:"habit_id"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
	Streak    int    `json:"streak"`
}

// NewHabitCompletionToggled creates a HabitCompletionToggled event. streak is
// the current streak after the toggle.
func NewHabitCompletionToggled(h Habit, day dates.Key, completed bool, streak int, at time.Time) *HabitCompletionToggled {
	return &HabitCompletionToggled{
		BaseEvent: sharedDomain.NewBaseEvent(h.ID, aggregateType, RoutingKeyCompletionToggle, at),
		HabitID:   h.ID,
		Date:      day.String(),
		Completed: completed,
		Streak:    streak,
	}
}
