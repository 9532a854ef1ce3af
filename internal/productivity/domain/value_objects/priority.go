package value_objects

import (
	"errors"
	"strings"
)

// Priority represents task urgency level.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DefaultPriority is assigned when a task is created without one.
const DefaultPriority = PriorityMedium

var (
	ErrInvalidPriority = errors.New("invalid priority value")
)

var priorityRanks = map[Priority]int{
	PriorityLow:    1,
	PriorityMedium: 2,
	PriorityHigh:   3,
}

// Priorities lists every priority from least to most urgent.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// ParsePriority creates a Priority from a string, ignoring case and
// surrounding whitespace.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", ErrInvalidPriority
	}
	return p, nil
}

// String returns the string representation of the priority.
func (p Priority) String() string {
	return string(p)
}

// IsValid returns true if the priority is a valid value.
func (p Priority) IsValid() bool {
	_, ok := priorityRanks[p]
	return ok
}

// Rank returns a numeric weight for sorting (higher = more urgent).
// Invalid priorities rank 0.
func (p Priority) Rank() int {
	return priorityRanks[p]
}
