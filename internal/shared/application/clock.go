package application

import (
	"time"

	"github.com/felixgeelhaar/cadence/internal/shared/domain/dates"
)

// Clock reports the current time in the user's zone. Handlers derive the
// reference day from it.
type Clock func() time.Time

// SystemClock reads the wall clock in loc. A nil loc means time.Local.
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return func() time.Time { return time.Now().In(loc) }
}

// FixedClock always reports t.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// Today returns the calendar day the clock is on.
func (c Clock) Today() dates.Key {
	return dates.FromTime(c())
}
