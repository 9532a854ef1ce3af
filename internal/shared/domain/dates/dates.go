// Package dates provides calendar-day arithmetic over canonical YYYY-MM-DD keys.
//
// Every function works on whole calendar days. Time-of-day never takes part in a
// comparison, and "today" is always supplied by the caller rather than read from
// the system clock. Absent or invalid input yields false, zero or an empty Key;
// nothing in this package panics on bad input.
package dates

import (
	"strings"
	"time"
)

// Layout is the wire format of a date key.
const Layout = "2006-01-02"

// Key is a calendar date in YYYY-MM-DD form. The empty Key means "no date".
type Key string

var parseLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// FromTime returns the key of t's calendar day in t's own location.
func FromTime(t time.Time) Key {
	if t.IsZero() {
		return ""
	}
	return Key(t.Format(Layout))
}

// Today returns the key for now in loc. A nil loc means time.Local.
func Today(now time.Time, loc *time.Location) Key {
	if loc == nil {
		loc = time.Local
	}
	return FromTime(now.In(loc))
}

// Normalize canonicalizes s into a Key. It accepts plain date keys and
// timestamps; for timestamps the calendar day is taken in the timestamp's own
// offset. It returns "" when s is empty or unparseable.
func Normalize(s string) Key {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if t, err := time.Parse(Layout, s); err == nil {
		return Key(t.Format(Layout))
	}
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Key(t.Format(Layout))
		}
	}
	return ""
}

// Valid reports whether k is a well-formed calendar date.
func (k Key) Valid() bool {
	if len(k) != len(Layout) {
		return false
	}
	_, err := time.Parse(Layout, string(k))
	return err == nil
}

// IsZero reports whether k is the empty key.
func (k Key) IsZero() bool { return k == "" }

// String returns the key as a string.
func (k Key) String() string { return string(k) }

// Time returns midnight UTC of the key's day. UTC keeps day arithmetic free of
// DST transitions. The second result is false for invalid keys.
func (k Key) Time() (time.Time, bool) {
	if len(k) != len(Layout) {
		return time.Time{}, false
	}
	t, err := time.Parse(Layout, string(k))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// AddDays returns the key n days after k (n may be negative).
func AddDays(k Key, n int) Key {
	t, ok := k.Time()
	if !ok {
		return ""
	}
	return FromTime(t.AddDate(0, 0, n))
}

// Compare orders two keys. Invalid keys sort after valid ones; two invalid
// keys compare equal.
func Compare(a, b Key) int {
	av, bv := a.Valid(), b.Valid()
	switch {
	case !av && !bv:
		return 0
	case !av:
		return 1
	case !bv:
		return -1
	}
	// Canonical keys order lexicographically.
	return strings.Compare(string(a), string(b))
}

// DaysBetween returns the absolute number of days between a and b, or 0 when
// either is invalid.
func DaysBetween(a, b Key) int {
	at, ok := a.Time()
	if !ok {
		return 0
	}
	bt, ok := b.Time()
	if !ok {
		return 0
	}
	d := int(at.Sub(bt).Hours() / 24)
	if d < 0 {
		return -d
	}
	return d
}

// SameDay reports whether a and b are the same valid calendar day.
func SameDay(a, b Key) bool {
	return a.Valid() && b.Valid() && a == b
}

// IsOverdue reports whether d falls strictly before today.
func IsOverdue(d, today Key) bool {
	return d.Valid() && today.Valid() && d < today
}

// IsToday reports whether d is today.
func IsToday(d, today Key) bool {
	return SameDay(d, today)
}

// IsTomorrow reports whether d is the day after today.
func IsTomorrow(d, today Key) bool {
	return SameDay(d, AddDays(today, 1))
}

// Between reports whether d lies in [start, end]. An empty bound is open.
// An invalid d is never between anything.
func Between(d, start, end Key) bool {
	if !d.Valid() {
		return false
	}
	if start.Valid() && d < start {
		return false
	}
	if end.Valid() && d > end {
		return false
	}
	return true
}

// StartOfWeek returns the Sunday on or before d.
func StartOfWeek(d Key) Key {
	t, ok := d.Time()
	if !ok {
		return ""
	}
	return FromTime(t.AddDate(0, 0, -int(t.Weekday())))
}
