package database

import (
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is how timestamps are stored in TEXT columns. It is fixed
// width and always UTC, so stored values order correctly as strings.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z"

// FormatTimestamp renders t for storage.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp reads a stored timestamp. Values written by other tools in
// RFC 3339 form are accepted too.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(TimestampLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// Rebind rewrites "?" placeholders into the form the driver expects.
// PostgreSQL uses $1, $2, ...; SQLite accepts "?" as written.
func Rebind(driver Driver, query string) string {
	if driver != DriverPostgres || !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for _, r := range query {
		switch {
		case r == '\'':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
