package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ValidateTitle records an error when title is blank or longer than max characters.
func ValidateTitle(title string, max int, verr *ValidationError) {
	if strings.TrimSpace(title) == "" {
		verr.Add("title", "title is required")
		return
	}
	ValidateLength("title", title, max, verr)
}

// ValidateLength records an error when value is longer than max characters.
func ValidateLength(field, value string, max int, verr *ValidationError) {
	if utf8.RuneCountInString(value) > max {
		verr.Add(field, fmt.Sprintf("%s must be at most %d characters", field, max))
	}
}

// ValidateTimestamps checks the timestamp invariants of a stored record.
func ValidateTimestamps(e Entity, verr *ValidationError) {
	if e.CreatedAt.IsZero() {
		verr.Add("createdAt", "createdAt is required")
	}
	if e.UpdatedAt.IsZero() {
		verr.Add("updatedAt", "updatedAt is required")
	}
	if !e.CreatedAt.IsZero() && e.UpdatedAt.Before(e.CreatedAt) {
		verr.Add("updatedAt", "updatedAt cannot be before createdAt")
	}
}
