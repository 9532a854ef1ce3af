package domain_test

import (
	"strings"
	"testing"
	"time"

	"github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/stretchr/testify/assert"
)

func TestValidateTitle(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		wantMsg string
	}{
		{"ok", "Read", ""},
		{"blank", "   ", "title is required"},
		{"at limit", strings.Repeat("a", 100), ""},
		{"counts characters not bytes", strings.Repeat("é", 100), ""},
		{"too long", strings.Repeat("a", 101), "title must be at most 100 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := domain.NewValidationError()
			domain.ValidateTitle(tt.title, 100, verr)
			assert.Equal(t, tt.wantMsg, verr.Fields["title"])
		})
	}
}

func TestValidateTimestamps(t *testing.T) {
	now := time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)

	verr := domain.NewValidationError()
	domain.ValidateTimestamps(domain.RehydrateEntity("a", now, now), verr)
	assert.False(t, verr.HasErrors())

	verr = domain.NewValidationError()
	domain.ValidateTimestamps(domain.RehydrateEntity("a", now, now.Add(-time.Second)), verr)
	assert.Equal(t, "updatedAt cannot be before createdAt", verr.Fields["updatedAt"])

	verr = domain.NewValidationError()
	domain.ValidateTimestamps(domain.Entity{ID: "a"}, verr)
	assert.Contains(t, verr.Fields, "createdAt")
	assert.Contains(t, verr.Fields, "updatedAt")
}
