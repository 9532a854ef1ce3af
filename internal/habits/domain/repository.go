package domain

import (
	"context"
)

// Repository defines the interface for habit persistence.
type Repository interface {
	// Save persists a habit and its completion set (create or update).
	Save(ctx context.Context, habit Habit) error

	// FindByID finds a habit by its ID. It returns nil, nil when absent.
	FindByID(ctx context.Context, id string) (*Habit, error)

	// FindAll returns every habit in creation order. Stored records that
	// fail ValidateRecord are reported as an error.
	FindAll(ctx context.Context) ([]Habit, error)

	// Delete removes a habit together with its completions.
	Delete(ctx context.Context, id string) error
}
