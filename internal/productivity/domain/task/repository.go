package task

import (
	"context"
)

// Repository defines the interface for task persistence. Save is an upsert
// by id (last write wins).
type Repository interface {
	Save(ctx context.Context, task Task) error
	// FindByID returns nil, nil when no task has the id.
	FindByID(ctx context.Context, id string) (*Task, error)
	// FindAll returns every task in creation order. Stored records that fail
	// ValidateRecord are reported as an error, never silently dropped.
	FindAll(ctx context.Context) ([]Task, error)
	Delete(ctx context.Context, id string) error
}
