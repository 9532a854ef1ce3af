package domain

import (
	"time"

	"github.com/google/uuid"
)

// Entity carries the identity and timestamps shared by every record.
// Embedded by value so records stay plain, copyable values.
type Entity struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewEntity creates an entity with a generated ID and both timestamps set to now.
func NewEntity(now time.Time) Entity {
	now = now.UTC()
	return Entity{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// RehydrateEntity recreates an entity from persisted state.
func RehydrateEntity(id string, createdAt, updatedAt time.Time) Entity {
	return Entity{
		ID:        id,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// Touched returns a copy with UpdatedAt set to now. UpdatedAt never moves
// before CreatedAt, even if the clock does.
func (e Entity) Touched(now time.Time) Entity {
	now = now.UTC()
	if now.Before(e.CreatedAt) {
		now = e.CreatedAt
	}
	e.UpdatedAt = now
	return e
}

// SameIdentity checks if two entities have the same identity.
func (e Entity) SameIdentity(other Entity) bool {
	return e.ID != "" && e.ID == other.ID
}
