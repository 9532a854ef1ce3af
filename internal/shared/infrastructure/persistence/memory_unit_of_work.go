// Package persistence holds storage helpers shared by the in-memory backends.
package persistence

import (
	"context"
	"errors"
	"sync"
)

// ErrNoUnitOfWork is returned when Commit or Rollback run outside Begin.
var ErrNoUnitOfWork = errors.New("no unit of work in context")

// Snapshotter is implemented by memory repositories that can be restored
// when a unit of work rolls back.
type Snapshotter interface {
	// Snapshot captures current state and returns a function restoring it.
	Snapshot() (restore func())
}

type memoryScope struct {
	owner    bool
	restores []func()
}

type memoryKey struct{}

// MemoryUnitOfWork serialises units of work over in-memory repositories and
// undoes their writes on rollback.
type MemoryUnitOfWork struct {
	mu           sync.Mutex
	participants []Snapshotter
}

// NewMemoryUnitOfWork creates a unit of work guarding participants.
func NewMemoryUnitOfWork(participants ...Snapshotter) *MemoryUnitOfWork {
	return &MemoryUnitOfWork{participants: participants}
}

func (u *MemoryUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if scope, ok := ctx.Value(memoryKey{}).(*memoryScope); ok && scope != nil {
		return context.WithValue(ctx, memoryKey{}, &memoryScope{restores: scope.restores}), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	u.mu.Lock()
	scope := &memoryScope{owner: true}
	for _, p := range u.participants {
		scope.restores = append(scope.restores, p.Snapshot())
	}
	return context.WithValue(ctx, memoryKey{}, scope), nil
}

func (u *MemoryUnitOfWork) Commit(ctx context.Context) error {
	scope, err := scopeFrom(ctx)
	if err != nil {
		return err
	}
	if scope.owner {
		scope.owner = false
		u.mu.Unlock()
	}
	return nil
}

func (u *MemoryUnitOfWork) Rollback(ctx context.Context) error {
	scope, err := scopeFrom(ctx)
	if err != nil {
		return err
	}
	if !scope.owner {
		return nil
	}
	for i := len(scope.restores) - 1; i >= 0; i-- {
		scope.restores[i]()
	}
	scope.owner = false
	u.mu.Unlock()
	return nil
}

func scopeFrom(ctx context.Context) (*memoryScope, error) {
	scope, ok := ctx.Value(memoryKey{}).(*memoryScope)
	if !ok || scope == nil {
		return nil, ErrNoUnitOfWork
	}
	return scope, nil
}
