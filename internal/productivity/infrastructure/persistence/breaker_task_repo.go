package persistence

import (
	"context"

	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/resilience"
)

// BreakerTaskRepository routes every call through a circuit breaker.
type BreakerTaskRepository struct {
	next    task.Repository
	breaker *resilience.Breaker
}

// NewBreakerTaskRepository wraps next with breaker.
func NewBreakerTaskRepository(next task.Repository, breaker *resilience.Breaker) *BreakerTaskRepository {
	return &BreakerTaskRepository{next: next, breaker: breaker}
}

func (r *BreakerTaskRepository) Save(ctx context.Context, t task.Task) error {
	return r.breaker.Do(ctx, "task.save", func(ctx context.Context) error {
		return r.next.Save(ctx, t)
	})
}

func (r *BreakerTaskRepository) FindByID(ctx context.Context, id string) (*task.Task, error) {
	return resilience.Call(ctx, r.breaker, "task.find", func(ctx context.Context) (*task.Task, error) {
		return r.next.FindByID(ctx, id)
	})
}

func (r *BreakerTaskRepository) FindAll(ctx context.Context) ([]task.Task, error) {
	return resilience.Call(ctx, r.breaker, "task.load", func(ctx context.Context) ([]task.Task, error) {
		return r.next.FindAll(ctx)
	})
}

func (r *BreakerTaskRepository) Delete(ctx context.Context, id string) error {
	return r.breaker.Do(ctx, "task.delete", func(ctx context.Context) error {
		return r.next.Delete(ctx, id)
	})
}
