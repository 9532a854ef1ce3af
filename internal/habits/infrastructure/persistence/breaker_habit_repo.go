package persistence

import (
	"context"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/resilience"
)

// BreakerHabitRepository routes every call through a circuit breaker.
type BreakerHabitRepository struct {
	next    domain.Repository
	breaker *resilience.Breaker
}

// NewBreakerHabitRepository wraps next with breaker.
func NewBreakerHabitRepository(next domain.Repository, breaker *resilience.Breaker) *BreakerHabitRepository {
	return &BreakerHabitRepository{next: next, breaker: breaker}
}

func (r *BreakerHabitRepository) Save(ctx context.Context, h domain.Habit) error {
	return r.breaker.Do(ctx, "habit.save", func(ctx context.Context) error {
		return r.next.Save(ctx, h)
	})
}

func (r *BreakerHabitRepository) FindByID(ctx context.Context, id string) (*domain.Habit, error) {
	return resilience.Call(ctx, r.breaker, "habit.find", func(ctx context.Context) (*domain.Habit, error) {
		return r.next.FindByID(ctx, id)
	})
}

func (r *BreakerHabitRepository) FindAll(ctx context.Context) ([]domain.Habit, error) {
	return resilience.Call(ctx, r.breaker, "habit.load", func(ctx context.Context) ([]domain.Habit, error) {
		return r.next.FindAll(ctx)
	})
}

func (r *BreakerHabitRepository) Delete(ctx context.Context, id string) error {
	return r.breaker.Do(ctx, "habit.delete", func(ctx context.Context) error {
		return r.next.Delete(ctx, id)
	})
}
