package persistence

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/domain/dates"
)

// MemoryHabitRepository keeps habits in process memory in creation order.
// Completion slices are copied on the way in and out.
type MemoryHabitRepository struct {
	mu     sync.RWMutex
	order  []string
	habits map[string]domain.Habit
}

// NewMemoryHabitRepository creates an empty repository.
func NewMemoryHabitRepository() *MemoryHabitRepository {
	return &MemoryHabitRepository{habits: make(map[string]domain.Habit)}
}

func (r *MemoryHabitRepository) Save(ctx context.Context, h domain.Habit) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.habits[h.ID]; !exists {
		r.order = append(r.order, h.ID)
	}
	r.habits[h.ID] = detach(h)
	return nil
}

func (r *MemoryHabitRepository) FindByID(ctx context.Context, id string) (*domain.Habit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.habits[id]
	if !ok {
		return nil, nil
	}
	h = detach(h)
	return &h, nil
}

func (r *MemoryHabitRepository) FindAll(ctx context.Context) ([]domain.Habit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Habit, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, detach(r.habits[id]))
	}
	return out, nil
}

func (r *MemoryHabitRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.habits[id]; !ok {
		return nil
	}
	delete(r.habits, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Snapshot lets a memory unit of work undo writes on rollback.
func (r *MemoryHabitRepository) Snapshot() func() {
	r.mu.RLock()
	order := append([]string(nil), r.order...)
	habits := make(map[string]domain.Habit, len(r.habits))
	for id, h := range r.habits {
		habits[id] = h
	}
	r.mu.RUnlock()

	return func() {
		r.mu.Lock()
		r.order = order
		r.habits = habits
		r.mu.Unlock()
	}
}

func detach(h domain.Habit) domain.Habit {
	completions := make([]dates.Key, len(h.Completions))
	copy(completions, h.Completions)
	h.Completions = completions
	return h
}
