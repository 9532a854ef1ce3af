package persistence

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
)

// MemoryTaskRepository keeps tasks in process memory in creation order.
type MemoryTaskRepository struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]task.Task
}

// NewMemoryTaskRepository creates an empty repository.
func NewMemoryTaskRepository() *MemoryTaskRepository {
	return &MemoryTaskRepository{byID: make(map[string]task.Task)}
}

func (r *MemoryTaskRepository) Save(ctx context.Context, t task.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[t.ID]; !exists {
		r.order = append(r.order, t.ID)
	}
	r.byID[t.ID] = t
	return nil
}

func (r *MemoryTaskRepository) FindByID(ctx context.Context, id string) (*task.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *MemoryTaskRepository) FindAll(ctx context.Context) ([]task.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]task.Task, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out, nil
}

func (r *MemoryTaskRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return nil
	}
	delete(r.byID, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Snapshot lets a memory unit of work undo writes on rollback.
func (r *MemoryTaskRepository) Snapshot() func() {
	r.mu.RLock()
	order := append([]string(nil), r.order...)
	byID := make(map[string]task.Task, len(r.byID))
	for id, t := range r.byID {
		byID[id] = t
	}
	r.mu.RUnlock()

	return func() {
		r.mu.Lock()
		r.order = order
		r.byID = byID
		r.mu.Unlock()
	}
}
