package queries

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	"github.com/felixgeelhaar/cadence/internal/productivity/domain/value_objects"
	sharedDomain "github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/domain/dates"
)

var epoch = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

// fixture builds a stored task; n orders creation time.
func fixture(id string, n int, title string, due dates.Key, p value_objects.Priority, s task.Status, category string) task.Task {
	created := epoch.Add(time.Duration(n) * time.Minute)
	return task.Task{
		Entity:   sharedDomain.RehydrateEntity(id, created, created),
		Title:    title,
		DueDate:  due,
		Priority: p,
		Status:   s,
		Category: category,
	}
}

func ids(tasks []task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

type mockTaskRepo struct {
	mock.Mock
}

func (m *mockTaskRepo) Save(ctx context.Context, t task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockTaskRepo) FindByID(ctx context.Context, id string) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *mockTaskRepo) FindAll(ctx context.Context) ([]task.Task, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]task.Task), args.Error(1)
}

func (m *mockTaskRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
