package commands

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	sharedDomain "github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/domain/dates"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
)

// 2024-01-07 is a Sunday.
var testNow = time.Date(2024, 1, 7, 20, 0, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func storedHabit(id string, freq domain.Frequency, days ...dates.Key) *domain.Habit {
	created := time.Date(2023, 12, 1, 9, 0, 0, 0, time.UTC)
	return &domain.Habit{
		Entity:      sharedDomain.RehydrateEntity(id, created, created),
		Title:       "Run",
		Frequency:   freq,
		TargetCount: 1,
		Completions: domain.NormalizeCompletions(days),
	}
}

type mockHabitRepo struct {
	mock.Mock
}

func (m *mockHabitRepo) Save(ctx context.Context, h domain.Habit) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}

func (m *mockHabitRepo) FindByID(ctx context.Context, id string) (*domain.Habit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Habit), args.Error(1)
}

func (m *mockHabitRepo) FindAll(ctx context.Context) ([]domain.Habit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Habit), args.Error(1)
}

func (m *mockHabitRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockOutboxRepo struct {
	mock.Mock
}

func (m *mockOutboxRepo) SaveBatch(ctx context.Context, msgs []*outbox.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *mockOutboxRepo) GetUnpublished(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *mockOutboxRepo) MarkPublished(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockOutboxRepo) MarkFailed(ctx context.Context, id int64, err string, nextRetryAt time.Time) error {
	return m.Called(ctx, id, err, nextRetryAt).Error(0)
}

func (m *mockOutboxRepo) MarkDead(ctx context.Context, id int64, reason string) error {
	return m.Called(ctx, id, reason).Error(0)
}

func (m *mockOutboxRepo) DeleteOld(ctx context.Context, olderThan time.Duration) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

type mockUnitOfWork struct {
	mock.Mock
}

func (m *mockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	return args.Get(0).(context.Context), args.Error(1)
}

func (m *mockUnitOfWork) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockUnitOfWork) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type txKey struct{}

func expectUnit(uow *mockUnitOfWork, ctx context.Context) context.Context {
	txCtx := context.WithValue(ctx, txKey{}, "tx")
	uow.On("Begin", ctx).Return(txCtx, nil)
	return txCtx
}
