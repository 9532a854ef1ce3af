package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	sharedApplication "github.com/felixgeelhaar/cadence/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/domain/dates"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
)

var clock = sharedApplication.FixedClock(testNow)

func oneMessage(routingKey string) interface{} {
	return mock.MatchedBy(func(msgs []*outbox.Message) bool {
		return len(msgs) == 1 && msgs[0].RoutingKey == routingKey
	})
}

func TestCreateHabitHandler_Handle(t *testing.T) {
	t.Run("creates with defaults", func(t *testing.T) {
		repo := new(mockHabitRepo)
		ob := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		ctx := context.Background()
		txCtx := expectUnit(uow, ctx)
		uow.On("Commit", txCtx).Return(nil)
		repo.On("Save", txCtx, mock.AnythingOfType("domain.Habit")).Return(nil)
		ob.On("SaveBatch", txCtx, oneMessage(domain.RoutingKeyCreated)).Return(nil)

		created, err := NewCreateHabitHandler(repo, ob, uow, clock, quietLogger()).
			Handle(ctx, CreateHabitCommand{Title: "Meditate"})
		require.NoError(t, err)

		assert.NotEmpty(t, created.ID)
		assert.Equal(t, domain.FrequencyDaily, created.Frequency)
		assert.Equal(t, 1, created.TargetCount)
		assert.NotNil(t, created.Completions)
		assert.Empty(t, created.Completions)
		repo.AssertExpectations(t)
		ob.AssertExpectations(t)
	})

	t.Run("rejects an unknown frequency", func(t *testing.T) {
		repo := new(mockHabitRepo)
		uow := new(mockUnitOfWork)
		ctx := context.Background()
		txCtx := expectUnit(uow, ctx)
		uow.On("Rollback", txCtx).Return(nil)

		_, err := NewCreateHabitHandler(repo, new(mockOutboxRepo), uow, clock, quietLogger()).
			Handle(ctx, CreateHabitCommand{Title: "Meditate", Frequency: "monthly"})

		var verr *sharedDomain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "frequency")
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestUpdateHabitHandler_Handle(t *testing.T) {
	t.Run("keeps completions", func(t *testing.T) {
		repo := new(mockHabitRepo)
		ob := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		ctx := context.Background()
		txCtx := expectUnit(uow, ctx)
		uow.On("Commit", txCtx).Return(nil)
		repo.On("FindByID", txCtx, "h1").Return(storedHabit("h1", domain.FrequencyDaily, "2024-01-06"), nil)
		repo.On("Save", txCtx, mock.Anything).Return(nil)
		ob.On("SaveBatch", txCtx, oneMessage(domain.RoutingKeyUpdated)).Return(nil)

		weekly := "weekly"
		updated, err := NewUpdateHabitHandler(repo, ob, uow, clock, quietLogger()).
			Handle(ctx, UpdateHabitCommand{HabitID: "h1", Patch: domain.HabitPatch{Frequency: &weekly}})
		require.NoError(t, err)

		assert.Equal(t, domain.FrequencyWeekly, updated.Frequency)
		assert.Equal(t, []dates.Key{"2024-01-06"}, updated.Completions)
		assert.Equal(t, testNow, updated.UpdatedAt)
	})

	t.Run("missing habit", func(t *testing.T) {
		repo := new(mockHabitRepo)
		uow := new(mockUnitOfWork)
		ctx := context.Background()
		txCtx := expectUnit(uow, ctx)
		uow.On("Rollback", txCtx).Return(nil)
		repo.On("FindByID", txCtx, "h1").Return(nil, nil)

		title := "x"
		_, err := NewUpdateHabitHandler(repo, new(mockOutboxRepo), uow, clock, quietLogger()).
			Handle(ctx, UpdateHabitCommand{HabitID: "h1", Patch: domain.HabitPatch{Title: &title}})
		assert.ErrorIs(t, err, sharedDomain.ErrNotFound)
	})

	t.Run("invalid target count", func(t *testing.T) {
		repo := new(mockHabitRepo)
		uow := new(mockUnitOfWork)
		ctx := context.Background()
		txCtx := expectUnit(uow, ctx)
		uow.On("Rollback", txCtx).Return(nil)
		repo.On("FindByID", txCtx, "h1").Return(storedHabit("h1", domain.FrequencyDaily), nil)

		zero := 0
		_, err := NewUpdateHabitHandler(repo, new(mockOutboxRepo), uow, clock, quietLogger()).
			Handle(ctx, UpdateHabitCommand{HabitID: "h1", Patch: domain.HabitPatch{TargetCount: &zero}})

		var verr *sharedDomain.ValidationError
		require.ErrorAs(t, err, &verr)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("empty patch keeps updatedAt", func(t *testing.T) {
		repo := new(mockHabitRepo)
		ob := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		ctx := context.Background()
		txCtx := expectUnit(uow, ctx)
		uow.On("Commit", txCtx).Return(nil)
		stored := storedHabit("h1", domain.FrequencyDaily)
		repo.On("FindByID", txCtx, "h1").Return(stored, nil)

		updated, err := NewUpdateHabitHandler(repo, ob, uow, clock, quietLogger()).
			Handle(ctx, UpdateHabitCommand{HabitID: "h1"})
		require.NoError(t, err)

		assert.Equal(t, stored.UpdatedAt, updated.UpdatedAt)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		ob.AssertNotCalled(t, "SaveBatch", mock.Anything, mock.Anything)
	})
}

func TestDeleteHabitHandler_Handle(t *testing.T) {
	t.Run("deletes", func(t *testing.T) {
		repo := new(mockHabitRepo)
		ob := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		ctx := context.Background()
		txCtx := expectUnit(uow, ctx)
		uow.On("Commit", txCtx).Return(nil)
		repo.On("FindByID", txCtx, "h1").Return(storedHabit("h1", domain.FrequencyDaily), nil)
		repo.On("Delete", txCtx, "h1").Return(nil)
		ob.On("SaveBatch", txCtx, oneMessage(domain.RoutingKeyDeleted)).Return(nil)

		require.NoError(t, NewDeleteHabitHandler(repo, ob, uow, clock, quietLogger()).
			Handle(ctx, DeleteHabitCommand{HabitID: "h1"}))
		repo.AssertExpectations(t)
	})

	t.Run("missing habit", func(t *testing.T) {
		repo := new(mockHabitRepo)
		uow := new(mockUnitOfWork)
		ctx := context.Background()
		txCtx := expectUnit(uow, ctx)
		uow.On("Rollback", txCtx).Return(nil)
		repo.On("FindByID", txCtx, "h1").Return(nil, nil)

		err := NewDeleteHabitHandler(repo, new(mockOutboxRepo), uow, clock, quietLogger()).
			Handle(ctx, DeleteHabitCommand{HabitID: "h1"})
		assert.ErrorIs(t, err, sharedDomain.ErrNotFound)
	})
}

func TestToggleCompletionHandler_Handle(t *testing.T) {
	t.Run("completes today by default", func(t *testing.T) {
		repo := new(mockHabitRepo)
		ob := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		ctx := context.Background()
		txCtx := expectUnit(uow, ctx)
		uow.On("Commit", txCtx).Return(nil)
		repo.On("FindByID", txCtx, "h1").
			Return(storedHabit("h1", domain.FrequencyDaily, "2024-01-05", "2024-01-06"), nil)
		repo.On("Save", txCtx, mock.Anything).Return(nil)
		ob.On("SaveBatch", txCtx, oneMessage(domain.RoutingKeyCompletionToggle)).Return(nil)

		result, err := NewToggleCompletionHandler(repo, ob, uow, clock, quietLogger()).
			Handle(ctx, ToggleCompletionCommand{HabitID: "h1"})
		require.NoError(t, err)

		assert.True(t, result.Completed)
		assert.Equal(t, dates.Key("2024-01-07"), result.Date)
		assert.Equal(t, 3, result.Streak)
		assert.True(t, result.Habit.IsCompletedOn("2024-01-07"))
	})

	t.Run("uncompletes an explicit day", func(t *testing.T) {
		repo := new(mockHabitRepo)
		ob := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		ctx := context.Background()
		txCtx := expectUnit(uow, ctx)
		uow.On("Commit", txCtx).Return(nil)
		repo.On("FindByID", txCtx, "h1").
			Return(storedHabit("h1", domain.FrequencyDaily, "2024-01-05", "2024-01-06"), nil)
		repo.On("Save", txCtx, mock.MatchedBy(func(h domain.Habit) bool {
			return len(h.Completions) == 1 && h.Completions[0] == "2024-01-06"
		})).Return(nil)
		ob.On("SaveBatch", txCtx, mock.Anything).Return(nil)

		result, err := NewToggleCompletionHandler(repo, ob, uow, clock, quietLogger()).
			Handle(ctx, ToggleCompletionCommand{HabitID: "h1", Date: "2024-01-05T08:00:00Z"})
		require.NoError(t, err)

		assert.False(t, result.Completed)
		assert.Equal(t, dates.Key("2024-01-05"), result.Date)
		assert.Equal(t, 1, result.Streak)
		repo.AssertExpectations(t)
	})

	t.Run("invalid date", func(t *testing.T) {
		repo := new(mockHabitRepo)
		uow := new(mockUnitOfWork)
		ctx := context.Background()
		txCtx := expectUnit(uow, ctx)
		uow.On("Rollback", txCtx).Return(nil)
		repo.On("FindByID", txCtx, "h1").Return(storedHabit("h1", domain.FrequencyDaily), nil)

		_, err := NewToggleCompletionHandler(repo, new(mockOutboxRepo), uow, clock, quietLogger()).
			Handle(ctx, ToggleCompletionCommand{HabitID: "h1", Date: "2024-02-31"})

		var verr *sharedDomain.ValidationError
		require.ErrorAs(t, err, &verr)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("save failure", func(t *testing.T) {
		repo := new(mockHabitRepo)
		uow := new(mockUnitOfWork)
		ctx := context.Background()
		txCtx := expectUnit(uow, ctx)
		uow.On("Rollback", txCtx).Return(nil)
		repo.On("FindByID", txCtx, "h1").Return(storedHabit("h1", domain.FrequencyDaily), nil)
		repo.On("Save", txCtx, mock.Anything).Return(sharedDomain.NewPersistenceError("habit.save", errors.New("io")))

		_, err := NewToggleCompletionHandler(repo, new(mockOutboxRepo), uow, clock, quietLogger()).
			Handle(ctx, ToggleCompletionCommand{HabitID: "h1"})

		var perr *sharedDomain.PersistenceError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "habit.save", perr.Op)
	})
}
