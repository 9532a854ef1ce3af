package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	sharedApplication "github.com/felixgeelhaar/cadence/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/domain/dates"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
)

func strPtr(s string) *string { return &s }

func storedTask(id string, due dates.Key) *task.Task {
	created := testNow.Add(-72 * time.Hour)
	return &task.Task{
		Entity:   sharedDomain.RehydrateEntity(id, created, created),
		Title:    "Old title",
		DueDate:  due,
		Priority: "medium",
		Status:   task.StatusTodo,
	}
}

func newUpdateHandler(repo *mockTaskRepo, ob *mockOutboxRepo, uow *mockUnitOfWork) *UpdateTaskHandler {
	return NewUpdateTaskHandler(repo, ob, uow, sharedApplication.FixedClock(testNow), quietLogger())
}

func TestUpdateTaskHandler_Handle(t *testing.T) {
	t.Run("marks a task done", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := newUpdateHandler(taskRepo, outboxRepo, uow)

		ctx := context.Background()
		txCtx := expectUnit(uow, ctx)
		uow.On("Commit", txCtx).Return(nil)
		taskRepo.On("FindByID", txCtx, "t1").Return(storedTask("t1", ""), nil)
		taskRepo.On("Save", txCtx, mock.MatchedBy(func(saved task.Task) bool {
			return saved.ID == "t1" && saved.Status == task.StatusDone
		})).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.MatchedBy(func(msgs []*outbox.Message) bool {
			return len(msgs) == 1 && msgs[0].RoutingKey == task.RoutingKeyUpdated
		})).Return(nil)

		updated, err := handler.Handle(ctx, UpdateTaskCommand{
			TaskID: "t1",
			Patch:  task.Patch{Status: strPtr("done")},
		})
		require.NoError(t, err)

		assert.Equal(t, task.StatusDone, updated.Status)
		assert.Equal(t, "Old title", updated.Title)
		assert.Equal(t, testNow, updated.UpdatedAt)
		taskRepo.AssertExpectations(t)
		outboxRepo.AssertExpectations(t)
	})

	t.Run("overdue task needs a new due date", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		uow := new(mockUnitOfWork)
		handler := newUpdateHandler(taskRepo, new(mockOutboxRepo), uow)

		ctx := context.Background()
		txCtx := expectUnit(uow, ctx)
		uow.On("Rollback", txCtx).Return(nil)
		taskRepo.On("FindByID", txCtx, "t1").Return(storedTask("t1", "2024-03-01"), nil)

		_, err := handler.Handle(ctx, UpdateTaskCommand{
			TaskID: "t1",
			Patch:  task.Patch{Title: strPtr("New title")},
		})

		var verr *sharedDomain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "dueDate")
		taskRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("overdue task can be rescheduled", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := newUpdateHandler(taskRepo, outboxRepo, uow)

		ctx := context.Background()
		txCtx := expectUnit(uow, ctx)
		uow.On("Commit", txCtx).Return(nil)
		taskRepo.On("FindByID", txCtx, "t1").Return(storedTask("t1", "2024-03-01"), nil)
		taskRepo.On("Save", txCtx, mock.Anything).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.Anything).Return(nil)

		updated, err := handler.Handle(ctx, UpdateTaskCommand{
			TaskID: "t1",
			Patch:  task.Patch{Title: strPtr("New title"), DueDate: strPtr("2024-03-20")},
		})
		require.NoError(t, err)
		assert.Equal(t, "New title", updated.Title)
		assert.Equal(t, dates.Key("2024-03-20"), updated.DueDate)
	})

	t.Run("rejects moving the due date into the past", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		uow := new(mockUnitOfWork)
		handler := newUpdateHandler(taskRepo, new(mockOutboxRepo), uow)

		ctx := context.Background()
		txCtx := expectUnit(uow, ctx)
		uow.On("Rollback", txCtx).Return(nil)
		taskRepo.On("FindByID", txCtx, "t1").Return(storedTask("t1", ""), nil)

		_, err := handler.Handle(ctx, UpdateTaskCommand{
			TaskID: "t1",
			Patch:  task.Patch{DueDate: strPtr("2024-03-09")},
		})

		var verr *sharedDomain.ValidationError
		require.ErrorAs(t, err, &verr)
		taskRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("missing task", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		uow := new(mockUnitOfWork)
		handler := newUpdateHandler(taskRepo, new(mockOutboxRepo), uow)

		ctx := context.Background()
		txCtx := expectUnit(uow, ctx)
		uow.On("Rollback", txCtx).Return(nil)
		taskRepo.On("FindByID", txCtx, "nope").Return(nil, nil)

		_, err := handler.Handle(ctx, UpdateTaskCommand{TaskID: "nope", Patch: task.Patch{Title: strPtr("x")}})

		assert.ErrorIs(t, err, sharedDomain.ErrNotFound)
		var nf *sharedDomain.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "task", nf.Entity)
	})

	t.Run("empty patch changes nothing", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := newUpdateHandler(taskRepo, outboxRepo, uow)

		ctx := context.Background()
		txCtx := expectUnit(uow, ctx)
		uow.On("Commit", txCtx).Return(nil)
		stored := storedTask("t1", "")
		taskRepo.On("FindByID", txCtx, "t1").Return(stored, nil)

		updated, err := handler.Handle(ctx, UpdateTaskCommand{TaskID: "t1"})
		require.NoError(t, err)

		assert.Equal(t, *stored, updated)
		assert.Equal(t, stored.UpdatedAt, updated.UpdatedAt)
		taskRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		outboxRepo.AssertNotCalled(t, "SaveBatch", mock.Anything, mock.Anything)
	})

	t.Run("load failure", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		uow := new(mockUnitOfWork)
		handler := newUpdateHandler(taskRepo, new(mockOutboxRepo), uow)

		ctx := context.Background()
		txCtx := expectUnit(uow, ctx)
		uow.On("Rollback", txCtx).Return(nil)
		loadErr := sharedDomain.NewPersistenceError("task.find", errors.New("io"))
		taskRepo.On("FindByID", txCtx, "t1").Return(nil, loadErr)

		_, err := handler.Handle(ctx, UpdateTaskCommand{TaskID: "t1", Patch: task.Patch{Title: strPtr("x")}})

		var perr *sharedDomain.PersistenceError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "task.find", perr.Op)
	})
}
