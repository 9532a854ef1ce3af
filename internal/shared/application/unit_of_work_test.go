package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type txKey struct{}

// recordingUnitOfWork logs the calls it receives and checks that commit and
// rollback see the context Begin returned.
type recordingUnitOfWork struct {
	calls       []string
	beginErr    error
	commitErr   error
	rollbackErr error
	sawTx       bool
}

func (u *recordingUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	u.calls = append(u.calls, "begin")
	if u.beginErr != nil {
		return ctx, u.beginErr
	}
	return context.WithValue(ctx, txKey{}, true), nil
}

func (u *recordingUnitOfWork) Commit(ctx context.Context) error {
	u.calls = append(u.calls, "commit")
	u.sawTx = ctx.Value(txKey{}) == true
	return u.commitErr
}

func (u *recordingUnitOfWork) Rollback(ctx context.Context) error {
	u.calls = append(u.calls, "rollback")
	u.sawTx = ctx.Value(txKey{}) == true
	return u.rollbackErr
}

func TestWithUnitOfWork(t *testing.T) {
	errWork := errors.New("work failed")
	errStore := errors.New("store failed")

	tests := []struct {
		name      string
		uow       *recordingUnitOfWork
		workErr   error
		wantErr   error
		wantCalls []string
		wantRun   bool
	}{
		{
			name:      "commits on success",
			uow:       &recordingUnitOfWork{},
			wantCalls: []string{"begin", "commit"},
			wantRun:   true,
		},
		{
			name:      "rolls back when the work fails",
			uow:       &recordingUnitOfWork{},
			workErr:   errWork,
			wantErr:   errWork,
			wantCalls: []string{"begin", "rollback"},
			wantRun:   true,
		},
		{
			name:      "rollback failure does not mask the work error",
			uow:       &recordingUnitOfWork{rollbackErr: errStore},
			workErr:   errWork,
			wantErr:   errWork,
			wantCalls: []string{"begin", "rollback"},
			wantRun:   true,
		},
		{
			name:      "begin failure skips the work",
			uow:       &recordingUnitOfWork{beginErr: errStore},
			wantErr:   errStore,
			wantCalls: []string{"begin"},
		},
		{
			name:      "commit failure is returned",
			uow:       &recordingUnitOfWork{commitErr: errStore},
			wantErr:   errStore,
			wantCalls: []string{"begin", "commit"},
			wantRun:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ran := false
			err := WithUnitOfWork(context.Background(), tt.uow, func(ctx context.Context) error {
				ran = true
				assert.Equal(t, true, ctx.Value(txKey{}), "work runs in the transaction context")
				return tt.workErr
			})

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantRun, ran)
			assert.Equal(t, tt.wantCalls, tt.uow.calls)
			if len(tt.wantCalls) > 1 {
				assert.True(t, tt.uow.sawTx)
			}
		})
	}
}
