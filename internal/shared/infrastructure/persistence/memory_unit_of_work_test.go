package persistence

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/cadence/internal/shared/application"
)

type counter struct {
	mu    sync.Mutex
	value int
}

func (c *counter) Snapshot() func() {
	c.mu.Lock()
	saved := c.value
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		c.value = saved
		c.mu.Unlock()
	}
}

func (c *counter) add(n int) {
	c.mu.Lock()
	c.value += n
	c.mu.Unlock()
}

func TestMemoryUnitOfWork_CommitKeepsWrites(t *testing.T) {
	c := &counter{}
	uow := NewMemoryUnitOfWork(c)

	err := application.WithUnitOfWork(context.Background(), uow, func(ctx context.Context) error {
		c.add(2)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, c.value)
}

func TestMemoryUnitOfWork_RollbackRestores(t *testing.T) {
	c := &counter{value: 5}
	uow := NewMemoryUnitOfWork(c)

	boom := errors.New("boom")
	err := application.WithUnitOfWork(context.Background(), uow, func(ctx context.Context) error {
		c.add(10)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 5, c.value)
}

func TestMemoryUnitOfWork_NestedScopesShareLock(t *testing.T) {
	c := &counter{}
	uow := NewMemoryUnitOfWork(c)

	err := application.WithUnitOfWork(context.Background(), uow, func(outer context.Context) error {
		return application.WithUnitOfWork(outer, uow, func(inner context.Context) error {
			c.add(1)
			return nil
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 1, c.value)
}

func TestMemoryUnitOfWork_SerialisesCallers(t *testing.T) {
	c := &counter{}
	uow := NewMemoryUnitOfWork(c)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = application.WithUnitOfWork(context.Background(), uow, func(ctx context.Context) error {
				c.mu.Lock()
				v := c.value
				c.mu.Unlock()
				c.mu.Lock()
				c.value = v + 1
				c.mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, c.value)
}

func TestMemoryUnitOfWork_OutsideScope(t *testing.T) {
	uow := NewMemoryUnitOfWork()
	assert.ErrorIs(t, uow.Commit(context.Background()), ErrNoUnitOfWork)
	assert.ErrorIs(t, uow.Rollback(context.Background()), ErrNoUnitOfWork)
}

func TestMemoryUnitOfWork_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMemoryUnitOfWork().Begin(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
