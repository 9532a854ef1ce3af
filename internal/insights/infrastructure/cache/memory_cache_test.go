package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/cadence/internal/insights/domain"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()

	t.Run("miss then hit", func(t *testing.T) {
		c := NewMemoryCache()

		_, err := c.Get(ctx, "k")
		assert.ErrorIs(t, err, domain.ErrCacheMiss)

		require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
		got, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), got)
	})

	t.Run("entries expire", func(t *testing.T) {
		c := NewMemoryCache()
		now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		c.now = func() time.Time { return now }

		require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
		now = now.Add(59 * time.Second)
		_, err := c.Get(ctx, "k")
		require.NoError(t, err)

		now = now.Add(time.Second)
		_, err = c.Get(ctx, "k")
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
		assert.Zero(t, c.Len())
	})

	t.Run("set sweeps expired entries", func(t *testing.T) {
		c := NewMemoryCache()
		now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		c.now = func() time.Time { return now }

		require.NoError(t, c.Set(ctx, "old", []byte("1"), time.Minute))
		require.NoError(t, c.Set(ctx, "kept", []byte("2"), 0))
		now = now.Add(time.Minute)

		require.NoError(t, c.Set(ctx, "new", []byte("3"), time.Minute))
		assert.Equal(t, 2, c.Len())
		_, err := c.Get(ctx, "kept")
		assert.NoError(t, err)
	})

	t.Run("zero ttl never expires", func(t *testing.T) {
		c := NewMemoryCache()
		now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		c.now = func() time.Time { return now }

		require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
		now = now.Add(24 * time.Hour)
		_, err := c.Get(ctx, "k")
		assert.NoError(t, err)
	})

	t.Run("stored values are copies", func(t *testing.T) {
		c := NewMemoryCache()
		value := []byte("abc")
		require.NoError(t, c.Set(ctx, "k", value, 0))
		value[0] = 'x'

		got, err := c.Get(ctx, "k")
		require.NoError(t, err)
		got[1] = 'y'

		again, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), again)
	})

	t.Run("invalidate clears everything", func(t *testing.T) {
		c := NewMemoryCache()
		require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
		require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))

		require.NoError(t, c.Invalidate(ctx))
		assert.Zero(t, c.Len())
	})
}

func TestNewRedisCache_DefaultPrefix(t *testing.T) {
	assert.Equal(t, DefaultKeyPrefix, NewRedisCache(nil, "").prefix)
	assert.Equal(t, "x:", NewRedisCache(nil, "x:").prefix)
}
