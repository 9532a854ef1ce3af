// Package domain holds the insights contracts shared by handlers and cache
// backends.
package domain

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by SnapshotCache.Get when the key is absent or
// expired.
var ErrCacheMiss = errors.New("cache miss")

// SnapshotCache stores serialised dashboards keyed by a content hash.
type SnapshotCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value for ttl. A zero ttl stores without expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Invalidate drops every cached dashboard.
	Invalidate(ctx context.Context) error
}
