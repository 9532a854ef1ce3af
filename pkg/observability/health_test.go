package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(context.Context) error { return nil }

func TestHealthRegistry_Check(t *testing.T) {
	registry := NewHealthRegistry()
	registry.Register("storage", StorageHealthChecker(ok))
	registry.Register("cache", CacheHealthChecker(func(context.Context) error { return errors.New("connection refused") }))

	results := registry.Check(context.Background())

	require.Len(t, results, 2)
	assert.Equal(t, "cache", results[0].Name)
	assert.Equal(t, HealthStatusDegraded, results[0].Status)
	assert.Contains(t, results[0].Message, "connection refused")
	assert.Equal(t, "storage", results[1].Name)
	assert.Equal(t, HealthStatusHealthy, results[1].Status)
	assert.Equal(t, HealthStatusDegraded, OverallStatus(results))
}

func TestOverallStatus(t *testing.T) {
	assert.Equal(t, HealthStatusHealthy, OverallStatus(nil))
	assert.Equal(t, HealthStatusUnhealthy, OverallStatus([]HealthCheckResult{
		{Status: HealthStatusDegraded},
		{Status: HealthStatusUnhealthy},
	}))

	storageDown := StorageHealthChecker(func(context.Context) error { return errors.New("locked") })(context.Background())
	assert.Equal(t, HealthStatusUnhealthy, storageDown.Status)

	brokerDown := BrokerHealthChecker(func(context.Context) error { return errors.New("no route") })(context.Background())
	assert.Equal(t, HealthStatusDegraded, brokerDown.Status)
}
