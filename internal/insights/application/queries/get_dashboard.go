// Package queries contains query handlers for the insights bounded context.
package queries

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	habitQueries "github.com/felixgeelhaar/cadence/internal/habits/application/queries"
	habitDomain "github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/felixgeelhaar/cadence/internal/insights/domain"
	taskQueries "github.com/felixgeelhaar/cadence/internal/productivity/application/queries"
	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	"github.com/felixgeelhaar/cadence/internal/shared/domain/dates"
)

// DefaultCacheTTL bounds how long a memoised dashboard is served.
const DefaultCacheTTL = 5 * time.Minute

// GetDashboardQuery asks for the combined statistics on Today.
type GetDashboardQuery struct {
	Today dates.Key
}

// Dashboard combines task and habit statistics for one reference day.
type Dashboard struct {
	Today  dates.Key               `json:"today"`
	Tasks  taskQueries.TaskStats   `json:"tasks"`
	Habits habitQueries.HabitStats `json:"habits"`

	// Cached is true when the result came from the snapshot cache.
	Cached bool `json:"-"`
}

// GetDashboardHandler computes the dashboard, memoised by the content of the
// loaded collections and the reference day.
type GetDashboardHandler struct {
	taskRepo  task.Repository
	habitRepo habitDomain.Repository
	cache     domain.SnapshotCache
	ttl       time.Duration
	logger    *slog.Logger
}

// NewGetDashboardHandler creates a new GetDashboardHandler. A nil cache
// disables memoisation.
func NewGetDashboardHandler(
	taskRepo task.Repository,
	habitRepo habitDomain.Repository,
	cache domain.SnapshotCache,
	ttl time.Duration,
	logger *slog.Logger,
) *GetDashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GetDashboardHandler{
		taskRepo:  taskRepo,
		habitRepo: habitRepo,
		cache:     cache,
		ttl:       ttl,
		logger:    logger,
	}
}

// Handle executes the GetDashboardQuery. Cache failures fall back to
// recomputation.
func (h *GetDashboardHandler) Handle(ctx context.Context, query GetDashboardQuery) (*Dashboard, error) {
	tasks, err := h.taskRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	habits, err := h.habitRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	key, err := SnapshotKey(tasks, habits, query.Today)
	if err != nil {
		return nil, err
	}

	if cached, ok := h.lookup(ctx, key); ok {
		return cached, nil
	}

	dashboard := &Dashboard{
		Today:  query.Today,
		Tasks:  taskQueries.ComputeTaskStats(tasks, query.Today),
		Habits: habitQueries.ComputeHabitStats(habits, query.Today),
	}
	h.store(ctx, key, dashboard)
	return dashboard, nil
}

func (h *GetDashboardHandler) lookup(ctx context.Context, key string) (*Dashboard, bool) {
	if h.cache == nil {
		return nil, false
	}
	raw, err := h.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			h.logger.WarnContext(ctx, "dashboard cache read failed", "error", err)
		}
		return nil, false
	}

	var dashboard Dashboard
	if err := json.Unmarshal(raw, &dashboard); err != nil {
		h.logger.WarnContext(ctx, "discarding undecodable dashboard cache entry", "error", err)
		return nil, false
	}
	dashboard.Cached = true
	return &dashboard, true
}

func (h *GetDashboardHandler) store(ctx context.Context, key string, dashboard *Dashboard) {
	if h.cache == nil {
		return
	}
	raw, err := json.Marshal(dashboard)
	if err != nil {
		h.logger.WarnContext(ctx, "dashboard encode failed", "error", err)
		return
	}
	if err := h.cache.Set(ctx, key, raw, h.ttl); err != nil {
		h.logger.WarnContext(ctx, "dashboard cache write failed", "error", err)
	}
}

// SnapshotKey hashes the serialised collections together with today. Equal
// inputs always produce the same key.
func SnapshotKey(tasks []task.Task, habits []habitDomain.Habit, today dates.Key) (string, error) {
	raw, err := json.Marshal(struct {
		Today  dates.Key           `json:"today"`
		Tasks  []task.Task         `json:"tasks"`
		Habits []habitDomain.Habit `json:"habits"`
	}{today, tasks, habits})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
