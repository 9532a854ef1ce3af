package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	sharedDomain "github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/domain/dates"
)

const today = dates.Key("2024-01-07") // a Sunday

func habit(id string, n int, title, category string, freq domain.Frequency, days ...dates.Key) domain.Habit {
	created := time.Date(2023, 12, 1, 9, 0, 0, 0, time.UTC).Add(time.Duration(n) * time.Hour)
	return domain.Habit{
		Entity:      sharedDomain.RehydrateEntity(id, created, created),
		Title:       title,
		Frequency:   freq,
		Category:    category,
		TargetCount: 1,
		Completions: domain.NormalizeCompletions(days),
	}
}

func sampleHabits() []domain.Habit {
	return []domain.Habit{
		habit("run", 0, "Run", "health", domain.FrequencyDaily, "2024-01-05", "2024-01-06", "2024-01-07"),
		habit("read", 1, "Read", "learning", domain.FrequencyDaily, "2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-06"),
		habit("gym", 2, "Gym", "health", domain.FrequencyWeekly, "2023-12-24", "2023-12-31", "2024-01-07"),
		habit("yoga", 3, "yoga", "Health", domain.FrequencyWeekly),
	}
}

func habitIDs(habits []domain.Habit) []string {
	out := make([]string, len(habits))
	for i, h := range habits {
		out[i] = h.ID
	}
	return out
}

func TestFilterHabits(t *testing.T) {
	tests := []struct {
		name     string
		criteria HabitCriteria
		want     []string
	}{
		{"no criteria", HabitCriteria{}, []string{"run", "read", "gym", "yoga"}},
		{"search", HabitCriteria{Search: "REA"}, []string{"read"}},
		{"search category", HabitCriteria{Search: "learn"}, []string{"read"}},
		{"frequency", HabitCriteria{Frequency: "weekly"}, []string{"gym", "yoga"}},
		{"category exact", HabitCriteria{Category: "health"}, []string{"run", "gym"}},
		{"completed today", HabitCriteria{CompletedToday: "yes"}, []string{"run", "gym"}},
		{"not completed today", HabitCriteria{CompletedToday: "no"}, []string{"read", "yoga"}},
		{"all", HabitCriteria{Frequency: "all", Category: "all", CompletedToday: "all"}, []string{"run", "read", "gym", "yoga"}},
		{"unknown values ignored", HabitCriteria{Frequency: "monthly", CompletedToday: "maybe"}, []string{"run", "read", "gym", "yoga"}},
		{"combined", HabitCriteria{Category: "health", CompletedToday: "yes", Frequency: "daily"}, []string{"run"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, habitIDs(FilterHabits(sampleHabits(), tt.criteria, today)))
		})
	}
}

func TestSortHabits(t *testing.T) {
	tests := []struct {
		name  string
		key   SortKey
		order SortOrder
		want  []string
	}{
		{"streak descending is stable", SortByStreak, Descending, []string{"run", "gym", "read", "yoga"}},
		{"streak ascending", SortByStreak, Ascending, []string{"yoga", "read", "run", "gym"}},
		{"title ignores case", SortByTitle, Ascending, []string{"gym", "read", "run", "yoga"}},
		{"created descending", SortByCreatedAt, Descending, []string{"yoga", "gym", "read", "run"}},
		{"frequency", SortByFrequency, Ascending, []string{"run", "read", "gym", "yoga"}},
		{"unknown key", SortKey("mood"), Ascending, []string{"run", "read", "gym", "yoga"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := sampleHabits()
			assert.Equal(t, tt.want, habitIDs(SortHabits(in, tt.key, tt.order, today)))
			assert.Equal(t, []string{"run", "read", "gym", "yoga"}, habitIDs(in))
		})
	}
	assert.Equal(t, SortByTitle, ParseSortKey("name"))
	assert.Equal(t, SortByCreatedAt, ParseSortKey("created_at"))
}

func TestComputeHabitStats(t *testing.T) {
	stats := ComputeHabitStats(sampleHabits(), today)

	assert.Equal(t, 4, stats.TotalHabits)
	assert.Equal(t, 3, stats.ActiveHabits)
	assert.Equal(t, 2, stats.CompletedToday)
	assert.Equal(t, 11, stats.TotalCompletions)
	assert.Equal(t, 4, stats.LongestStreakAcrossAll)
	assert.Equal(t, 50, stats.CompletionRateToday)
	assert.Equal(t, FrequencyBreakdown{Daily: 2, Weekly: 2}, stats.FrequencyBreakdown)
	assert.Equal(t, []HabitStreak{
		{HabitID: "run", HabitTitle: "Run", Streak: 3},
		{HabitID: "read", HabitTitle: "Read", Streak: 1},
		{HabitID: "gym", HabitTitle: "Gym", Streak: 3},
		{HabitID: "yoga", HabitTitle: "yoga", Streak: 0},
	}, stats.PerHabitCurrentStreaks)
}

func TestComputeHabitStats_Empty(t *testing.T) {
	stats := ComputeHabitStats(nil, today)
	assert.Zero(t, stats.TotalHabits)
	assert.Zero(t, stats.LongestStreakAcrossAll)
	assert.Zero(t, stats.CompletionRateToday)
	assert.NotNil(t, stats.PerHabitCurrentStreaks)
	assert.Empty(t, stats.PerHabitCurrentStreaks)
}

type mockHabitRepo struct {
	mock.Mock
}

func (m *mockHabitRepo) Save(ctx context.Context, h domain.Habit) error {
	return m.Called(ctx, h).Error(0)
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
	return m.Called(ctx, id).Error(0)
}

func TestListHabitsHandler_Handle(t *testing.T) {
	repo := new(mockHabitRepo)
	repo.On("FindAll", mock.Anything).Return(sampleHabits(), nil)

	result, err := NewListHabitsHandler(repo).Handle(context.Background(), ListHabitsQuery{
		Criteria: HabitCriteria{Frequency: "daily"},
		SortBy:   SortByStreak,
		Order:    Descending,
		Today:    today,
	})
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "run", result[0].ID)
	assert.Equal(t, 3, result[0].Streak.Current)
	assert.True(t, result[0].Streak.CompletedToday)
	assert.Equal(t, "read", result[1].ID)
	assert.Equal(t, 4, result[1].Streak.Longest)
	assert.Equal(t, 5, result[1].TotalCompletions)
	repo.AssertExpectations(t)
}

func TestListHabitsHandler_PropagatesErrors(t *testing.T) {
	repo := new(mockHabitRepo)
	repo.On("FindAll", mock.Anything).Return(nil, errors.New("boom"))

	_, err := NewListHabitsHandler(repo).Handle(context.Background(), ListHabitsQuery{})
	assert.EqualError(t, err, "boom")
}

func TestGetHabitHandler_Handle(t *testing.T) {
	repo := new(mockHabitRepo)
	stored := sampleHabits()[0]
	repo.On("FindByID", mock.Anything, "run").Return(&stored, nil)
	repo.On("FindByID", mock.Anything, "missing").Return(nil, nil)
	handler := NewGetHabitHandler(repo)

	dto, err := handler.Handle(context.Background(), GetHabitQuery{HabitID: "run", Today: today})
	require.NoError(t, err)
	assert.Equal(t, "Run", dto.Title)
	assert.Equal(t, 3, dto.Streak.Longest)

	_, err = handler.Handle(context.Background(), GetHabitQuery{HabitID: "missing", Today: today})
	assert.ErrorIs(t, err, sharedDomain.ErrNotFound)
}

func TestHabitStatsHandler_Handle(t *testing.T) {
	repo := new(mockHabitRepo)
	repo.On("FindAll", mock.Anything).Return(sampleHabits(), nil)

	stats, err := NewHabitStatsHandler(repo).Handle(context.Background(), HabitStatsQuery{Today: today})
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalHabits)
}
