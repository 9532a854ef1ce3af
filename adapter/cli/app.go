package cli

import (
	"context"
	"fmt"

	internalApp "github.com/felixgeelhaar/cadence/internal/app"
	habitCommands "github.com/felixgeelhaar/cadence/internal/habits/application/commands"
	habitQueries "github.com/felixgeelhaar/cadence/internal/habits/application/queries"
	insightsQueries "github.com/felixgeelhaar/cadence/internal/insights/application/queries"
	"github.com/felixgeelhaar/cadence/internal/productivity/application/commands"
	"github.com/felixgeelhaar/cadence/internal/productivity/application/queries"
	sharedApplication "github.com/felixgeelhaar/cadence/internal/shared/application"
	"github.com/felixgeelhaar/cadence/internal/shared/domain/dates"
	"github.com/felixgeelhaar/cadence/internal/transfer"
	"github.com/felixgeelhaar/cadence/pkg/observability"
)

// App holds the CLI application dependencies.
type App struct {
	Clock sharedApplication.Clock

	// Task handlers
	CreateTaskHandler *commands.CreateTaskHandler
	UpdateTaskHandler *commands.UpdateTaskHandler
	DeleteTaskHandler *commands.DeleteTaskHandler
	ListTasksHandler  *queries.ListTasksHandler
	GetTaskHandler    *queries.GetTaskHandler
	TaskStatsHandler  *queries.TaskStatsHandler

	// Habit handlers
	CreateHabitHandler      *habitCommands.CreateHabitHandler
	UpdateHabitHandler      *habitCommands.UpdateHabitHandler
	DeleteHabitHandler      *habitCommands.DeleteHabitHandler
	ToggleCompletionHandler *habitCommands.ToggleCompletionHandler
	ListHabitsHandler       *habitQueries.ListHabitsHandler
	GetHabitHandler         *habitQueries.GetHabitHandler
	HabitStatsHandler       *habitQueries.HabitStatsHandler

	GetDashboardHandler *insightsQueries.GetDashboardHandler
	Transfer            *transfer.Service
	Health              *observability.HealthRegistry

	// Flush publishes queued events after each command.
	Flush func(ctx context.Context)

	// RabbitMQURL is used by "events tail".
	RabbitMQURL string
}

// NewApp exposes the container's handlers to the commands.
func NewApp(c *internalApp.Container) *App {
	return &App{
		Clock:                   c.Clock,
		CreateTaskHandler:       c.CreateTaskHandler,
		UpdateTaskHandler:       c.UpdateTaskHandler,
		DeleteTaskHandler:       c.DeleteTaskHandler,
		ListTasksHandler:        c.ListTasksHandler,
		GetTaskHandler:          c.GetTaskHandler,
		TaskStatsHandler:        c.TaskStatsHandler,
		CreateHabitHandler:      c.CreateHabitHandler,
		UpdateHabitHandler:      c.UpdateHabitHandler,
		DeleteHabitHandler:      c.DeleteHabitHandler,
		ToggleCompletionHandler: c.ToggleCompletionHandler,
		ListHabitsHandler:       c.ListHabitsHandler,
		GetHabitHandler:         c.GetHabitHandler,
		HabitStatsHandler:       c.HabitStatsHandler,
		GetDashboardHandler:     c.GetDashboardHandler,
		Transfer:                c.Transfer,
		Health:                  c.Health,
		Flush:                   c.Flush,
		RabbitMQURL:             c.Config.RabbitMQURL,
	}
}

// Today returns the current calendar day in the configured time zone.
func (a *App) Today() dates.Key {
	return a.Clock.Today()
}

// Day resolves a --date flag value. Empty means today.
func (a *App) Day(raw string) (dates.Key, error) {
	if raw == "" {
		return a.Today(), nil
	}
	day := dates.Normalize(raw)
	if day.IsZero() {
		return "", fmt.Errorf("invalid --date %q, use YYYY-MM-DD", raw)
	}
	return day, nil
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}

// RequireApp returns the application or an error when it is not wired.
func RequireApp() (*App, error) {
	if app == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	return app, nil
}
