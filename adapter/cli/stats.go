package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	insightsQueries "github.com/felixgeelhaar/cadence/internal/insights/application/queries"
)

var (
	statsJSON bool
	statsDate string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show task and habit statistics",
	Long: `Display completion rates, due-date counts and habit streaks.

Examples:
  cadence stats                    # Today
  cadence stats --date 2024-01-07  # As of another day
  cadence stats --json             # Machine-readable`,
	Aliases: []string{"dashboard", "today"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}

		today, err := app.Day(statsDate)
		if err != nil {
			return err
		}

		dashboard, err := app.GetDashboardHandler.Handle(cmd.Context(), insightsQueries.GetDashboardQuery{Today: today})
		if err != nil {
			return fmt.Errorf("failed to compute stats: %w", err)
		}

		out := cmd.OutOrStdout()
		if statsJSON {
			data, err := json.MarshalIndent(dashboard, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		fmt.Fprintln(out, renderDashboard(dashboard))
		return nil
	},
}

func renderDashboard(d *insightsQueries.Dashboard) string {
	t := d.Tasks
	tasks := Panel(
		Header("Tasks"),
		fmt.Sprintf("Total       %d", t.Total),
		fmt.Sprintf("Done        %d (%d%%)", t.Completed, t.CompletionRate),
		fmt.Sprintf("In progress %d", t.InProgress),
		fmt.Sprintf("To do       %d", t.Todo),
		fmt.Sprintf("Overdue     %d", t.Overdue),
		fmt.Sprintf("Due today   %d", t.DueToday),
		fmt.Sprintf("Next 7 days %d", t.Upcoming),
		Muted(fmt.Sprintf("high %d  medium %d  low %d",
			t.PriorityBreakdown.High, t.PriorityBreakdown.Medium, t.PriorityBreakdown.Low)),
	)

	h := d.Habits
	habitLines := []string{
		Header("Habits"),
		fmt.Sprintf("Total          %d", h.TotalHabits),
		fmt.Sprintf("Active streaks %d", h.ActiveHabits),
		fmt.Sprintf("Done today     %d (%d%%)", h.CompletedToday, h.CompletionRateToday),
		fmt.Sprintf("Completions    %d", h.TotalCompletions),
		fmt.Sprintf("Best streak    %d", h.LongestStreakAcrossAll),
		Muted(fmt.Sprintf("daily %d  weekly %d", h.FrequencyBreakdown.Daily, h.FrequencyBreakdown.Weekly)),
	}
	for _, s := range h.PerHabitCurrentStreaks {
		if s.Streak > 0 {
			habitLines = append(habitLines, fmt.Sprintf("  %s %d", s.HabitTitle, s.Streak))
		}
	}

	return Header("Stats for "+d.Today.String()) + "\n" + Columns(tasks, Panel(habitLines...))
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "print JSON")
	statsCmd.Flags().StringVar(&statsDate, "date", "", "reference day (YYYY-MM-DD)")
	rootCmd.AddCommand(statsCmd)
}
