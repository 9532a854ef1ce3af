package habit

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/habits/application/queries"
)

var (
	statsDate string
	statsJSON bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show habit statistics",
	Long: `Summarise completions and the current streak of every habit.

Examples:
  cadence habit stats
  cadence habit stats --date 2024-01-07`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		today, err := app.Day(statsDate)
		if err != nil {
			return err
		}

		stats, err := app.HabitStatsHandler.Handle(cmd.Context(), queries.HabitStatsQuery{Today: today})
		if err != nil {
			return fmt.Errorf("failed to compute habit stats: %w", err)
		}

		out := cmd.OutOrStdout()
		if statsJSON {
			return printJSON(out, stats)
		}

		fmt.Fprintln(out, cli.Header(fmt.Sprintf("Habits on %s", today)))
		fmt.Fprintf(out, "Total          %d\n", stats.TotalHabits)
		fmt.Fprintf(out, "Active streaks %d\n", stats.ActiveHabits)
		fmt.Fprintf(out, "Done today     %d (%d%%)\n", stats.CompletedToday, stats.CompletionRateToday)
		fmt.Fprintf(out, "Completions    %d\n", stats.TotalCompletions)
		fmt.Fprintf(out, "Best streak    %d\n", stats.LongestStreakAcrossAll)
		for _, s := range stats.PerHabitCurrentStreaks {
			fmt.Fprintf(out, "  %s %d\n", s.HabitTitle, s.Streak)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().StringVar(&statsDate, "date", "", "reference day (YYYY-MM-DD)")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "print JSON")
}
