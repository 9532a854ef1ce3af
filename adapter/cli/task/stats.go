package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/productivity/application/queries"
)

var (
	statsDate string
	statsJSON bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show task statistics",
	Long: `Count tasks by status and priority, and report what is overdue,
due today or due within the next 7 days.

Examples:
  cadence task stats
  cadence task stats --date 2024-03-01 --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		today, err := app.Day(statsDate)
		if err != nil {
			return err
		}

		stats, err := app.TaskStatsHandler.Handle(cmd.Context(), queries.TaskStatsQuery{Today: today})
		if err != nil {
			return fmt.Errorf("failed to compute task stats: %w", err)
		}

		out := cmd.OutOrStdout()
		if statsJSON {
			return printJSON(out, stats)
		}

		fmt.Fprintln(out, cli.Header(fmt.Sprintf("Tasks on %s", today)))
		fmt.Fprintf(out, "Total       %d\n", stats.Total)
		fmt.Fprintf(out, "Done        %d (%d%%)\n", stats.Completed, stats.CompletionRate)
		fmt.Fprintf(out, "In progress %d\n", stats.InProgress)
		fmt.Fprintf(out, "To do       %d\n", stats.Todo)
		fmt.Fprintf(out, "Overdue     %d\n", stats.Overdue)
		fmt.Fprintf(out, "Due today   %d\n", stats.DueToday)
		fmt.Fprintf(out, "Next 7 days %d\n", stats.Upcoming)
		fmt.Fprintln(out, cli.Muted(fmt.Sprintf("high %d  medium %d  low %d",
			stats.PriorityBreakdown.High, stats.PriorityBreakdown.Medium, stats.PriorityBreakdown.Low)))
		return nil
	},
}

func init() {
	statsCmd.Flags().StringVar(&statsDate, "date", "", "reference day (YYYY-MM-DD)")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "print JSON")
}
