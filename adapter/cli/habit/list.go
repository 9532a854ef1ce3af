package habit

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/habits/application/queries"
)

var (
	listSearch    string
	listFrequency string
	listCategory  string
	listCompleted string
	listSort      string
	listOrder     string
	listJSON      bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List habits",
	Long: `List habits with their current streaks.

Filters combine; "all" or an empty value disables one.
  --search      Case-insensitive match on title, description and category
  --frequency   daily or weekly
  --category    Exact category, case-sensitive
  --completed   yes or no: completed today

Sorting:
  --sort        title, createdAt, streak or frequency
  --order       asc or desc

Examples:
  cadence habit list --sort streak --order desc
  cadence habit list --completed no`,
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		habits, err := app.ListHabitsHandler.Handle(cmd.Context(), queries.ListHabitsQuery{
			Criteria: queries.HabitCriteria{
				Search:         listSearch,
				Frequency:      listFrequency,
				Category:       listCategory,
				CompletedToday: listCompleted,
			},
			SortBy: queries.ParseSortKey(listSort),
			Order:  queries.SortOrder(listOrder),
			Today:  app.Today(),
		})
		if err != nil {
			return fmt.Errorf("failed to list habits: %w", err)
		}

		out := cmd.OutOrStdout()
		if listJSON {
			return printJSON(out, habits)
		}
		if len(habits) == 0 {
			fmt.Fprintln(out, "No habits found.")
			return nil
		}

		fmt.Fprintln(out, cli.Header(fmt.Sprintf("Habits (%d)", len(habits))))
		for _, h := range habits {
			printHabit(out, h)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "search text")
	listCmd.Flags().StringVarP(&listFrequency, "frequency", "f", "", "filter by frequency")
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "filter by category")
	listCmd.Flags().StringVar(&listCompleted, "completed", "", "filter by completed today (yes, no)")
	listCmd.Flags().StringVar(&listSort, "sort", "", "sort key")
	listCmd.Flags().StringVar(&listOrder, "order", "asc", "sort order (asc, desc)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print JSON")
}
