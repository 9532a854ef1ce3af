package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/productivity/application/queries"
	"github.com/felixgeelhaar/cadence/internal/shared/domain/dates"
)

var (
	listSearch   string
	listStatus   string
	listPriority string
	listCategory string
	listFrom     string
	listTo       string
	listSort     string
	listOrder    string
	listLimit    int
	listJSON     bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List tasks with optional filtering and sorting.

Filters combine; "all" or an empty value disables one.
  --search      Case-insensitive match on title, description and category
  --status      todo, in-progress or done
  --priority    low, medium or high
  --category    Exact category, case-sensitive
  --from/--to   Inclusive due-date range (YYYY-MM-DD)

Sorting:
  --sort        dueDate, priority, status, title or createdAt
  --order       asc or desc

Examples:
  cadence task list --status todo --sort priority --order desc
  cadence task list --from 2024-03-01 --to 2024-03-31`,
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		rng, err := parseRange(listFrom, listTo)
		if err != nil {
			return err
		}

		tasks, err := app.ListTasksHandler.Handle(cmd.Context(), queries.ListTasksQuery{
			Criteria: queries.TaskCriteria{
				Search:    listSearch,
				Status:    listStatus,
				Priority:  listPriority,
				Category:  listCategory,
				DateRange: rng,
			},
			SortBy: queries.ParseSortKey(listSort),
			Order:  queries.SortOrder(listOrder),
			Today:  app.Today(),
			Limit:  listLimit,
		})
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		out := cmd.OutOrStdout()
		if listJSON {
			return printJSON(out, tasks)
		}
		if len(tasks) == 0 {
			fmt.Fprintln(out, "No tasks found.")
			return nil
		}

		fmt.Fprintln(out, cli.Header(fmt.Sprintf("Tasks (%d)", len(tasks))))
		for _, t := range tasks {
			printTask(out, t)
		}
		return nil
	},
}

func parseRange(from, to string) (queries.DateRange, error) {
	var rng queries.DateRange
	if from != "" {
		if rng.Start = dates.Normalize(from); rng.Start.IsZero() {
			return rng, fmt.Errorf("invalid --from %q, use YYYY-MM-DD", from)
		}
	}
	if to != "" {
		if rng.End = dates.Normalize(to); rng.End.IsZero() {
			return rng, fmt.Errorf("invalid --to %q, use YYYY-MM-DD", to)
		}
	}
	return rng, nil
}

func init() {
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "search text")
	listCmd.Flags().StringVar(&listStatus, "status", "", "filter by status")
	listCmd.Flags().StringVarP(&listPriority, "priority", "p", "", "filter by priority")
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "filter by category")
	listCmd.Flags().StringVar(&listFrom, "from", "", "due on or after (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&listTo, "to", "", "due on or before (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&listSort, "sort", "", "sort key")
	listCmd.Flags().StringVar(&listOrder, "order", "asc", "sort order (asc, desc)")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "max number of tasks (0 = no limit)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print JSON")
}
