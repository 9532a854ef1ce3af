package habit

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/habits/application/commands"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle <id> [date]",
	Short: "Mark or unmark a habit as done",
	Long: `Flip the completion for a day. Without a date the current day is used.

Examples:
  cadence habit toggle 3f2a...
  cadence habit toggle 3f2a... 2024-01-06`,
	Aliases: []string{"log", "check"},
	Args:    cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		toggle := commands.ToggleCompletionCommand{HabitID: args[0]}
		if len(args) == 2 {
			toggle.Date = args[1]
		}

		result, err := app.ToggleCompletionHandler.Handle(cmd.Context(), toggle)
		if err != nil {
			return fmt.Errorf("failed to toggle habit: %w", err)
		}

		out := cmd.OutOrStdout()
		if result.Completed {
			fmt.Fprintln(out, cli.Success(fmt.Sprintf("%s done on %s", result.Habit.Title, result.Date)))
		} else {
			fmt.Fprintln(out, cli.Warning(fmt.Sprintf("%s unmarked on %s", result.Habit.Title, result.Date)))
		}
		fmt.Fprintf(out, "  current streak: %d\n", result.Streak)
		return nil
	},
}
