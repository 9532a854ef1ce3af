package habit

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/habits/application/queries"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one habit with its streak summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		h, err := app.GetHabitHandler.Handle(cmd.Context(), queries.GetHabitQuery{HabitID: args[0], Today: app.Today()})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		printHabit(out, *h)
		if h.Description != "" {
			fmt.Fprintf(out, "   %s\n", h.Description)
		}
		fmt.Fprintf(out, "   %s\n", cli.Muted(fmt.Sprintf("%d completion(s), target %d per period", h.TotalCompletions, h.TargetCount)))
		return nil
	},
}
