package habit

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/habits/application/commands"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Short:   "Delete a habit and its history",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		if err := app.DeleteHabitHandler.Handle(cmd.Context(), commands.DeleteHabitCommand{HabitID: args[0]}); err != nil {
			return fmt.Errorf("failed to delete habit: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), cli.Success("Habit deleted: "+args[0]))
		return nil
	},
}
