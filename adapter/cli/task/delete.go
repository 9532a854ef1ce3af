package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/productivity/application/commands"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Short:   "Delete a task",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		if err := app.DeleteTaskHandler.Handle(cmd.Context(), commands.DeleteTaskCommand{TaskID: args[0]}); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), cli.Success("Task deleted: "+args[0]))
		return nil
	},
}
