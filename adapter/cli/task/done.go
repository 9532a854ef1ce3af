package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/productivity/application/commands"
	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
)

var doneCmd = &cobra.Command{
	Use:     "done <id>",
	Short:   "Mark a task as done",
	Aliases: []string{"complete"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		status := task.StatusDone.String()
		updated, err := app.UpdateTaskHandler.Handle(cmd.Context(), commands.UpdateTaskCommand{
			TaskID: args[0],
			Patch:  task.Patch{Status: &status},
		})
		if err != nil {
			return fmt.Errorf("failed to complete task: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), cli.Success("Task done: "+updated.Title))
		return nil
	},
}
