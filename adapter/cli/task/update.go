package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/productivity/application/commands"
	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
)

var (
	updateTitle       string
	updateDescription string
	updateDue         string
	updatePriority    string
	updateStatus      string
	updateCategory    string
)

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change task fields",
	Long: `Change only the fields given as flags. Pass --due "" to clear the due date.

Examples:
  cadence task update 3f2a... --priority high
  cadence task update 3f2a... --status in-progress --due 2024-03-20`,
	Aliases: []string{"edit"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		var patch task.Patch
		if flags.Changed("title") {
			patch.Title = &updateTitle
		}
		if flags.Changed("description") {
			patch.Description = &updateDescription
		}
		if flags.Changed("due") {
			patch.DueDate = &updateDue
		}
		if flags.Changed("priority") {
			patch.Priority = &updatePriority
		}
		if flags.Changed("status") {
			patch.Status = &updateStatus
		}
		if flags.Changed("category") {
			patch.Category = &updateCategory
		}
		if patch.IsEmpty() {
			return fmt.Errorf("nothing to update; pass at least one field flag")
		}

		updated, err := app.UpdateTaskHandler.Handle(cmd.Context(), commands.UpdateTaskCommand{TaskID: args[0], Patch: patch})
		if err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), cli.Success("Task updated: "+updated.ID))
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVarP(&updateTitle, "title", "t", "", "new title")
	updateCmd.Flags().StringVarP(&updateDescription, "description", "d", "", "new description")
	updateCmd.Flags().StringVar(&updateDue, "due", "", "new due date (YYYY-MM-DD)")
	updateCmd.Flags().StringVarP(&updatePriority, "priority", "p", "", "new priority")
	updateCmd.Flags().StringVar(&updateStatus, "status", "", "new status")
	updateCmd.Flags().StringVarP(&updateCategory, "category", "c", "", "new category")
}
