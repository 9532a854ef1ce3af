package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/productivity/application/commands"
)

var (
	addDescription string
	addDue         string
	addPriority    string
	addStatus      string
	addCategory    string
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a new task",
	Long: `Add a task. Priority defaults to medium and status to todo.
A due date may not be in the past.

Examples:
  cadence task add "Write report"
  cadence task add "Review PR" -p high --due 2024-03-15
  cadence task add "Buy milk" -c errands`,
	Aliases: []string{"create", "new"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		created, err := app.CreateTaskHandler.Handle(cmd.Context(), commands.CreateTaskCommand{
			Title:       args[0],
			Description: addDescription,
			DueDate:     addDue,
			Priority:    addPriority,
			Status:      addStatus,
			Category:    addCategory,
		})
		if err != nil {
			return fmt.Errorf("failed to add task: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, cli.Success("Task added: "+created.ID))
		fmt.Fprintf(out, "  title:    %s\n", created.Title)
		fmt.Fprintf(out, "  priority: %s\n", created.Priority)
		if !created.DueDate.IsZero() {
			fmt.Fprintf(out, "  due:      %s\n", created.DueDate)
		}
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "task description")
	addCmd.Flags().StringVar(&addDue, "due", "", "due date (YYYY-MM-DD)")
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", "", "priority (low, medium, high)")
	addCmd.Flags().StringVar(&addStatus, "status", "", "status (todo, in-progress, done)")
	addCmd.Flags().StringVarP(&addCategory, "category", "c", "", "category")
}
