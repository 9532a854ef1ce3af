package habit

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/habits/application/commands"
)

var (
	addDescription string
	addFrequency   string
	addCategory    string
	addTarget      int
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a new habit",
	Long: `Add a habit. Frequency defaults to daily.

Examples:
  cadence habit add "Meditate"
  cadence habit add "Long run" -f weekly -c health`,
	Aliases: []string{"create", "new"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		created, err := app.CreateHabitHandler.Handle(cmd.Context(), commands.CreateHabitCommand{
			Title:       args[0],
			Description: addDescription,
			Frequency:   addFrequency,
			Category:    addCategory,
			TargetCount: addTarget,
		})
		if err != nil {
			return fmt.Errorf("failed to add habit: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, cli.Success("Habit added: "+created.ID))
		fmt.Fprintf(out, "  title:     %s\n", created.Title)
		fmt.Fprintf(out, "  frequency: %s\n", created.Frequency)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "habit description")
	addCmd.Flags().StringVarP(&addFrequency, "frequency", "f", "", "daily or weekly")
	addCmd.Flags().StringVarP(&addCategory, "category", "c", "", "category")
	addCmd.Flags().IntVar(&addTarget, "target", 0, "completions per period (default 1)")
}
