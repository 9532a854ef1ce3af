package habit

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/habits/application/commands"
	"github.com/felixgeelhaar/cadence/internal/habits/domain"
)

var (
	updateTitle       string
	updateDescription string
	updateFrequency   string
	updateCategory    string
	updateTarget      int
)

var updateCmd = &cobra.Command{
	Use:     "update <id>",
	Short:   "Change habit fields",
	Long:    `Change only the fields given as flags. Completions are kept.`,
	Aliases: []string{"edit"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		var patch domain.HabitPatch
		if flags.Changed("title") {
			patch.Title = &updateTitle
		}
		if flags.Changed("description") {
			patch.Description = &updateDescription
		}
		if flags.Changed("frequency") {
			patch.Frequency = &updateFrequency
		}
		if flags.Changed("category") {
			patch.Category = &updateCategory
		}
		if flags.Changed("target") {
			patch.TargetCount = &updateTarget
		}
		if patch.IsEmpty() {
			return fmt.Errorf("nothing to update; pass at least one field flag")
		}

		updated, err := app.UpdateHabitHandler.Handle(cmd.Context(), commands.UpdateHabitCommand{HabitID: args[0], Patch: patch})
		if err != nil {
			return fmt.Errorf("failed to update habit: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), cli.Success("Habit updated: "+updated.ID))
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVarP(&updateTitle, "title", "t", "", "new title")
	updateCmd.Flags().StringVarP(&updateDescription, "description", "d", "", "new description")
	updateCmd.Flags().StringVarP(&updateFrequency, "frequency", "f", "", "new frequency")
	updateCmd.Flags().StringVarP(&updateCategory, "category", "c", "", "new category")
	updateCmd.Flags().IntVar(&updateTarget, "target", 0, "new completions per period")
}
