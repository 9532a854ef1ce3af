package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/productivity/application/queries"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		t, err := app.GetTaskHandler.Handle(cmd.Context(), queries.GetTaskQuery{TaskID: args[0], Today: app.Today()})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		printTask(out, *t)
		if t.Description != "" {
			fmt.Fprintf(out, "   %s\n", t.Description)
		}
		fmt.Fprintf(out, "   %s\n", cli.Muted("Created "+t.CreatedAt.Format("2006-01-02 15:04")+", updated "+t.UpdatedAt.Format("2006-01-02 15:04")))
		return nil
	},
}
