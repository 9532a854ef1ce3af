package task

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/productivity/application/queries"
)

// Cmd is the task command group
var Cmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
	Long:  `Add, list, update, complete and delete tasks.`,
}

func init() {
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(updateCmd)
	Cmd.AddCommand(doneCmd)
	Cmd.AddCommand(deleteCmd)
	Cmd.AddCommand(statsCmd)
}

func printTask(out io.Writer, t queries.TaskDTO) {
	marker := ""
	switch {
	case t.Overdue:
		marker = " " + cli.Failure("[OVERDUE]")
	case t.DueToday:
		marker = " " + cli.Warning("[TODAY]")
	}

	fmt.Fprintf(out, "%s %s %s%s\n", cli.StatusIcon(t.Status), t.Title, cli.PriorityBadge(t.Priority), marker)
	fmt.Fprintf(out, "   %s", cli.Muted("ID: "+cli.ShortID(t.ID)))
	if t.DueDate != "" {
		fmt.Fprintf(out, "  %s", cli.Muted("Due: "+t.DueDate))
	}
	if t.Category != "" {
		fmt.Fprintf(out, "  %s", cli.Muted("#"+t.Category))
	}
	fmt.Fprintln(out)
}

func printJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
