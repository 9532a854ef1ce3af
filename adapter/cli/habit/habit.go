package habit

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/habits/application/queries"
)

// Cmd is the habit command group
var Cmd = &cobra.Command{
	Use:   "habit",
	Short: "Manage habits",
	Long:  `Add habits, toggle completions and follow streaks.`,
}

func init() {
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(toggleCmd)
	Cmd.AddCommand(updateCmd)
	Cmd.AddCommand(deleteCmd)
	Cmd.AddCommand(statsCmd)
}

func printHabit(out io.Writer, h queries.HabitDTO) {
	check := "[ ]"
	if h.Streak.CompletedToday {
		check = cli.Success("[x]")
	}
	fmt.Fprintf(out, "%s %s %s\n", check, h.Title, cli.Muted("("+h.Frequency+")"))

	streak := fmt.Sprintf("Streak: %d (best %d)", h.Streak.Current, h.Streak.Longest)
	if h.Streak.Current > 0 {
		streak = cli.Success(streak)
	}
	fmt.Fprintf(out, "   %s  %s  %s\n",
		cli.Muted("ID: "+cli.ShortID(h.ID)),
		streak,
		cli.Muted(fmt.Sprintf("7d %d%%  30d %d%%", h.Streak.Rate7Days, h.Streak.Rate30Days)),
	)
}

func printJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
