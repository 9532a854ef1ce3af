package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cadence/pkg/observability"
)

var logger *slog.Logger

type commandContext struct {
	startedAt time.Time
}

type commandContextKey struct{}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cadence",
	Short: "Cadence - tasks and habits from the terminal",
	Long: `Cadence tracks tasks with due dates and priorities, and habits
with daily or weekly streaks.

Data lives in a local SQLite file unless DATABASE_URL points at PostgreSQL.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ctx := observability.NewCommandContext(cmd.Context(), cmd.CommandPath())
		ctx = context.WithValue(ctx, commandContextKey{}, commandContext{startedAt: time.Now()})
		cmd.SetContext(ctx)
		getLogger().DebugContext(ctx, "command start")
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		if a := GetApp(); a != nil && a.Flush != nil {
			a.Flush(ctx)
		}
		info, ok := ctx.Value(commandContextKey{}).(commandContext)
		if !ok {
			return
		}
		getLogger().DebugContext(ctx, "command end",
			observability.DurationKey, time.Since(info.startedAt).Milliseconds(),
		)
	},
}

// ExecuteArgs runs the command tree with args, writing regular output to out
// and failures to errOut as "Error: <message>".
func ExecuteArgs(ctx context.Context, args []string, out, errOut io.Writer) error {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(errOut, "Error: %s\n", err)
		return err
	}
	return nil
}

// AddCommand adds a command to the root command.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// SetLogger sets the CLI logger.
func SetLogger(l *slog.Logger) {
	logger = l
}

func getLogger() *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
