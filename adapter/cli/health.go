package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cadence/pkg/observability"
)

var healthCmd = &cobra.Command{
	Use:     "health",
	Short:   "Check storage, cache and broker connectivity",
	Aliases: []string{"doctor"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}

		results := app.Health.Check(cmd.Context())
		out := cmd.OutOrStdout()
		for _, result := range results {
			line := fmt.Sprintf("%-8s %-10s %s", result.Name, result.Status, result.Message)
			switch result.Status {
			case observability.HealthStatusHealthy:
				fmt.Fprintln(out, Success(line))
			case observability.HealthStatusDegraded:
				fmt.Fprintln(out, Warning(line))
			default:
				fmt.Fprintln(out, Failure(line))
			}
		}

		if status := observability.OverallStatus(results); status == observability.HealthStatusUnhealthy {
			return fmt.Errorf("cadence is %s", status)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
