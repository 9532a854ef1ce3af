package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/security"
	"github.com/felixgeelhaar/cadence/internal/transfer"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <tasks|habits>",
	Short: "Export a collection as JSON",
	Long: `Export every task or every habit as an indented JSON array.

Examples:
  cadence export tasks                  # Print to stdout
  cadence export habits -o habits.json  # Write to a file`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}
		kind, err := transfer.ParseKind(args[0])
		if err != nil {
			return err
		}

		data, err := app.Transfer.Export(cmd.Context(), kind)
		if err != nil {
			return fmt.Errorf("failed to export %s: %w", kind, err)
		}

		if exportOutput == "" {
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}

		path, err := security.ValidateFilePath(exportOutput)
		if err != nil {
			return err
		}
		if err := security.WriteFileAtomic(path, append(data, '\n'), 0o600); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), Success(fmt.Sprintf("Exported %s to %s", kind, path)))
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <tasks|habits> <file>",
	Short: "Import a collection from a JSON file",
	Long: `Import tasks or habits from a JSON array, such as one written by
"cadence export". Records that fail validation are skipped and reported;
the rest are stored. Records whose id already exists replace the stored one.

Examples:
  cadence import tasks tasks.json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}
		kind, err := transfer.ParseKind(args[0])
		if err != nil {
			return err
		}

		path, err := security.ValidateFilePath(args[1])
		if err != nil {
			return err
		}
		data, err := security.ReadFile(path, security.MaxImportSize)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		report, err := app.Transfer.Import(cmd.Context(), kind, data)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, Success(fmt.Sprintf("Imported %d %s", len(report.Imported), kind)))
		if report.Skipped() > 0 {
			fmt.Fprintln(out, Warning(fmt.Sprintf("Skipped %d record(s):", report.Skipped())))
			for _, recordErr := range report.Errors {
				fmt.Fprintf(out, "  - %s\n", recordErr.Error())
			}
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to file instead of stdout")
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
