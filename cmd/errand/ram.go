package main

import (
	"context"
	"fmt"

	"github.com/aretw0/errand/internal/presentation/tui"
	"github.com/aretw0/errand/pkg/adapters/sysmem"
	"github.com/spf13/cobra"
)

var ramCmd = &cobra.Command{
	Use:   "ram",
	Short: "Show total, available and used system memory",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		printer := tui.NewPrinter(cmd.OutOrStdout(), asJSON)

		return run(cmd, "ram", func(ctx context.Context) (string, error) {
			stats, err := sysmem.New().ReadMemory(ctx)
			if err != nil {
				return "", err
			}
			if err := printer.Print(tui.NewMemoryReport(stats)); err != nil {
				return "", err
			}
			return fmt.Sprintf("%.1f%% used", stats.UsedPercent), nil
		})
	},
}

func init() {
	rootCmd.AddCommand(ramCmd)
	ramCmd.Flags().Bool("json", false, "Print the report as JSON")
}
