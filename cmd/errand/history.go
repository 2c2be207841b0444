package main

import (
	"github.com/aretw0/errand/internal/presentation/tui"
	"github.com/aretw0/errand/pkg/domain"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent errand runs from the journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		if app.journal == nil {
			return &domain.MissingConfigError{Key: "journal (use --journal or journal.path)"}
		}
		limit, _ := cmd.Flags().GetInt("limit")
		errand, _ := cmd.Flags().GetString("errand")
		asJSON, _ := cmd.Flags().GetBool("json")

		records, err := app.journal.Recent(cmd.Context(), errand, limit)
		if err != nil {
			return err
		}
		return tui.NewPrinter(cmd.OutOrStdout(), asJSON).Print(tui.HistoryReport{Records: records})
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "Number of runs to show")
	historyCmd.Flags().String("errand", "", "Only show runs of this errand")
	historyCmd.Flags().Bool("json", false, "Print the history as JSON")
}
