package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/errand/internal/cli"
	"github.com/aretw0/errand/internal/presentation/tui"
	"github.com/aretw0/errand/pkg/adapters/google"
	"github.com/aretw0/errand/pkg/domain"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Search the web and list the top result links",
	Long: `Fetches a search results page and prints the result links in rank order.
Without arguments the query is asked for interactively.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := app.cfg.Search
		limit, _ := cmd.Flags().GetInt("limit")
		if !cmd.Flags().Changed("limit") {
			limit = cfg.Limit
		}
		output := orDefault(cmd, "output", cfg.Output)
		noSave, _ := cmd.Flags().GetBool("no-save")
		asJSON, _ := cmd.Flags().GetBool("json")

		query := strings.TrimSpace(strings.Join(args, " "))
		if query == "" {
			var err error
			if query, err = promptQuery(cmd.Context()); err != nil {
				return err
			}
		}
		query, err := cli.SanitizeInput(query)
		if err != nil {
			return err
		}

		var opts []google.Option
		if cfg.BaseURL != "" {
			opts = append(opts, google.WithBaseURL(cfg.BaseURL))
		}
		if cfg.UserAgent != "" {
			opts = append(opts, google.WithUserAgent(cfg.UserAgent))
		}
		searcher := google.New(opts...)
		printer := tui.NewPrinter(cmd.OutOrStdout(), asJSON)

		return run(cmd, "search", func(ctx context.Context) (string, error) {
			results, err := searcher.Search(ctx, query, limit)
			if err != nil {
				return "", err
			}
			report := tui.SearchReport{Query: query, Results: results}
			if !noSave {
				if err := saveResults(output, results); err != nil {
					return "", err
				}
				report.SavedTo = output
			}
			if err := printer.Print(report); err != nil {
				return "", err
			}
			return fmt.Sprintf("%d results for %q", len(results), query), nil
		})
	},
}

func promptQuery(ctx context.Context) (string, error) {
	var query string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Enter your search query").
			Value(&query),
	))
	if err := form.RunWithContext(ctx); err != nil {
		return "", err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return "", domain.ErrEmptyQuery
	}
	return query, nil
}

// saveResults writes one URL per line.
func saveResults(path string, results []string) error {
	var b strings.Builder
	for _, r := range results {
		b.WriteString(r)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("save results: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntP("limit", "n", google.DefaultLimit, "Maximum number of results")
	searchCmd.Flags().StringP("output", "o", "", "File the result links are saved to")
	searchCmd.Flags().Bool("no-save", false, "Do not write the results file")
	searchCmd.Flags().Bool("json", false, "Print the report as JSON")
}
