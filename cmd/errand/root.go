package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/errand"
	"github.com/aretw0/errand/internal/cli"
	"github.com/aretw0/errand/internal/config"
	"github.com/aretw0/errand/internal/logging"
	"github.com/aretw0/errand/internal/presentation/tui"
	"github.com/aretw0/errand/pkg/adapters/sqlite"
	"github.com/aretw0/errand/pkg/observability"
	"github.com/aretw0/errand/pkg/ports"
	"github.com/spf13/cobra"
)

// reportedError wraps an error whose message the command already printed.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	return &reportedError{err: err}
}

// app carries what every errand needs, assembled once per invocation.
var app struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
	journal ports.Journal
	closer  func() error
	runner  *cli.Runner
}

var rootCmd = &cobra.Command{
	Use:   "errand",
	Short: "errand runs small single-purpose chores from the terminal",
	Long: `errand bundles independent one-shot tasks: drawing a picture, sending mail,
texting or calling through Twilio, reading memory usage, searching the web,
downloading a file, swapping faces between two photos and serving a
browser-based file explorer.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if app.closer != nil {
			return app.closer()
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		tui.PrintBanner(cmd.OutOrStdout(), errand.Version)
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx := cli.NewSignalContext(context.Background())
	defer ctx.Stop()

	err := rootCmd.ExecuteContext(ctx)
	switch {
	case err == nil:
	case cli.IsInterrupted(err):
		if in, ok := ctx.Interrupted(); ok {
			fmt.Fprintf(os.Stderr, "\nInterrupted (%v)\n", in.Signal)
			ctx.Stop()
			os.Exit(in.ExitCode())
		}
	case errors.As(err, new(*reportedError)):
		os.Exit(1)
	default:
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Path to the YAML config file")
	rootCmd.PersistentFlags().String("env", config.DefaultEnvFile, "Path to the dotenv file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("journal", "", "Record errand runs in this SQLite database")
}

func setup(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env")
	verbose, _ := cmd.Flags().GetBool("verbose")
	journalPath, _ := cmd.Flags().GetString("journal")

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	app.logger = logging.New(level)
	slog.SetDefault(app.logger)

	cfg, err := config.Load(configPath, envFile)
	if err != nil {
		return err
	}
	app.cfg = cfg

	app.journal, app.closer = nil, nil
	app.metrics = observability.NewMetrics()
	opts := []cli.Option{
		cli.WithLogger(app.logger),
		cli.WithHooks(observability.Combine(
			observability.LoggingHooks(app.logger),
			app.metrics.Hooks(),
		)),
	}

	if journalPath == "" {
		journalPath = cfg.Journal.Path
	}
	if journalPath != "" {
		journal, err := sqlite.Open(journalPath)
		if err != nil {
			return err
		}
		app.journal = journal
		app.closer = journal.Close
		opts = append(opts, cli.WithJournal(journal))
		app.logger.Debug("Journal enabled", "path", journalPath)
	}

	app.runner = cli.NewRunner(opts...)
	return nil
}

// run executes fn as the errand called name.
func run(cmd *cobra.Command, name string, fn cli.ErrandFunc) error {
	return app.runner.Run(cmd.Context(), name, fn)
}

// orDefault returns the flag value when it was set, otherwise fallback.
func orDefault(cmd *cobra.Command, flag, fallback string) string {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetString(flag)
		return v
	}
	return fallback
}
