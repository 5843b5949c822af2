package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/sabarim/stockdash/internal/config"
	"github.com/sabarim/stockdash/internal/dashboard"
	"github.com/sabarim/stockdash/internal/logging"
	"github.com/sabarim/stockdash/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	configFile string
	sourceURL  string
	outputDir  string
	addr       string
	logFormat  string
	verbose    bool
)

var versionString = "0.1.0"

func main() {
	// Define the root command
	rootCmd := &cobra.Command{
		Use:   "stockdash",
		Short: "Clean, aggregate and chart daily stock market data",
		Long: `A utility that downloads a daily stock market CSV, cleans it into a Parquet snapshot,
publishes three aggregate snapshots and serves an interactive dashboard over them.`,
		SilenceUsage: true,
	}

	// Define flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "config.yaml", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", "", "Directory holding the Parquet snapshots")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format (text, json)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose logging")

	prepCmd := &cobra.Command{
		Use:   "prep",
		Short: "Download the source CSV and write the cleaned snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPipeline(func(ctx context.Context, p *pipeline.Pipeline) error { return p.Prep(ctx) })
		},
	}
	aggregateCmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Compute the aggregate snapshots from the cleaned snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPipeline(func(_ context.Context, p *pipeline.Pipeline) error { return p.Aggregate() })
		},
	}
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run prep followed by aggregate",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPipeline(func(ctx context.Context, p *pipeline.Pipeline) error { return p.Run(ctx) })
		},
	}
	for _, c := range []*cobra.Command{prepCmd, runCmd} {
		c.Flags().StringVar(&sourceURL, "url", "", "Source CSV URL")
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over the published snapshots",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "Listen address of the dashboard")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("stockdash version %s\n", versionString)
		},
	}

	rootCmd.AddCommand(prepCmd, aggregateCmd, runCmd, serveCmd, versionCmd)

	// Execute the command
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads the configuration, applies flag overrides and builds the run
// logger. The returned context is cancelled on SIGINT or SIGTERM.
func setup() (context.Context, context.CancelFunc, *config.Config, *slog.Logger, error) {
	// 1. Load configuration from file and environment
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("error loading configuration: %w", err)
	}

	// 2. Override configuration with command-line flags
	if sourceURL != "" {
		cfg.Source.URL = sourceURL
	}
	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	logger := logging.New(cfg.Logging, os.Stderr).With(slog.String("run_id", uuid.NewString()))

	// 3. Create context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())

	// 4. Handle OS signals
	sigchan := make(chan os.Signal, 1)
	signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigchan:
			logger.Info("Received signal, initiating shutdown", slog.String("signal", sig.String()))
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel, &cfg, logger, nil
}

func withPipeline(stage func(context.Context, *pipeline.Pipeline) error) error {
	ctx, cancel, cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer cancel()

	logger.Debug("Configuration loaded",
		slog.String("source_url", cfg.Source.URL),
		slog.String("output_dir", cfg.Output.Dir))

	if err := stage(ctx, pipeline.New(cfg, logger, os.Stdout)); err != nil {
		logger.Error("Pipeline failed", slog.String("error", err.Error()))
		return err
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel, cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer cancel()

	srv, err := dashboard.NewServer(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize dashboard", slog.String("error", err.Error()))
		return err
	}
	if err := srv.ListenAndServe(ctx); err != nil {
		logger.Error("Dashboard stopped", slog.String("error", err.Error()))
		return err
	}
	return nil
}
