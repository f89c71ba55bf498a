package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gca01/pm-price-ss/config"
	"github.com/gca01/pm-price-ss/scraper/polymarket"
	"github.com/gca01/pm-price-ss/services"
	"github.com/gca01/pm-price-ss/storage"
	"github.com/gca01/pm-price-ss/utils"
)

var version = "dev"

var (
	headless       bool
	dryRun         bool
	maxGames       int
	outputPath     string
	screenshotsDir string
	storeBackend   string
	requestDelay   time.Duration
	pageTimeout    time.Duration
	maxRetries     int
	retryDelay     time.Duration
)

func main() {
	cfg := config.Load()

	rootCmd := &cobra.Command{
		Use:     "pm-price-ss",
		Short:   "Hourly Polymarket NBA moneyline price and chart capture",
		Version: version,
		Long: `pm-price-ss discovers today's NBA games on Polymarket, drives each
game's page to a rendered 6H moneyline chart, and appends one row per game
(prices plus a chart screenshot) to an append-only tabular log.

Intended to run hourly from cron; re-running within the same hour simply
appends another row per game.`,
		Example: `  # Normal hourly run
  pm-price-ss

  # Watch the browser while debugging, first two games only
  pm-price-ss --headless=false --max-games 2

  # Validate the pipeline without writing rows or screenshots
  pm-price-ss --dry-run`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cfg)
		},
	}

	f := rootCmd.Flags()
	f.BoolVar(&headless, "headless", cfg.Headless, "Run the browser headless")
	f.BoolVar(&dryRun, "dry-run", false, "Validate the pipeline without writing rows or screenshots")
	f.IntVarP(&maxGames, "max-games", "n", 0, "Maximum number of games to process (0 for all)")
	f.StringVarP(&outputPath, "output", "o", cfg.CSVOutputPath, "Path of the CSV price log")
	f.StringVar(&screenshotsDir, "screenshots-dir", cfg.ScreenshotsDir, "Base directory for chart screenshots")
	f.StringVar(&storeBackend, "store", cfg.StoreBackend, "Persistence backend: csv or postgres")
	f.DurationVar(&requestDelay, "delay", cfg.RequestDelay, "Pause between games")
	f.DurationVar(&pageTimeout, "timeout", cfg.PageLoadTimeout, "Max wait for page elements")
	f.IntVar(&maxRetries, "retries", cfg.MaxRetries, "Attempts per navigation step")
	f.DurationVar(&retryDelay, "retry-delay", cfg.RetryDelay, "Base delay between retry attempts")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	cfg.Headless = headless
	cfg.CSVOutputPath = outputPath
	cfg.ScreenshotsDir = screenshotsDir
	cfg.StoreBackend = storeBackend
	cfg.RequestDelay = requestDelay
	cfg.PageLoadTimeout = pageTimeout
	cfg.MaxRetries = maxRetries
	cfg.RetryDelay = retryDelay

	logger := utils.NewLogger()
	logger.Info("=== Polymarket NBA price capture starting ===")
	logger.Info("Config — headless: %t | dry-run: %t | store: %s | delay: %v | retries: %d",
		cfg.Headless, dryRun, cfg.StoreBackend, cfg.RequestDelay, cfg.MaxRetries)

	clock, err := utils.NewClock()
	if err != nil {
		logger.Error("Failed to resolve reference timezone: %v", err)
		os.Exit(1)
	}
	logger.Info("Run time: %s", clock.Now().Format("2006-01-02 15:04:05 MST"))

	writer, err := newWriter(cfg, dryRun)
	if err != nil {
		logger.Error("Failed to open store: %v", err)
		os.Exit(1)
	}
	defer writer.Close()

	scraper := polymarket.New(cfg, logger, clock, writer, polymarket.Options{
		DryRun:   dryRun,
		MaxGames: maxGames,
	})

	// An interrupt finishes the in-flight game and stops before the next
	// one, leaving already-appended rows intact.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Warn("Interrupt received — stopping after the current game")
		scraper.RequestStop()
	}()

	summary := scraper.Run(context.Background())

	services.NewReportService(logger).Print(summary)
	if dryRun {
		logger.Info("Dry run — no rows or screenshots were written")
	}

	// Per-game skips and failures are a completed run. Only discovery,
	// browser-init, and persistence errors fail the process.
	if len(summary.Fatal) > 0 {
		return fmt.Errorf("run aborted: %v", summary.Fatal[0])
	}
	return nil
}

// newWriter picks the persistence backend. Dry-run discards records while
// still exercising the rest of the pipeline.
func newWriter(cfg *config.Config, dryRun bool) (storage.RecordWriter, error) {
	if dryRun {
		return storage.NopWriter{}, nil
	}
	switch cfg.StoreBackend {
	case "postgres":
		return storage.NewPostgresWriter(cfg.DSN())
	case "csv":
		return storage.NewCSVWriter(cfg.CSVOutputPath)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
