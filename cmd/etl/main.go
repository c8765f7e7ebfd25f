package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/cetacean-eda/internal/adapter/chart"
	"github.com/couchcryptid/cetacean-eda/internal/adapter/leaflet"
	"github.com/couchcryptid/cetacean-eda/internal/adapter/occurrence"
	"github.com/couchcryptid/cetacean-eda/internal/adapter/workbook"
	"github.com/couchcryptid/cetacean-eda/internal/config"
	"github.com/couchcryptid/cetacean-eda/internal/observability"
	"github.com/couchcryptid/cetacean-eda/internal/pipeline"
	"github.com/couchcryptid/cetacean-eda/internal/report"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	profile, err := config.LoadProfile(cfg.ProfilePath)
	if err != nil {
		logger.Error("failed to load profile", "error", err)
		return 1
	}

	reader := occurrence.NewReader(cfg.InputPath, cfg.InputDelimiter, logger)
	cleaner := pipeline.NewCleaner(cfg.Window(), logger)
	writer := occurrence.NewWriter(cfg.CleanedPath, logger)
	reporter := report.NewReporter(report.Config{
		OutputDir:   cfg.OutputDir,
		InputPath:   cfg.InputPath,
		CleanedPath: cfg.CleanedPath,
		Window:      cfg.Window(),
		Profile:     profile,
	}, logger,
		chart.NewRenderer(logger),
		leaflet.NewRenderer(logger),
		workbook.NewRenderer(logger),
	)

	p := pipeline.New(reader, cleaner, writer, reporter, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runErr := p.Run(ctx)

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Error("metrics textfile write error", "error", err, "path", cfg.MetricsFile)
		}
	}

	if runErr != nil {
		return 1
	}
	return 0
}
