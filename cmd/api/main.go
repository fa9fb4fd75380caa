package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"telemetry-stats-service/internal/app"
	"telemetry-stats-service/internal/config"
	"telemetry-stats-service/internal/logging"

	_ "telemetry-stats-service/docs"
)

// set with -ldflags "-X main.version=..."
var version = "dev"

// @title Telemetry Stats API
// @version 1.0
// @description Device, event and error telemetry ingest with aggregate reports.
// @BasePath /
// @securityDefinitions.apikey APIKey
// @in header
// @name X-API-Key
// @securityDefinitions.apikey WriteKey
// @in header
// @name X-API-Key
// @securityDefinitions.apikey ReportKey
// @in header
// @name X-API-Key
func main() {
	showHelp := flag.Bool("help", false, "print configuration help and exit")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Usage = func() { config.WriteHelp(os.Stderr, version) }
	flag.Parse()

	if *showHelp {
		config.WriteHelp(os.Stdout, version)
		return
	}
	if *showVersion {
		fmt.Println(version)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Config
	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Logging
	logger, logCloser, err := logging.Setup(logging.Options{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer logCloser.Close()

	if err := app.New(cfg, logger, version).Run(ctx); err != nil {
		logger.Error("server exited", slog.Any("error", err))
		logCloser.Close()
		os.Exit(1)
	}
}
