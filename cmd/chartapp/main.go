package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"chartapp/internal/app"
	"chartapp/internal/config"
	"chartapp/internal/infrastructure"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer infrastructure.CloseLogFile()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize application", slog.String("error", err.Error()))
		return err
	}

	return application.Run(ctx)
}
