package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/javiermolinar/moodplan/internal/config"
	"github.com/javiermolinar/moodplan/internal/logger"
	"github.com/javiermolinar/moodplan/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logger.Init(logger.Config{Debug: cfg.Log.Debug, Dir: cfg.Log.Dir})
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := ui.NewApp(cfg, log)
	defer func() { _ = app.Close() }()
	return app.Execute(ctx)
}
