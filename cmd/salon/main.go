package main

import (
	"fmt"
	"os"

	"github.com/javiermolinar/salon/internal/config"
	"github.com/javiermolinar/salon/internal/logging"
	"github.com/javiermolinar/salon/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.New(logging.Options{
		Level: cfg.Log.Level,
		File:  cfg.Log.File,
	})
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}

	app := ui.NewApp(nil, cfg, logger)
	defer func() { _ = app.Close() }()
	return app.Execute()
}
