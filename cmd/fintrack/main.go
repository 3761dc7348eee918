// Command fintrack is the command-line client of the fintrack API. It keeps
// a local cache so that reads and writes still work while the API is down.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"fintrack/internal/client"
	"fintrack/internal/client/cache"
	"fintrack/internal/config"
	"fintrack/internal/logger"
)

func main() {
	logger.InitCLI(os.Getenv("FINTRACK_VERBOSE") != "")
	defer logger.Sync()

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadClient()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	store, err := cache.OpenFile(cfg.CacheFile)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}

	gw := client.New(store, client.Options{
		BaseURL: cfg.APIURL,
		Timeout: cfg.Timeout,
		Retries: cfg.Retries,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	registry := NewCommandRegistry(os.Stdout)
	newApp(gw, os.Stdout).registerCommands(registry)
	return registry.Execute(ctx, os.Args[1:])
}
