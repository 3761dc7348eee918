package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"fintrack/internal/config"
	"fintrack/internal/database"
	"fintrack/internal/handlers"
	"fintrack/internal/logger"
	"fintrack/internal/middleware"
	"fintrack/internal/repository"
	"fintrack/internal/repository/gormrepo"
	"fintrack/internal/services"
	"fintrack/internal/validator"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if !appConfig.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	validator.Register()

	repos, closeStore, err := openStore(appConfig)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Warnf("failed to close store: %v", err)
		}
	}()

	tokens := middleware.NewTokenManager(appConfig.JWTSecret, appConfig.JWTExpirationDur)

	router := handlers.NewRouter(handlers.RouterDeps{
		Auth:        services.NewAuthService(repos.Users, tokens),
		People:      services.NewPersonService(repos.People, repos.Entries),
		Entries:     services.NewEntryService(repos.Entries, repos.People),
		Summary:     services.NewSummaryService(repos.Entries, repos.People),
		Tokens:      tokens,
		CORSOrigin:  appConfig.CORSOrigin,
		Development: appConfig.IsDevelopment(),
	})

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting fintrack API on port %s (store: %s)", appConfig.Port, appConfig.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// openStore builds the repositories for the configured STORE_DRIVER.
func openStore(cfg *config.Config) (repository.Repositories, func() error, error) {
	if cfg.StoreDriver == config.DriverJSON {
		store, err := repository.OpenFileStore(cfg.DataFile)
		if err != nil {
			return repository.Repositories{}, nil, fmt.Errorf("failed to open data file: %w", err)
		}
		logger.Get().Infof("Using JSON store at %s", cfg.DataFile)
		return store.Repositories(), store.Close, nil
	}

	dbManager, err := database.NewManager(database.NewConfig(cfg))
	if err != nil {
		return repository.Repositories{}, nil, fmt.Errorf("failed to create database manager: %w", err)
	}
	if err := dbManager.RunMigrations(); err != nil {
		_ = dbManager.Close()
		return repository.Repositories{}, nil, fmt.Errorf("failed to run database migrations: %w", err)
	}
	return gormrepo.New(dbManager.DB()), dbManager.Close, nil
}
