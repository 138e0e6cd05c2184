package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"order-desk/internal/config"
	"order-desk/internal/database"
	"order-desk/internal/handler"
	"order-desk/internal/middleware"
	"order-desk/internal/notify"
	"order-desk/internal/ratelimit"
	"order-desk/internal/repository"
	"order-desk/internal/router"
	"order-desk/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().
		Str("catalog_backend", cfg.Storage.CatalogBackend).
		Str("orders_backend", cfg.Storage.OrdersBackend).
		Bool("persist_orders", cfg.Storage.PersistOrders).
		Msg("starting order-desk API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var pool *pgxpool.Pool
	if cfg.UsesPostgres() {
		pool, err = database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer pool.Close()

		if err := database.EnsureSchema(ctx, pool); err != nil {
			return fmt.Errorf("failed to prepare database schema: %w", err)
		}
	}

	// Initialize repositories
	productRepo, err := repository.NewCatalog(ctx, cfg, pool, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize catalog: %w", err)
	}

	orderRepo, err := repository.NewOrderLog(cfg, pool, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize order log: %w", err)
	}

	notifier := notify.NewTelegramNotifier(cfg.Notifier, nil, logger)

	// Initialize services
	productService := service.NewProductService(productRepo, logger)
	orderService := service.NewOrderService(orderRepo, notifier, service.OrderOptions{
		PersistOrders:    cfg.Storage.PersistOrders,
		BestEffortNotify: cfg.Notifier.BestEffort,
	}, logger)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)

	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		limiter = ratelimit.New(cfg.RateLimit.Requests, cfg.RateLimit.Window)
		go limiter.Run(ctx, cfg.RateLimit.Window)
	}

	trusted, err := cfg.RateLimit.TrustedPrefixes()
	if err != nil {
		return fmt.Errorf("failed to parse trusted proxies: %w", err)
	}
	clients := middleware.NewClientResolver(trusted)

	// Initialize router
	mux := router.New(productHandler, orderHandler, limiter, clients, cfg.CORS.AllowedOrigins, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Notifier.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
