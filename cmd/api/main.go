package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lotdesk/internal/cart"
	"lotdesk/internal/catalog"
	"lotdesk/internal/config"
	"lotdesk/internal/database"
	"lotdesk/internal/events"
	"lotdesk/internal/handler"
	"lotdesk/internal/reconcile"
	"lotdesk/internal/repository"
	"lotdesk/internal/router"
	"lotdesk/internal/submit"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present; real environments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting lotdesk API server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Repositories and the degrading catalog accessor
	variantRepo := repository.NewVariantRepository(pool, logger)
	offerRepo := repository.NewOfferRepository(pool, logger)
	accessor := catalog.NewAccessor(variantRepo, offerRepo, logger)

	// Cart persistence backend
	var persist cart.Persistence
	switch cfg.Cart.Backend {
	case "bolt":
		boltStore, err := cart.NewBoltPersistence(cfg.Cart.BoltPath)
		if err != nil {
			return fmt.Errorf("failed to open cart database: %w", err)
		}
		defer boltStore.Close()
		persist = boltStore
		logger.Info().Str("path", cfg.Cart.BoltPath).Msg("cart persistence: bolt")
	case "redis":
		redisStore, err := cart.NewRedisPersistence(cfg.Cart.RedisAddr, time.Duration(cfg.Cart.RedisTTL)*time.Second)
		if err != nil {
			return fmt.Errorf("failed to connect to cart redis: %w", err)
		}
		defer redisStore.Close()
		persist = redisStore
		logger.Info().Str("addr", cfg.Cart.RedisAddr).Msg("cart persistence: redis")
	default:
		persist = cart.NopPersistence{}
		logger.Info().Msg("cart persistence disabled, carts are ephemeral")
	}

	// Event publisher
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Events.Enabled {
		publisher = events.NewKafkaPublisher(cfg.Events.Brokers, cfg.Events.Topic, logger)
		logger.Info().
			Strs("brokers", cfg.Events.Brokers).
			Str("topic", cfg.Events.Topic).
			Msg("order event publishing enabled")
	}
	defer publisher.Close()

	// Core services
	cartService := cart.NewService(persist, logger)
	manager := reconcile.NewManager(accessor, logger)
	acceptClient := submit.NewHTTPAcceptClient(
		cfg.Accept.URL,
		cfg.Accept.APIKey,
		time.Duration(cfg.Accept.Timeout)*time.Second,
		logger,
	)
	orchestrator := submit.NewOrchestrator(manager, accessor, acceptClient, publisher, logger)

	// HTTP surface
	cartHandler := handler.NewCartHandler(cartService, logger)
	draftHandler := handler.NewDraftHandler(manager, orchestrator, logger)
	mux := router.New(cartHandler, draftHandler, cfg.Auth.APIKey, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
