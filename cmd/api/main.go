package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tarha-store/internal/cache"
	"tarha-store/internal/config"
	"tarha-store/internal/database"
	"tarha-store/internal/events"
	"tarha-store/internal/handler"
	"tarha-store/internal/metrics"
	"tarha-store/internal/regionfees"
	"tarha-store/internal/repository"
	"tarha-store/internal/router"
	"tarha-store/internal/service"

	"github.com/redis/go-redis/v9"
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
	logger.Info().Msg("starting tarha-store API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	inventoryRepo := repository.NewInventoryRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	promoRepo := repository.NewPromoRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	profileRepo := repository.NewProfileRepository(pool, logger)

	// Initialize cart cache
	var cartCache cache.CartCache = cache.NewNopCache()
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Msg("redis unreachable, cart cache disabled")
		} else {
			cartCache = cache.NewRedisCache(client)
			logger.Info().Str("addr", cfg.Redis.Addr).Msg("cart cache enabled")
		}
	}

	// Initialize region fee table with S3 and local file fallback
	var feesLoader regionfees.Loader
	feesPath := cfg.Delivery.FeesPath
	if cfg.S3.Enabled {
		s3Loader, err := regionfees.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system")
			feesLoader = regionfees.NewFileLoader(logger)
		} else {
			feesLoader = s3Loader
			feesPath = cfg.S3.Key
		}
	} else {
		feesLoader = regionfees.NewFileLoader(logger)
	}

	feeDoc, err := feesLoader.Load(ctx, feesPath)
	if err != nil {
		logger.Warn().
			Err(err).
			Str("path", feesPath).
			Msg("failed to load region fee table, using configured defaults")
		feeDoc = &regionfees.Document{
			DefaultFee:            cfg.Delivery.DefaultFee,
			FreeDeliveryThreshold: cfg.Delivery.FreeDeliveryThreshold,
		}
	}
	feeTable := regionfees.NewTable(*feeDoc)

	// Initialize order event publisher
	publisher := events.NewNopPublisher()
	if cfg.Kafka.Enabled {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
	}
	defer publisher.Close()

	// Initialize metrics
	storeMetrics := metrics.NewStoreMetrics()

	// Initialize services
	productService := service.NewProductService(productRepo, logger)
	cartService := service.NewCartService(cartRepo, inventoryRepo, productRepo, cartCache, storeMetrics, logger)
	promoService := service.NewPromoService(promoRepo, orderRepo, storeMetrics, logger)
	deliveryService := service.NewDeliveryService(feeTable, feesLoader, feesPath, logger)
	checkoutService := service.NewCheckoutService(orderRepo, cartRepo, profileRepo,
		promoService, deliveryService, cartCache, publisher, storeMetrics, logger)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService, logger)
	cartHandler := handler.NewCartHandler(cartService, logger)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, logger)
	promoHandler := handler.NewPromoHandler(promoService, cartService, logger)
	deliveryHandler := handler.NewDeliveryHandler(deliveryService, cartService, logger)

	// Initialize router
	mux := router.New(productHandler, cartHandler, checkoutHandler, promoHandler,
		deliveryHandler, cfg.Auth.APIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
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
