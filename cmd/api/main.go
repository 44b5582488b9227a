package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/umedhealth/umed-backend/internal/adapters/cache"
	"github.com/umedhealth/umed-backend/internal/adapters/events"
	"github.com/umedhealth/umed-backend/internal/adapters/memory"
	"github.com/umedhealth/umed-backend/internal/api/handlers"
	"github.com/umedhealth/umed-backend/internal/api/routes"
	"github.com/umedhealth/umed-backend/internal/application/services"
	"github.com/umedhealth/umed-backend/internal/domain/providers"
	"github.com/umedhealth/umed-backend/internal/infrastructure/clients/gemini"
	"github.com/umedhealth/umed-backend/internal/infrastructure/clients/redis"
	"github.com/umedhealth/umed-backend/internal/infrastructure/observability"
	"github.com/umedhealth/umed-backend/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	observability.InitLogger("umed-backend", os.Getenv("APP_ENV"))
	logger := observability.GetLogger()

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Msg("OpenTelemetry initialized")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Initialize Redis client; the application degrades to local-only
	// caching and no live streams when it is unavailable
	var cacheProvider providers.CacheProvider
	var eventBus providers.EventBus
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, continuing without cache and live updates")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		eventBus = events.NewRedisEventBus(redisClient)
		logger.Info().Msg("redis client initialized")
	}

	// Initialize the Gemini client for document analysis and chat
	if cfg.Gemini.APIKey == "" {
		logger.Fatal().Msg("GEMINI_API_KEY is required")
	}
	geminiClient, err := gemini.NewClient(&cfg.Gemini)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize gemini client")
	}

	// Initialize the family store with seed data
	store := memory.NewFamilyStore(memory.SeedFamily(), eventBus)

	// Initialize services
	notificationService := services.NewNotificationService(nil)
	statsEditService := services.NewStatsEditService(store, notificationService)
	insightService := services.NewInsightService(store, geminiClient, cacheProvider, metrics)
	scanService := services.NewScanService(store, geminiClient, notificationService, metrics, insightService)
	chatService := services.NewChatService(store, geminiClient)

	// Initialize handlers
	familyHandler := handlers.NewFamilyHandler(store, memory.SeedUser())
	statsHandler := handlers.NewStatsHandler(statsEditService)
	scanHandler := handlers.NewScanHandler(scanService)
	chatHandler := handlers.NewChatHandler(chatService)
	insightHandler := handlers.NewInsightHandler(insightService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	var sseHandler *handlers.SSEHandler
	if eventBus != nil {
		sseHandler = handlers.NewSSEHandler(eventBus)
	}

	// Set up router
	router := routes.NewRouter(
		familyHandler,
		statsHandler,
		scanHandler,
		chatHandler,
		insightHandler,
		notificationHandler,
		sseHandler,
		metrics,
	)
	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := cfg.Server.ServerAddr()
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // long enough for analyzer round trips
		IdleTimeout:  120 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("server shutting down")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("error during server shutdown")
	}

	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			logger.Error().Err(err).Msg("error closing event bus")
		}
	}

	logger.Info().Msg("server stopped")
}
