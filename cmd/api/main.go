package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/doctorfinder/internal/adapters/cache"
	"github.com/zatekoja/doctorfinder/internal/adapters/events"
	"github.com/zatekoja/doctorfinder/internal/api/handlers"
	"github.com/zatekoja/doctorfinder/internal/api/routes"
	"github.com/zatekoja/doctorfinder/internal/application/services"
	"github.com/zatekoja/doctorfinder/internal/domain/providers"
	"github.com/zatekoja/doctorfinder/internal/infrastructure/clients/providerapi"
	"github.com/zatekoja/doctorfinder/internal/infrastructure/clients/redis"
	"github.com/zatekoja/doctorfinder/internal/infrastructure/observability"
	queryservices "github.com/zatekoja/doctorfinder/internal/query/services"
	"github.com/zatekoja/doctorfinder/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Log.Env, cfg.Log.Level)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	telemetry, err := observability.Setup(ctx, cfg.OTEL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up OpenTelemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
		}
	}()

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// Provider directory
	client := providerapi.NewClient(cfg.Directory.Endpoint, cfg.Directory.Timeout)
	directoryOpts := services.DefaultDirectoryOptions()
	directoryOpts.MinRosterSize = cfg.Directory.MinRosterSize
	directoryOpts.FallbackRosterSize = cfg.Directory.FallbackRosterSize
	directoryOpts.Normalize.StrictModes = !cfg.Directory.AbsentModeAvailable
	directoryOpts.Retry.MaxAttempts = cfg.Directory.FetchAttempts

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize Redis client")
		}
		defer redisClient.Close()
		log.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("Connected to Redis")
	}

	// Directory change notifications
	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
	} else {
		eventBus = events.NewMemoryEventBus()
	}
	defer eventBus.Close()

	directoryService := services.NewDirectoryService(client, services.NewFeatureFlags(), directoryOpts, metrics)
	directoryService.SetEventBus(eventBus)
	if _, err := directoryService.Load(ctx); err != nil {
		log.Warn().Err(err).Msg("Initial directory load failed; serving fallback data")
	}
	directoryService.StartPeriodicRefresh(ctx, cfg.Directory.RefreshInterval)

	// Query sessions
	var sessionCache providers.CacheProvider
	if cfg.Session.Store == "redis" {
		sessionCache = cache.NewRedisAdapter(redisClient)
		log.Info().Msg("Using Redis session store")
	} else {
		sessionCache = cache.NewMemoryAdapter(cfg.Session.MemoryCapacity, cfg.Session.TTL)
		log.Info().Int("capacity", cfg.Session.MemoryCapacity).Msg("Using in-memory session store")
	}
	sessionService := services.NewQuerySessionService(cache.NewQuerySessionStore(sessionCache, cfg.Session.TTL))

	// HTTP
	queryService := queryservices.NewDirectoryQueryService(directoryService, metrics)
	router := routes.NewRouter(
		handlers.NewDirectoryHandler(queryService, directoryService),
		handlers.NewSessionHandler(sessionService, queryService),
		routes.Options{
			AllowedOrigins:   cfg.CORS.AllowedOrigins,
			SuggestPerMinute: cfg.RateLimit.SuggestPerMinute,
			MetricsHandler:   telemetry.MetricsHandler,
			SSEHandler:       handlers.NewSSEHandler(eventBus, directoryService, cfg.Events.HeartbeatInterval),
		},
		metrics,
	)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server stopped")
}
