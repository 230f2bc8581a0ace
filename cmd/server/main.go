package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	http_handler "datapulse.api/internal/adapters/handler/http"
	"datapulse.api/internal/adapters/handler/mqtt"
	"datapulse.api/internal/adapters/repository/pg"
	redis_store "datapulse.api/internal/adapters/store/redis"
	"datapulse.api/internal/config"
	"datapulse.api/internal/core/logger"
	"datapulse.api/internal/core/ports"
	"datapulse.api/internal/core/services"
	"datapulse.api/internal/core/tracing"
)

const version = "0.1.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize structured logger
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	logger.Info("Starting DataPulse API", "version", version)
	logger.Info("Demo mode: all data is synthetic")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize tracing
	if cfg.EnableTracing {
		shutdownTracing, err := tracing.Init(cfg.ServiceName, version, cfg.OTLPEndpoint)
		if err != nil {
			logger.Error("Failed to initialize tracing", "error", err)
		} else {
			logger.Info("Tracing initialized", "endpoint", cfg.OTLPEndpoint)
			defer func() {
				if err := shutdownTracing(context.Background()); err != nil {
					logger.Error("Failed to shutdown tracing", "error", err)
				}
			}()
		}
	}

	// Run history
	var runs ports.RunRepository = services.NewMemoryRunStore()
	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		repo, err := pg.NewRepository(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to init postgres: %v", err)
		}
		runs, db = repo, repo.DB()
		logger.Info("Scraper runs stored in postgres")
	}

	// Rate limiting
	limits := services.RateLimits{
		GlobalDaily:    cfg.RateLimit.GlobalDaily,
		EndpointDaily:  cfg.RateLimit.EndpointDaily,
		EndpointMinute: cfg.RateLimit.EndpointMinute,
	}
	local := services.NewMemoryRateLimiter(limits)
	go local.RunCleanup(ctx)
	var limiter ports.RateLimiter = local

	hub := http_handler.NewHub()
	go hub.Run(ctx)

	var publishers []ports.ProgressPublisher
	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis_store.Connect(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to init redis: %v", err)
		}
		defer redisClient.Close()

		limiter = services.NewGuardedRateLimiter(redis_store.NewRateLimitStore(redisClient, limits), local, nil)

		// Every instance relays the shared channel to its own websocket clients.
		bus := redis_store.NewProgressBus(redisClient)
		publishers = append(publishers, bus)
		go hub.ProgressConsumer(ctx, bus)
		logger.Info("Redis enabled for rate limiting and progress fan-out")
	} else {
		publishers = append(publishers, hub)
	}

	if cfg.MQTTBroker != "" {
		mqttPublisher, err := mqtt.NewPublisher(cfg.MQTTBroker)
		if err != nil {
			logger.Error("Failed to init MQTT publisher", "error", err)
		} else {
			defer mqttPublisher.Close()
			publishers = append(publishers, mqttPublisher)
		}
	}

	// Initialize domain services
	catalog := services.NewCatalog(nil, nil)
	scrapers := services.NewScraperService(runs, cfg.ScraperStepInterval, publishers...)
	healthService := services.NewHealthService(db, redisClient, version)

	var opts []http_handler.ServerOption
	if !cfg.EnableMetrics {
		opts = append(opts, http_handler.WithoutMetrics())
	}
	if cfg.TrustProxyHeaders {
		opts = append(opts, http_handler.WithTrustedProxyHeaders())
	}
	var handler http.Handler = http_handler.NewServer(catalog, scrapers, limiter, healthService, hub, opts...).Handler()
	if cfg.EnableTracing {
		handler = tracing.Middleware("datapulse-api")(handler)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP Server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to serve http: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
}
