package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/i474232898/gpx-trip-weather/internal/api/http"
	"github.com/i474232898/gpx-trip-weather/internal/config"
	"github.com/i474232898/gpx-trip-weather/internal/metrics"
	"github.com/i474232898/gpx-trip-weather/internal/places"
	"github.com/i474232898/gpx-trip-weather/internal/plans"
	"github.com/i474232898/gpx-trip-weather/internal/report"
	"github.com/i474232898/gpx-trip-weather/internal/scheduler"
	"github.com/i474232898/gpx-trip-weather/internal/store"
	"github.com/i474232898/gpx-trip-weather/internal/weather"
	"github.com/i474232898/gpx-trip-weather/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	mcol := metrics.NewCollector(cfg.RefreshInterval)

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	forecastStore := newStore(cfg)

	// Providers with resilience (backoff + circuit breaker).
	provs, err := providers.Build(cfg.Providers, httpClient, providers.Keys{
		OpenWeather: cfg.OpenWeatherAPIKey,
		WeatherAPI:  cfg.WeatherAPIKey,
	})
	if err != nil {
		log.Fatalf("failed to configure providers: %v", err)
	}
	if len(provs) == 0 {
		log.Printf("WARN: no weather providers configured; every day will be reported unavailable")
	}

	// Core service orchestrating providers and store.
	service := weather.NewService(forecastStore, provs, weather.Options{
		LookupTimeout: cfg.LookupTimeout,
		Concurrency:   cfg.LookupConcurrency,
		Metrics:       mcol,
	})
	assembler := report.NewAssembler(service, places.NewNamer(cfg.GeocoderAPIKey), mcol)
	registry := plans.NewRegistry()

	// Scheduler that periodically refreshes saved plans.
	sched := scheduler.New(registry, assembler, cfg.RefreshInterval, mcol)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "gpx-trip-weather",
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          2 * time.Minute,
		BodyLimit:             32 * 1024 * 1024,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"service":   "gpx-trip-weather",
			"providers": cfg.Providers,
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(mcol.Handler()))

	// API routes.
	httpapi.RegisterRoutes(app, httpapi.Deps{
		Assembler: assembler,
		Plans:     registry,
		Location:  cfg.Location,
		Gauge:     mcol,
	})

	// Start server with graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()
	log.Printf("INFO: listening on :%s", cfg.Port)

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}

// newStore picks Redis when configured and reachable, the in-memory cache otherwise.
func newStore(cfg *config.AppConfig) weather.Store {
	if cfg.RedisAddr == "" {
		return store.NewMemoryStore(cfg.CacheMaxEntries, cfg.CacheMaxAge)
	}

	rs := store.NewRedisStore(redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}), cfg.CacheMaxAge)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rs.Ping(ctx); err != nil {
		log.Printf("WARN: redis at %s unreachable, using in-memory cache: %v", cfg.RedisAddr, err)
		return store.NewMemoryStore(cfg.CacheMaxEntries, cfg.CacheMaxAge)
	}

	log.Printf("INFO: caching forecasts in redis at %s", cfg.RedisAddr)
	return rs
}
