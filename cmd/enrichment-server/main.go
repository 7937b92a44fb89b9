// cmd/enrichment-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"orion-enrichment/internal/common/config"
	"orion-enrichment/internal/common/database"
	commonhttp "orion-enrichment/internal/common/http"
	"orion-enrichment/internal/common/logger"
	"orion-enrichment/internal/common/observability"
	"orion-enrichment/internal/server"

	ei "orion-enrichment/internal/workers/enrichment/enrich-itinerary"
	ep "orion-enrichment/internal/workers/enrichment/enrich-place"
	ls "orion-enrichment/internal/workers/enrichment/locate-source"
	sld "orion-enrichment/internal/workers/enrichment/scrape-live-data"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting enrichment server...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Redis (optional) with retry ---
	var redis *database.RedisClient
	if cfg.Redis.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			redis, err = database.NewRedis(cfg.Redis)
			if err != nil {
				return err
			}
			// Test the connection with context
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			// The URL cache is advisory; run without it rather than refuse to start.
			zapLog.Warn("redis unavailable after retries, continuing without URL cache", zap.Error(err))
			redis = nil
		} else {
			defer redis.Close()
			zapLog.Info("Redis connected successfully")
		}
	}

	// --- Build the enrichment pipeline ---
	searchClient := ls.NewWebSearchClient(&ls.Config{
		SearchAPIBaseURL: cfg.Search.BaseURL,
		SearchAPIKey:     cfg.Search.APIKey,
		SearchEngineID:   cfg.Search.EngineID,
		Timeout:          cfg.Search.RequestTimeout(),
		MaxResults:       cfg.Search.MaxResults,
	})

	var urlCache ls.URLCache
	if redis != nil {
		urlCache = ls.NewRedisURLCache(redis, cfg.Enrichment.CacheTTL())
	}

	locator := ls.NewHandler(
		&ls.Config{
			SearchAPIBaseURL: cfg.Search.BaseURL,
			SearchAPIKey:     cfg.Search.APIKey,
			SearchEngineID:   cfg.Search.EngineID,
			Timeout:          cfg.Search.RequestTimeout(),
			MaxResults:       cfg.Search.MaxResults,
			CacheTTL:         cfg.Enrichment.CacheTTL(),
		},
		searchClient, urlCache, log,
	)

	userAgents := cfg.Scraper.UserAgents
	if len(userAgents) == 0 {
		userAgents = config.DefaultUserAgents
	}
	fetchClient := commonhttp.NewClient(
		cfg.Scraper.RequestTimeout(),
		commonhttp.WithUserAgents(userAgents),
		commonhttp.WithHostRateLimit(cfg.Scraper.HostRatePerSec, cfg.Scraper.HostRateBurst),
	)

	scraper := sld.NewHandler(
		&sld.Config{Timeout: cfg.Scraper.RequestTimeout()},
		fetchClient, log,
	)

	placeEnricher := ep.NewHandler(locator, scraper, log)

	orchestrator := ei.NewHandler(
		&ei.Config{ConcurrencyLimit: cfg.Enrichment.ConcurrencyLimit},
		placeEnricher, obs, log,
	)

	zapLog.Info("Enrichment pipeline initialized",
		zap.Int("concurrencyLimit", cfg.Enrichment.ConcurrencyLimit),
		zap.Bool("urlCache", urlCache != nil),
	)

	// --- Health & Metrics Server ---
	go func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, `{"status":"healthy","time":%q}`, time.Now().Format(time.RFC3339))
		})
		mux.Handle("/metrics", promhttp.Handler())
		addr := fmt.Sprintf(":%d", cfg.Server.MetricsPort)
		zapLog.Info("Health/Metrics server listening", zap.String("addr", addr))
		if err := http.ListenAndServe(addr, mux); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- API Server ---
	srv := server.New(&cfg.Server, orchestrator, log)
	go func() {
		if err := srv.Start(); err != nil {
			zapLog.Fatal("API server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Graceful shutdown failed", zap.Error(err))
	}

	zapLog.Info("Enrichment server stopped gracefully")
}
