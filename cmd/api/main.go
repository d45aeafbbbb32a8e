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

	"go.uber.org/zap"

	"github.com/BarkinBalci/storefront-analytics/docs"
	"github.com/BarkinBalci/storefront-analytics/internal/bootstrap"
	"github.com/BarkinBalci/storefront-analytics/internal/config"
	"github.com/BarkinBalci/storefront-analytics/internal/handler"
	"github.com/BarkinBalci/storefront-analytics/internal/logger"
	"github.com/BarkinBalci/storefront-analytics/internal/observability"
	"github.com/BarkinBalci/storefront-analytics/internal/service"
)

const shutdownTimeout = 15 * time.Second

// @title Storefront Analytics API
// @version 1.0
// @description API for tracking storefront events and querying aggregated analytics
// @host localhost:8080
// @BasePath /
// @schemes http https
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	log, err := logger.New(cfg.Service.Environment, "api")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	log.Info("Starting API service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("port", cfg.Service.APIPort),
		zap.String("store", cfg.Store.Driver),
		zap.String("catalog", cfg.Catalog.Driver),
		zap.String("ingest_mode", cfg.Ingest.Mode))

	// Configure Swagger host dynamically
	docs.SwaggerInfo.Host = cfg.Service.Host

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := run(context.Background(), cfg, log, sigChan); err != nil {
		log.Error("API service stopped with error", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	_ = log.Sync()
}

// run serves until stop fires. Clients opened by the container are closed on
// every return path.
func run(ctx context.Context, cfg *config.Config, log *zap.Logger, stop <-chan os.Signal) error {
	container := bootstrap.NewContainer(cfg, log)
	defer container.Close()

	server, err := newServer(ctx, cfg, container, log)
	if err != nil {
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("API server starting", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("failed to start API server: %w", err)
	case <-stop:
	}

	log.Info("Shutting down API server gracefully")

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("API server shutdown: %w", err)
	}
	return nil
}

// newServer opens the stores through container and wires the HTTP stack
func newServer(ctx context.Context, cfg *config.Config, container *bootstrap.Container, log *zap.Logger) (*http.Server, error) {
	repo, err := container.EventStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open event store: %w", err)
	}

	products, err := container.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open product catalog: %w", err)
	}

	var resultCache service.ResultCache
	rc, err := container.ResultCache(ctx)
	if err != nil {
		log.Warn("Query cache unavailable, continuing without it", zap.Error(err))
	} else if rc != nil {
		resultCache = rc
	}

	publisher, err := container.Publisher(ctx, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to create event publisher: %w", err)
	}

	tracer := observability.NewTracer()

	eventService := service.NewEventService(publisher, cfg.Ingest.Timeout, tracer, log)
	analyticsService := service.NewAnalyticsService(repo, products, resultCache, service.AnalyticsConfig{
		QueryTimeout:       cfg.Analytics.QueryTimeout,
		MaxRange:           time.Duration(cfg.Analytics.MaxRangeDays) * 24 * time.Hour,
		DefaultTopProducts: cfg.Analytics.DefaultTopProducts,
	}, tracer, log)

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Service.APIPort),
		Handler:           handler.NewHandler(eventService, analyticsService, log),
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}
