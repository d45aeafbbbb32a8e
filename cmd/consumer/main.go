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

	"github.com/BarkinBalci/storefront-analytics/internal/bootstrap"
	"github.com/BarkinBalci/storefront-analytics/internal/config"
	"github.com/BarkinBalci/storefront-analytics/internal/consumer"
	"github.com/BarkinBalci/storefront-analytics/internal/logger"
	"github.com/BarkinBalci/storefront-analytics/internal/repository"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	log, err := logger.New(cfg.Service.Environment, "consumer")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	log.Info("Starting consumer service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("store", cfg.Store.Driver))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := run(context.Background(), cfg, log, sigChan); err != nil {
		log.Error("Consumer stopped with error", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	_ = log.Sync()
}

// run consumes until stop fires. Clients opened by the container are closed
// on every return path.
func run(ctx context.Context, cfg *config.Config, log *zap.Logger, stop <-chan os.Signal) error {
	if cfg.Store.Driver == config.StoreMemory {
		return errors.New("the consumer needs a persistent store; STORE_DRIVER=memory is API-only")
	}
	if cfg.SQS.QueueURL == "" {
		return errors.New("SQS_QUEUE_URL is required to run the consumer")
	}

	container := bootstrap.NewContainer(cfg, log)
	defer container.Close()

	repo, err := container.EventStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to open event store: %w", err)
	}

	sqsClient, err := container.SQS(ctx)
	if err != nil {
		return fmt.Errorf("failed to create SQS client: %w", err)
	}

	var dedup consumer.Deduplicator
	idem, err := container.Idempotency(ctx)
	switch {
	case err != nil && cfg.Valkey.IdempotencyFailOpen:
		log.Warn("Idempotency store unavailable, continuing without it", zap.Error(err))
	case err != nil:
		return fmt.Errorf("failed to open idempotency store: %w", err)
	case idem != nil:
		dedup = idem
	}

	c, err := consumer.NewConsumer(cfg, sqsClient, repo, dedup, log)
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	healthServer := newHealthServer(cfg.Consumer.HealthCheckPort, repo, log)
	go func() {
		log.Info("Health check server starting", zap.String("address", healthServer.Addr))
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Health check server error", zap.Error(err))
		}
	}()

	consumerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	log.Info("Consumer starting")

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := c.Start(consumerCtx); err != nil {
			log.Error("Consumer error", zap.Error(err))
		}
	}()

	<-stop

	log.Info("Shutting down consumer gracefully")
	cancel()
	<-done

	shutdownCtx, stopShutdown := context.WithTimeout(ctx, 5*time.Second)
	defer stopShutdown()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("health check server shutdown: %w", err)
	}
	return nil
}

// newHealthServer reports 200 while the event store answers pings
func newHealthServer(port string, repo repository.EventRepository, log *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := repo.Ping(r.Context()); err != nil {
			log.Warn("Health check failed", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	return &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
