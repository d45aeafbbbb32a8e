// Package cache wraps the Valkey/Redis connection shared by consumer
// idempotency and the analytics query cache.
package cache

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/BarkinBalci/storefront-analytics/internal/config"
)

// NewClient connects to Valkey and verifies the connection
func NewClient(ctx context.Context, cfg *config.Valkey, log *zap.Logger) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping Valkey at %s: %w", cfg.Addr(), err)
	}

	log.Info("Valkey connection established", zap.String("addr", cfg.Addr()))

	return rdb, nil
}

// isRedisNil checks if an error is a Redis nil (key not found)
func isRedisNil(err error) bool {
	return errors.Is(err, goredis.Nil)
}
