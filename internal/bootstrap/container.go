// Package bootstrap builds the process-wide clients from configuration. Each
// client is created once, shared, and closed in reverse order at shutdown.
package bootstrap

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/BarkinBalci/storefront-analytics/internal/cache"
	"github.com/BarkinBalci/storefront-analytics/internal/catalog"
	catalogmongo "github.com/BarkinBalci/storefront-analytics/internal/catalog/mongo"
	catalogpostgres "github.com/BarkinBalci/storefront-analytics/internal/catalog/postgres"
	"github.com/BarkinBalci/storefront-analytics/internal/config"
	"github.com/BarkinBalci/storefront-analytics/internal/queue"
	"github.com/BarkinBalci/storefront-analytics/internal/queue/direct"
	"github.com/BarkinBalci/storefront-analytics/internal/queue/sqs"
	"github.com/BarkinBalci/storefront-analytics/internal/repository"
	"github.com/BarkinBalci/storefront-analytics/internal/repository/clickhouse"
	"github.com/BarkinBalci/storefront-analytics/internal/repository/memory"
	mongorepo "github.com/BarkinBalci/storefront-analytics/internal/repository/mongo"
)

// Container owns the shared clients
type Container struct {
	cfg     *config.Config
	log     *zap.Logger
	mongo   *mongorepo.Client
	redis   *goredis.Client
	sqs     *sqs.Client
	closers []namedCloser
}

type namedCloser struct {
	name  string
	close func() error
}

// NewContainer creates an empty container; clients are opened on first use
func NewContainer(cfg *config.Config, log *zap.Logger) *Container {
	return &Container{cfg: cfg, log: log}
}

func (c *Container) onClose(name string, fn func() error) {
	c.closers = append(c.closers, namedCloser{name: name, close: fn})
}

// Close releases every opened client, most recent first
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].close(); err != nil {
			c.log.Error("Failed to close client",
				zap.String("client", c.closers[i].name),
				zap.Error(err))
		}
	}
	c.closers = nil
}

func (c *Container) mongoClient(ctx context.Context) (*mongorepo.Client, error) {
	if c.mongo != nil {
		return c.mongo, nil
	}

	client, err := mongorepo.NewClient(ctx, &c.cfg.Mongo, c.log)
	if err != nil {
		return nil, err
	}
	c.mongo = client
	c.onClose("mongo", client.Close)
	return client, nil
}

// EventStore opens the configured event store and ensures its schema exists
func (c *Container) EventStore(ctx context.Context) (repository.EventRepository, error) {
	var repo repository.EventRepository

	switch c.cfg.Store.Driver {
	case config.StoreMongo:
		client, err := c.mongoClient(ctx)
		if err != nil {
			return nil, err
		}
		// the shared client is closed by the container, not the repository
		repo = mongorepo.NewRepository(client, c.cfg.Mongo.EventsCollection, c.log)

	case config.StoreClickHouse:
		client, err := clickhouse.NewClient(ctx, &c.cfg.ClickHouse, c.log)
		if err != nil {
			return nil, err
		}
		c.onClose("clickhouse", client.Close)
		repo = clickhouse.NewRepository(client, c.log)

	case config.StoreMemory:
		repo = memory.NewRepository(c.log)

	default:
		return nil, fmt.Errorf("unsupported store driver: %q", c.cfg.Store.Driver)
	}

	if err := repo.InitSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize %s schema: %w", c.cfg.Store.Driver, err)
	}

	c.log.Info("Event store ready", zap.String("driver", c.cfg.Store.Driver))
	return repo, nil
}

// Catalog opens the configured product catalog
func (c *Container) Catalog(ctx context.Context) (catalog.Reader, error) {
	switch c.cfg.Catalog.Driver {
	case config.CatalogMongo:
		client, err := c.mongoClient(ctx)
		if err != nil {
			return nil, err
		}
		return catalogmongo.NewReader(client.Database(), c.cfg.Mongo.ProductsCollection), nil

	case config.CatalogPostgres:
		reader, err := catalogpostgres.Open(&c.cfg.Postgres, c.log)
		if err != nil {
			return nil, err
		}
		c.onClose("postgres", reader.Close)
		return reader, nil

	case config.CatalogNone:
		return catalog.NewStatic(), nil

	default:
		return nil, fmt.Errorf("unsupported catalog driver: %q", c.cfg.Catalog.Driver)
	}
}

// Redis returns the shared Valkey client, or nil when none is configured
func (c *Container) Redis(ctx context.Context) (*goredis.Client, error) {
	if !c.cfg.Valkey.Enabled() {
		return nil, nil
	}
	if c.redis != nil {
		return c.redis, nil
	}

	rdb, err := cache.NewClient(ctx, &c.cfg.Valkey, c.log)
	if err != nil {
		return nil, err
	}
	c.redis = rdb
	c.onClose("valkey", rdb.Close)
	return rdb, nil
}

// ResultCache returns the analytics result cache, or nil when disabled
func (c *Container) ResultCache(ctx context.Context) (*cache.ResultCache, error) {
	rdb, err := c.Redis(ctx)
	if err != nil || rdb == nil || c.cfg.Valkey.QueryCacheTTL <= 0 {
		return nil, err
	}
	return cache.NewResultCache(rdb, c.cfg.Valkey.QueryCacheTTL), nil
}

// Idempotency returns the consumer idempotency store, or nil when disabled
func (c *Container) Idempotency(ctx context.Context) (*cache.IdempotencyStore, error) {
	rdb, err := c.Redis(ctx)
	if err != nil || rdb == nil || !c.cfg.Valkey.IdempotencyEnabled {
		return nil, err
	}
	return cache.NewIdempotencyStore(rdb, c.cfg.Valkey.IdempotencyTTL), nil
}

// SQS returns the shared SQS client
func (c *Container) SQS(ctx context.Context) (*sqs.Client, error) {
	if c.sqs != nil {
		return c.sqs, nil
	}

	client, err := sqs.NewClient(ctx, c.cfg.SQS, c.log)
	if err != nil {
		return nil, err
	}
	c.sqs = client
	return client, nil
}

// Publisher returns the write path for tracked events
func (c *Container) Publisher(ctx context.Context, repo repository.EventRepository) (queue.QueuePublisher, error) {
	switch c.cfg.Ingest.Mode {
	case config.IngestDirect:
		return direct.NewPublisher(repo, c.log), nil
	case config.IngestQueue:
		client, err := c.SQS(ctx)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported ingest mode: %q", c.cfg.Ingest.Mode)
	}
}
