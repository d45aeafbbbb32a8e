package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"

	"github.com/BarkinBalci/storefront-analytics/internal/config"
)

// Client wraps the MongoDB connection pool. It is constructed once at process
// start and shared by the event store and the product catalog.
type Client struct {
	client *mongo.Client
	config *config.Mongo
	log    *zap.Logger
}

// NewClient connects to MongoDB and verifies the connection
func NewClient(ctx context.Context, config *config.Mongo, log *zap.Logger) (*Client, error) {
	log.Info("Connecting to MongoDB",
		zap.String("database", config.Database),
		zap.Duration("connect_timeout", config.ConnectTimeout),
		zap.Duration("operation_timeout", config.OperationTimeout))

	opts := options.Client().
		ApplyURI(config.URI).
		SetConnectTimeout(config.ConnectTimeout).
		SetServerSelectionTimeout(config.ConnectTimeout).
		SetTimeout(config.OperationTimeout).
		SetMaxPoolSize(config.MaxPoolSize).
		SetAppName("storefront-analytics")

	client, err := mongo.Connect(opts)
	if err != nil {
		log.Error("Failed to connect to MongoDB", zap.Error(err))
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, config.ConnectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		log.Error("Failed to ping MongoDB", zap.Error(err))
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Info("MongoDB connection established successfully")

	return &Client{client: client, config: config, log: log}, nil
}

// Database returns the configured storefront database
func (c *Client) Database() *mongo.Database {
	return c.client.Database(c.config.Database)
}

// Ping checks the primary is reachable
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// Close disconnects from MongoDB
func (c *Client) Close() error {
	c.log.Info("Closing MongoDB connection")
	ctx, cancel := context.WithTimeout(context.Background(), c.config.ConnectTimeout)
	defer cancel()

	if err := c.client.Disconnect(ctx); err != nil {
		c.log.Error("Error closing MongoDB connection", zap.Error(err))
		return err
	}
	c.log.Info("MongoDB connection closed successfully")
	return nil
}
