package clickhouse

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/BarkinBalci/storefront-analytics/internal/config"
)

// Client wraps the ClickHouse connection pool
type Client struct {
	connection driver.Conn
	config     *config.ClickHouse
	log        *zap.Logger
}

// connOptions translates service config into driver options
func connOptions(cfg *config.ClickHouse) *clickhouse.Options {
	var tlsConfig *tls.Config
	if cfg.UseTLS {
		tlsConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	return &clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.User,
			Password: cfg.Password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
		TLS:              tlsConfig,
		DialTimeout:      5 * time.Second,
		MaxOpenConns:     cfg.MaxOpenConns,
		MaxIdleConns:     cfg.MaxIdleConns,
		ConnMaxLifetime:  time.Duration(cfg.ConnMaxLifetime) * time.Second,
		ConnOpenStrategy: clickhouse.ConnOpenInOrder,
		BlockBufferSize:  10,
	}
}

var openConn = clickhouse.Open

// NewClient opens a ClickHouse connection pool and verifies it with a ping
func NewClient(ctx context.Context, cfg *config.ClickHouse, log *zap.Logger) (*Client, error) {
	log.Info("Connecting to ClickHouse",
		zap.String("host", cfg.Host),
		zap.String("port", cfg.Port),
		zap.String("database", cfg.Database),
		zap.Bool("useTLS", cfg.UseTLS))

	connection, err := openConn(connOptions(cfg))
	if err != nil {
		log.Error("Failed to connect to ClickHouse", zap.Error(err))
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := connection.Ping(ctx); err != nil {
		log.Error("Failed to ping ClickHouse", zap.Error(err))
		_ = connection.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	log.Info("ClickHouse connection established successfully")

	return &Client{connection: connection, config: cfg, log: log}, nil
}

// Conn returns the underlying ClickHouse connection
func (c *Client) Conn() driver.Conn {
	return c.connection
}

// Close closes the ClickHouse connection
func (c *Client) Close() error {
	c.log.Info("Closing ClickHouse connection")
	if err := c.connection.Close(); err != nil {
		c.log.Error("Error closing ClickHouse connection", zap.Error(err))
		return err
	}
	c.log.Info("ClickHouse connection closed successfully")
	return nil
}
