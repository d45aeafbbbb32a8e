package clickhouse

import (
	"context"
	"errors"
	"testing"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BarkinBalci/storefront-analytics/internal/config"
)

// unreachableConn fails every ping and records Close
type unreachableConn struct {
	driver.Conn
	closed bool
}

func (c *unreachableConn) Ping(context.Context) error {
	return errors.New("dial tcp: connection refused")
}

func (c *unreachableConn) Close() error {
	c.closed = true
	return nil
}

func TestNewClient_ClosesConnectionWhenPingFails(t *testing.T) {
	conn := &unreachableConn{}
	openConn = func(*clickhouse.Options) (driver.Conn, error) { return conn, nil }
	t.Cleanup(func() { openConn = clickhouse.Open })

	client, err := NewClient(context.Background(), &config.ClickHouse{Host: "ch.internal", Port: "9000"}, zap.NewNop())

	require.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "failed to ping ClickHouse")
	assert.True(t, conn.closed)
}
