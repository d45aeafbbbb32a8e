package main

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BarkinBalci/storefront-analytics/internal/bootstrap"
	"github.com/BarkinBalci/storefront-analytics/internal/config"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Service:   config.Service{APIPort: "0"},
		Store:     config.Store{Driver: config.StoreMemory},
		Catalog:   config.Catalog{Driver: config.CatalogNone},
		Ingest:    config.Ingest{Mode: config.IngestDirect, Timeout: time.Second},
		Analytics: config.Analytics{MaxRangeDays: 31, DefaultTopProducts: 10},
	}
}

func TestNewServer_MemoryStack(t *testing.T) {
	cfg := memoryConfig()
	container := bootstrap.NewContainer(cfg, zap.NewNop())
	defer container.Close()

	server, err := newServer(context.Background(), cfg, container, zap.NewNop())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	server.Handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRun_ClosesOpenedClientsOnBootstrapFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)

	cfg := memoryConfig()
	cfg.Valkey = config.Valkey{Host: host, Port: port, QueryCacheTTL: time.Minute}
	cfg.Ingest.Mode = "kafka"

	err = run(context.Background(), cfg, zap.NewNop(), make(chan os.Signal))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create event publisher")
	assert.GreaterOrEqual(t, mr.TotalConnectionCount(), 1)
	assert.Eventually(t, func() bool { return mr.CurrentConnectionCount() == 0 },
		time.Second, 10*time.Millisecond)
}

func TestRun_StopsOnSignal(t *testing.T) {
	stop := make(chan os.Signal, 1)
	stop <- syscall.SIGTERM

	err := run(context.Background(), memoryConfig(), zap.NewNop(), stop)

	assert.NoError(t, err)
}
