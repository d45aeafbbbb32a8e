package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Store drivers
const (
	StoreMongo      = "mongo"
	StoreClickHouse = "clickhouse"
	StoreMemory     = "memory"
)

// Catalog drivers
const (
	CatalogMongo    = "mongo"
	CatalogPostgres = "postgres"
	CatalogNone     = "none"
)

// Ingestion modes
const (
	IngestDirect = "direct"
	IngestQueue  = "queue"
)

type Config struct {
	Service    Service    `envconfig:"SERVICE"`
	Store      Store      `envconfig:"STORE"`
	Catalog    Catalog    `envconfig:"CATALOG"`
	Mongo      Mongo      `envconfig:"MONGO"`
	ClickHouse ClickHouse `envconfig:"CLICKHOUSE"`
	Postgres   Postgres   `envconfig:"POSTGRES"`
	SQS        SQS        `envconfig:"SQS"`
	Valkey     Valkey     `envconfig:"VALKEY"`
	Ingest     Ingest     `envconfig:"INGEST"`
	Analytics  Analytics  `envconfig:"ANALYTICS"`
	Consumer   Consumer   `envconfig:"CONSUMER"`
}

type Service struct {
	Environment string `envconfig:"ENVIRONMENT" required:"true"`
	APIPort     string `envconfig:"API_PORT" default:"8080"`
	Host        string `envconfig:"HOST" default:"localhost:8080"`
}

type Store struct {
	Driver string `envconfig:"DRIVER" default:"mongo"`
}

type Catalog struct {
	Driver string `envconfig:"DRIVER" default:"mongo"`
}

type Mongo struct {
	URI                string        `envconfig:"URI" default:"mongodb://localhost:27017"`
	Database           string        `envconfig:"DATABASE" default:"storefront"`
	EventsCollection   string        `envconfig:"EVENTS_COLLECTION" default:"analytics"`
	ProductsCollection string        `envconfig:"PRODUCTS_COLLECTION" default:"products"`
	ConnectTimeout     time.Duration `envconfig:"CONNECT_TIMEOUT" default:"5s"`
	OperationTimeout   time.Duration `envconfig:"OPERATION_TIMEOUT" default:"45s"`
	MaxPoolSize        uint64        `envconfig:"MAX_POOL_SIZE" default:"10"`
}

type ClickHouse struct {
	Host            string `envconfig:"HOST"`
	Port            string `envconfig:"PORT" default:"9000"`
	Database        string `envconfig:"DB" default:"default"`
	User            string `envconfig:"USER" default:""`
	Password        string `envconfig:"PASSWORD" default:""`
	UseTLS          bool   `envconfig:"USE_TLS" default:"false"`
	MaxOpenConns    int    `envconfig:"MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns    int    `envconfig:"MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime int    `envconfig:"CONN_MAX_LIFETIME_SEC" default:"3600"`
}

type Postgres struct {
	DSN          string `envconfig:"DSN"`
	MaxOpenConns int    `envconfig:"MAX_OPEN_CONNS" default:"5"`
}

type SQS struct {
	Endpoint string `envconfig:"ENDPOINT"`
	QueueURL string `envconfig:"QUEUE_URL"`
	Region   string `envconfig:"REGION" default:"us-east-1"`
}

type Valkey struct {
	Host                string        `envconfig:"HOST"`
	Port                string        `envconfig:"PORT" default:"6379"`
	Password            string        `envconfig:"PASSWORD" default:""`
	IdempotencyEnabled  bool          `envconfig:"IDEMPOTENCY_ENABLED" default:"true"`
	IdempotencyFailOpen bool          `envconfig:"IDEMPOTENCY_FAIL_OPEN" default:"true"`
	IdempotencyTTL      time.Duration `envconfig:"IDEMPOTENCY_TTL" default:"24h"`
	QueryCacheTTL       time.Duration `envconfig:"QUERY_CACHE_TTL" default:"60s"`
}

// Enabled reports whether a Valkey/Redis server is configured
func (v Valkey) Enabled() bool {
	return v.Host != ""
}

// Addr returns host:port
func (v Valkey) Addr() string {
	return fmt.Sprintf("%s:%s", v.Host, v.Port)
}

type Ingest struct {
	Mode    string        `envconfig:"MODE" default:"direct"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"3s"`
}

type Analytics struct {
	QueryTimeout       time.Duration `envconfig:"QUERY_TIMEOUT" default:"30s"`
	MaxRangeDays       int           `envconfig:"MAX_RANGE_DAYS" default:"366"`
	DefaultTopProducts int           `envconfig:"DEFAULT_TOP_PRODUCTS" default:"10"`
}

type Consumer struct {
	BatchSizeMax         int           `envconfig:"BATCH_SIZE_MAX" default:"500"`
	BatchTimeoutSec      int           `envconfig:"BATCH_TIMEOUT_SEC" default:"5"`
	BufferSize           int           `envconfig:"BUFFER_SIZE" default:"100"`
	ReceiveMaxMessages   int32         `envconfig:"RECEIVE_MAX_MESSAGES" default:"10"`
	ReceiveWaitSeconds   int32         `envconfig:"RECEIVE_WAIT_SECONDS" default:"20"`
	ReceiveBackoffMax    time.Duration `envconfig:"RECEIVE_BACKOFF_MAX" default:"30s"`
	ShutdownFlushTimeout time.Duration `envconfig:"SHUTDOWN_FLUSH_TIMEOUT" default:"10s"`
	HealthCheckPort      string        `envconfig:"HEALTH_CHECK_PORT" default:"8081"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the fields that only become required for a given driver or mode
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreMongo, StoreMemory:
	case StoreClickHouse:
		if c.ClickHouse.Host == "" {
			return fmt.Errorf("CLICKHOUSE_HOST is required when STORE_DRIVER=%s", StoreClickHouse)
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER: %q (supported: mongo, clickhouse, memory)", c.Store.Driver)
	}

	switch c.Catalog.Driver {
	case CatalogMongo, CatalogNone:
	case CatalogPostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required when CATALOG_DRIVER=%s", CatalogPostgres)
		}
	default:
		return fmt.Errorf("unsupported CATALOG_DRIVER: %q (supported: mongo, postgres, none)", c.Catalog.Driver)
	}

	switch c.Ingest.Mode {
	case IngestDirect:
	case IngestQueue:
		if c.SQS.QueueURL == "" {
			return fmt.Errorf("SQS_QUEUE_URL is required when INGEST_MODE=%s", IngestQueue)
		}
	default:
		return fmt.Errorf("unsupported INGEST_MODE: %q (supported: direct, queue)", c.Ingest.Mode)
	}

	if c.Analytics.MaxRangeDays <= 0 {
		return fmt.Errorf("ANALYTICS_MAX_RANGE_DAYS must be positive, got %d", c.Analytics.MaxRangeDays)
	}

	return nil
}
