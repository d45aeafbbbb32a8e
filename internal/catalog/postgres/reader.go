package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BarkinBalci/storefront-analytics/internal/catalog"
	"github.com/BarkinBalci/storefront-analytics/internal/config"
	"github.com/BarkinBalci/storefront-analytics/internal/domain"
)

var _ catalog.Reader = (*Reader)(nil)

// productRow maps the storefront products table
type productRow struct {
	ID       string  `gorm:"column:id;primaryKey"`
	Name     string  `gorm:"column:name"`
	Slug     string  `gorm:"column:slug"`
	Price    float64 `gorm:"column:price"`
	ImageURL string  `gorm:"column:image_url"`
}

func (productRow) TableName() string {
	return "products"
}

// Reader reads products from a Postgres catalog through gorm
type Reader struct {
	db  *gorm.DB
	log *zap.Logger
}

// Open connects to Postgres and returns a catalog reader
func Open(cfg *config.Postgres, log *zap.Logger) (*Reader, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres catalog: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access Postgres pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	log.Info("Postgres catalog connection established")

	return NewReader(db, log), nil
}

// NewReader wraps an existing gorm handle
func NewReader(db *gorm.DB, log *zap.Logger) *Reader {
	return &Reader{db: db, log: log}
}

// FindProduct returns the product with the given id, or nil if none exists
func (r *Reader) FindProduct(ctx context.Context, id string) (*domain.Product, error) {
	var row productRow

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find product %q: %w", id, err)
	}

	return &domain.Product{
		ID:    row.ID,
		Name:  row.Name,
		Slug:  row.Slug,
		Price: row.Price,
		Image: row.ImageURL,
	}, nil
}

// Close releases the connection pool
func (r *Reader) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
