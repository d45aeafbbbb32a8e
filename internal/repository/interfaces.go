package repository

import (
	"context"

	"github.com/BarkinBalci/storefront-analytics/internal/domain"
)

// EventRepository defines the interface for the append-only event store.
// It deliberately has no update or delete operations.
type EventRepository interface {
	// Insert appends a single event, stamping CreatedAt if it is zero
	Insert(ctx context.Context, event *domain.Event) error

	// InsertBatch appends a batch of events and returns how many were written
	InsertBatch(ctx context.Context, events []*domain.Event) (int, error)

	// InitSchema creates tables, collections and indexes if they don't exist
	InitSchema(ctx context.Context) error

	// Ping checks if the store connection is alive
	Ping(ctx context.Context) error

	// Close releases the store's resources
	Close() error

	// PageViews returns page_view counts bucketed by UTC day, ascending
	PageViews(ctx context.Context, window domain.TimeWindow) ([]domain.DailyPageViews, error)

	// TopProducts returns the most viewed products, most views first
	TopProducts(ctx context.Context, window domain.TimeWindow, limit int) ([]domain.ProductViews, error)

	// CountByType returns count and distinct users per event type
	CountByType(ctx context.Context, window domain.TimeWindow) ([]domain.TypeCount, error)

	// SearchQueries returns the most frequent non-empty search queries
	SearchQueries(ctx context.Context, window domain.TimeWindow, limit int) ([]domain.SearchQueryStat, error)
}
