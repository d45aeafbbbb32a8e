package clickhouse

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/BarkinBalci/storefront-analytics/internal/aggregation"
	"github.com/BarkinBalci/storefront-analytics/internal/domain"
	"github.com/BarkinBalci/storefront-analytics/internal/repository"
)

var _ repository.EventRepository = (*Repository)(nil)

// Repository implements EventRepository for ClickHouse
type Repository struct {
	client *Client
	now    func() time.Time
	log    *zap.Logger
}

// NewRepository creates a new ClickHouse repository
func NewRepository(client *Client, log *zap.Logger) *Repository {
	return &Repository{
		client: client,
		now:    func() time.Time { return time.Now().UTC() },
		log:    log,
	}
}

// InitSchema creates the events table with the ReplacingMergeTree engine so
// redelivered events collapse on event_id
func (r *Repository) InitSchema(ctx context.Context) error {
	if err := r.client.Conn().Exec(ctx, createEventsTable); err != nil {
		return fmt.Errorf("failed to create events table: %w", err)
	}

	r.log.Info("ClickHouse schema initialized successfully")
	return nil
}

// Insert appends a single event
func (r *Repository) Insert(ctx context.Context, event *domain.Event) error {
	_, err := r.InsertBatch(ctx, []*domain.Event{event})
	return err
}

// eventRow flattens an event into the events table column order
func eventRow(event *domain.Event, now time.Time) ([]any, error) {
	metadataJSON := "{}"
	if len(event.Metadata) > 0 {
		b, err := json.Marshal(event.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		metadataJSON = string(b)
	}

	createdAt := event.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	return []any{
		event.EventID,
		string(event.Type),
		event.UserID,
		event.SessionID,
		event.ProductID,
		event.OrderID,
		event.CampaignID,
		event.Page,
		event.SearchQuery,
		event.Value,
		metadataJSON,
		event.UserAgent,
		event.IPAddress,
		event.Referrer,
		event.UTMSource,
		event.UTMMedium,
		event.UTMCampaign,
		event.UTMTerm,
		event.UTMContent,
		createdAt.UTC(),
		uint64(now.UnixNano()),
	}, nil
}

// InsertBatch inserts a batch of events into ClickHouse
func (r *Repository) InsertBatch(ctx context.Context, events []*domain.Event) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}

	batch, err := r.client.Conn().PrepareBatch(ctx, "INSERT INTO events")
	if err != nil {
		return 0, fmt.Errorf("failed to prepare batch: %w", err)
	}

	now := r.now()
	insertedCount := 0
	for _, event := range events {
		row, err := eventRow(event, now)
		if err != nil {
			return 0, err
		}

		if err := batch.Append(row...); err != nil {
			return 0, fmt.Errorf("failed to append event to batch: %w", err)
		}
		insertedCount++
	}

	if err := batch.Send(); err != nil {
		return 0, fmt.Errorf("failed to send batch: %w", err)
	}

	return insertedCount, nil
}

// Ping checks if the ClickHouse connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Conn().Ping(ctx)
}

// Close closes the ClickHouse connection
func (r *Repository) Close() error {
	return r.client.Close()
}

// query runs a grouped query and hands each row to scan
func (r *Repository) query(ctx context.Context, name, sql string, args []any, scan func(driver.Rows) error) error {
	rows, err := r.client.Conn().Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	defer func(rows driver.Rows) {
		if err := rows.Close(); err != nil {
			r.log.Error("Failed to close rows", zap.String("query", name), zap.Error(err))
		}
	}(rows)

	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("failed to scan %s row: %w", name, err)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating %s rows: %w", name, err)
	}

	return nil
}

// PageViews returns page views per UTC day
func (r *Repository) PageViews(ctx context.Context, window domain.TimeWindow) ([]domain.DailyPageViews, error) {
	result := []domain.DailyPageViews{}

	err := r.query(ctx, "page views", pageViewsQuery, pageViewsArgs(window), func(rows driver.Rows) error {
		var row domain.DailyPageViews
		if err := rows.Scan(&row.Date, &row.Views, &row.UniqueUsers); err != nil {
			return err
		}
		result = append(result, row)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// TopProducts returns the most viewed products
func (r *Repository) TopProducts(ctx context.Context, window domain.TimeWindow, limit int) ([]domain.ProductViews, error) {
	if limit <= 0 {
		limit = aggregation.DefaultTopProductsLimit
	}
	result := []domain.ProductViews{}

	err := r.query(ctx, "top products", topProductsQuery, topProductsArgs(window, limit), func(rows driver.Rows) error {
		var row domain.ProductViews
		if err := rows.Scan(&row.ProductID, &row.Views, &row.UniqueUsers); err != nil {
			return err
		}
		result = append(result, row)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// CountByType returns per-type counts for the funnel
func (r *Repository) CountByType(ctx context.Context, window domain.TimeWindow) ([]domain.TypeCount, error) {
	result := []domain.TypeCount{}

	err := r.query(ctx, "count by type", countByTypeQuery, windowArgs(window), func(rows driver.Rows) error {
		var (
			eventType string
			row       domain.TypeCount
		)
		if err := rows.Scan(&eventType, &row.Count, &row.UniqueUsers); err != nil {
			return err
		}
		row.Type = domain.EventType(eventType)
		result = append(result, row)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// SearchQueries returns the most frequent search queries
func (r *Repository) SearchQueries(ctx context.Context, window domain.TimeWindow, limit int) ([]domain.SearchQueryStat, error) {
	if limit <= 0 {
		limit = aggregation.SearchQueriesLimit
	}
	result := []domain.SearchQueryStat{}

	err := r.query(ctx, "search queries", searchQueriesQuery, searchQueriesArgs(window, limit), func(rows driver.Rows) error {
		var row domain.SearchQueryStat
		if err := rows.Scan(&row.Query, &row.Count, &row.UniqueUsers); err != nil {
			return err
		}
		result = append(result, row)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
