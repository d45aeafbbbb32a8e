package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"github.com/BarkinBalci/storefront-analytics/internal/aggregation"
	"github.com/BarkinBalci/storefront-analytics/internal/domain"
	"github.com/BarkinBalci/storefront-analytics/internal/repository"
)

var _ repository.EventRepository = (*Repository)(nil)

// Repository implements EventRepository on a MongoDB collection
type Repository struct {
	client     *Client
	collection *mongo.Collection
	now        func() time.Time
	log        *zap.Logger
}

// NewRepository creates a repository over the given collection
func NewRepository(client *Client, collection string, log *zap.Logger) *Repository {
	return &Repository{
		client:     client,
		collection: client.Database().Collection(collection),
		now:        func() time.Time { return time.Now().UTC() },
		log:        log,
	}
}

// indexModels returns the indexes backing time-range scans by type, per-user
// history, session lookup and event id deduplication
func indexModels() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "type", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("type_createdAt"),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("userId_createdAt"),
		},
		{
			Keys:    bson.D{{Key: "sessionId", Value: 1}},
			Options: options.Index().SetName("sessionId"),
		},
		{
			Keys:    bson.D{{Key: "eventId", Value: 1}},
			Options: options.Index().SetName("eventId_unique").SetUnique(true).SetSparse(true),
		},
	}
}

// InitSchema creates the collection indexes if they don't exist
func (r *Repository) InitSchema(ctx context.Context) error {
	names, err := r.collection.Indexes().CreateMany(ctx, indexModels())
	if err != nil {
		return fmt.Errorf("failed to create analytics indexes: %w", err)
	}

	r.log.Info("MongoDB schema initialized successfully",
		zap.String("collection", r.collection.Name()),
		zap.Strings("indexes", names))
	return nil
}

// Insert appends a single event. A duplicate eventId means the event was
// already stored and is treated as success.
func (r *Repository) Insert(ctx context.Context, event *domain.Event) error {
	doc := toEventDocument(event, r.now())

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.log.Debug("Duplicate event ignored", zap.String("event_id", event.EventID))
			return nil
		}
		return fmt.Errorf("failed to insert event: %w", err)
	}

	return nil
}

// InsertBatch appends events with an unordered bulk insert so one duplicate
// doesn't block the rest of the batch
func (r *Repository) InsertBatch(ctx context.Context, events []*domain.Event) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}

	now := r.now()
	docs := make([]any, 0, len(events))
	for _, event := range events {
		docs = append(docs, toEventDocument(event, now))
	}

	_, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil && onlyDuplicateKeys(err) {
		r.log.Warn("Batch contained already stored events", zap.Int("event_count", len(events)))
		return len(events), nil
	}
	return insertedCount(err, len(events))
}

const duplicateKeyCode = 11000

// onlyDuplicateKeys reports whether err is a bulk write failure in which every
// write error is a duplicate key. Those documents are already stored.
func onlyDuplicateKeys(err error) bool {
	var bulkErr mongo.BulkWriteException
	if !errors.As(err, &bulkErr) {
		return false
	}
	if bulkErr.WriteConcernError != nil || len(bulkErr.WriteErrors) == 0 {
		return false
	}
	for _, we := range bulkErr.WriteErrors {
		if we.Code != duplicateKeyCode {
			return false
		}
	}
	return true
}

// insertedCount maps an unordered InsertMany error to the number of documents
// written. Any count below total makes the caller retry the batch.
func insertedCount(err error, total int) (int, error) {
	if err == nil {
		return total, nil
	}

	var bulkErr mongo.BulkWriteException
	if errors.As(err, &bulkErr) && bulkErr.WriteConcernError == nil {
		written := total - len(bulkErr.WriteErrors)
		if written < 0 {
			written = 0
		}
		return written, fmt.Errorf("failed to insert %d of %d events: %w", total-written, total, err)
	}

	return 0, fmt.Errorf("failed to insert batch: %w", err)
}

// Ping checks if the MongoDB connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx)
}

// Close closes the MongoDB connection
func (r *Repository) Close() error {
	return r.client.Close()
}

// aggregate runs pipeline and decodes every result document into rows
func aggregate[T any](ctx context.Context, r *Repository, name string, pipeline mongo.Pipeline) ([]T, error) {
	cursor, err := r.collection.Aggregate(ctx, pipeline, options.Aggregate().SetAllowDiskUse(true))
	if err != nil {
		return nil, fmt.Errorf("failed to run %s aggregation: %w", name, err)
	}

	var rows []T
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode %s aggregation: %w", name, err)
	}

	return rows, nil
}

// PageViews returns page views per UTC day
func (r *Repository) PageViews(ctx context.Context, window domain.TimeWindow) ([]domain.DailyPageViews, error) {
	rows, err := aggregate[dayRow](ctx, r, "page views", pageViewsPipeline(window))
	if err != nil {
		return nil, err
	}

	result := make([]domain.DailyPageViews, 0, len(rows))
	for _, row := range rows {
		result = append(result, domain.DailyPageViews{
			Date:        row.Date,
			Views:       uint64(row.Views),
			UniqueUsers: uint64(row.UniqueUsers),
		})
	}
	return result, nil
}

// TopProducts returns the most viewed products
func (r *Repository) TopProducts(ctx context.Context, window domain.TimeWindow, limit int) ([]domain.ProductViews, error) {
	if limit <= 0 {
		limit = aggregation.DefaultTopProductsLimit
	}

	rows, err := aggregate[productRow](ctx, r, "top products", topProductsPipeline(window, limit))
	if err != nil {
		return nil, err
	}

	result := make([]domain.ProductViews, 0, len(rows))
	for _, row := range rows {
		result = append(result, domain.ProductViews{
			ProductID:   row.ProductID,
			Views:       uint64(row.Views),
			UniqueUsers: uint64(row.UniqueUsers),
		})
	}
	return result, nil
}

// CountByType returns per-type counts for the funnel
func (r *Repository) CountByType(ctx context.Context, window domain.TimeWindow) ([]domain.TypeCount, error) {
	rows, err := aggregate[typeRow](ctx, r, "count by type", countByTypePipeline(window))
	if err != nil {
		return nil, err
	}

	result := make([]domain.TypeCount, 0, len(rows))
	for _, row := range rows {
		result = append(result, domain.TypeCount{
			Type:        domain.EventType(row.Type),
			Count:       uint64(row.Count),
			UniqueUsers: uint64(row.UniqueUsers),
		})
	}
	return result, nil
}

// SearchQueries returns the most frequent search queries
func (r *Repository) SearchQueries(ctx context.Context, window domain.TimeWindow, limit int) ([]domain.SearchQueryStat, error) {
	if limit <= 0 {
		limit = aggregation.SearchQueriesLimit
	}

	rows, err := aggregate[queryRow](ctx, r, "search queries", searchQueriesPipeline(window, limit))
	if err != nil {
		return nil, err
	}

	result := make([]domain.SearchQueryStat, 0, len(rows))
	for _, row := range rows {
		result = append(result, domain.SearchQueryStat{
			Query:       row.Query,
			Count:       uint64(row.Count),
			UniqueUsers: uint64(row.UniqueUsers),
		})
	}
	return result, nil
}
