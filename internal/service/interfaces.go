package service

import (
	"context"

	"github.com/BarkinBalci/storefront-analytics/internal/dto"
)

// EventServicer defines the interface for event ingestion
type EventServicer interface {
	Track(ctx context.Context, req *dto.TrackEventRequest)
	TrackBatch(ctx context.Context, reqs []dto.TrackEventRequest) int
}

// AnalyticsServicer defines the interface for aggregation queries
type AnalyticsServicer interface {
	Query(ctx context.Context, req *dto.AnalyticsQueryRequest) (any, error)
	Ping(ctx context.Context) error
}

// ResultCache stores serialized query results
type ResultCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
}
