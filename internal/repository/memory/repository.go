package memory

import (
	"context"
	"iter"
	"maps"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BarkinBalci/storefront-analytics/internal/aggregation"
	"github.com/BarkinBalci/storefront-analytics/internal/domain"
	"github.com/BarkinBalci/storefront-analytics/internal/repository"
)

var _ repository.EventRepository = (*Repository)(nil)

// Repository keeps events in process memory. It backs local development and
// tests; nothing is persisted across restarts.
type Repository struct {
	mu     sync.RWMutex
	events []domain.Event
	now    func() time.Time
	log    *zap.Logger
}

// NewRepository creates an empty in-memory event store
func NewRepository(log *zap.Logger) *Repository {
	return &Repository{
		now: func() time.Time { return time.Now().UTC() },
		log: log,
	}
}

// InitSchema is a no-op for the in-memory store
func (r *Repository) InitSchema(_ context.Context) error {
	r.log.Info("In-memory event store ready")
	return nil
}

// Insert appends a copy of the event
func (r *Repository) Insert(ctx context.Context, event *domain.Event) error {
	_, err := r.InsertBatch(ctx, []*domain.Event{event})
	return err
}

// InsertBatch appends copies of the events. Metadata maps are cloned so later
// mutation by the caller cannot alter stored records.
func (r *Repository) InsertBatch(ctx context.Context, events []*domain.Event) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range events {
		stored := *e
		if stored.CreatedAt.IsZero() {
			stored.CreatedAt = r.now()
		}
		stored.CreatedAt = stored.CreatedAt.UTC()
		stored.Metadata = maps.Clone(e.Metadata)
		if stored.Metadata == nil {
			stored.Metadata = map[string]any{}
		}
		if e.Value != nil {
			v := *e.Value
			stored.Value = &v
		}
		r.events = append(r.events, stored)
	}

	return len(events), nil
}

// Ping always succeeds
func (r *Repository) Ping(_ context.Context) error {
	return nil
}

// Close is a no-op
func (r *Repository) Close() error {
	return nil
}

// Len returns the number of stored events
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.events)
}

// snapshot returns an iterator over the events committed at call time
func (r *Repository) snapshot() iter.Seq[domain.Event] {
	r.mu.RLock()
	events := slices.Clone(r.events)
	r.mu.RUnlock()

	return slices.Values(events)
}

func (r *Repository) PageViews(ctx context.Context, window domain.TimeWindow) ([]domain.DailyPageViews, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return aggregation.PageViews(r.snapshot(), window), nil
}

func (r *Repository) TopProducts(ctx context.Context, window domain.TimeWindow, limit int) ([]domain.ProductViews, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return aggregation.TopProducts(r.snapshot(), window, limit), nil
}

func (r *Repository) CountByType(ctx context.Context, window domain.TimeWindow) ([]domain.TypeCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return aggregation.CountByType(r.snapshot(), window), nil
}

func (r *Repository) SearchQueries(ctx context.Context, window domain.TimeWindow, limit int) ([]domain.SearchQueryStat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return aggregation.SearchQueries(r.snapshot(), window, limit), nil
}
