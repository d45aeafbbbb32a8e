package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/BarkinBalci/storefront-analytics/internal/aggregation"
	"github.com/BarkinBalci/storefront-analytics/internal/catalog"
	"github.com/BarkinBalci/storefront-analytics/internal/domain"
	"github.com/BarkinBalci/storefront-analytics/internal/dto"
	"github.com/BarkinBalci/storefront-analytics/internal/observability"
	"github.com/BarkinBalci/storefront-analytics/internal/repository"
)

// Analytics query types
const (
	QueryPageViews        = "page_views"
	QueryTopProducts      = "top_products"
	QueryConversionFunnel = "conversion_funnel"
	QuerySearchAnalytics  = "search_analytics"
)

// MaxTopProductsLimit is the largest accepted top_products limit
const MaxTopProductsLimit = 100

var _ AnalyticsServicer = (*AnalyticsService)(nil)

// AnalyticsConfig configures the analytics service
type AnalyticsConfig struct {
	QueryTimeout       time.Duration
	MaxRange           time.Duration
	DefaultTopProducts int
}

// AnalyticsService answers the four aggregation queries
type AnalyticsService struct {
	repository repository.EventRepository
	catalog    catalog.Reader
	cache      ResultCache
	config     AnalyticsConfig
	tracer     *observability.Tracer
	log        *zap.Logger
}

// NewAnalyticsService creates a new analytics service. cache may be nil.
func NewAnalyticsService(repo repository.EventRepository, products catalog.Reader, cache ResultCache, cfg AnalyticsConfig, tracer *observability.Tracer, log *zap.Logger) *AnalyticsService {
	if cfg.DefaultTopProducts <= 0 {
		cfg.DefaultTopProducts = aggregation.DefaultTopProductsLimit
	}
	return &AnalyticsService{
		repository: repo,
		catalog:    products,
		cache:      cache,
		config:     cfg,
		tracer:     tracer,
		log:        log,
	}
}

// Ping checks the event store
func (s *AnalyticsService) Ping(ctx context.Context) error {
	return s.repository.Ping(ctx)
}

// Query validates req and dispatches it to the matching aggregation
func (s *AnalyticsService) Query(ctx context.Context, req *dto.AnalyticsQueryRequest) (any, error) {
	switch req.Type {
	case QueryPageViews, QueryTopProducts, QueryConversionFunnel, QuerySearchAnalytics:
	default:
		return nil, fmt.Errorf("%w: %q (supported: page_views, top_products, conversion_funnel, search_analytics)",
			ErrInvalidQueryType, req.Type)
	}

	window, err := ParseWindow(req.StartDate, req.EndDate, s.config.MaxRange)
	if err != nil {
		return nil, err
	}

	switch req.Type {
	case QueryPageViews:
		return s.PageViews(ctx, window)
	case QueryTopProducts:
		limit, err := s.topProductsLimit(req.Limit)
		if err != nil {
			return nil, err
		}
		return s.TopProducts(ctx, window, limit)
	case QueryConversionFunnel:
		return s.ConversionFunnel(ctx, window)
	default:
		return s.SearchAnalytics(ctx, window)
	}
}

func (s *AnalyticsService) topProductsLimit(limit int) (int, error) {
	if limit == 0 {
		return s.config.DefaultTopProducts, nil
	}
	if limit < 0 || limit > MaxTopProductsLimit {
		return 0, fmt.Errorf("%w: %d (must be between 1 and %d)", ErrInvalidLimit, limit, MaxTopProductsLimit)
	}
	return limit, nil
}

// PageViews returns page views per UTC day, ascending
func (s *AnalyticsService) PageViews(ctx context.Context, window domain.TimeWindow) ([]dto.PageViewsPoint, error) {
	return run(ctx, s, QueryPageViews, window, 0, func(ctx context.Context) ([]dto.PageViewsPoint, error) {
		days, err := s.repository.PageViews(ctx, window)
		if err != nil {
			return nil, fmt.Errorf("failed to query page views: %w", err)
		}

		points := make([]dto.PageViewsPoint, len(days))
		for i, d := range days {
			points[i] = dto.PageViewsPoint{Date: d.Date, Views: d.Views, UniqueUsers: d.UniqueUsers}
		}
		return points, nil
	})
}

// TopProducts returns the most viewed products joined to the catalog
func (s *AnalyticsService) TopProducts(ctx context.Context, window domain.TimeWindow, limit int) ([]dto.TopProductEntry, error) {
	return run(ctx, s, QueryTopProducts, window, limit, func(ctx context.Context) ([]dto.TopProductEntry, error) {
		views, err := s.repository.TopProducts(ctx, window, limit)
		if err != nil {
			return nil, fmt.Errorf("failed to query top products: %w", err)
		}

		products, err := s.joinCatalog(ctx, views)
		if err != nil {
			return nil, err
		}

		entries := make([]dto.TopProductEntry, len(products))
		for i, p := range products {
			entries[i] = dto.TopProductEntry{ProductID: p.ProductID, Product: p.Product, Views: p.Views, UniqueUsers: p.UniqueUsers}
		}
		return entries, nil
	})
}

// joinCatalog looks each product up once. Unknown products keep a nil Product.
func (s *AnalyticsService) joinCatalog(ctx context.Context, views []domain.ProductViews) ([]domain.TopProduct, error) {
	out := make([]domain.TopProduct, len(views))
	for i, v := range views {
		product, err := s.catalog.FindProduct(ctx, v.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up product %s: %w", v.ProductID, err)
		}
		if product == nil {
			s.log.Debug("Product not in catalog", zap.String("product_id", v.ProductID))
		}
		out[i] = domain.TopProduct{
			Product:     product,
			ProductID:   v.ProductID,
			Views:       v.Views,
			UniqueUsers: v.UniqueUsers,
		}
	}
	return out, nil
}

// ConversionFunnel returns event counts for the four funnel stages
func (s *AnalyticsService) ConversionFunnel(ctx context.Context, window domain.TimeWindow) (dto.ConversionFunnelResponse, error) {
	return run(ctx, s, QueryConversionFunnel, window, 0, func(ctx context.Context) (dto.ConversionFunnelResponse, error) {
		counts, err := s.repository.CountByType(ctx, window)
		if err != nil {
			return dto.ConversionFunnelResponse{}, fmt.Errorf("failed to query event counts: %w", err)
		}

		f := aggregation.ProjectFunnel(counts)
		return dto.ConversionFunnelResponse{
			PageViews:    f.PageViews,
			ProductViews: f.ProductViews,
			AddToCart:    f.AddToCart,
			Purchases:    f.Purchases,
		}, nil
	})
}

// SearchAnalytics returns the most frequent search queries
func (s *AnalyticsService) SearchAnalytics(ctx context.Context, window domain.TimeWindow) ([]dto.SearchQueryEntry, error) {
	return run(ctx, s, QuerySearchAnalytics, window, aggregation.SearchQueriesLimit, func(ctx context.Context) ([]dto.SearchQueryEntry, error) {
		stats, err := s.repository.SearchQueries(ctx, window, aggregation.SearchQueriesLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to query search analytics: %w", err)
		}

		entries := make([]dto.SearchQueryEntry, len(stats))
		for i, q := range stats {
			entries[i] = dto.SearchQueryEntry{Query: q.Query, Count: q.Count, UniqueUsers: q.UniqueUsers}
		}
		return entries, nil
	})
}

// run wraps one aggregation with a span, the query timeout and the result cache
func run[T any](ctx context.Context, s *AnalyticsService, queryType string, window domain.TimeWindow, limit int, query func(context.Context) (T, error)) (result T, err error) {
	ctx, span := s.tracer.StartQuerySpan(ctx, queryType, window.Start, window.End)
	defer func() { s.tracer.EndSpan(span, err) }()

	key := cacheKey(queryType, window, limit)
	if s.cache != nil {
		found, cacheErr := s.cache.Get(ctx, key, &result)
		if cacheErr != nil {
			s.log.Warn("Query cache read failed", zap.String("key", key), zap.Error(cacheErr))
		} else if found {
			return result, nil
		}
	}

	if s.config.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.QueryTimeout)
		defer cancel()
	}

	result, err = query(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if s.cache != nil {
		if cacheErr := s.cache.Set(ctx, key, result); cacheErr != nil {
			s.log.Warn("Query cache write failed", zap.String("key", key), zap.Error(cacheErr))
		}
	}

	return result, nil
}

func cacheKey(queryType string, window domain.TimeWindow, limit int) string {
	return fmt.Sprintf("%s:%d:%d:%d", queryType, window.Start.UnixMilli(), window.End.UnixMilli(), limit)
}
