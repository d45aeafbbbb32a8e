// Package aggregation computes the storefront rollups as pure functions over a
// read-only sequence of events. Every rollup follows the same shape:
// filter by predicate, group by key, reduce to a count plus a distinct user
// set, then sort and truncate.
//
// Distinct users are keyed by UserID only. Events without a UserID all share
// the empty key, so anonymous traffic contributes at most one unique user per
// group.
package aggregation

import (
	"iter"
	"sort"

	"github.com/BarkinBalci/storefront-analytics/internal/domain"
)

const (
	// DefaultTopProductsLimit applies when the caller passes a non-positive limit
	DefaultTopProductsLimit = 10

	// SearchQueriesLimit caps the search analytics result
	SearchQueriesLimit = 50
)

// group accumulates a count and the set of users observed for one key
type group struct {
	count uint64
	users map[string]struct{}
}

func (g *group) add(userID string) {
	g.count++
	g.users[userID] = struct{}{}
}

func (g *group) uniqueUsers() uint64 {
	return uint64(len(g.users))
}

// groupBy runs the shared filter/group/reduce step. key returns false to skip an event.
func groupBy(events iter.Seq[domain.Event], window domain.TimeWindow, key func(domain.Event) (string, bool)) map[string]*group {
	groups := make(map[string]*group)

	for e := range events {
		if !window.Contains(e.CreatedAt) {
			continue
		}

		k, ok := key(e)
		if !ok {
			continue
		}

		g, exists := groups[k]
		if !exists {
			g = &group{users: make(map[string]struct{})}
			groups[k] = g
		}
		g.add(e.UserID)
	}

	return groups
}

// PageViews buckets page_view events by UTC calendar day, ascending. Days with
// no events are omitted.
func PageViews(events iter.Seq[domain.Event], window domain.TimeWindow) []domain.DailyPageViews {
	groups := groupBy(events, window, func(e domain.Event) (string, bool) {
		if e.Type != domain.EventPageView {
			return "", false
		}
		return e.CreatedAt.UTC().Format(domain.DayLayout), true
	})

	result := make([]domain.DailyPageViews, 0, len(groups))
	for day, g := range groups {
		result = append(result, domain.DailyPageViews{
			Date:        day,
			Views:       g.count,
			UniqueUsers: g.uniqueUsers(),
		})
	}

	// YYYY-MM-DD sorts lexically in date order
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date < result[j].Date
	})

	return result
}

// TopProducts ranks product_view events by product, most viewed first, and
// keeps at most limit entries.
func TopProducts(events iter.Seq[domain.Event], window domain.TimeWindow, limit int) []domain.ProductViews {
	if limit <= 0 {
		limit = DefaultTopProductsLimit
	}

	groups := groupBy(events, window, func(e domain.Event) (string, bool) {
		if e.Type != domain.EventProductView || e.ProductID == "" {
			return "", false
		}
		return e.ProductID, true
	})

	result := make([]domain.ProductViews, 0, len(groups))
	for productID, g := range groups {
		result = append(result, domain.ProductViews{
			ProductID:   productID,
			Views:       g.count,
			UniqueUsers: g.uniqueUsers(),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Views != result[j].Views {
			return result[i].Views > result[j].Views
		}
		return result[i].ProductID < result[j].ProductID
	})

	if len(result) > limit {
		result = result[:limit]
	}

	return result
}

// CountByType counts every event in the window per type, ordered by type name
func CountByType(events iter.Seq[domain.Event], window domain.TimeWindow) []domain.TypeCount {
	groups := groupBy(events, window, func(e domain.Event) (string, bool) {
		return string(e.Type), true
	})

	result := make([]domain.TypeCount, 0, len(groups))
	for t, g := range groups {
		result = append(result, domain.TypeCount{
			Type:        domain.EventType(t),
			Count:       g.count,
			UniqueUsers: g.uniqueUsers(),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Type < result[j].Type
	})

	return result
}

// ProjectFunnel maps per-type counts onto the four funnel stages. Stages with
// no matching type stay at zero; search and email types are dropped.
func ProjectFunnel(counts []domain.TypeCount) domain.ConversionFunnel {
	var funnel domain.ConversionFunnel

	for _, c := range counts {
		switch c.Type {
		case domain.EventPageView:
			funnel.PageViews = c.Count
		case domain.EventProductView:
			funnel.ProductViews = c.Count
		case domain.EventAddToCart:
			funnel.AddToCart = c.Count
		case domain.EventPurchase:
			funnel.Purchases = c.Count
		}
	}

	return funnel
}

// SearchQueries ranks non-empty search queries by frequency. Queries are
// grouped by exact string, without case folding or trimming.
func SearchQueries(events iter.Seq[domain.Event], window domain.TimeWindow, limit int) []domain.SearchQueryStat {
	if limit <= 0 {
		limit = SearchQueriesLimit
	}

	groups := groupBy(events, window, func(e domain.Event) (string, bool) {
		if e.Type != domain.EventSearch || e.SearchQuery == "" {
			return "", false
		}
		return e.SearchQuery, true
	})

	result := make([]domain.SearchQueryStat, 0, len(groups))
	for query, g := range groups {
		result = append(result, domain.SearchQueryStat{
			Query:       query,
			Count:       g.count,
			UniqueUsers: g.uniqueUsers(),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Query < result[j].Query
	})

	if len(result) > limit {
		result = result[:limit]
	}

	return result
}
