package aggregation

import (
	"fmt"
	"math/rand"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BarkinBalci/storefront-analytics/internal/domain"
)

var day = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func fullDay(t time.Time) domain.TimeWindow {
	return domain.TimeWindow{Start: t, End: t.Add(24*time.Hour - time.Nanosecond)}
}

func event(et domain.EventType, userID string, at time.Time) domain.Event {
	return domain.Event{
		Type:      et,
		UserID:    userID,
		SessionID: "sess-" + userID,
		UserAgent: "test-agent",
		IPAddress: "127.0.0.1",
		CreatedAt: at,
	}
}

func productView(productID, userID string, at time.Time) domain.Event {
	e := event(domain.EventProductView, userID, at)
	e.ProductID = productID
	return e
}

func search(query, userID string, at time.Time) domain.Event {
	e := event(domain.EventSearch, userID, at)
	e.SearchQuery = query
	return e
}

func TestPageViews_TwoUsersSameDay(t *testing.T) {
	events := []domain.Event{
		event(domain.EventPageView, "U1", day.Add(9*time.Hour)),
		event(domain.EventPageView, "U2", day.Add(17*time.Hour)),
	}

	result := PageViews(slices.Values(events), fullDay(day))

	assert.Equal(t, []domain.DailyPageViews{
		{Date: "2024-01-01", Views: 2, UniqueUsers: 2},
	}, result)
}

func TestPageViews_GroupsByUTCDayAscending(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	window := domain.TimeWindow{Start: day, End: day.Add(72 * time.Hour)}

	events := []domain.Event{
		event(domain.EventPageView, "U1", day.Add(50*time.Hour)),
		// 2024-01-01 20:00 EST is 2024-01-02 01:00 UTC
		event(domain.EventPageView, "U1", time.Date(2024, 1, 1, 20, 0, 0, 0, est)),
		event(domain.EventPageView, "U2", day.Add(time.Minute)),
		event(domain.EventPageView, "U2", day.Add(23*time.Hour+59*time.Minute)),
		event(domain.EventSearch, "U3", day.Add(time.Hour)),
	}

	result := PageViews(slices.Values(events), window)

	require.Len(t, result, 3)
	assert.Equal(t, domain.DailyPageViews{Date: "2024-01-01", Views: 2, UniqueUsers: 1}, result[0])
	assert.Equal(t, domain.DailyPageViews{Date: "2024-01-02", Views: 1, UniqueUsers: 1}, result[1])
	assert.Equal(t, domain.DailyPageViews{Date: "2024-01-03", Views: 1, UniqueUsers: 1}, result[2])
}

func TestPageViews_AnonymousUsersShareOneBucket(t *testing.T) {
	events := []domain.Event{
		event(domain.EventPageView, "", day.Add(time.Hour)),
		event(domain.EventPageView, "", day.Add(2*time.Hour)),
		event(domain.EventPageView, "U1", day.Add(3*time.Hour)),
	}

	result := PageViews(slices.Values(events), fullDay(day))

	require.Len(t, result, 1)
	assert.Equal(t, uint64(3), result[0].Views)
	assert.Equal(t, uint64(2), result[0].UniqueUsers)
}

func TestPageViews_WindowBoundsInclusive(t *testing.T) {
	window := domain.TimeWindow{Start: day, End: day.Add(time.Hour)}
	events := []domain.Event{
		event(domain.EventPageView, "U1", day),
		event(domain.EventPageView, "U2", day.Add(time.Hour)),
		event(domain.EventPageView, "U3", day.Add(time.Hour+time.Nanosecond)),
		event(domain.EventPageView, "U4", day.Add(-time.Nanosecond)),
	}

	result := PageViews(slices.Values(events), window)

	require.Len(t, result, 1)
	assert.Equal(t, uint64(2), result[0].Views)
}

func TestPageViews_Empty(t *testing.T) {
	result := PageViews(slices.Values([]domain.Event{}), fullDay(day))

	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestTopProducts_SortedAndTruncated(t *testing.T) {
	var events []domain.Event
	for i := 0; i < 5; i++ {
		events = append(events, productView("P1", fmt.Sprintf("U%d", i), day.Add(time.Duration(i)*time.Minute)))
	}
	for i := 0; i < 3; i++ {
		events = append(events, productView("P2", "U1", day.Add(time.Hour)))
	}
	events = append(events,
		productView("P3", "U9", day.Add(2*time.Hour)),
		productView("", "U9", day.Add(2*time.Hour)),
		event(domain.EventAddToCart, "U9", day.Add(3*time.Hour)),
	)

	result := TopProducts(slices.Values(events), fullDay(day), 2)

	assert.Equal(t, []domain.ProductViews{
		{ProductID: "P1", Views: 5, UniqueUsers: 5},
		{ProductID: "P2", Views: 3, UniqueUsers: 1},
	}, result)
}

func TestTopProducts_DefaultLimit(t *testing.T) {
	var events []domain.Event
	for i := 0; i < 15; i++ {
		events = append(events, productView(fmt.Sprintf("P%02d", i), "U1", day))
	}

	result := TopProducts(slices.Values(events), fullDay(day), 0)

	assert.Len(t, result, DefaultTopProductsLimit)
	// equal views fall back to product id order
	assert.Equal(t, "P00", result[0].ProductID)
	assert.Equal(t, "P09", result[9].ProductID)
}

func TestTopProducts_OrderingProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	var events []domain.Event
	for i := 0; i < 500; i++ {
		events = append(events, productView(
			fmt.Sprintf("P%d", rng.Intn(40)),
			fmt.Sprintf("U%d", rng.Intn(25)),
			day.Add(time.Duration(rng.Intn(86400))*time.Second),
		))
	}

	for _, limit := range []int{1, 5, 10, 100} {
		result := TopProducts(slices.Values(events), fullDay(day), limit)

		assert.LessOrEqual(t, len(result), limit)
		for i := range result {
			assert.LessOrEqual(t, result[i].UniqueUsers, result[i].Views)
			if i > 0 {
				assert.GreaterOrEqual(t, result[i-1].Views, result[i].Views)
			}
		}
	}
}

func TestProjectFunnel_ExactCounts(t *testing.T) {
	var events []domain.Event
	add := func(et domain.EventType, n int) {
		for i := 0; i < n; i++ {
			events = append(events, event(et, fmt.Sprintf("U%d", i%3), day.Add(time.Duration(i)*time.Minute)))
		}
	}
	add(domain.EventPageView, 7)
	add(domain.EventProductView, 5)
	add(domain.EventAddToCart, 3)
	add(domain.EventPurchase, 2)
	add(domain.EventSearch, 11)
	add(domain.EventEmailOpen, 4)
	add(domain.EventEmailClick, 1)

	want := domain.ConversionFunnel{PageViews: 7, ProductViews: 5, AddToCart: 3, Purchases: 2}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 5; i++ {
		rng.Shuffle(len(events), func(a, b int) { events[a], events[b] = events[b], events[a] })

		counts := CountByType(slices.Values(events), fullDay(day))
		assert.Equal(t, want, ProjectFunnel(counts))
	}
}

func TestProjectFunnel_MissingStagesAreZero(t *testing.T) {
	funnel := ProjectFunnel([]domain.TypeCount{
		{Type: domain.EventPurchase, Count: 4, UniqueUsers: 2},
		{Type: domain.EventSearch, Count: 9, UniqueUsers: 9},
	})

	assert.Equal(t, domain.ConversionFunnel{Purchases: 4}, funnel)
	assert.Equal(t, domain.ConversionFunnel{}, ProjectFunnel(nil))
}

func TestCountByType_UniqueUsersNeverExceedCount(t *testing.T) {
	events := []domain.Event{
		event(domain.EventPageView, "U1", day),
		event(domain.EventPageView, "U1", day),
		event(domain.EventPageView, "", day),
		event(domain.EventPurchase, "U2", day),
	}

	counts := CountByType(slices.Values(events), fullDay(day))

	require.Len(t, counts, 2)
	assert.Equal(t, domain.TypeCount{Type: domain.EventPageView, Count: 3, UniqueUsers: 2}, counts[0])
	assert.Equal(t, domain.TypeCount{Type: domain.EventPurchase, Count: 1, UniqueUsers: 1}, counts[1])
}

func TestSearchQueries_OrderedByCount(t *testing.T) {
	events := []domain.Event{
		search("sensor", "U1", day),
		search("arduino", "U1", day),
		search("arduino", "U2", day),
		search("sensor", "U3", day),
		search("arduino", "U3", day),
	}

	result := SearchQueries(slices.Values(events), fullDay(day), SearchQueriesLimit)

	assert.Equal(t, []domain.SearchQueryStat{
		{Query: "arduino", Count: 3, UniqueUsers: 3},
		{Query: "sensor", Count: 2, UniqueUsers: 2},
	}, result)
}

func TestSearchQueries_CaseSensitiveAndSkipsEmpty(t *testing.T) {
	events := []domain.Event{
		search("Arduino", "U1", day),
		search("arduino", "U1", day),
		search("", "U1", day),
		event(domain.EventPageView, "U1", day),
	}

	result := SearchQueries(slices.Values(events), fullDay(day), SearchQueriesLimit)

	require.Len(t, result, 2)
	assert.Equal(t, "Arduino", result[0].Query)
	assert.Equal(t, "arduino", result[1].Query)
}

func TestSearchQueries_TruncatedToLimit(t *testing.T) {
	var events []domain.Event
	for i := 0; i < 60; i++ {
		events = append(events, search(fmt.Sprintf("q%02d", i), "U1", day))
	}

	result := SearchQueries(slices.Values(events), fullDay(day), 0)

	assert.Len(t, result, SearchQueriesLimit)
}
