package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BarkinBalci/storefront-analytics/internal/domain"
)

var testDay = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func testWindow() domain.TimeWindow {
	return domain.TimeWindow{Start: testDay, End: testDay.Add(24*time.Hour - time.Nanosecond)}
}

func TestRepository_InsertStampsCreatedAt(t *testing.T) {
	repo := NewRepository(zap.NewNop())
	repo.now = func() time.Time { return testDay.Add(10 * time.Hour) }

	err := repo.Insert(context.Background(), &domain.Event{
		Type:      domain.EventPageView,
		UserID:    "U1",
		SessionID: "s1",
	})
	require.NoError(t, err)

	views, err := repo.PageViews(context.Background(), testWindow())
	require.NoError(t, err)
	assert.Equal(t, []domain.DailyPageViews{{Date: "2024-01-01", Views: 1, UniqueUsers: 1}}, views)
}

func TestRepository_StoredEventsAreImmutable(t *testing.T) {
	repo := NewRepository(zap.NewNop())
	value := 42.5
	event := &domain.Event{
		Type:      domain.EventPurchase,
		UserID:    "U1",
		SessionID: "s1",
		OrderID:   "O1",
		Value:     &value,
		Metadata:  map[string]any{"currency": "EUR"},
		CreatedAt: testDay.Add(time.Hour),
	}

	require.NoError(t, repo.Insert(context.Background(), event))

	event.Metadata["currency"] = "USD"
	event.Type = domain.EventPageView
	value = 1

	stored := repo.events[0]
	assert.Equal(t, domain.EventPurchase, stored.Type)
	assert.Equal(t, "EUR", stored.Metadata["currency"])
	assert.Equal(t, 42.5, *stored.Value)
}

func TestRepository_NilMetadataDefaultsToEmpty(t *testing.T) {
	repo := NewRepository(zap.NewNop())

	require.NoError(t, repo.Insert(context.Background(), &domain.Event{Type: domain.EventSearch, CreatedAt: testDay}))

	assert.NotNil(t, repo.events[0].Metadata)
	assert.Empty(t, repo.events[0].Metadata)
}

func TestRepository_Scenarios(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(zap.NewNop())

	events := []*domain.Event{
		{Type: domain.EventSearch, UserID: "U1", SearchQuery: "arduino", CreatedAt: testDay.Add(time.Hour)},
		{Type: domain.EventSearch, UserID: "U2", SearchQuery: "arduino", CreatedAt: testDay.Add(2 * time.Hour)},
		{Type: domain.EventSearch, UserID: "U3", SearchQuery: "arduino", CreatedAt: testDay.Add(3 * time.Hour)},
		{Type: domain.EventSearch, UserID: "U1", SearchQuery: "sensor", CreatedAt: testDay.Add(4 * time.Hour)},
		{Type: domain.EventSearch, UserID: "U1", SearchQuery: "sensor", CreatedAt: testDay.Add(5 * time.Hour)},
		{Type: domain.EventProductView, UserID: "U1", ProductID: "P1", CreatedAt: testDay.Add(6 * time.Hour)},
		{Type: domain.EventAddToCart, UserID: "U1", ProductID: "P1", CreatedAt: testDay.Add(7 * time.Hour)},
	}
	n, err := repo.InsertBatch(ctx, events)
	require.NoError(t, err)
	assert.Equal(t, len(events), n)
	assert.Equal(t, len(events), repo.Len())

	queries, err := repo.SearchQueries(ctx, testWindow(), 50)
	require.NoError(t, err)
	require.Len(t, queries, 2)
	assert.Equal(t, domain.SearchQueryStat{Query: "arduino", Count: 3, UniqueUsers: 3}, queries[0])
	assert.Equal(t, domain.SearchQueryStat{Query: "sensor", Count: 2, UniqueUsers: 1}, queries[1])

	products, err := repo.TopProducts(ctx, testWindow(), 10)
	require.NoError(t, err)
	assert.Equal(t, []domain.ProductViews{{ProductID: "P1", Views: 1, UniqueUsers: 1}}, products)

	counts, err := repo.CountByType(ctx, testWindow())
	require.NoError(t, err)
	assert.Len(t, counts, 3)
}

func TestRepository_CancelledContext(t *testing.T) {
	repo := NewRepository(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.InsertBatch(ctx, []*domain.Event{{Type: domain.EventPageView}})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = repo.PageViews(ctx, testWindow())
	assert.ErrorIs(t, err, context.Canceled)
}
