package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/BarkinBalci/storefront-analytics/internal/domain"
)

var testWindow = domain.TimeWindow{
	Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	End:   time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC),
}

// stage returns the operator name and body of a single pipeline stage
func stage(t *testing.T, s bson.D) (string, bson.D) {
	t.Helper()
	require.Len(t, s, 1)
	body, ok := s[0].Value.(bson.D)
	if !ok {
		return s[0].Key, nil
	}
	return s[0].Key, body
}

func operators(t *testing.T, p []bson.D) []string {
	t.Helper()
	ops := make([]string, 0, len(p))
	for _, s := range p {
		op, _ := stage(t, s)
		ops = append(ops, op)
	}
	return ops
}

func lookup(d bson.D, key string) any {
	for _, e := range d {
		if e.Key == key {
			return e.Value
		}
	}
	return nil
}

func TestPageViewsPipeline(t *testing.T) {
	p := pageViewsPipeline(testWindow)

	assert.Equal(t, []string{"$match", "$group", "$project", "$sort"}, operators(t, p))

	_, match := stage(t, p[0])
	assert.Equal(t, "page_view", lookup(match, "type"))
	assert.Equal(t, windowFilter(testWindow), lookup(match, "createdAt"))

	_, group := stage(t, p[1])
	key := lookup(group, "_id").(bson.D)
	dateToString := lookup(key, "$dateToString").(bson.D)
	assert.Equal(t, "%Y-%m-%d", lookup(dateToString, "format"))
	assert.Equal(t, "UTC", lookup(dateToString, "timezone"))
	assert.Equal(t, distinctUsers, lookup(group, "users"))

	_, sort := stage(t, p[3])
	assert.Equal(t, bson.D{{Key: "_id", Value: 1}}, sort)
}

func TestTopProductsPipeline(t *testing.T) {
	p := topProductsPipeline(testWindow, 5)

	assert.Equal(t, []string{"$match", "$group", "$project", "$sort", "$limit"}, operators(t, p))

	_, match := stage(t, p[0])
	assert.Equal(t, "product_view", lookup(match, "type"))
	assert.NotNil(t, lookup(match, "productId"))

	_, group := stage(t, p[1])
	assert.Equal(t, "$productId", lookup(group, "_id"))

	_, sort := stage(t, p[3])
	assert.Equal(t, bson.D{{Key: "views", Value: -1}, {Key: "_id", Value: 1}}, sort)

	assert.Equal(t, bson.D{{Key: "$limit", Value: int64(5)}}, p[4])
}

func TestCountByTypePipeline_MatchesAllTypes(t *testing.T) {
	p := countByTypePipeline(testWindow)

	_, match := stage(t, p[0])
	assert.Nil(t, lookup(match, "type"))
	assert.NotNil(t, lookup(match, "createdAt"))

	_, group := stage(t, p[1])
	assert.Equal(t, "$type", lookup(group, "_id"))
}

func TestSearchQueriesPipeline(t *testing.T) {
	p := searchQueriesPipeline(testWindow, 50)

	_, match := stage(t, p[0])
	assert.Equal(t, "search", lookup(match, "type"))
	assert.NotNil(t, lookup(match, "searchQuery"))

	_, group := stage(t, p[1])
	assert.Equal(t, "$searchQuery", lookup(group, "_id"))

	assert.Equal(t, bson.D{{Key: "$limit", Value: int64(50)}}, p[4])
}

func TestDistinctUsers_AnonymousBucket(t *testing.T) {
	addToSet := lookup(distinctUsers, "$addToSet").(bson.D)
	assert.Equal(t, bson.A{"$userId", ""}, lookup(addToSet, "$ifNull"))
}

func TestIndexModels(t *testing.T) {
	models := indexModels()

	require.Len(t, models, 4)
	assert.Equal(t, bson.D{{Key: "type", Value: 1}, {Key: "createdAt", Value: -1}}, models[0].Keys)
	assert.Equal(t, bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}, models[1].Keys)
	assert.Equal(t, bson.D{{Key: "sessionId", Value: 1}}, models[2].Keys)
	assert.Equal(t, bson.D{{Key: "eventId", Value: 1}}, models[3].Keys)
}
