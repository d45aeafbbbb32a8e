package mongo

import (
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/BarkinBalci/storefront-analytics/internal/domain"
)

// distinctUsers collects userId values into a set. Missing userIds collapse
// into a single "" entry so anonymous traffic counts as one user per group.
var distinctUsers = bson.D{{Key: "$addToSet", Value: bson.D{
	{Key: "$ifNull", Value: bson.A{"$userId", ""}},
}}}

func windowFilter(window domain.TimeWindow) bson.D {
	return bson.D{
		{Key: "$gte", Value: window.Start.UTC()},
		{Key: "$lte", Value: window.End.UTC()},
	}
}

func matchStage(filter bson.D) bson.D {
	return bson.D{{Key: "$match", Value: filter}}
}

func groupStage(key any, counter string) bson.D {
	return bson.D{{Key: "$group", Value: bson.D{
		{Key: "_id", Value: key},
		{Key: counter, Value: bson.D{{Key: "$sum", Value: 1}}},
		{Key: "users", Value: distinctUsers},
	}}}
}

func projectStage(counter string) bson.D {
	return bson.D{{Key: "$project", Value: bson.D{
		{Key: counter, Value: 1},
		{Key: "uniqueUsers", Value: bson.D{{Key: "$size", Value: "$users"}}},
	}}}
}

func sortStage(fields bson.D) bson.D {
	return bson.D{{Key: "$sort", Value: fields}}
}

func limitStage(n int) bson.D {
	return bson.D{{Key: "$limit", Value: int64(n)}}
}

// pageViewsPipeline buckets page views per UTC day, ascending
func pageViewsPipeline(window domain.TimeWindow) mongo.Pipeline {
	day := bson.D{{Key: "$dateToString", Value: bson.D{
		{Key: "format", Value: "%Y-%m-%d"},
		{Key: "date", Value: "$createdAt"},
		{Key: "timezone", Value: "UTC"},
	}}}

	return mongo.Pipeline{
		matchStage(bson.D{
			{Key: "type", Value: string(domain.EventPageView)},
			{Key: "createdAt", Value: windowFilter(window)},
		}),
		groupStage(day, "views"),
		projectStage("views"),
		sortStage(bson.D{{Key: "_id", Value: 1}}),
	}
}

// topProductsPipeline ranks product views by productId
func topProductsPipeline(window domain.TimeWindow, limit int) mongo.Pipeline {
	return mongo.Pipeline{
		matchStage(bson.D{
			{Key: "type", Value: string(domain.EventProductView)},
			{Key: "createdAt", Value: windowFilter(window)},
			{Key: "productId", Value: bson.D{
				{Key: "$exists", Value: true},
				{Key: "$nin", Value: bson.A{nil, ""}},
			}},
		}),
		groupStage("$productId", "views"),
		projectStage("views"),
		sortStage(bson.D{{Key: "views", Value: -1}, {Key: "_id", Value: 1}}),
		limitStage(limit),
	}
}

// countByTypePipeline counts every event in the window per type
func countByTypePipeline(window domain.TimeWindow) mongo.Pipeline {
	return mongo.Pipeline{
		matchStage(bson.D{
			{Key: "createdAt", Value: windowFilter(window)},
		}),
		groupStage("$type", "count"),
		projectStage("count"),
		sortStage(bson.D{{Key: "_id", Value: 1}}),
	}
}

// searchQueriesPipeline ranks exact search strings by frequency
func searchQueriesPipeline(window domain.TimeWindow, limit int) mongo.Pipeline {
	return mongo.Pipeline{
		matchStage(bson.D{
			{Key: "type", Value: string(domain.EventSearch)},
			{Key: "createdAt", Value: windowFilter(window)},
			{Key: "searchQuery", Value: bson.D{
				{Key: "$exists", Value: true},
				{Key: "$nin", Value: bson.A{nil, ""}},
			}},
		}),
		groupStage("$searchQuery", "count"),
		projectStage("count"),
		sortStage(bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}),
		limitStage(limit),
	}
}
