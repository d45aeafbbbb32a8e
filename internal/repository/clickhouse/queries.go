package clickhouse

import (
	"github.com/BarkinBalci/storefront-analytics/internal/domain"
)

const createEventsTable = `
	CREATE TABLE IF NOT EXISTS events (
		event_id String,
		type LowCardinality(String),
		user_id String,
		session_id String,
		product_id String,
		order_id String,
		campaign_id String,
		page String,
		search_query String,
		value Nullable(Float64),
		metadata String,
		user_agent String,
		ip_address String,
		referrer String,
		utm_source LowCardinality(String),
		utm_medium LowCardinality(String),
		utm_campaign String,
		utm_term String,
		utm_content String,
		created_at DateTime64(3, 'UTC'),
		version UInt64,
		INDEX idx_user_id user_id TYPE bloom_filter GRANULARITY 4,
		INDEX idx_session_id session_id TYPE bloom_filter GRANULARITY 4
	) ENGINE = ReplacingMergeTree(version)
	PARTITION BY toYYYYMM(created_at)
	ORDER BY (type, created_at, event_id)
	SETTINGS index_granularity = 8192
	`

// Window bounds are bound as Unix milliseconds to keep DateTime64(3)
// precision; binding time.Time directly truncates to whole seconds.
const windowClause = `created_at >= fromUnixTimestamp64Milli(?, 'UTC') AND created_at <= fromUnixTimestamp64Milli(?, 'UTC')`

// Anonymous events store user_id as '', so uniqExact counts them as one user.

const pageViewsQuery = `
	SELECT
		toString(toDate(created_at, 'UTC')) AS day,
		count() AS views,
		uniqExact(user_id) AS unique_users
	FROM events FINAL
	WHERE type = ? AND ` + windowClause + `
	GROUP BY day
	ORDER BY day ASC
	`

const topProductsQuery = `
	SELECT
		product_id,
		count() AS views,
		uniqExact(user_id) AS unique_users
	FROM events FINAL
	WHERE type = ? AND product_id != '' AND ` + windowClause + `
	GROUP BY product_id
	ORDER BY views DESC, product_id ASC
	LIMIT ?
	`

const countByTypeQuery = `
	SELECT
		type,
		count() AS total,
		uniqExact(user_id) AS unique_users
	FROM events FINAL
	WHERE ` + windowClause + `
	GROUP BY type
	ORDER BY type ASC
	`

const searchQueriesQuery = `
	SELECT
		search_query,
		count() AS total,
		uniqExact(user_id) AS unique_users
	FROM events FINAL
	WHERE type = ? AND search_query != '' AND ` + windowClause + `
	GROUP BY search_query
	ORDER BY total DESC, search_query ASC
	LIMIT ?
	`

func windowArgs(window domain.TimeWindow) []any {
	return []any{window.Start.UnixMilli(), window.End.UnixMilli()}
}

func pageViewsArgs(window domain.TimeWindow) []any {
	return append([]any{string(domain.EventPageView)}, windowArgs(window)...)
}

func topProductsArgs(window domain.TimeWindow, limit int) []any {
	args := append([]any{string(domain.EventProductView)}, windowArgs(window)...)
	return append(args, limit)
}

func searchQueriesArgs(window domain.TimeWindow, limit int) []any {
	args := append([]any{string(domain.EventSearch)}, windowArgs(window)...)
	return append(args, limit)
}
