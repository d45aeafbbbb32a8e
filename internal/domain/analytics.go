package domain

import "time"

// TimeWindow is an inclusive [Start, End] range over Event.CreatedAt
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window, bounds included
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// DayLayout is the calendar-day bucket format used by page view rollups
const DayLayout = "2006-01-02"

// DailyPageViews is one UTC day bucket of page_view events
type DailyPageViews struct {
	Date        string
	Views       uint64
	UniqueUsers uint64
}

// ProductViews is the per-product rollup of product_view events
type ProductViews struct {
	ProductID   string
	Views       uint64
	UniqueUsers uint64
}

// TopProduct is a ProductViews entry joined to the catalog. Product is nil
// when the catalog has no matching record.
type TopProduct struct {
	Product     *Product
	ProductID   string
	Views       uint64
	UniqueUsers uint64
}

// TypeCount is the per-type rollup used to build the conversion funnel
type TypeCount struct {
	Type        EventType
	Count       uint64
	UniqueUsers uint64
}

// ConversionFunnel holds the four fixed funnel stages
type ConversionFunnel struct {
	PageViews    uint64
	ProductViews uint64
	AddToCart    uint64
	Purchases    uint64
}

// SearchQueryStat is the per-query rollup of search events
type SearchQueryStat struct {
	Query       string
	Count       uint64
	UniqueUsers uint64
}
