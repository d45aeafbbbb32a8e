package dto

import "github.com/BarkinBalci/storefront-analytics/internal/domain"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"validation_error"`
	Message string `json:"message,omitempty" example:"startDate must not be after endDate"`
}

// TrackEventResponse acknowledges a single event
type TrackEventResponse struct {
	Status string `json:"status" example:"accepted"`
}

// TrackEventsResponse acknowledges a bulk request
type TrackEventsResponse struct {
	Accepted int `json:"accepted" example:"5"`
}

// PageViewsPoint is one UTC day of page views
type PageViewsPoint struct {
	Date        string `json:"date" example:"2024-01-01"`
	Views       uint64 `json:"views" example:"120"`
	UniqueUsers uint64 `json:"uniqueUsers" example:"87"`
}

// TopProductEntry is one viewed product. Product is null when the id is not
// in the catalog.
type TopProductEntry struct {
	ProductID   string          `json:"productId" example:"P1"`
	Product     *domain.Product `json:"product"`
	Views       uint64          `json:"views" example:"42"`
	UniqueUsers uint64          `json:"uniqueUsers" example:"30"`
}

// ConversionFunnelResponse holds event counts at each funnel stage
type ConversionFunnelResponse struct {
	PageViews    uint64 `json:"page_views" example:"1000"`
	ProductViews uint64 `json:"product_views" example:"400"`
	AddToCart    uint64 `json:"add_to_cart" example:"80"`
	Purchases    uint64 `json:"purchases" example:"20"`
}

// SearchQueryEntry is one search query with its frequency
type SearchQueryEntry struct {
	Query       string `json:"query" example:"arduino"`
	Count       uint64 `json:"count" example:"3"`
	UniqueUsers uint64 `json:"uniqueUsers" example:"2"`
}
