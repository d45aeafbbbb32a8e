package dto

// TrackEventRequest describes one storefront interaction. The binding tags are
// checked by gin on the HTTP path. The validate tags are the full ingestion
// contract, checked once userAgent and ipAddress have been filled in.
type TrackEventRequest struct {
	Type        string         `json:"type" binding:"required,oneof=page_view product_view add_to_cart purchase search email_open email_click" validate:"required,oneof=page_view product_view add_to_cart purchase search email_open email_click" example:"product_view"`
	UserID      string         `json:"userId,omitempty" example:"user_123"`
	SessionID   string         `json:"sessionId" binding:"required" validate:"required" example:"sess_9f2c"`
	ProductID   string         `json:"productId,omitempty" example:"65a1f0c2e4b0a1b2c3d4e5f6"`
	OrderID     string         `json:"orderId,omitempty" example:"ord_1001"`
	CampaignID  string         `json:"campaignId,omitempty" example:"cmp_987"`
	Page        string         `json:"page,omitempty" example:"/products/arduino-uno"`
	SearchQuery string         `json:"searchQuery,omitempty" example:"arduino"`
	Value       *float64       `json:"value,omitempty" example:"24.5"`
	Metadata    map[string]any `json:"metadata,omitempty" swaggertype:"object"`
	UserAgent   string         `json:"userAgent,omitempty" validate:"required" example:"Mozilla/5.0"`
	IPAddress   string         `json:"ipAddress,omitempty" validate:"required" example:"203.0.113.5"`
	Referrer    string         `json:"referrer,omitempty" example:"https://www.google.com/"`
	UTMSource   string         `json:"utmSource,omitempty" example:"newsletter"`
	UTMMedium   string         `json:"utmMedium,omitempty" example:"email"`
	UTMCampaign string         `json:"utmCampaign,omitempty" example:"spring_sale"`
	UTMTerm     string         `json:"utmTerm,omitempty"`
	UTMContent  string         `json:"utmContent,omitempty"`
}

// TrackEventsBulkRequest represents a bulk ingestion request
type TrackEventsBulkRequest struct {
	Events []TrackEventRequest `json:"events" binding:"required,min=1,max=1000,dive"`
}

// AnalyticsQueryRequest represents an aggregation query
type AnalyticsQueryRequest struct {
	Type      string `form:"type" binding:"required" example:"page_views"`
	StartDate string `form:"startDate" binding:"required" example:"2024-01-01"`
	EndDate   string `form:"endDate" binding:"required" example:"2024-01-31"`
	Limit     int    `form:"limit" example:"10"`
}
