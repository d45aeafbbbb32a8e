package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/BarkinBalci/storefront-analytics/internal/domain"
)

// eventDocument is the persisted shape of an event in the analytics collection
type eventDocument struct {
	ID          bson.ObjectID  `bson:"_id,omitempty"`
	EventID     string         `bson:"eventId"`
	Type        string         `bson:"type"`
	UserID      string         `bson:"userId,omitempty"`
	SessionID   string         `bson:"sessionId"`
	ProductID   string         `bson:"productId,omitempty"`
	OrderID     string         `bson:"orderId,omitempty"`
	CampaignID  string         `bson:"campaignId,omitempty"`
	Page        string         `bson:"page,omitempty"`
	SearchQuery string         `bson:"searchQuery,omitempty"`
	Value       *float64       `bson:"value,omitempty"`
	Metadata    map[string]any `bson:"metadata"`
	UserAgent   string         `bson:"userAgent"`
	IPAddress   string         `bson:"ipAddress"`
	Referrer    string         `bson:"referrer,omitempty"`
	UTMSource   string         `bson:"utmSource,omitempty"`
	UTMMedium   string         `bson:"utmMedium,omitempty"`
	UTMCampaign string         `bson:"utmCampaign,omitempty"`
	UTMTerm     string         `bson:"utmTerm,omitempty"`
	UTMContent  string         `bson:"utmContent,omitempty"`
	CreatedAt   time.Time      `bson:"createdAt"`
}

func toEventDocument(e *domain.Event, now time.Time) *eventDocument {
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	metadata := e.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	return &eventDocument{
		EventID:     e.EventID,
		Type:        string(e.Type),
		UserID:      e.UserID,
		SessionID:   e.SessionID,
		ProductID:   e.ProductID,
		OrderID:     e.OrderID,
		CampaignID:  e.CampaignID,
		Page:        e.Page,
		SearchQuery: e.SearchQuery,
		Value:       e.Value,
		Metadata:    metadata,
		UserAgent:   e.UserAgent,
		IPAddress:   e.IPAddress,
		Referrer:    e.Referrer,
		UTMSource:   e.UTMSource,
		UTMMedium:   e.UTMMedium,
		UTMCampaign: e.UTMCampaign,
		UTMTerm:     e.UTMTerm,
		UTMContent:  e.UTMContent,
		CreatedAt:   createdAt.UTC(),
	}
}

// Aggregation output rows. $sum and $size produce int32 or int64 depending on
// magnitude; both decode into int64.

type dayRow struct {
	Date        string `bson:"_id"`
	Views       int64  `bson:"views"`
	UniqueUsers int64  `bson:"uniqueUsers"`
}

type productRow struct {
	ProductID   string `bson:"_id"`
	Views       int64  `bson:"views"`
	UniqueUsers int64  `bson:"uniqueUsers"`
}

type typeRow struct {
	Type        string `bson:"_id"`
	Count       int64  `bson:"count"`
	UniqueUsers int64  `bson:"uniqueUsers"`
}

type queryRow struct {
	Query       string `bson:"_id"`
	Count       int64  `bson:"count"`
	UniqueUsers int64  `bson:"uniqueUsers"`
}
