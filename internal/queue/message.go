package queue

import (
	"time"

	"github.com/BarkinBalci/storefront-analytics/internal/domain"
)

// EventMessage is the JSON body of a queued event
type EventMessage struct {
	EventID     string         `json:"event_id"`
	Type        string         `json:"type"`
	UserID      string         `json:"user_id,omitempty"`
	SessionID   string         `json:"session_id"`
	ProductID   string         `json:"product_id,omitempty"`
	OrderID     string         `json:"order_id,omitempty"`
	CampaignID  string         `json:"campaign_id,omitempty"`
	Page        string         `json:"page,omitempty"`
	SearchQuery string         `json:"search_query,omitempty"`
	Value       *float64       `json:"value,omitempty"`
	Metadata    map[string]any `json:"metadata"`
	UserAgent   string         `json:"user_agent"`
	IPAddress   string         `json:"ip_address"`
	Referrer    string         `json:"referrer,omitempty"`
	UTMSource   string         `json:"utm_source,omitempty"`
	UTMMedium   string         `json:"utm_medium,omitempty"`
	UTMCampaign string         `json:"utm_campaign,omitempty"`
	UTMTerm     string         `json:"utm_term,omitempty"`
	UTMContent  string         `json:"utm_content,omitempty"`
	CreatedAt   int64          `json:"created_at"`
}

// NewEventMessage converts a domain event into its queue representation.
// CreatedAt travels as Unix milliseconds.
func NewEventMessage(e *domain.Event) *EventMessage {
	metadata := e.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	return &EventMessage{
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
		CreatedAt:   e.CreatedAt.UnixMilli(),
	}
}

// Event converts the message back into a domain event
func (m *EventMessage) Event() *domain.Event {
	e := &domain.Event{
		EventID:     m.EventID,
		Type:        domain.EventType(m.Type),
		UserID:      m.UserID,
		SessionID:   m.SessionID,
		ProductID:   m.ProductID,
		OrderID:     m.OrderID,
		CampaignID:  m.CampaignID,
		Page:        m.Page,
		SearchQuery: m.SearchQuery,
		Value:       m.Value,
		Metadata:    m.Metadata,
		UserAgent:   m.UserAgent,
		IPAddress:   m.IPAddress,
		Referrer:    m.Referrer,
		UTMSource:   m.UTMSource,
		UTMMedium:   m.UTMMedium,
		UTMCampaign: m.UTMCampaign,
		UTMTerm:     m.UTMTerm,
		UTMContent:  m.UTMContent,
	}
	if m.CreatedAt > 0 {
		e.CreatedAt = time.UnixMilli(m.CreatedAt).UTC()
	}
	return e
}
