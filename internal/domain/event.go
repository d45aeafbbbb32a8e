package domain

import (
	"fmt"
	"time"
)

// EventType identifies the kind of user interaction an Event records
type EventType string

const (
	EventPageView    EventType = "page_view"
	EventProductView EventType = "product_view"
	EventAddToCart   EventType = "add_to_cart"
	EventPurchase    EventType = "purchase"
	EventSearch      EventType = "search"
	EventEmailOpen   EventType = "email_open"
	EventEmailClick  EventType = "email_click"
)

// EventTypes lists every persisted event type
var EventTypes = []EventType{
	EventPageView,
	EventProductView,
	EventAddToCart,
	EventPurchase,
	EventSearch,
	EventEmailOpen,
	EventEmailClick,
}

// Valid reports whether t is one of the enumerated event types
func (t EventType) Valid() bool {
	switch t {
	case EventPageView, EventProductView, EventAddToCart, EventPurchase,
		EventSearch, EventEmailOpen, EventEmailClick:
		return true
	}
	return false
}

// ParseEventType converts a raw string into an EventType
func ParseEventType(s string) (EventType, error) {
	t := EventType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown event type: %q", s)
	}
	return t, nil
}

// Event is one immutable fact describing a storefront user interaction.
// Events are only ever appended; no store exposes an update or delete.
type Event struct {
	EventID     string
	Type        EventType
	UserID      string
	SessionID   string
	ProductID   string
	OrderID     string
	CampaignID  string
	Page        string
	SearchQuery string
	Value       *float64
	Metadata    map[string]any
	UserAgent   string
	IPAddress   string
	Referrer    string
	UTMSource   string
	UTMMedium   string
	UTMCampaign string
	UTMTerm     string
	UTMContent  string
	CreatedAt   time.Time
}
