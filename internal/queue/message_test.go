package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/BarkinBalci/storefront-analytics/internal/domain"
)

func TestEventMessage_PreservesEvent(t *testing.T) {
	value := 49.9
	created := time.Date(2024, 3, 10, 14, 30, 0, 123_000_000, time.UTC)
	event := &domain.Event{
		EventID:   "0190c0de-0000-7000-8000-000000000001",
		Type:      domain.EventPurchase,
		UserID:    "u1",
		SessionID: "s1",
		OrderID:   "o1",
		Value:     &value,
		Metadata:  map[string]any{"items": float64(2)},
		UserAgent: "Mozilla/5.0",
		IPAddress: "203.0.113.5",
		UTMSource: "newsletter",
		CreatedAt: created,
	}

	msg := NewEventMessage(event)

	assert.Equal(t, "purchase", msg.Type)
	assert.Equal(t, created.UnixMilli(), msg.CreatedAt)
	assert.Equal(t, event, msg.Event())
}

func TestEventMessage_NilMetadataBecomesEmpty(t *testing.T) {
	msg := NewEventMessage(&domain.Event{Type: domain.EventPageView})

	assert.NotNil(t, msg.Metadata)
	assert.Empty(t, msg.Metadata)
}

func TestEventMessage_MissingCreatedAt(t *testing.T) {
	msg := &EventMessage{EventID: "e1", Type: "search"}

	assert.True(t, msg.Event().CreatedAt.IsZero())
}
