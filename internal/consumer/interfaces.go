package consumer

import (
	"context"

	"github.com/BarkinBalci/storefront-analytics/internal/domain"
)

// MessageParser defines the interface for parsing raw message bytes into events
type MessageParser interface {
	Parse(body []byte) (*domain.Event, error)
}

// Deduplicator tracks which event ids have already been written
type Deduplicator interface {
	Claim(ctx context.Context, eventID string) (bool, error)
	Release(ctx context.Context, eventIDs ...string) error
}
