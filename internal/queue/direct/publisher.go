// Package direct provides a publisher that writes tracked events straight to
// the event store, bypassing the queue.
package direct

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/BarkinBalci/storefront-analytics/internal/domain"
	"github.com/BarkinBalci/storefront-analytics/internal/queue"
	"github.com/BarkinBalci/storefront-analytics/internal/repository"
)

var _ queue.QueuePublisher = (*Publisher)(nil)

// Publisher inserts each event synchronously
type Publisher struct {
	repository repository.EventRepository
	log        *zap.Logger
}

// NewPublisher creates a direct publisher over repo
func NewPublisher(repo repository.EventRepository, log *zap.Logger) *Publisher {
	return &Publisher{repository: repo, log: log}
}

// PublishEvent inserts the event into the store
func (p *Publisher) PublishEvent(ctx context.Context, event *domain.Event) error {
	if err := p.repository.Insert(ctx, event); err != nil {
		return fmt.Errorf("failed to insert event %s: %w", event.EventID, err)
	}

	p.log.Debug("Event written",
		zap.String("event_id", event.EventID),
		zap.String("type", string(event.Type)))

	return nil
}
