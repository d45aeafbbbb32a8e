package service

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BarkinBalci/storefront-analytics/internal/domain"
	"github.com/BarkinBalci/storefront-analytics/internal/dto"
	"github.com/BarkinBalci/storefront-analytics/internal/observability"
	"github.com/BarkinBalci/storefront-analytics/internal/queue"
)

var _ EventServicer = (*EventService)(nil)

// EventService records storefront events. Recording is fire-and-forget:
// callers never see a failure.
type EventService struct {
	publisher queue.QueuePublisher
	validate  *validator.Validate
	tracer    *observability.Tracer
	timeout   time.Duration
	now       func() time.Time
	log       *zap.Logger
}

// NewEventService creates a new event service. timeout bounds each hand-off
// to the publisher.
func NewEventService(publisher queue.QueuePublisher, timeout time.Duration, tracer *observability.Tracer, log *zap.Logger) *EventService {
	return &EventService{
		publisher: publisher,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		tracer:    tracer,
		timeout:   timeout,
		now:       func() time.Time { return time.Now().UTC() },
		log:       log,
	}
}

// Track records one event. Any failure is logged and dropped.
func (s *EventService) Track(ctx context.Context, req *dto.TrackEventRequest) {
	err := s.record(ctx, req)
	if err == nil {
		return
	}

	if errors.Is(err, errInvalidEvent) {
		s.log.Warn("Dropping invalid event", zap.Error(err))
		return
	}
	s.log.Error("Failed to record event", zap.Error(err))
}

// TrackBatch records each event in order and returns how many were handed off
func (s *EventService) TrackBatch(ctx context.Context, reqs []dto.TrackEventRequest) int {
	for i := range reqs {
		s.Track(ctx, &reqs[i])
	}
	return len(reqs)
}

func (s *EventService) record(ctx context.Context, req *dto.TrackEventRequest) (err error) {
	if req == nil {
		return fmt.Errorf("%w: nil request", errInvalidEvent)
	}
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %w", errInvalidEvent, err)
	}

	event, err := s.newEvent(req)
	if err != nil {
		return err
	}

	// the write outlives the request, a client that hangs up early still gets its event stored
	ctx, span := s.tracer.StartTrackSpan(context.WithoutCancel(ctx), event.EventID, string(event.Type))
	defer func() { s.tracer.EndSpan(span, err) }()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.EventID, err)
	}
	return nil
}

// newEvent builds the stored record, assigning its id and creation time
func (s *EventService) newEvent(req *dto.TrackEventRequest) (*domain.Event, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate event id: %w", err)
	}

	metadata := maps.Clone(req.Metadata)
	if metadata == nil {
		metadata = map[string]any{}
	}

	var value *float64
	if req.Value != nil {
		v := *req.Value
		value = &v
	}

	return &domain.Event{
		EventID:     id.String(),
		Type:        domain.EventType(req.Type),
		UserID:      req.UserID,
		SessionID:   req.SessionID,
		ProductID:   req.ProductID,
		OrderID:     req.OrderID,
		CampaignID:  req.CampaignID,
		Page:        req.Page,
		SearchQuery: req.SearchQuery,
		Value:       value,
		Metadata:    metadata,
		UserAgent:   req.UserAgent,
		IPAddress:   req.IPAddress,
		Referrer:    req.Referrer,
		UTMSource:   req.UTMSource,
		UTMMedium:   req.UTMMedium,
		UTMCampaign: req.UTMCampaign,
		UTMTerm:     req.UTMTerm,
		UTMContent:  req.UTMContent,
		CreatedAt:   s.now(),
	}, nil
}
