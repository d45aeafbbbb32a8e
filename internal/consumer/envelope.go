package consumer

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/BarkinBalci/storefront-analytics/internal/domain"
)

var errEnvelopeSettled = errors.New("envelope already settled")

// Envelope carries one parsed event together with the queue message it came
// from. An envelope is settled once: after a successful Ack or Nack further
// calls return errEnvelopeSettled.
type Envelope struct {
	Event     *domain.Event
	MessageID string

	settled atomic.Bool
	ack     func(context.Context) error
	nack    func(context.Context) error
}

// NewEnvelope wraps event. ack removes the message from the queue, nack makes
// it visible again for redelivery.
func NewEnvelope(messageID string, event *domain.Event, ack, nack func(context.Context) error) *Envelope {
	return &Envelope{
		Event:     event,
		MessageID: messageID,
		ack:       ack,
		nack:      nack,
	}
}

// Ack marks the event as stored
func (e *Envelope) Ack(ctx context.Context) error {
	return e.settle(ctx, e.ack)
}

// Nack hands the event back to the queue
func (e *Envelope) Nack(ctx context.Context) error {
	return e.settle(ctx, e.nack)
}

// Settled reports whether Ack or Nack has succeeded
func (e *Envelope) Settled() bool {
	return e.settled.Load()
}

// settle runs fn at most once successfully. A failed fn leaves the envelope
// unsettled so the caller may try again.
func (e *Envelope) settle(ctx context.Context, fn func(context.Context) error) error {
	if !e.settled.CompareAndSwap(false, true) {
		return errEnvelopeSettled
	}
	if fn == nil {
		return nil
	}
	if err := fn(ctx); err != nil {
		e.settled.Store(false)
		return err
	}
	return nil
}
