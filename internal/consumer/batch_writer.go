package consumer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BarkinBalci/storefront-analytics/internal/domain"
	"github.com/BarkinBalci/storefront-analytics/internal/repository"
)

const defaultShutdownTimeout = 10 * time.Second

// BatchWriterConfig configures the batch writer
type BatchWriterConfig struct {
	MaxBatchSize int
	FlushTimeout time.Duration
	// ShutdownTimeout bounds the final flush once the pipeline context is gone
	ShutdownTimeout time.Duration
	// FailOpen writes events whose idempotency claim could not be checked
	// instead of leaving them on the queue.
	FailOpen bool
}

// BatchWriter handles batching and writing events to the repository
type BatchWriter struct {
	repository repository.EventRepository
	dedup      Deduplicator
	config     BatchWriterConfig
	log        *zap.Logger
}

// NewBatchWriter creates a new batch writer. dedup may be nil, in which case
// every envelope is written.
func NewBatchWriter(repo repository.EventRepository, dedup Deduplicator, config BatchWriterConfig, log *zap.Logger) *BatchWriter {
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = defaultShutdownTimeout
	}
	return &BatchWriter{
		repository: repo,
		dedup:      dedup,
		config:     config,
		log:        log,
	}
}

// Start begins processing envelopes, batching, and writing to the repository
func (w *BatchWriter) Start(ctx context.Context, in <-chan *Envelope) {
	ticker := time.NewTicker(w.config.FlushTimeout)
	defer ticker.Stop()

	batch := make([]*Envelope, 0, w.config.MaxBatchSize)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("Batch writer shutting down")
			w.flushFinal(ctx, batch)
			return

		case envelope, ok := <-in:
			if !ok {
				w.log.Info("Batch writer input channel closed")
				w.flushFinal(ctx, batch)
				return
			}

			batch = append(batch, envelope)

			if len(batch) >= w.config.MaxBatchSize {
				w.log.Info("Batch size threshold reached", zap.Int("batch_size", len(batch)))
				w.processBatch(ctx, batch)
				batch = make([]*Envelope, 0, w.config.MaxBatchSize)
				ticker.Reset(w.config.FlushTimeout)
			}

		case <-ticker.C:
			if len(batch) > 0 {
				w.log.Info("Batch timeout reached", zap.Int("envelope_count", len(batch)))
				w.processBatch(ctx, batch)
				batch = make([]*Envelope, 0, w.config.MaxBatchSize)
			}
		}
	}
}

// flushFinal writes what is left of the batch. ctx is usually already cancelled
// at this point, so the write runs on a detached context bounded by
// ShutdownTimeout.
func (w *BatchWriter) flushFinal(ctx context.Context, batch []*Envelope) {
	if len(batch) == 0 {
		return
	}

	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.config.ShutdownTimeout)
	defer cancel()

	w.log.Info("Flushing final batch", zap.Int("envelope_count", len(batch)))
	w.processBatch(flushCtx, batch)
}

// processBatch handles the atomic transaction: claim + insert + ack/nack
func (w *BatchWriter) processBatch(ctx context.Context, envelopes []*Envelope) {
	if len(envelopes) == 0 {
		return
	}

	pending, claimed := w.claim(ctx, envelopes)
	if len(pending) == 0 {
		return
	}

	events := make([]*domain.Event, len(pending))
	for i, env := range pending {
		events[i] = env.Event
	}

	insertedCount, err := w.repository.InsertBatch(ctx, events)

	if err != nil {
		w.log.Error("Failed to insert batch",
			zap.Error(err),
			zap.Int("event_count", len(events)))
		w.release(ctx, claimed)
		w.nackAll(ctx, pending)
		return
	}

	if insertedCount != len(events) {
		w.log.Warn("Partial insert success",
			zap.Int("inserted", insertedCount),
			zap.Int("expected", len(events)))
		w.release(ctx, claimed)
		w.nackAll(ctx, pending)
		return
	}

	w.log.Info("Successfully inserted events",
		zap.Int("count", insertedCount))
	w.ackAll(ctx, pending)
}

// claim filters out envelopes whose event was already written. Duplicates are
// acked so the queue stops redelivering them. It returns the envelopes to
// insert and the ids this call claimed.
func (w *BatchWriter) claim(ctx context.Context, envelopes []*Envelope) ([]*Envelope, []string) {
	if w.dedup == nil {
		return envelopes, nil
	}

	pending := make([]*Envelope, 0, len(envelopes))
	claimed := make([]string, 0, len(envelopes))
	var duplicates []*Envelope

	for _, env := range envelopes {
		ok, err := w.dedup.Claim(ctx, env.Event.EventID)
		switch {
		case err != nil && w.config.FailOpen:
			w.log.Warn("Idempotency check failed, writing event anyway",
				zap.String("event_id", env.Event.EventID),
				zap.Error(err))
			pending = append(pending, env)
		case err != nil:
			w.log.Error("Idempotency check failed, leaving event on queue",
				zap.String("event_id", env.Event.EventID),
				zap.Error(err))
			if nackErr := env.Nack(ctx); nackErr != nil {
				w.log.Error("Failed to nack envelope",
					zap.String("message_id", env.MessageID),
					zap.Error(nackErr))
			}
		case !ok:
			duplicates = append(duplicates, env)
		default:
			pending = append(pending, env)
			claimed = append(claimed, env.Event.EventID)
		}
	}

	if len(duplicates) > 0 {
		w.log.Info("Skipping already written events", zap.Int("count", len(duplicates)))
		w.ackAll(ctx, duplicates)
	}

	return pending, claimed
}

// release drops claims for events that were not written so a redelivery can retry them
func (w *BatchWriter) release(ctx context.Context, eventIDs []string) {
	if w.dedup == nil || len(eventIDs) == 0 {
		return
	}
	if err := w.dedup.Release(ctx, eventIDs...); err != nil {
		w.log.Error("Failed to release idempotency claims",
			zap.Int("count", len(eventIDs)),
			zap.Error(err))
	}
}

// ackAll acknowledges all envelopes (deletes from SQS)
func (w *BatchWriter) ackAll(ctx context.Context, envelopes []*Envelope) {
	for _, env := range envelopes {
		if err := env.Ack(ctx); err != nil {
			w.log.Error("Failed to ack envelope",
				zap.String("message_id", env.MessageID),
				zap.Error(err))
		}
	}
}

// nackAll negatively acknowledges all envelopes (leaves in SQS for retry)
func (w *BatchWriter) nackAll(ctx context.Context, envelopes []*Envelope) {
	for _, env := range envelopes {
		if err := env.Nack(ctx); err != nil {
			w.log.Error("Failed to nack envelope",
				zap.String("message_id", env.MessageID),
				zap.Error(err))
		}
	}
}
