package consumer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	"github.com/BarkinBalci/storefront-analytics/internal/config"
	"github.com/BarkinBalci/storefront-analytics/internal/queue"
	"github.com/BarkinBalci/storefront-analytics/internal/repository"
)

// Consumer orchestrates a pipeline of stages to process SQS messages
type Consumer struct {
	receiver    *Receiver
	parser      *ParserStage
	batchWriter *BatchWriter
	bufferSize  int
}

// NewConsumer creates a new consumer with a pipeline architecture. dedup may
// be nil when no idempotency store is configured.
func NewConsumer(cfg *config.Config, queueConsumer queue.QueueConsumer, repo repository.EventRepository, dedup Deduplicator, log *zap.Logger) (*Consumer, error) {
	eventParser, err := NewJSONEventParser()
	if err != nil {
		return nil, fmt.Errorf("failed to build event parser: %w", err)
	}

	receiver := NewReceiver(queueConsumer, ReceiverConfig{
		MaxMessages:     cfg.Consumer.ReceiveMaxMessages,
		WaitTimeSeconds: cfg.Consumer.ReceiveWaitSeconds,
		MaxBackoff:      cfg.Consumer.ReceiveBackoffMax,
	}, log)

	parser := NewParserStage(queueConsumer, eventParser, log)

	batchWriter := NewBatchWriter(repo, dedup, BatchWriterConfig{
		MaxBatchSize:    cfg.Consumer.BatchSizeMax,
		FlushTimeout:    time.Duration(cfg.Consumer.BatchTimeoutSec) * time.Second,
		ShutdownTimeout: cfg.Consumer.ShutdownFlushTimeout,
		FailOpen:        cfg.Valkey.IdempotencyFailOpen,
	}, log)

	return &Consumer{
		receiver:    receiver,
		parser:      parser,
		batchWriter: batchWriter,
		bufferSize:  max(cfg.Consumer.BufferSize, 0),
	}, nil
}

// Start runs the pipeline until ctx is cancelled and every stage has drained
func (c *Consumer) Start(ctx context.Context) error {
	messageChan := make(chan types.Message, c.bufferSize)
	envelopeChan := make(chan *Envelope, c.bufferSize)

	var wg sync.WaitGroup
	wg.Add(3)

	// Stage 1: Receive messages from SQS
	go func() {
		defer wg.Done()
		c.receiver.Start(ctx, messageChan)
	}()

	// Stage 2: Parse messages into envelopes
	go func() {
		defer wg.Done()
		c.parser.Start(ctx, messageChan, envelopeChan)
	}()

	// Stage 3: Batch and write to the repository
	go func() {
		defer wg.Done()
		c.batchWriter.Start(ctx, envelopeChan)
	}()

	wg.Wait()
	return nil
}
