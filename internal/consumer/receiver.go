package consumer

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	"github.com/BarkinBalci/storefront-analytics/internal/queue"
)

// SQS accepts between 1 and 10 messages per receive call
const maxReceiveBatch = 10

// ReceiverConfig configures the queue poller
type ReceiverConfig struct {
	MaxMessages     int32
	WaitTimeSeconds int32
	// MinBackoff and MaxBackoff bound the pause after failed receives. The
	// pause doubles per consecutive failure.
	MinBackoff time.Duration
	MaxBackoff time.Duration
}

// Receiver long-polls the queue and forwards raw messages downstream
type Receiver struct {
	consumer queue.QueueConsumer
	config   ReceiverConfig
	log      *zap.Logger
}

// NewReceiver creates a receiver, filling in defaults for unset limits
func NewReceiver(consumer queue.QueueConsumer, config ReceiverConfig, log *zap.Logger) *Receiver {
	if config.MaxMessages <= 0 || config.MaxMessages > maxReceiveBatch {
		config.MaxMessages = maxReceiveBatch
	}
	if config.MinBackoff <= 0 {
		config.MinBackoff = 500 * time.Millisecond
	}
	if config.MaxBackoff < config.MinBackoff {
		config.MaxBackoff = config.MinBackoff
	}
	return &Receiver{
		consumer: consumer,
		config:   config,
		log:      log,
	}
}

// Start polls until ctx is cancelled, then closes out
func (r *Receiver) Start(ctx context.Context, out chan<- types.Message) {
	defer close(out)

	failures := 0
	for ctx.Err() == nil {
		messages, err := r.receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			failures++
			wait := r.backoff(failures)
			r.log.Error("Error receiving messages from SQS",
				zap.Int("consecutive_failures", failures),
				zap.Duration("retry_in", wait),
				zap.Error(err))
			if !sleepCtx(ctx, wait) {
				break
			}
			continue
		}
		failures = 0

		if len(messages) == 0 {
			continue
		}
		r.log.Debug("Received messages from SQS", zap.Int("message_count", len(messages)))

		for _, msg := range messages {
			select {
			case <-ctx.Done():
				r.log.Info("Receiver stopped with undelivered messages; they return after the visibility timeout")
				return
			case out <- msg:
			}
		}
	}

	r.log.Info("Receiver shutting down")
}

func (r *Receiver) receive(ctx context.Context) ([]types.Message, error) {
	result, err := r.consumer.ReceiveMessages(ctx, &awssqs.ReceiveMessageInput{
		QueueUrl:              aws.String(r.consumer.QueueURL()),
		MaxNumberOfMessages:   r.config.MaxMessages,
		WaitTimeSeconds:       r.config.WaitTimeSeconds,
		MessageAttributeNames: []string{"All"},
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}
	return result.Messages, nil
}

// backoff returns the pause after the given number of consecutive failures
func (r *Receiver) backoff(failures int) time.Duration {
	wait := r.config.MinBackoff
	for i := 1; i < failures && wait < r.config.MaxBackoff; i++ {
		wait *= 2
	}
	return min(wait, r.config.MaxBackoff)
}

// sleepCtx waits for d and reports false if ctx ended first
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
