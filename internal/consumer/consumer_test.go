package consumer

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BarkinBalci/storefront-analytics/internal/config"
	"github.com/BarkinBalci/storefront-analytics/internal/domain"
	"github.com/BarkinBalci/storefront-analytics/internal/queue"
	"github.com/BarkinBalci/storefront-analytics/internal/repository/memory"
)

func consumerConfig() *config.Config {
	return &config.Config{
		Consumer: config.Consumer{
			BatchSizeMax:         2,
			BatchTimeoutSec:      1,
			BufferSize:           4,
			ReceiveMaxMessages:   5,
			ReceiveWaitSeconds:   1,
			ShutdownFlushTimeout: time.Second,
		},
	}
}

func queuedMessage(t *testing.T, id string, event *domain.Event) types.Message {
	t.Helper()
	body, err := json.Marshal(queue.NewEventMessage(event))
	require.NoError(t, err)
	return types.Message{
		MessageId:     aws.String(id),
		ReceiptHandle: aws.String("receipt-" + id),
		Body:          aws.String(string(body)),
	}
}

func TestConsumer_Start_StoresQueuedEvents(t *testing.T) {
	mockQueue := new(MockQueueConsumer)
	repo := memory.NewRepository(zap.NewNop())

	messages := []types.Message{
		queuedMessage(t, "msg-1", &domain.Event{
			EventID: "e1", Type: domain.EventSearch, SessionID: "s1", SearchQuery: "arduino",
			UserAgent: "Mozilla/5.0", IPAddress: "203.0.113.5", CreatedAt: testCreatedAt,
		}),
		queuedMessage(t, "msg-2", &domain.Event{
			EventID: "e2", Type: domain.EventPageView, SessionID: "s1", Page: "/",
			UserAgent: "Mozilla/5.0", IPAddress: "203.0.113.5", CreatedAt: testCreatedAt,
		}),
		{MessageId: aws.String("msg-3"), ReceiptHandle: aws.String("receipt-msg-3"), Body: aws.String(`{"event_id":"e3"}`)},
	}

	mockQueue.On("QueueURL").Return("https://sqs.eu-central-1.amazonaws.com/123/test-queue")
	mockQueue.On("ReceiveMessages", mock.Anything, mock.MatchedBy(func(in *sqs.ReceiveMessageInput) bool {
		return in.MaxNumberOfMessages == 5 && in.WaitTimeSeconds == 1
	})).Return(&sqs.ReceiveMessageOutput{Messages: messages}, nil).Once()
	mockQueue.On("ReceiveMessages", mock.Anything, mock.Anything).
		Return(&sqs.ReceiveMessageOutput{}, nil).Maybe()
	var deleted atomic.Int32
	mockQueue.On("DeleteMessage", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { deleted.Add(1) }).
		Return(&sqs.DeleteMessageOutput{}, nil)

	c, err := NewConsumer(consumerConfig(), mockQueue, repo, nil, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx) }()

	// two stored events acked, one schema violation deleted
	assert.Eventually(t, func() bool { return repo.Len() == 2 && deleted.Load() == 3 },
		time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop after cancellation")
	}
}

func TestConsumer_NewConsumer_UsesConfiguredLimits(t *testing.T) {
	cfg := consumerConfig()
	cfg.Consumer.ReceiveMaxMessages = 50
	cfg.Consumer.ReceiveBackoffMax = 5 * time.Second
	cfg.Valkey.IdempotencyFailOpen = true

	c, err := NewConsumer(cfg, new(MockQueueConsumer), new(MockEventRepository), nil, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 4, c.bufferSize)
	assert.Equal(t, int32(maxReceiveBatch), c.receiver.config.MaxMessages)
	assert.Equal(t, 5*time.Second, c.receiver.config.MaxBackoff)
	assert.Equal(t, 2, c.batchWriter.config.MaxBatchSize)
	assert.Equal(t, time.Second, c.batchWriter.config.ShutdownTimeout)
	assert.True(t, c.batchWriter.config.FailOpen)
}

func TestConsumer_Start_EmptyQueueStopsCleanly(t *testing.T) {
	mockQueue := new(MockQueueConsumer)
	mockRepo := new(MockEventRepository)

	mockQueue.On("QueueURL").Return("https://sqs.eu-central-1.amazonaws.com/123/test-queue")
	mockQueue.On("ReceiveMessages", mock.Anything, mock.Anything).
		Return(&sqs.ReceiveMessageOutput{}, nil).Maybe()

	c, err := NewConsumer(consumerConfig(), mockQueue, mockRepo, nil, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	assert.NoError(t, c.Start(ctx))
	mockRepo.AssertNotCalled(t, "InsertBatch", mock.Anything, mock.Anything)
}
