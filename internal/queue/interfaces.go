package queue

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/BarkinBalci/storefront-analytics/internal/domain"
)

// QueuePublisher defines the interface for handing a tracked event to the write path
type QueuePublisher interface {
	PublishEvent(ctx context.Context, event *domain.Event) error
}

// QueueConsumer defines the interface for consuming messages from a queue
type QueueConsumer interface {
	ReceiveMessages(ctx context.Context, input *sqs.ReceiveMessageInput) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, input *sqs.DeleteMessageInput) (*sqs.DeleteMessageOutput, error)
	ChangeMessageVisibility(ctx context.Context, input *sqs.ChangeMessageVisibilityInput) (*sqs.ChangeMessageVisibilityOutput, error)
	QueueURL() string
}
