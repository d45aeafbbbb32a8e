package sqs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	envConfig "github.com/BarkinBalci/storefront-analytics/internal/config"
	"github.com/BarkinBalci/storefront-analytics/internal/domain"
	"github.com/BarkinBalci/storefront-analytics/internal/queue"
)

var (
	_ queue.QueuePublisher = (*Client)(nil)
	_ queue.QueueConsumer  = (*Client)(nil)
)

// Client represents an SQS client
type Client struct {
	client *sqs.Client
	config envConfig.SQS
	log    *zap.Logger
}

// NewClient creates a new SQS client
func NewClient(ctx context.Context, sqsConfig envConfig.SQS, log *zap.Logger) (*Client, error) {
	configOpts := []func(*config.LoadOptions) error{
		config.WithRegion(sqsConfig.Region),
	}

	var clientOpts []func(*sqs.Options)

	// Configure for local development with ElasticMQ
	if sqsConfig.Endpoint != "" {
		log.Info("Configuring SQS for local development",
			zap.String("endpoint", sqsConfig.Endpoint))
		configOpts = append(configOpts,
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("dummy", "dummy", "")))

		clientOpts = append(clientOpts, func(o *sqs.Options) {
			o.BaseEndpoint = aws.String(sqsConfig.Endpoint)
		})
	}

	cfg, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	sqsClient := sqs.NewFromConfig(cfg, clientOpts...)

	log.Info("SQS client created",
		zap.String("region", sqsConfig.Region),
		zap.String("queue_url", sqsConfig.QueueURL))

	return &Client{
		client: sqsClient,
		config: sqsConfig,
		log:    log,
	}, nil
}

// ReceiveMessages receives messages from SQS
func (c *Client) ReceiveMessages(ctx context.Context, input *sqs.ReceiveMessageInput) (*sqs.ReceiveMessageOutput, error) {
	return c.client.ReceiveMessage(ctx, input)
}

// DeleteMessage deletes a message from SQS
func (c *Client) DeleteMessage(ctx context.Context, input *sqs.DeleteMessageInput) (*sqs.DeleteMessageOutput, error) {
	return c.client.DeleteMessage(ctx, input)
}

// ChangeMessageVisibility changes how long a received message stays hidden
func (c *Client) ChangeMessageVisibility(ctx context.Context, input *sqs.ChangeMessageVisibilityInput) (*sqs.ChangeMessageVisibilityOutput, error) {
	return c.client.ChangeMessageVisibility(ctx, input)
}

// QueueURL returns the configured queue URL
func (c *Client) QueueURL() string {
	return c.config.QueueURL
}

// PublishEvent publishes an event to SQS
func (c *Client) PublishEvent(ctx context.Context, event *domain.Event) error {
	input, err := c.sendInput(event)
	if err != nil {
		c.log.Error("Failed to marshal event",
			zap.String("event_id", event.EventID),
			zap.String("type", string(event.Type)),
			zap.Error(err))
		return err
	}

	if _, err := c.client.SendMessage(ctx, input); err != nil {
		c.log.Error("Failed to send message to SQS",
			zap.String("event_id", event.EventID),
			zap.String("type", string(event.Type)),
			zap.Error(err))
		return fmt.Errorf("failed to send message to SQS: %w", err)
	}

	c.log.Debug("Event published to SQS",
		zap.String("event_id", event.EventID),
		zap.String("type", string(event.Type)))

	return nil
}

// sendInput builds the SendMessage request for an event
func (c *Client) sendInput(event *domain.Event) (*sqs.SendMessageInput, error) {
	bodyJSON, err := json.Marshal(queue.NewEventMessage(event))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	return &sqs.SendMessageInput{
		QueueUrl:    aws.String(c.config.QueueURL),
		MessageBody: aws.String(string(bodyJSON)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"EventType": {
				DataType:    aws.String("String"),
				StringValue: aws.String(string(event.Type)),
			},
			"EventID": {
				DataType:    aws.String("String"),
				StringValue: aws.String(event.EventID),
			},
		},
	}, nil
}
