package sns

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/dat-archive/internal/config"
	"github.com/dat-archive/internal/infrastructure/awscfg"
)

// API is the subset of the SNS client used by Publisher.
type API interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Publisher sends JSON events to a single SNS topic.
type Publisher struct {
	client   API
	topicARN string
}

func NewClient(ctx context.Context, cfg *config.Config) (*sns.Client, error) {
	awsCfg, err := awscfg.Load(ctx, cfg)
	if err != nil {
		return nil, err
	}
	var opts []func(*sns.Options)
	if cfg.AWSEndpointURL != "" {
		opts = append(opts, func(o *sns.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
		})
	}
	return sns.NewFromConfig(awsCfg, opts...), nil
}

func NewPublisher(client API, topicARN string) *Publisher {
	return &Publisher{client: client, topicARN: topicARN}
}

// Publish marshals payload and publishes it with subject and an event_type attribute.
func (p *Publisher) Publish(ctx context.Context, eventType, subject string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", eventType, err)
	}
	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_type": {DataType: aws.String("String"), StringValue: aws.String(eventType)},
		},
	})
	if err != nil {
		return fmt.Errorf("sns publish: %w", err)
	}
	return nil
}
