package aws

import (
	"context"
	"gsc/src/lib"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SNSPublisher fans notifications out to a topic so other services can
// subscribe queues or webhooks.
type SNSPublisher struct {
	TopicArn string
	inner    *sns.Client
}

func NewSNSPublisher(topicArn string) *SNSPublisher {
	if topicArn == "" {
		return nil
	}
	inner := lib.AWSGetSNSClient()
	if inner == nil {
		return nil
	}
	return &SNSPublisher{TopicArn: topicArn, inner: inner}
}

func (s *SNSPublisher) Name() string {
	return "sns"
}

func (s *SNSPublisher) Publish(ctx context.Context, channel string, event string, payload []byte) error {
	_, err := s.inner.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(s.TopicArn),
		Message:  aws.String(string(payload)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"channel": {DataType: aws.String("String"), StringValue: aws.String(channel)},
			"event":   {DataType: aws.String("String"), StringValue: aws.String(event)},
		},
	})
	return err
}
