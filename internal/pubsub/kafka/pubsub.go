package kafka

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	wkafka "github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/funnytourism/tourprice/internal/config"
	ierr "github.com/funnytourism/tourprice/internal/errors"
	"github.com/funnytourism/tourprice/internal/logger"
	"github.com/funnytourism/tourprice/internal/pubsub"
)

// PartitionKeyMetadata is the message metadata used as the kafka partition key
const PartitionKeyMetadata = "partition_key"

// Publisher publishes messages to kafka through watermill
type Publisher struct {
	publisher message.Publisher
	logger    *logger.Logger
}

// NewPublisher creates a kafka publisher. Messages sharing a partition key
// keep their relative order.
func NewPublisher(cfg *config.Configuration, logger *logger.Logger) (pubsub.Publisher, error) {
	publisher, err := wkafka.NewPublisher(
		wkafka.PublisherConfig{
			Brokers: cfg.Kafka.Brokers,
			Marshaler: wkafka.NewWithPartitioningMarshaler(func(topic string, msg *message.Message) (string, error) {
				return msg.Metadata.Get(PartitionKeyMetadata), nil
			}),
			OverwriteSaramaConfig: GetSaramaConfig(cfg),
		},
		watermill.NewStdLogger(false, false),
	)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Could not connect to kafka").
			Mark(ierr.ErrSystem)
	}

	logger.Infow("kafka publisher ready", "brokers", cfg.Kafka.Brokers)
	return &Publisher{publisher: publisher, logger: logger}, nil
}

// Publish publishes a message to topic
func (p *Publisher) Publish(ctx context.Context, topic string, msg *message.Message) error {
	msg.SetContext(ctx)
	return p.publisher.Publish(topic, msg)
}

// Close flushes and closes the underlying producer
func (p *Publisher) Close() error {
	return p.publisher.Close()
}
