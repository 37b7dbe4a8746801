package publisher

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/funnytourism/tourprice/internal/config"
	ierr "github.com/funnytourism/tourprice/internal/errors"
	"github.com/funnytourism/tourprice/internal/logger"
	"github.com/funnytourism/tourprice/internal/pubsub"
	"github.com/funnytourism/tourprice/internal/pubsub/kafka"
	"github.com/funnytourism/tourprice/internal/pubsub/memory"
	"github.com/funnytourism/tourprice/internal/types"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// EventPublisher publishes ledger events to the configured destination
type EventPublisher interface {
	Publish(ctx context.Context, event *LedgerEvent) error
}

type eventPublisher struct {
	pubsub pubsub.Publisher
	topic  string
	logger *logger.Logger
}

// NewEventPublisher creates the publisher for the configured destination
func NewEventPublisher(cfg *config.Configuration, logger *logger.Logger) (EventPublisher, error) {
	var ps pubsub.Publisher
	switch cfg.Event.PublishDestination {
	case types.PublishToKafka:
		kafkaPublisher, err := kafka.NewPublisher(cfg, logger)
		if err != nil {
			return nil, err
		}
		ps = kafkaPublisher
	case types.PublishToMemory, "":
		ps = memory.NewPubSub(cfg, logger)
	default:
		return nil, ierr.NewErrorf("unknown publish destination: %s", cfg.Event.PublishDestination).
			Mark(ierr.ErrValidation)
	}

	return NewPublisher(ps, cfg.GetEventTopic(), logger), nil
}

// NewPublisher wraps an already configured pubsub publisher
func NewPublisher(ps pubsub.Publisher, topic string, logger *logger.Logger) EventPublisher {
	return &eventPublisher{
		pubsub: ps,
		topic:  topic,
		logger: logger,
	}
}

func (p *eventPublisher) Publish(ctx context.Context, event *LedgerEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return ierr.WithError(err).
			WithMessage("failed to marshal ledger event").
			Mark(ierr.ErrSystem)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("event_name", event.EventName)
	msg.Metadata.Set("ledger_id", event.LedgerID)
	msg.Metadata.Set(kafka.PartitionKeyMetadata, event.LedgerID)

	p.logger.Debugw("publishing ledger event",
		"event_id", event.ID,
		"event_name", event.EventName,
		"ledger_id", event.LedgerID,
		"topic", p.topic,
	)

	if err := p.pubsub.Publish(ctx, p.topic, msg); err != nil {
		return ierr.WithError(err).
			WithMessage("failed to publish ledger event").
			WithReportableDetails(map[string]any{
				"event_name": event.EventName,
				"ledger_id":  event.LedgerID,
			}).
			Mark(ierr.ErrSystem)
	}
	return nil
}
