package config

import (
	"github.com/funnytourism/tourprice/internal/types"
)

// EventConfig holds configuration for ledger event publishing
type EventConfig struct {
	PublishDestination types.PublishDestination `mapstructure:"publish_destination" validate:"required,oneof=memory kafka"`
	// Topic used when publishing to the in-memory bus or when kafka.topic is empty
	Topic string `mapstructure:"topic"`
}

// GetEventTopic returns the topic ledger events are published to
func (c *Configuration) GetEventTopic() string {
	if c.Event.PublishDestination == types.PublishToKafka && c.Kafka.Topic != "" {
		return c.Kafka.Topic
	}
	if c.Event.Topic != "" {
		return c.Event.Topic
	}
	return "commission-events"
}
