// Package kafka contains Kafka repository implementations
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"github.com/horrygame/tg-finding/internal/domain/lookup/deps"
	"github.com/horrygame/tg-finding/internal/domain/lookup/dto"
)

// Publisher implements deps.LookupEventPublisher over a sarama sync producer
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   zerolog.Logger
}

// NewPublisher creates a publisher writing lookup events to topic
func NewPublisher(producer sarama.SyncProducer, topic string, logger zerolog.Logger) deps.LookupEventPublisher {
	return &Publisher{
		producer: producer,
		topic:    topic,
		logger:   logger.With().Str("component", "lookup-publisher").Logger(),
	}
}

// PublishLookup sends a lookup event keyed by handle
func (p *Publisher) PublishLookup(ctx context.Context, event *dto.LookupEvent) error {
	jsonData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event to JSON: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.Handle),
		Value: sarama.ByteEncoder(jsonData),
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		p.logger.Error().Err(err).Str("topic", p.topic).Msg("Failed to send Kafka message")
		return fmt.Errorf("failed to publish lookup event: %w", err)
	}

	p.logger.Debug().
		Str("topic", p.topic).
		Int32("partition", partition).
		Int64("offset", offset).
		Str("event_id", event.EventID).
		Msg("Lookup event published")
	return nil
}

// Close closes the producer
func (p *Publisher) Close() error {
	if p.producer == nil {
		return nil
	}
	if err := p.producer.Close(); err != nil {
		p.logger.Error().Err(err).Msg("Failed to close Kafka producer")
		return err
	}
	p.logger.Info().Msg("Kafka producer closed successfully")
	return nil
}

// NopPublisher drops events; used when no brokers are configured
type NopPublisher struct{}

// NewNopPublisher creates a publisher that does nothing
func NewNopPublisher() deps.LookupEventPublisher {
	return NopPublisher{}
}

// PublishLookup does nothing
func (NopPublisher) PublishLookup(context.Context, *dto.LookupEvent) error {
	return nil
}

// Close does nothing
func (NopPublisher) Close() error {
	return nil
}
