// Package kafka contains Kafka client infrastructure
package kafka

import (
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"github.com/horrygame/tg-finding/config"
)

// NewProducerConfig returns the sarama configuration used for lookup events.
// Timeouts are short so a slow broker cannot hold a chat reply for long.
func NewProducerConfig() *sarama.Config {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Timeout = 5 * time.Second
	saramaConfig.Net.DialTimeout = 5 * time.Second
	saramaConfig.Net.WriteTimeout = 5 * time.Second
	saramaConfig.Net.ReadTimeout = 5 * time.Second
	return saramaConfig
}

// NewSyncProducer connects a sync producer to the configured brokers
func NewSyncProducer(cfg *config.KafkaConfig, logger zerolog.Logger) (sarama.SyncProducer, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("kafka brokers are not configured")
	}

	producer, err := sarama.NewSyncProducer(cfg.Brokers, NewProducerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Info().Strs("brokers", cfg.Brokers).Msg("Kafka producer initialized successfully")
	return producer, nil
}
