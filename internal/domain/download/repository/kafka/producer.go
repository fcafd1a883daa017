// Package kafka contains Kafka repository implementations
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"github.com/Agshin2004/yt-video-downloader-bot/config"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/deps"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/dto"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/entities"
)

// Producer implements deps.EventPublisher
type Producer struct {
	producer    sarama.SyncProducer
	topicDone   string
	topicFailed string
	logger      zerolog.Logger
}

// NewProducer creates a new Kafka producer that implements deps.EventPublisher
func NewProducer(cfg *config.KafkaConfig, logger zerolog.Logger) (*Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Compression = sarama.CompressionSnappy

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Info().Strs("brokers", cfg.Brokers).Msg("Kafka producer initialized successfully")

	return newProducer(producer, cfg, logger), nil
}

func newProducer(producer sarama.SyncProducer, cfg *config.KafkaConfig, logger zerolog.Logger) *Producer {
	return &Producer{
		producer:    producer,
		topicDone:   cfg.TopicDownloadEvents,
		topicFailed: cfg.TopicDownloadFailed,
		logger:      logger,
	}
}

var _ deps.EventPublisher = (*Producer)(nil)

// PublishDownloadFinished sends the outcome of a pipeline run, keyed by chat ID
func (p *Producer) PublishDownloadFinished(ctx context.Context, record *entities.DownloadRecord) error {
	topic := p.topicDone
	if record.State != string(entities.StateDone) {
		topic = p.topicFailed
	}

	event := dto.DownloadFinishedEvent{
		ID:         record.ID,
		ChatID:     record.ChatID,
		VideoID:    record.VideoID,
		Mode:       record.Mode,
		State:      record.State,
		Bytes:      record.Bytes,
		SizeMB:     record.SizeMB,
		Error:      record.Error,
		StartedAt:  record.StartedAt,
		FinishedAt: record.FinishedAt,
	}
	return p.sendEvent(ctx, topic, strconv.FormatInt(record.ChatID, 10), event)
}

// sendEvent sends an event to specified Kafka topic
func (p *Producer) sendEvent(_ context.Context, topic, key string, event interface{}) error {
	jsonData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event to JSON: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(jsonData),
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		p.logger.Error().Err(err).Str("topic", topic).Msg("Failed to send Kafka message")
		return err
	}

	p.logger.Debug().
		Str("topic", topic).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("Kafka message sent successfully")

	return nil
}

// IsHealthy reports whether the producer is open
func (p *Producer) IsHealthy() bool {
	return p.producer != nil
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
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

// NoopPublisher drops events when Kafka is not configured
type NoopPublisher struct{}

// PublishDownloadFinished does nothing
func (NoopPublisher) PublishDownloadFinished(context.Context, *entities.DownloadRecord) error {
	return nil
}

// Close does nothing
func (NoopPublisher) Close() error { return nil }
