// Package workers contains background workers for the download domain
package workers

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/Agshin2004/yt-video-downloader-bot/config"
	kafkaHandlers "github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/delivery/kafka"
)

// RequestConsumer consumes download request events from Kafka
type RequestConsumer struct {
	reader   *kafka.Reader
	handlers *kafkaHandlers.Handlers
	logger   zerolog.Logger
	done     chan struct{}
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewRequestConsumer creates new Kafka consumer for download requests.
// It returns nil when Kafka is not configured.
func NewRequestConsumer(cfg *config.KafkaConfig, handlers *kafkaHandlers.Handlers, logger zerolog.Logger) *RequestConsumer {
	if !cfg.Enabled() || cfg.TopicDownloadRequests == "" {
		logger.Info().Msg("Kafka request consumer disabled")
		return nil
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.GroupID,
		Topic:    cfg.TopicDownloadRequests,
		MinBytes: 1,    // 1 byte - return immediately when message available
		MaxBytes: 10e6, // 10MB
	})

	logger.Info().
		Strs("brokers", cfg.Brokers).
		Str("group_id", cfg.GroupID).
		Str("topic", cfg.TopicDownloadRequests).
		Msg("Kafka request consumer initialized")

	ctx, cancel := context.WithCancel(context.Background())

	return &RequestConsumer{
		reader:   reader,
		handlers: handlers,
		logger:   logger,
		done:     make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start starts consuming messages from Kafka
func (c *RequestConsumer) Start() {
	c.logger.Info().Msg("Starting Kafka request consumer...")

	go func() {
		for {
			select {
			case <-c.done:
				c.logger.Info().Msg("Kafka request consumer stopped by done signal")
				return
			case <-c.ctx.Done():
				c.logger.Info().Msg("Kafka request consumer stopped by context cancellation")
				return
			default:
				msg, err := c.reader.ReadMessage(c.ctx)
				if err != nil {
					if c.ctx.Err() != nil {
						return
					}
					c.logger.Error().Err(err).Msg("Failed to read message from Kafka")
					continue
				}

				c.logger.Debug().
					Str("topic", msg.Topic).
					Int("partition", msg.Partition).
					Int64("offset", msg.Offset).
					Msg("Received message from Kafka")

				// a rejected request is not retried, the chat has its answer already
				if err := c.handlers.HandleDownloadRequested(c.ctx, msg.Value); err != nil {
					c.logger.Warn().Err(err).Int64("offset", msg.Offset).Msg("Download request not served")
				}
			}
		}
	}()
}

// Stop stops the consumer gracefully
func (c *RequestConsumer) Stop() error {
	c.logger.Info().Msg("Stopping Kafka request consumer...")
	c.cancel()
	close(c.done)

	if err := c.reader.Close(); err != nil {
		c.logger.Error().Err(err).Msg("Failed to close Kafka reader")
		return err
	}

	c.logger.Info().Msg("Kafka request consumer stopped successfully")
	return nil
}
