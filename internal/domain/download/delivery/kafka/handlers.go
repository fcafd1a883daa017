// Package kafka contains Kafka delivery handlers
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/dto"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/usecase/business"
)

// requestHandler is the part of the use case serving remote requests
type requestHandler interface {
	HandleRemoteRequest(ctx context.Context, event *dto.DownloadRequestedEvent) error
}

// Handlers contains Kafka message handlers
type Handlers struct {
	uc     requestHandler
	logger zerolog.Logger
}

// NewHandlers creates new Kafka handlers
func NewHandlers(uc *business.UseCase, logger zerolog.Logger) *Handlers {
	return &Handlers{
		uc:     uc,
		logger: logger,
	}
}

// HandleDownloadRequested handles download request events from Kafka
func (h *Handlers) HandleDownloadRequested(ctx context.Context, data []byte) error {
	var event dto.DownloadRequestedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		h.logger.Error().Err(err).Str("data", string(data)).Msg("Failed to unmarshal download request event")
		return err
	}

	if event.ChatID == 0 || event.URL == "" {
		h.logger.Warn().Str("data", string(data)).Msg("Download request without chat or url")
		return fmt.Errorf("download request needs chat_id and url")
	}

	h.logger.Info().
		Int64("chat_id", event.ChatID).
		Str("url", event.URL).
		Str("mode", event.Mode).
		Msg("Processing download request event")

	if err := h.uc.HandleRemoteRequest(ctx, &event); err != nil {
		h.logger.Error().Err(err).Int64("chat_id", event.ChatID).Msg("Failed to handle download request")
		return err
	}

	return nil
}
