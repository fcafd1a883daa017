// Package business contains business logic for the download domain
package business

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Agshin2004/yt-video-downloader-bot/config"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/callback"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/consts"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/deps"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/dto"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/entities"
	downloaderrors "github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/errors"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/linkparser"
)

// bookkeepingTimeout bounds history and event writes after a pipeline ends
const bookkeepingTimeout = 5 * time.Second

// Settings holds the limits the use case enforces
type Settings struct {
	MaxFileSizeMB   int64
	DownloadTimeout time.Duration
	OwnerChatID     int64
	TempDir         string
}

// NewSettings builds Settings from configuration
func NewSettings(download *config.DownloadConfig, telegram *config.TelegramConfig) Settings {
	return Settings{
		MaxFileSizeMB:   download.MaxFileSizeMB,
		DownloadTimeout: download.Timeout,
		OwnerChatID:     telegram.OwnerChatID,
		TempDir:         download.TempDir,
	}
}

// UseCase contains business logic for download operations
type UseCase struct {
	host     deps.VideoHost
	store    deps.MediaStore
	history  deps.HistoryRepository
	events   deps.EventPublisher
	archive  deps.Archive
	probe    deps.SystemProbe
	metrics  deps.MetricsRecorder
	sender   deps.Messenger
	runner   *Runner
	settings Settings
	logger   zerolog.Logger

	now   func() time.Time
	newID func() string
}

// NewUseCase creates a new UseCase instance
// Note: sender is not passed here to break cyclic dependency
// Use SetSender after creating Telegram handlers
func NewUseCase(
	host deps.VideoHost,
	store deps.MediaStore,
	history deps.HistoryRepository,
	events deps.EventPublisher,
	archive deps.Archive,
	probe deps.SystemProbe,
	metrics deps.MetricsRecorder,
	runner *Runner,
	settings Settings,
	logger zerolog.Logger,
) *UseCase {
	return &UseCase{
		host:     host,
		store:    store,
		history:  history,
		events:   events,
		archive:  archive,
		probe:    probe,
		metrics:  metrics,
		runner:   runner,
		settings: settings,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// SetSender sets the Messenger after construction
// This is called by fx.Invoke to resolve cyclic dependency
func (uc *UseCase) SetSender(sender deps.Messenger) {
	uc.sender = sender
}

// HandleStart greets the user with a sticker and the welcome text
func (uc *UseCase) HandleStart(ctx context.Context, req *dto.StartCommandRequest) error {
	uc.logger.Info().
		Int64("chat_id", req.ChatID).
		Str("username", req.Username).
		Msg("User started bot")

	if err := uc.sender.SendSticker(ctx, req.ChatID, consts.StartSticker); err != nil {
		uc.logger.Warn().Err(err).Int64("chat_id", req.ChatID).Msg("Failed to send start sticker")
	}

	name := req.Username
	if name == "" {
		name = "friend"
	}
	_, err := uc.sender.SendMessage(ctx, req.ChatID, fmt.Sprintf(consts.MsgWelcome, EscapeHTML(name)), nil)
	return err
}

// HandleHelp returns the help text
func (uc *UseCase) HandleHelp(_ context.Context) *dto.CommandResponse {
	return &dto.CommandResponse{Message: consts.MsgHelp}
}

// HandleText extracts a link from a plain message and presents download options
func (uc *UseCase) HandleText(ctx context.Context, chatID int64, text string) error {
	videoID, ok := linkparser.ExtractVideoID(text)
	if !ok {
		uc.logger.Debug().Int64("chat_id", chatID).Msg("Message without YouTube link")
		if _, err := uc.sender.SendMessage(ctx, chatID, consts.MsgUnknownText, nil); err != nil {
			return err
		}
		return downloaderrors.ErrNoVideoLink
	}

	return uc.PresentOptions(ctx, chatID, videoID)
}

// HandleOption handles a pressed option button. The token is untrusted:
// it must decode and belong to the chat the button was pressed in.
// The pipeline runs in the background; HandleOption returns once it is scheduled.
func (uc *UseCase) HandleOption(ctx context.Context, chatID int64, callbackID string, optionsMessageID int, data string) error {
	req, err := decodeOption(data, chatID)
	if err != nil {
		uc.logger.Warn().Err(err).Int64("chat_id", chatID).Str("data", data).Msg("Rejected callback token")
		if aerr := uc.sender.AnswerCallback(ctx, callbackID, consts.MsgBadOption); aerr != nil {
			uc.logger.Warn().Err(aerr).Msg("Failed to answer callback")
		}
		return err
	}

	if err := uc.sender.AnswerCallback(ctx, callbackID, consts.MsgOptionAccepted); err != nil {
		uc.logger.Warn().Err(err).Msg("Failed to answer callback")
	}

	uc.StartDownload(req)

	if optionsMessageID != 0 {
		uc.deleteMessage(ctx, req.ChatID, optionsMessageID)
	}
	return nil
}

// HandleRemoteRequest serves a download request that did not come from the chat itself.
// Without a mode the options are presented, with a mode the admission check runs and
// the pipeline starts right away.
func (uc *UseCase) HandleRemoteRequest(ctx context.Context, event *dto.DownloadRequestedEvent) error {
	videoID, ok := linkparser.ExtractVideoID(event.URL)
	if !ok {
		if linkparser.IsVideoID(event.URL) {
			videoID = event.URL
		} else {
			return downloaderrors.ErrNoVideoLink
		}
	}

	if event.Mode == "" {
		return uc.PresentOptions(ctx, event.ChatID, videoID)
	}

	mode := entities.Mode(event.Mode)
	if !mode.Valid() {
		return downloaderrors.ErrUnknownMode
	}

	if _, err := uc.admit(ctx, event.ChatID, videoID); err != nil {
		return err
	}

	uc.StartDownload(entities.RequestContext{ChatID: event.ChatID, VideoID: videoID, Mode: mode})
	return nil
}

// StartDownload schedules the delivery pipeline for req
func (uc *UseCase) StartDownload(req entities.RequestContext) {
	uc.logger.Info().
		Int64("chat_id", req.ChatID).
		Str("video_id", req.VideoID).
		Str("mode", string(req.Mode)).
		Msg("Scheduling download")

	if !uc.runner.Go(func(ctx context.Context) {
		uc.RunPipeline(ctx, req)
	}) {
		uc.logger.Warn().Int64("chat_id", req.ChatID).Msg("Download dropped during shutdown")
	}
}

func decodeOption(data string, chatID int64) (entities.RequestContext, error) {
	req, err := callback.Decode(data)
	if err != nil {
		return entities.RequestContext{}, err
	}
	if chatID != 0 && req.ChatID != chatID {
		return entities.RequestContext{}, downloaderrors.ErrChatMismatch
	}
	return req, nil
}

// deleteMessage deletes a message, failures are logged and counted only
func (uc *UseCase) deleteMessage(ctx context.Context, chatID int64, messageID int) {
	if messageID == 0 {
		return
	}
	if err := uc.sender.DeleteMessage(ctx, chatID, messageID); err != nil {
		uc.metrics.RecordCleanupError("message")
		uc.logger.Warn().
			Err(err).
			Int64("chat_id", chatID).
			Int("message_id", messageID).
			Msg("Failed to delete message")
	}
}

// notify sends a plain status text, failures are logged only
func (uc *UseCase) notify(ctx context.Context, chatID int64, text string) int {
	id, err := uc.sender.SendMessage(ctx, chatID, text, nil)
	if err != nil {
		uc.logger.Error().Err(err).Int64("chat_id", chatID).Str("text", text).Msg("Failed to notify chat")
		return 0
	}
	return id
}
