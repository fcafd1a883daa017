// Package telegram contains Telegram delivery handlers
package telegram

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/consts"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/deps"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/dto"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/entities"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/usecase/business"
)

// Constants for Telegram API
const (
	RequestTimeout = 30 * time.Second
	UploadTimeout  = 5 * time.Minute
)

// Handlers contains Telegram command handlers
// Implements deps.Messenger interface
type Handlers struct {
	uc     *business.UseCase
	bot    *tgbot.Bot
	logger zerolog.Logger
}

var _ deps.Messenger = (*Handlers)(nil)

// NewHandlers creates new Telegram handlers
func NewHandlers(uc *business.UseCase, bot *tgbot.Bot, logger zerolog.Logger) *Handlers {
	return &Handlers{
		uc:     uc,
		bot:    bot,
		logger: logger,
	}
}

// SendMessage implements deps.Messenger interface
func (h *Handlers) SendMessage(ctx context.Context, chatID int64, text string, keyboard *entities.Keyboard) (int, error) {
	if text == "" {
		h.logger.Warn().Int64("chat_id", chatID).Msg("Attempt to send empty message")
		return 0, fmt.Errorf("message text cannot be empty")
	}

	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	params := &tgbot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if keyboard != nil {
		params.ReplyMarkup = toInlineKeyboard(keyboard)
	}

	msg, err := h.bot.SendMessage(msgCtx, params)
	if err != nil {
		handledErr := h.handleSendMessageError(chatID, err)
		h.logMessageSend(chatID, len(text), false, handledErr)
		return 0, handledErr
	}

	h.logMessageSend(chatID, len(text), true, nil)
	return msg.ID, nil
}

// DeleteMessage implements deps.Messenger interface
func (h *Handlers) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := h.bot.DeleteMessage(msgCtx, &tgbot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: messageID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete message %d: %w", messageID, err)
	}

	h.logger.Debug().Int64("chat_id", chatID).Int("message_id", messageID).Msg("Message deleted")
	return nil
}

// SendVideo implements deps.Messenger interface
func (h *Handlers) SendVideo(ctx context.Context, chatID int64, file *entities.MediaFile) error {
	f, err := os.Open(file.Path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", file.Path, err)
	}
	defer f.Close()

	uploadCtx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	_, err = h.bot.SendVideo(uploadCtx, &tgbot.SendVideoParams{
		ChatID:            chatID,
		Video:             &models.InputFileUpload{Filename: file.UploadName, Data: f},
		Caption:           business.EscapeHTML(file.Title),
		ParseMode:         models.ParseModeHTML,
		Duration:          int(file.Duration.Seconds()),
		SupportsStreaming: true,
	})
	if err != nil {
		return h.handleSendMessageError(chatID, err)
	}

	h.logMediaSend(chatID, file)
	return nil
}

// SendAudio implements deps.Messenger interface
func (h *Handlers) SendAudio(ctx context.Context, chatID int64, file *entities.MediaFile) error {
	f, err := os.Open(file.Path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", file.Path, err)
	}
	defer f.Close()

	uploadCtx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	_, err = h.bot.SendAudio(uploadCtx, &tgbot.SendAudioParams{
		ChatID:    chatID,
		Audio:     &models.InputFileUpload{Filename: file.UploadName, Data: f},
		Title:     file.Title,
		Performer: file.Author,
		Duration:  int(file.Duration.Seconds()),
	})
	if err != nil {
		return h.handleSendMessageError(chatID, err)
	}

	h.logMediaSend(chatID, file)
	return nil
}

// SendSticker implements deps.Messenger interface
func (h *Handlers) SendSticker(ctx context.Context, chatID int64, stickerID string) error {
	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := h.bot.SendSticker(msgCtx, &tgbot.SendStickerParams{
		ChatID:  chatID,
		Sticker: &models.InputFileString{Data: stickerID},
	})
	if err != nil {
		return h.handleSendMessageError(chatID, err)
	}
	return nil
}

// AnswerCallback implements deps.Messenger interface
func (h *Handlers) AnswerCallback(ctx context.Context, callbackID string, text string) error {
	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := h.bot.AnswerCallbackQuery(msgCtx, &tgbot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	if err != nil {
		return fmt.Errorf("failed to answer callback: %w", err)
	}
	return nil
}

// HandleStart handles /start command
func (h *Handlers) HandleStart(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	h.logCommand(chatID, consts.CommandStart, "processing")

	req := &dto.StartCommandRequest{ChatID: chatID}
	if update.Message.From != nil {
		req.Username = update.Message.From.Username
		if req.Username == "" {
			req.Username = update.Message.From.FirstName
		}
	}

	if err := h.uc.HandleStart(ctx, req); err != nil {
		h.logError(chatID, consts.CommandStart, err)
		return
	}

	h.logCommand(chatID, consts.CommandStart, "success")
}

// HandleHelp handles /help command
func (h *Handlers) HandleHelp(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	h.logCommand(chatID, consts.CommandHelp, "processing")

	resp := h.uc.HandleHelp(ctx)
	h.sendResponse(ctx, chatID, resp.Message)

	h.logCommand(chatID, consts.CommandHelp, "success")
}

// HandleStats handles /stats command
func (h *Handlers) HandleStats(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	h.logCommand(chatID, consts.CommandStats, "processing")

	if err := h.uc.HandleStats(ctx, chatID); err != nil {
		h.logError(chatID, consts.CommandStats, err)
		return
	}

	h.logCommand(chatID, consts.CommandStats, "success")
}

func (h *Handlers) sendResponse(ctx context.Context, chatID int64, text string) {
	if _, err := h.SendMessage(ctx, chatID, text, nil); err != nil {
		h.logger.Error().Int64("chat_id", chatID).Err(err).Msg("Failed to send Telegram response")
	}
}

func toInlineKeyboard(keyboard *entities.Keyboard) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(keyboard.Rows))
	for _, row := range keyboard.Rows {
		buttons := make([]models.InlineKeyboardButton, 0, len(row))
		for _, button := range row {
			buttons = append(buttons, models.InlineKeyboardButton{
				Text:         button.Text,
				CallbackData: button.CallbackData,
			})
		}
		rows = append(rows, buttons)
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// handleSendMessageError classifies Telegram API errors
func (h *Handlers) handleSendMessageError(chatID int64, err error) error {
	errorMsg := err.Error()

	switch {
	case strings.Contains(errorMsg, "Forbidden"):
		h.logger.Warn().Int64("chat_id", chatID).Msg("User blocked the bot or chat not found")
		return fmt.Errorf("user blocked the bot or chat not found: %w", err)

	case strings.Contains(errorMsg, "Bad Request: chat not found"):
		h.logger.Warn().Int64("chat_id", chatID).Msg("Chat not found")
		return fmt.Errorf("chat not found: %w", err)

	case strings.Contains(errorMsg, "Request Entity Too Large"):
		h.logger.Warn().Int64("chat_id", chatID).Msg("Upload rejected by Telegram size limit")
		return fmt.Errorf("file too large for Telegram: %w", err)

	case strings.Contains(errorMsg, "Too Many Requests"):
		h.logger.Warn().Int64("chat_id", chatID).Msg("Rate limit exceeded")
		return fmt.Errorf("rate limit exceeded, please try again later: %w", err)

	case strings.Contains(errorMsg, "network error"), strings.Contains(errorMsg, "timeout"):
		h.logger.Warn().Int64("chat_id", chatID).Msg("Network error while sending message")
		return fmt.Errorf("network error, please try again: %w", err)

	default:
		h.logger.Error().Int64("chat_id", chatID).Err(err).Msg("Unknown error while sending message")
		return fmt.Errorf("failed to send message: %w", err)
	}
}

// logMessageSend logs message send result
func (h *Handlers) logMessageSend(chatID int64, length int, success bool, err error) {
	logEvent := h.logger.Debug()
	if !success {
		logEvent = h.logger.Error()
	}

	logEvent.Int64("chat_id", chatID).Int("message_length", length).Bool("success", success)

	if err != nil {
		logEvent.Err(err)
	}

	logEvent.Msg("Message send attempt completed")
}

func (h *Handlers) logMediaSend(chatID int64, file *entities.MediaFile) {
	h.logger.Info().
		Int64("chat_id", chatID).
		Str("mode", string(file.Mode)).
		Int64("bytes", file.Bytes).
		Str("filename", file.UploadName).
		Msg("Media uploaded")
}

// logCommand logs command processing
func (h *Handlers) logCommand(chatID int64, command, result string) {
	h.logger.Info().Int64("chat_id", chatID).Str("command", command).Str("result", result).Msg("Telegram command processed")
}

// logError logs command errors
func (h *Handlers) logError(chatID int64, command string, err error) {
	h.logger.Error().Int64("chat_id", chatID).Str("command", command).Err(err).Msg("Telegram command failed")
}
