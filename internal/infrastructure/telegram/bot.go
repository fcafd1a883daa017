// Package telegram contains Telegram bot infrastructure
package telegram

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
)

const (
	pollTimeout = time.Minute
	// httpTimeout covers the slowest call, a full size upload
	httpTimeout = 6 * time.Minute
)

// Bot wraps the Telegram bot for infrastructure layer
type Bot struct {
	bot    *tgbot.Bot
	logger zerolog.Logger

	mu      sync.RWMutex
	onError func(error)
}

// NewBot creates a new Telegram bot wrapper
func NewBot(token string, logger zerolog.Logger) (*Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token is required")
	}

	b := &Bot{logger: logger}

	opts := []tgbot.Option{
		tgbot.WithDefaultHandler(b.defaultHandler),
		tgbot.WithErrorsHandler(b.handleError),
		tgbot.WithHTTPClient(pollTimeout, &http.Client{Timeout: httpTimeout}),
	}

	bot, err := tgbot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	b.bot = bot

	logger.Info().Msg("Telegram bot created successfully")

	return b, nil
}

// Raw returns the underlying telegram bot for handler registration
func (b *Bot) Raw() *tgbot.Bot {
	return b.bot
}

// OnError routes polling errors to fn
func (b *Bot) OnError(fn func(error)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onError = fn
}

// Start starts the bot (blocking call)
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info().Msg("Starting Telegram bot...")
	b.bot.Start(ctx)
	b.logger.Info().Msg("Telegram bot stopped")
	return nil
}

// Stop stops the bot
func (b *Bot) Stop() error {
	b.logger.Info().Msg("Stopping Telegram bot...")
	return nil
}

func (b *Bot) handleError(err error) {
	b.mu.RLock()
	fn := b.onError
	b.mu.RUnlock()

	if fn != nil {
		fn(err)
		return
	}
	b.logger.Error().Err(err).Msg("Telegram polling error")
}

// defaultHandler receives updates no route matched, like photos or stickers
func (b *Bot) defaultHandler(_ context.Context, _ *tgbot.Bot, update *models.Update) {
	b.logger.Debug().Int64("update_id", update.ID).Msg("Ignoring update")
}
