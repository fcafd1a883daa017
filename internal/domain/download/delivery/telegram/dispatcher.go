package telegram

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/Agshin2004/yt-video-downloader-bot/config"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/consts"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/deps"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/usecase/business"
	pkgerrors "github.com/Agshin2004/yt-video-downloader-bot/pkg/errors"
)

// EventKind tags an inbound event
type EventKind string

const (
	EventText         EventKind = "text"
	EventCallback     EventKind = "callback"
	EventPollingError EventKind = "polling_error"
)

// limiterIdle is how long a chat limiter is kept without traffic
const limiterIdle = 10 * time.Minute

// Event is one inbound update reduced to what the bot reacts to
type Event struct {
	Kind EventKind

	ChatID    int64
	Text      string
	MessageID int

	CallbackID   string
	CallbackData string

	Err error
}

// EventFromUpdate converts a Telegram update. ok is false for updates the bot ignores.
func EventFromUpdate(update *models.Update) (Event, bool) {
	switch {
	case update == nil:
		return Event{}, false

	case update.CallbackQuery != nil:
		cq := update.CallbackQuery
		ev := Event{
			Kind:         EventCallback,
			CallbackID:   cq.ID,
			CallbackData: cq.Data,
		}
		if msg := cq.Message.Message; msg != nil {
			ev.ChatID = msg.Chat.ID
			ev.MessageID = msg.ID
		} else if cq.Message.InaccessibleMessage != nil {
			ev.ChatID = cq.Message.InaccessibleMessage.Chat.ID
		}
		return ev, true

	case update.Message != nil && update.Message.Text != "":
		return Event{
			Kind:      EventText,
			ChatID:    update.Message.Chat.ID,
			Text:      update.Message.Text,
			MessageID: update.Message.ID,
		}, true

	default:
		return Event{}, false
	}
}

// eventHandler is the part of the use case the dispatcher drives
type eventHandler interface {
	HandleText(ctx context.Context, chatID int64, text string) error
	HandleOption(ctx context.Context, chatID int64, callbackID string, optionsMessageID int, data string) error
}

// Dispatcher routes inbound events to the use case. Every event kind has
// exactly one handler, and a failing handler never stops the bot.
type Dispatcher struct {
	handler eventHandler
	sender  deps.Messenger
	metrics deps.MetricsRecorder
	logger  zerolog.Logger

	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[int64]*chatLimiter
	now      func() time.Time
}

type chatLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewDispatcher creates a dispatcher over the use case. Replies it sends on
// its own, like rate limit notices, go through handlers.
func NewDispatcher(
	uc *business.UseCase,
	handlers *Handlers,
	metrics deps.MetricsRecorder,
	cfg *config.TelegramConfig,
	logger zerolog.Logger,
) *Dispatcher {
	return newDispatcher(uc, handlers, metrics, cfg.RateLimit, cfg.RateBurst, logger)
}

func newDispatcher(
	handler eventHandler,
	sender deps.Messenger,
	metrics deps.MetricsRecorder,
	perMinute, burst int,
	logger zerolog.Logger,
) *Dispatcher {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(perMinute))
	}

	return &Dispatcher{
		handler:  handler,
		sender:   sender,
		metrics:  metrics,
		logger:   logger,
		limit:    limit,
		burst:    burst,
		limiters: make(map[int64]*chatLimiter),
		now:      time.Now,
	}
}

// Dispatch handles one event. It recovers from panics in the handler.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) {
	d.metrics.RecordEvent(string(ev.Kind))

	defer func() {
		if rec := recover(); rec != nil {
			d.logger.Error().
				Str("kind", string(ev.Kind)).
				Int64("chat_id", ev.ChatID).
				Str("panic", fmt.Sprint(rec)).
				Bytes("stack", debug.Stack()).
				Msg("Recovered from panic while handling event")
		}
	}()

	switch ev.Kind {
	case EventText:
		d.handleText(ctx, ev)
	case EventCallback:
		d.handleCallback(ctx, ev)
	case EventPollingError:
		d.logger.Error().Err(ev.Err).Msg("Telegram polling error")
	default:
		d.logger.Warn().Str("kind", string(ev.Kind)).Msg("Unknown event kind")
	}
}

func (d *Dispatcher) handleText(ctx context.Context, ev Event) {
	if !d.allow(ev.ChatID) {
		d.metrics.RecordRateLimited()
		d.logger.Warn().Int64("chat_id", ev.ChatID).Msg("Chat rate limited")
		if _, err := d.sender.SendMessage(ctx, ev.ChatID, consts.MsgTooManyRequests, nil); err != nil {
			d.logger.Warn().Err(err).Int64("chat_id", ev.ChatID).Msg("Failed to send rate limit notice")
		}
		return
	}

	if err := d.handler.HandleText(ctx, ev.ChatID, ev.Text); err != nil {
		d.logResult(ev, err)
	}
}

func (d *Dispatcher) handleCallback(ctx context.Context, ev Event) {
	if !d.allow(ev.ChatID) {
		d.metrics.RecordRateLimited()
		d.logger.Warn().Int64("chat_id", ev.ChatID).Msg("Chat rate limited")
		if err := d.sender.AnswerCallback(ctx, ev.CallbackID, consts.MsgTooManyRequests); err != nil {
			d.logger.Warn().Err(err).Msg("Failed to answer callback")
		}
		return
	}

	if err := d.handler.HandleOption(ctx, ev.ChatID, ev.CallbackID, ev.MessageID, ev.CallbackData); err != nil {
		d.logResult(ev, err)
	}
}

// logResult logs a handler error. Input and policy errors are expected and
// already answered in the chat.
func (d *Dispatcher) logResult(ev Event, err error) {
	logEvent := d.logger.Warn()
	if pkgerrors.IsInputError(err) || pkgerrors.IsPolicyError(err) {
		logEvent = d.logger.Debug()
	}
	logEvent.Err(err).Str("kind", string(ev.Kind)).Int64("chat_id", ev.ChatID).Msg("Event handled with error")
}

// allow takes a token from the chat's limiter
func (d *Dispatcher) allow(chatID int64) bool {
	if d.limit == rate.Inf {
		return true
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	cl, ok := d.limiters[chatID]
	if !ok {
		d.evictIdle(now)
		cl = &chatLimiter{limiter: rate.NewLimiter(d.limit, d.burst)}
		d.limiters[chatID] = cl
	}
	cl.lastSeen = now

	return cl.limiter.AllowN(now, 1)
}

// evictIdle drops limiters of chats that have been quiet for a while. Callers hold mu.
func (d *Dispatcher) evictIdle(now time.Time) {
	for chatID, cl := range d.limiters {
		if now.Sub(cl.lastSeen) > limiterIdle {
			delete(d.limiters, chatID)
		}
	}
}
