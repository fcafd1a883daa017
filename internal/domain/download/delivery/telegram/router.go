package telegram

import (
	"context"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/consts"
)

// commands are answered by their own handlers and never reach the dispatcher
var commands = []models.BotCommand{
	{Command: strings.TrimPrefix(consts.CommandStart, "/"), Description: "Start the bot"},
	{Command: strings.TrimPrefix(consts.CommandHelp, "/"), Description: "How to use the bot"},
	{Command: strings.TrimPrefix(consts.CommandStats, "/"), Description: "Download statistics (owner only)"},
}

// Router registers Telegram bot handlers
type Router struct {
	handlers   *Handlers
	dispatcher *Dispatcher
	logger     zerolog.Logger
}

// NewRouter creates new Telegram router
func NewRouter(handlers *Handlers, dispatcher *Dispatcher, logger zerolog.Logger) *Router {
	return &Router{
		handlers:   handlers,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RegisterRoutes registers all handlers on the bot
func (r *Router) RegisterRoutes(bot *tgbot.Bot) {
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, consts.CommandStart, tgbot.MatchTypeExact, r.handlers.HandleStart)
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, consts.CommandHelp, tgbot.MatchTypeExact, r.handlers.HandleHelp)
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, consts.CommandStats, tgbot.MatchTypeExact, r.handlers.HandleStats)

	bot.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, consts.CallbackPrefix, tgbot.MatchTypePrefix, r.HandleUpdate)
	bot.RegisterHandlerMatchFunc(isPlainText, r.HandleUpdate)

	r.logger.Info().Msg("All Telegram handlers registered successfully")
}

// RegisterCommands publishes the command list shown by Telegram clients
func (r *Router) RegisterCommands(ctx context.Context, bot *tgbot.Bot) error {
	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := bot.SetMyCommands(ctx, &tgbot.SetMyCommandsParams{Commands: commands})
	return err
}

// HandleUpdate feeds an update to the dispatcher
func (r *Router) HandleUpdate(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	ev, ok := EventFromUpdate(update)
	if !ok {
		return
	}
	r.dispatcher.Dispatch(ctx, ev)
}

// HandleError feeds a polling error to the dispatcher
func (r *Router) HandleError(err error) {
	r.dispatcher.Dispatch(context.Background(), Event{Kind: EventPollingError, Err: err})
}

// isPlainText matches text messages that are not one of the bot commands
func isPlainText(update *models.Update) bool {
	if update.Message == nil || update.Message.Text == "" {
		return false
	}

	for _, cmd := range commands {
		if update.Message.Text == "/"+cmd.Command {
			return false
		}
	}
	return true
}
