package telegram

import (
	"context"
	"fmt"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/horrygame/tg-finding/internal/domain/lookup/consts"
)

// HandlerRegistrar is where command handlers get registered
type HandlerRegistrar interface {
	RegisterHandlerMatchFunc(matchFunc tgbot.MatchFunc, f tgbot.HandlerFunc, m ...tgbot.Middleware) string
}

// CommandMenu publishes the bot command menu
type CommandMenu interface {
	SetMyCommands(ctx context.Context, params *tgbot.SetMyCommandsParams) (bool, error)
}

// Router registers Telegram bot handlers
type Router struct {
	handlers *Handlers
	logger   zerolog.Logger
}

// NewRouter creates new Telegram router
func NewRouter(handlers *Handlers, logger zerolog.Logger) *Router {
	return &Router{
		handlers: handlers,
		logger:   logger,
	}
}

// RegisterRoutes registers all command handlers on the bot
func (r *Router) RegisterRoutes(bot HandlerRegistrar) {
	h := r.handlers
	routes := []struct {
		command consts.Command
		handler tgbot.HandlerFunc
	}{
		{consts.CommandStart, h.HandleStart},
		{consts.CommandHelp, h.HandleHelp},
		{consts.CommandRandom, h.HandleRandom},
		{consts.CommandInfo, h.HandleInfo},
		{consts.CommandStats, h.HandleStats},
	}

	for _, route := range routes {
		bot.RegisterHandlerMatchFunc(
			matchCommand(route.command.Name),
			h.recoverer("/"+route.command.Name, route.handler),
		)
	}

	r.logger.Info().Int("commands", len(routes)).Msg("All Telegram command handlers registered successfully")
}

// matchCommand matches messages that are exactly the named command in any case,
// so /Stats reaches stats and /information does not reach info
func matchCommand(name string) tgbot.MatchFunc {
	return func(update *models.Update) bool {
		if update == nil || update.Message == nil {
			return false
		}
		got, _ := parseCommand(update.Message.Text)
		return got == name
	}
}

// TextHandler returns the handler for messages no command matched
func (r *Router) TextHandler() tgbot.HandlerFunc {
	return r.handlers.recoverer("text", r.handlers.HandleText)
}

// PublishCommands sets the command menu shown by Telegram clients
func (r *Router) PublishCommands(ctx context.Context, menu CommandMenu) error {
	commands := make([]models.BotCommand, 0, len(consts.AllCommands))
	for _, c := range consts.AllCommands {
		commands = append(commands, models.BotCommand{
			Command:     c.Name,
			Description: c.Description,
		})
	}

	if _, err := menu.SetMyCommands(ctx, &tgbot.SetMyCommandsParams{Commands: commands}); err != nil {
		return fmt.Errorf("failed to set bot commands: %w", err)
	}

	r.logger.Info().Int("commands", len(commands)).Msg("Bot command menu published")
	return nil
}
