// Package telegram contains Telegram bot infrastructure
package telegram

import (
	"context"
	"fmt"
	"sync"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/horrygame/tg-finding/config"
)

// Bot wraps the Telegram bot for infrastructure layer
type Bot struct {
	bot    *tgbot.Bot
	logger zerolog.Logger

	mu       sync.RWMutex
	fallback tgbot.HandlerFunc
	username string
}

// NewBot creates a new Telegram bot wrapper. The bot identity is resolved
// later by Identify so that construction never touches the network.
func NewBot(cfg *config.TelegramConfig, logger zerolog.Logger) (*Bot, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("telegram token is required")
	}

	b := &Bot{
		logger: logger.With().Str("component", "telegram").Logger(),
	}

	opts := []tgbot.Option{
		tgbot.WithSkipGetMe(),
		tgbot.WithDefaultHandler(b.dispatchDefault),
		tgbot.WithErrorsHandler(func(err error) {
			b.logger.Error().Err(err).Msg("Telegram polling error")
		}),
	}
	if cfg.APIURL != "" {
		opts = append(opts, tgbot.WithServerURL(cfg.APIURL))
	}

	bot, err := tgbot.New(cfg.BotToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	b.bot = bot

	b.logger.Info().Msg("Telegram bot created successfully")

	return b, nil
}

// Raw returns the underlying telegram bot for handler registration
func (b *Bot) Raw() *tgbot.Bot {
	return b.bot
}

// SetDefaultHandler sets the handler for updates no registered handler matched
func (b *Bot) SetDefaultHandler(handler tgbot.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fallback = handler
}

// Identify asks Telegram who the bot is and remembers its username
func (b *Bot) Identify(ctx context.Context) error {
	me, err := b.bot.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("failed to get bot identity: %w", err)
	}

	b.mu.Lock()
	b.username = me.Username
	b.mu.Unlock()

	b.logger.Info().Str("username", me.Username).Msg("Telegram bot identified")
	return nil
}

// Username returns the bot username, empty until Identify succeeds
func (b *Bot) Username() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.username
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

func (b *Bot) dispatchDefault(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	b.mu.RLock()
	handler := b.fallback
	b.mu.RUnlock()

	if handler == nil {
		return
	}
	handler(ctx, bot, update)
}
