// Package telegram contains Telegram delivery handlers
package telegram

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/horrygame/tg-finding/config"
	"github.com/horrygame/tg-finding/internal/domain/lookup/consts"
	"github.com/horrygame/tg-finding/internal/domain/lookup/dto"
	lookuperrors "github.com/horrygame/tg-finding/internal/domain/lookup/errors"
	"github.com/horrygame/tg-finding/internal/domain/lookup/formatter"
	"github.com/horrygame/tg-finding/internal/domain/lookup/usecase/business"
	"github.com/horrygame/tg-finding/internal/infrastructure/metrics"
)

// Constants for Telegram API
const (
	RequestTimeout = 30 * time.Second
)

const (
	apologyMessage = "❌ Произошла ошибка при обработке запроса. Пожалуйста, попробуйте еще раз."
	statsError     = "❌ Ошибка при получении статистики."
)

// MessageSender is the part of the Bot API the handlers reply through
type MessageSender interface {
	SendMessage(ctx context.Context, params *tgbot.SendMessageParams) (*models.Message, error)
	SendChatAction(ctx context.Context, params *tgbot.SendChatActionParams) (bool, error)
}

// Handlers contains Telegram command handlers
type Handlers struct {
	uc        *business.UseCase
	sender    MessageSender
	minLength int
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

// NewHandlers creates new Telegram handlers
func NewHandlers(
	uc *business.UseCase,
	sender MessageSender,
	lookupCfg *config.LookupConfig,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Handlers {
	return &Handlers{
		uc:        uc,
		sender:    sender,
		minLength: lookupCfg.MinHandleLength,
		metrics:   m,
		logger:    logger.With().Str("component", "telegram-handlers").Logger(),
	}
}

// HandleStart handles /start command
func (h *Handlers) HandleStart(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	userID, chatID := ids(update)
	h.logCommand(userID, "/start", "processing")

	req := &dto.StartCommandRequest{UserID: userID}
	if update.Message.From != nil {
		req.Username = update.Message.From.Username
	}

	resp, err := h.uc.HandleStart(ctx, req)
	if err != nil {
		h.logError(userID, "/start", err)
		h.sendResponse(ctx, chatID, apologyMessage)
		return
	}

	h.sendResponse(ctx, chatID, resp.Message)
	h.logCommand(userID, "/start", "success")
}

// HandleHelp handles /help command
func (h *Handlers) HandleHelp(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	userID, chatID := ids(update)
	h.logCommand(userID, "/help", "processing")

	resp, err := h.uc.HandleHelp(ctx)
	if err != nil {
		h.logError(userID, "/help", err)
		h.sendResponse(ctx, chatID, apologyMessage)
		return
	}

	h.sendResponse(ctx, chatID, resp.Message)
	h.logCommand(userID, "/help", "success")
}

// HandleStats handles /stats command
func (h *Handlers) HandleStats(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	userID, chatID := ids(update)
	h.logCommand(userID, "/stats", "processing")

	resp, err := h.uc.HandleStats(ctx)
	if err != nil {
		h.logError(userID, "/stats", err)
		h.sendResponse(ctx, chatID, statsError)
		return
	}

	h.sendResponse(ctx, chatID, resp.Message)
	h.logCommand(userID, "/stats", "success")
}

// HandleRandom handles /random command
func (h *Handlers) HandleRandom(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	h.lookup(ctx, update, "/random", consts.SourceRandom, "")
}

// HandleInfo handles /info <handle> command
func (h *Handlers) HandleInfo(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	_, arg := parseCommand(update.Message.Text)
	h.lookup(ctx, update, "/info", consts.SourceInfo, arg)
}

// HandleText handles plain messages; only text that looks like a handle is looked up
func (h *Handlers) HandleText(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}
	if strings.HasPrefix(strings.TrimSpace(update.Message.Text), "/") {
		return
	}
	h.lookup(ctx, update, "text", consts.SourceText, update.Message.Text)
}

func (h *Handlers) lookup(ctx context.Context, update *models.Update, command, source, query string) {
	userID, chatID := ids(update)

	prepared, err := h.uc.PrepareLookup(ctx, &dto.LookupRequest{
		UserID: userID,
		Query:  query,
		Source: source,
	})
	if err != nil {
		if errors.Is(err, lookuperrors.ErrNotAHandle) {
			return
		}
		h.logCommand(userID, command, err.Error())
		h.sendResponse(ctx, chatID, h.replyForError(err))
		return
	}

	h.logCommand(userID, command, fmt.Sprintf("lookup: %s", prepared.Handle))

	h.sendResponse(ctx, chatID, prepared.Notice)
	h.sendTyping(ctx, chatID)

	resp := h.uc.ExecuteLookup(ctx, prepared)
	h.sendResponse(ctx, chatID, resp.Message)
	h.uc.PublishLookup(ctx, resp)

	result := "success"
	if !resp.Success {
		result = "failed"
	}
	h.logCommand(userID, command, result)
}

func (h *Handlers) replyForError(err error) string {
	switch {
	case errors.Is(err, lookuperrors.ErrMissingHandle):
		return formatter.FormatInfoUsage()
	case errors.Is(err, lookuperrors.ErrInvalidHandle):
		return formatter.FormatInvalidHandle(h.minLength, config.MaxHandleLength)
	case errors.Is(err, lookuperrors.ErrRateLimited):
		return formatter.FormatRateLimited()
	}
	return apologyMessage
}

// recoverer turns a panic inside a handler into an apology reply
func (h *Handlers) recoverer(command string, next tgbot.HandlerFunc) tgbot.HandlerFunc {
	return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
		if update == nil || update.Message == nil {
			return
		}

		defer func() {
			if r := recover(); r != nil {
				userID, chatID := ids(update)
				h.logger.Error().
					Int64("user_id", userID).
					Str("command", command).
					Interface("panic", r).
					Bytes("stack", debug.Stack()).
					Msg("Telegram handler panicked")
				h.sendResponse(ctx, chatID, apologyMessage)
			}
		}()

		h.metrics.RecordCommand(command)
		next(ctx, bot, update)
	}
}

func (h *Handlers) sendResponse(ctx context.Context, chatID int64, text string) {
	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := h.sender.SendMessage(msgCtx, &tgbot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		h.logger.Error().Int64("chat_id", chatID).Err(err).Msg("Failed to send Telegram response")
	}
}

func (h *Handlers) sendTyping(ctx context.Context, chatID int64) {
	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := h.sender.SendChatAction(msgCtx, &tgbot.SendChatActionParams{
		ChatID: chatID,
		Action: models.ChatActionTyping,
	})
	if err != nil {
		h.logger.Warn().Int64("chat_id", chatID).Err(err).Msg("Failed to send chat action")
	}
}

// logCommand logs command processing
func (h *Handlers) logCommand(userID int64, command, result string) {
	h.logger.Info().Int64("user_id", userID).Str("command", command).Str("result", result).Msg("Telegram command processed")
}

// logError logs command errors
func (h *Handlers) logError(userID int64, command string, err error) {
	h.logger.Error().Int64("user_id", userID).Str("command", command).Err(err).Msg("Telegram command failed")
}

func ids(update *models.Update) (userID, chatID int64) {
	if update.Message.From != nil {
		userID = update.Message.From.ID
	}
	return userID, update.Message.Chat.ID
}

// parseCommand splits "/info@SomeBot durov" into "info" and "durov".
// Non-command text returns an empty name.
func parseCommand(text string) (name, arg string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", ""
	}

	head, rest, _ := strings.Cut(text, " ")
	name = strings.TrimPrefix(head, "/")
	if at := strings.Index(name, "@"); at >= 0 {
		name = name[:at]
	}

	fields := strings.Fields(rest)
	if len(fields) > 0 {
		arg = fields[0]
	}
	return strings.ToLower(name), arg
}
