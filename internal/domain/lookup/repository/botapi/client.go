// Package botapi fetches public profiles with the Bot API getChat method
package botapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/rs/zerolog"

	"github.com/horrygame/tg-finding/config"
	"github.com/horrygame/tg-finding/internal/domain/lookup/deps"
	"github.com/horrygame/tg-finding/internal/domain/lookup/entities"
	"github.com/horrygame/tg-finding/internal/domain/lookup/handle"
)

// Client implements deps.ProfileFetcher
type Client struct {
	api     *tgbot.Bot
	token   string
	timeout time.Duration
	logger  zerolog.Logger
}

// NewClient creates a Bot API profile fetcher. It uses its own bot instance so
// lookups never share the long-polling HTTP client.
func NewClient(telegramCfg *config.TelegramConfig, lookupCfg *config.LookupConfig, logger zerolog.Logger) (deps.ProfileFetcher, error) {
	opts := []tgbot.Option{
		tgbot.WithSkipGetMe(),
		tgbot.WithHTTPClient(lookupCfg.FetchTimeout, &capturingClient{client: &http.Client{}}),
	}
	if telegramCfg.APIURL != "" {
		opts = append(opts, tgbot.WithServerURL(strings.TrimRight(telegramCfg.APIURL, "/")))
	}

	api, err := tgbot.New(telegramCfg.BotToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile fetcher: %w", err)
	}

	return &Client{
		api:     api,
		token:   telegramCfg.BotToken,
		timeout: lookupCfg.FetchTimeout,
		logger:  logger.With().Str("component", "profile-fetcher").Logger(),
	}, nil
}

// Fetch performs one getChat call. The call is detached from ctx cancellation
// and bounded only by the configured timeout.
func (c *Client) Fetch(ctx context.Context, h handle.Handle) entities.LookupOutcome {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	start := time.Now()
	outcome := c.fetch(ctx, h)

	event := c.logger.Debug()
	if !outcome.Success() {
		event = c.logger.Info().Str("detail", outcome.Detail)
	}
	event.
		Str("handle", h.String()).
		Str("outcome", outcome.Kind.String()).
		Dur("duration", time.Since(start)).
		Msg("Profile fetched")

	return outcome
}

func (c *Client) fetch(ctx context.Context, h handle.Handle) entities.LookupOutcome {
	raw := &capturedBody{}
	chat, err := c.api.GetChat(withCapture(ctx, raw), &tgbot.GetChatParams{ChatID: h.Mention()})
	if err != nil {
		if kind, ok := classify(err); ok {
			return entities.Failed(kind, c.redact(err))
		}
		return entities.Failed(entities.OutcomeTransportError, c.describe(ctx, err))
	}
	if chat == nil {
		return entities.Failed(entities.OutcomeTransportError, "empty result")
	}

	return entities.Found(toRecord(chat, decodeExtras(raw.body)))
}

// describe turns a transport error into text safe to show, without the token-bearing URL
func (c *Client) describe(ctx context.Context, err error) string {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Sprintf("timeout of %s exceeded", c.timeout)
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return "unexpected response from Bot API"
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}
	return c.redact(err)
}

func (c *Client) redact(err error) string {
	msg := err.Error()
	if c.token != "" {
		msg = strings.ReplaceAll(msg, c.token, "<token>")
	}
	return msg
}

// chatExtras holds getChat result fields models.ChatFullInfo does not decode
type chatExtras struct {
	IsBot        bool `json:"is_bot"`
	MembersCount int  `json:"members_count"`
}

func decodeExtras(body []byte) chatExtras {
	var envelope struct {
		Result chatExtras `json:"result"`
	}
	if len(body) == 0 {
		return chatExtras{}
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return chatExtras{}
	}
	return envelope.Result
}
