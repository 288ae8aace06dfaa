// Package business contains business logic for the lookup domain
package business

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/horrygame/tg-finding/config"
	"github.com/horrygame/tg-finding/internal/domain/lookup/consts"
	"github.com/horrygame/tg-finding/internal/domain/lookup/deps"
	"github.com/horrygame/tg-finding/internal/domain/lookup/dto"
	"github.com/horrygame/tg-finding/internal/domain/lookup/entities"
	lookuperrors "github.com/horrygame/tg-finding/internal/domain/lookup/errors"
	"github.com/horrygame/tg-finding/internal/domain/lookup/formatter"
	"github.com/horrygame/tg-finding/internal/domain/lookup/handle"
	"github.com/horrygame/tg-finding/internal/infrastructure/metrics"
)

// UseCase contains business logic for profile lookups
type UseCase struct {
	fetcher    deps.ProfileFetcher
	history    deps.HistoryLog
	publisher  deps.LookupEventPublisher
	normalizer *handle.Normalizer
	throttle   *throttle
	metrics    *metrics.Metrics
	logger     zerolog.Logger

	now   func() time.Time
	pick  func(n int) int
	newID func() string
}

// NewUseCase creates a new UseCase instance
func NewUseCase(
	fetcher deps.ProfileFetcher,
	history deps.HistoryLog,
	publisher deps.LookupEventPublisher,
	normalizer *handle.Normalizer,
	lookupCfg *config.LookupConfig,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *UseCase {
	return &UseCase{
		fetcher:    fetcher,
		history:    history,
		publisher:  publisher,
		normalizer: normalizer,
		throttle:   newThrottle(lookupCfg.RateLimitPerMinute),
		metrics:    m,
		logger:     logger.With().Str("component", "lookup-usecase").Logger(),
		now:        time.Now,
		pick:       rand.Intn,
		newID:      uuid.NewString,
	}
}

// HandleStart handles /start command
func (uc *UseCase) HandleStart(ctx context.Context, req *dto.StartCommandRequest) (*dto.CommandResponse, error) {
	uc.logger.Info().
		Int64("user_id", req.UserID).
		Str("username", req.Username).
		Msg("User started bot")

	message := `👋 <b>Добро пожаловать в User Info Bot!</b>

Я могу показать общедоступную информацию о профилях в Telegram.

<b>📋 Доступные команды:</b>
/random - 🎲 Случайный публичный профиль
/info @username - 🔍 Информация о профиле
/stats - 📊 Статистика поиска
/help - ❓ Помощь по командам

<b>📝 Пример использования:</b>
Просто отправьте мне юзернейм, например: @telegram
Или используйте команду /info telegram

<b>⚠️ Важно:</b> Я показываю только общедоступную информацию.
Приватные профили недоступны для просмотра.

<b>💡 Совет:</b> Попробуйте команду /random для начала!`

	return &dto.CommandResponse{Message: message}, nil
}

// HandleHelp handles /help command
func (uc *UseCase) HandleHelp(ctx context.Context) (*dto.CommandResponse, error) {
	message := `<b>❓ ПОМОЩЬ ПО КОМАНДАМ</b>

<b>Основные команды:</b>
🎲 /random - Получить случайный публичный профиль
🔍 /info [юзернейм] - Информация о конкретном пользователе
📊 /stats - Статистика поиска профилей

<b>Альтернативные способы:</b>
📨 Просто отправьте юзернейм в чат (например: @telegram)

<b>📌 Примеры использования:</b>
/info telegram - информация о канале Telegram
/info github - информация о профиле GitHub
Просто: @elonmusk - тоже сработает

<b>🔒 Что я могу показать:</b>
• Имя и фамилия (если публичные)
• Юзернейм и ID
• Биографию/описание
• Количество участников (для каналов/групп)
• Тип профиля (личный, канал, группа)
• Ссылку-приглашение (если есть)

<b>🚫 Что я НЕ могу показать:</b>
• Информацию из приватных профилей
• Номер телефона
• Email адреса
• Историю сообщений

<b>💡 Советы:</b>
1. Для каналов используйте их публичный юзернейм
2. Некоторые профили могут быть недоступны
3. Убедитесь, что юзернейм существует`

	return &dto.CommandResponse{Message: message}, nil
}

// HandleStats handles /stats command. It only reads the history.
func (uc *UseCase) HandleStats(ctx context.Context) (*dto.CommandResponse, error) {
	return &dto.CommandResponse{Message: formatter.FormatStats(uc.history.Stats())}, nil
}

// PrepareLookup resolves and validates the queried handle before any fetch.
//
// Returned errors:
//   - ErrMissingHandle: /info without an argument, nothing is logged
//   - ErrNotAHandle: free text that does not look like a handle, nothing is logged
//   - ErrRateLimited: the user is over the lookup rate, nothing is logged
//   - ErrInvalidHandle: the query failed validation, a failed entry is logged
func (uc *UseCase) PrepareLookup(ctx context.Context, req *dto.LookupRequest) (*dto.PreparedLookup, error) {
	query := strings.TrimSpace(req.Query)

	switch req.Source {
	case consts.SourceRandom:
		query = consts.RandomHandles[uc.pick(len(consts.RandomHandles))]
	case consts.SourceText:
		h, ok := uc.normalizer.Detect(query)
		if !ok {
			return nil, lookuperrors.ErrNotAHandle
		}
		query = h.String()
	default:
		if query == "" {
			return nil, lookuperrors.ErrMissingHandle
		}
	}

	if !uc.throttle.Allow(req.UserID) {
		uc.metrics.RecordThrottled()
		uc.logger.Warn().Int64("user_id", req.UserID).Str("source", req.Source).Msg("Lookup throttled")
		return nil, lookuperrors.ErrRateLimited
	}

	h, err := uc.normalizer.Normalize(query)
	if err != nil {
		uc.metrics.RecordValidationFailure()
		uc.history.Append(ctx, entities.SearchLogEntry{
			ID:        uc.newID(),
			Timestamp: uc.now(),
			UserID:    req.UserID,
			Handle:    strings.TrimPrefix(query, "@"),
			Success:   false,
			Reason:    consts.InvalidHandleReason,
			Source:    req.Source,
		})
		return nil, err
	}

	notice := formatter.FormatSearching(h.String())
	if req.Source == consts.SourceRandom {
		notice = formatter.FormatRandomSearching()
	}

	return &dto.PreparedLookup{
		UserID: req.UserID,
		Handle: h.String(),
		Source: req.Source,
		Notice: notice,
	}, nil
}

// ExecuteLookup fetches the prepared handle, records the attempt and renders the reply
func (uc *UseCase) ExecuteLookup(ctx context.Context, p *dto.PreparedLookup) *dto.LookupResponse {
	h := handle.Handle(p.Handle)

	start := time.Now()
	outcome := uc.fetcher.Fetch(ctx, h)
	uc.metrics.RecordLookup(outcome.Kind.String(), p.Source, time.Since(start).Seconds())

	at := uc.now()
	resp := &dto.LookupResponse{
		Handle:  p.Handle,
		Success: outcome.Success(),
	}

	reason := outcome.Reason()
	if outcome.Success() {
		resp.Message = formatter.FormatProfile(outcome.Profile, at)
		reason = consts.SuccessReasons[p.Source]
	} else {
		resp.Message = formatter.FormatFailure(p.Handle, outcome, p.Source)
	}

	entry := entities.SearchLogEntry{
		ID:        uc.newID(),
		Timestamp: at,
		UserID:    p.UserID,
		Handle:    p.Handle,
		Success:   outcome.Success(),
		Reason:    reason,
		Source:    p.Source,
	}
	uc.history.Append(ctx, entry)

	uc.logger.Info().
		Int64("user_id", p.UserID).
		Str("handle", p.Handle).
		Str("source", p.Source).
		Str("outcome", outcome.Kind.String()).
		Msg("Lookup finished")

	resp.Event = newLookupEvent(entry, outcome)
	return resp
}

// PublishLookup publishes the event of a finished lookup, after the reply is sent.
// Failures are logged and counted.
func (uc *UseCase) PublishLookup(ctx context.Context, resp *dto.LookupResponse) {
	if resp == nil || resp.Event == nil {
		return
	}

	if err := uc.publisher.PublishLookup(ctx, resp.Event); err != nil {
		uc.metrics.RecordEventPublishError()
		uc.logger.Warn().Err(err).Str("event_id", resp.Event.EventID).Msg("Failed to publish lookup event")
	}
}

func newLookupEvent(entry entities.SearchLogEntry, outcome entities.LookupOutcome) *dto.LookupEvent {
	event := &dto.LookupEvent{
		EventID:    entry.ID,
		UserID:     entry.UserID,
		Handle:     entry.Handle,
		Source:     entry.Source,
		Outcome:    outcome.Kind.String(),
		Success:    entry.Success,
		Reason:     entry.Reason,
		OccurredAt: entry.Timestamp.UTC().Format(time.RFC3339),
	}
	if outcome.Profile != nil {
		event.ProfileID = outcome.Profile.ID
		event.Kind = string(outcome.Profile.Kind)
	}
	return event
}
