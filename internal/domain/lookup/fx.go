// Package lookup contains the profile lookup domain module
package lookup

import (
	"context"
	"errors"
	"fmt"

	tgbot "github.com/go-telegram/bot"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/horrygame/tg-finding/config"
	httpDelivery "github.com/horrygame/tg-finding/internal/domain/lookup/delivery/http"
	telegramDelivery "github.com/horrygame/tg-finding/internal/domain/lookup/delivery/telegram"
	"github.com/horrygame/tg-finding/internal/domain/lookup/deps"
	"github.com/horrygame/tg-finding/internal/domain/lookup/handle"
	"github.com/horrygame/tg-finding/internal/domain/lookup/history"
	"github.com/horrygame/tg-finding/internal/domain/lookup/repository/botapi"
	fileRepo "github.com/horrygame/tg-finding/internal/domain/lookup/repository/file"
	kafkaRepo "github.com/horrygame/tg-finding/internal/domain/lookup/repository/kafka"
	memoryRepo "github.com/horrygame/tg-finding/internal/domain/lookup/repository/memory"
	postgresRepo "github.com/horrygame/tg-finding/internal/domain/lookup/repository/postgres"
	"github.com/horrygame/tg-finding/internal/domain/lookup/usecase/business"
	"github.com/horrygame/tg-finding/internal/infrastructure/database"
	"github.com/horrygame/tg-finding/internal/infrastructure/http/server"
	infraKafka "github.com/horrygame/tg-finding/internal/infrastructure/kafka"
	"github.com/horrygame/tg-finding/internal/infrastructure/metrics"
	"github.com/horrygame/tg-finding/internal/infrastructure/telegram"
)

// Module provides lookup domain components for fx dependency injection
var Module = fx.Module("lookup",
	// Repository
	fx.Provide(botapi.NewClient),
	fx.Provide(provideHistoryStore),
	fx.Provide(provideEventPublisher),

	// History
	fx.Provide(provideHistoryLog),
	fx.Provide(func(l *history.Log) deps.HistoryLog { return l }),
	fx.Provide(func(b *telegram.Bot) deps.BotIdentity { return b }),

	// UseCase
	fx.Provide(handle.NewNormalizerFromConfig),
	fx.Provide(business.NewUseCase),

	// Delivery - Telegram (needs raw bot from infrastructure)
	fx.Provide(provideTelegramHandlers),
	fx.Provide(telegramDelivery.NewRouter),

	// Delivery - HTTP
	fx.Provide(httpDelivery.NewStatusHandler),
	fx.Provide(httpDelivery.NewRouter),

	fx.Invoke(registerRoutes),
	fx.Invoke(registerLifecycle),
)

// provideHistoryStore selects the history persistence backend
func provideHistoryStore(
	lc fx.Lifecycle,
	historyCfg *config.HistoryConfig,
	dbCfg *config.DatabaseConfig,
	logger zerolog.Logger,
) (deps.HistoryStore, error) {
	switch historyCfg.Storage {
	case config.StorageMemory:
		return memoryRepo.NewStore(), nil
	case config.StorageFile:
		return fileRepo.NewStore(historyCfg.FilePath, logger), nil
	case config.StoragePostgres:
		db, err := database.NewPostgresDBWithLifecycle(lc, dbCfg, logger, &postgresRepo.SearchLogRow{})
		if err != nil {
			return nil, err
		}
		return postgresRepo.NewStore(db, logger), nil
	}
	return nil, fmt.Errorf("unknown history storage %q", historyCfg.Storage)
}

func provideHistoryLog(
	historyCfg *config.HistoryConfig,
	store deps.HistoryStore,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *history.Log {
	return history.NewLog(historyCfg.Limit, store, m, logger)
}

// provideEventPublisher publishes lookup events to Kafka when brokers are configured
func provideEventPublisher(
	lc fx.Lifecycle,
	kafkaCfg *config.KafkaConfig,
	logger zerolog.Logger,
) (deps.LookupEventPublisher, error) {
	if !kafkaCfg.Enabled() {
		logger.Info().Msg("KAFKA_BROKERS is not set, lookup events are not published")
		return kafkaRepo.NewNopPublisher(), nil
	}

	producer, err := infraKafka.NewSyncProducer(kafkaCfg, logger)
	if err != nil {
		return nil, err
	}

	publisher := kafkaRepo.NewPublisher(producer, kafkaCfg.LookupTopic, logger)
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return publisher.Close()
		},
	})
	return publisher, nil
}

// provideTelegramHandlers creates Telegram handlers with raw bot
func provideTelegramHandlers(
	uc *business.UseCase,
	bot *telegram.Bot,
	lookupCfg *config.LookupConfig,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *telegramDelivery.Handlers {
	return telegramDelivery.NewHandlers(uc, bot.Raw(), lookupCfg, m, logger)
}

func registerRoutes(
	bot *telegram.Bot,
	tgRouter *telegramDelivery.Router,
	srv *server.Server,
	statusRouter *httpDelivery.Router,
) {
	tgRouter.RegisterRoutes(bot.Raw())
	bot.SetDefaultHandler(tgRouter.TextHandler())

	statusRouter.RegisterRoutes(srv.Router)
}

// registerLifecycle loads the history and runs the bot between start and stop
func registerLifecycle(
	lc fx.Lifecycle,
	bot *telegram.Bot,
	tgRouter *telegramDelivery.Router,
	historyLog *history.Log,
	logger zerolog.Logger,
) {
	var cancel context.CancelFunc
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := historyLog.Load(ctx); err != nil {
				logger.Warn().Err(err).Msg("Failed to load search history, starting empty")
			}

			if err := identifyBot(ctx, bot, logger); err != nil {
				return err
			}

			if err := tgRouter.PublishCommands(ctx, bot.Raw()); err != nil {
				logger.Warn().Err(err).Msg("Failed to publish bot commands")
			}

			var runCtx context.Context
			runCtx, cancel = context.WithCancel(context.Background())

			go func() {
				defer close(done)
				_ = bot.Start(runCtx)
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cancel != nil {
				cancel()
				select {
				case <-done:
				case <-ctx.Done():
					logger.Warn().Msg("Telegram bot did not stop in time")
				}
			}
			if err := bot.Stop(); err != nil {
				return err
			}
			return historyLog.Close()
		},
	})
}

type botIdentifier interface {
	Identify(ctx context.Context) error
}

// identifyBot fails only when Telegram rejects the token; other errors are logged
func identifyBot(ctx context.Context, bot botIdentifier, logger zerolog.Logger) error {
	err := bot.Identify(ctx)
	if err == nil {
		return nil
	}
	if errors.Is(err, tgbot.ErrorUnauthorized) {
		logger.Error().Err(err).Msg("Telegram rejected BOT_TOKEN")
		return fmt.Errorf("invalid bot token: %w", err)
	}

	logger.Warn().Err(err).Msg("Failed to identify Telegram bot")
	return nil
}
