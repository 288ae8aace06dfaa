// Package app contains application bootstrap
package app

import (
	"go.uber.org/fx"

	"github.com/horrygame/tg-finding/config"
	"github.com/horrygame/tg-finding/internal/domain"
	"github.com/horrygame/tg-finding/internal/infrastructure"
)

// CreateApp creates fx application with all modules
func CreateApp() fx.Option {
	return fx.Options(
		// Configuration
		fx.Provide(config.Out),

		// Infrastructure (logger, metrics, telegram bot, http server)
		infrastructure.Module,

		// Domain (profile lookups and search history)
		domain.Module,
	)
}
