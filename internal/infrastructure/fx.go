// Package infrastructure contains infrastructure layer components
package infrastructure

import (
	"go.uber.org/fx"

	httpfx "github.com/horrygame/tg-finding/internal/infrastructure/http"
	"github.com/horrygame/tg-finding/internal/infrastructure/logger"
	"github.com/horrygame/tg-finding/internal/infrastructure/metrics"
	"github.com/horrygame/tg-finding/internal/infrastructure/telegram"
)

// Module aggregates all infrastructure modules.
// The database is opened by the history store only when postgres storage is selected.
var Module = fx.Module("infrastructure",
	logger.Module,
	metrics.Module,
	telegram.Module,
	httpfx.Module,
)
