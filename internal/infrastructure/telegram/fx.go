package telegram

import (
	"go.uber.org/fx"
)

// Module provides Telegram bot for fx dependency injection.
// Polling is started by the lookup domain once its handlers are registered.
var Module = fx.Module("telegram",
	fx.Provide(NewBot),
)
