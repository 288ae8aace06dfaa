// Package domain aggregates domain modules
package domain

import (
	"go.uber.org/fx"

	"github.com/horrygame/tg-finding/internal/domain/lookup"
)

// Module aggregates all domain modules
var Module = fx.Module("domain",
	lookup.Module,
)
