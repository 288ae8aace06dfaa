package main

import (
	"go.uber.org/fx"

	"github.com/horrygame/tg-finding/internal/app"
)

func main() {
	fx.New(app.CreateApp()).Run()
}
