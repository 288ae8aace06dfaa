package http

import (
	"github.com/fasthttp/router"
	"github.com/rs/zerolog"

	"github.com/horrygame/tg-finding/config"
	"github.com/horrygame/tg-finding/pkg/httputil"
)

// Router registers status HTTP routes
type Router struct {
	handler *StatusHandler
	service *config.ServiceConfig
	logger  zerolog.Logger
}

// NewRouter creates a new status router
func NewRouter(handler *StatusHandler, service *config.ServiceConfig, logger zerolog.Logger) *Router {
	return &Router{
		handler: handler,
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers status routes on the router.
// Without ADMIN_TOKEN the logs endpoint is open in development and closed elsewhere.
func (r *Router) RegisterRoutes(rt *router.Router) {
	rt.NotFound = r.handler.NotFound

	rt.GET("/", r.handler.Landing)
	rt.GET("/status", r.handler.Status)
	rt.GET("/health", r.handler.Health)

	requireToken := !r.service.IsDevelopment()
	if r.service.AdminToken == "" {
		r.logger.Warn().
			Bool("logs_open", !requireToken).
			Msg("ADMIN_TOKEN is not set")
	}

	api := httputil.NewMiddlewareGroup(rt.Group("/api")).
		Use(httputil.BearerAuth(r.service.AdminToken, requireToken, r.handler.Unauthorized))
	api.GET("/logs", r.handler.Logs)
}
