// Package http contains the HTTP status surface of the lookup domain
package http

import (
	"bytes"
	"html/template"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"go.uber.org/fx"

	"github.com/horrygame/tg-finding/config"
	"github.com/horrygame/tg-finding/internal/domain/lookup/consts"
	"github.com/horrygame/tg-finding/internal/domain/lookup/deps"
	"github.com/horrygame/tg-finding/internal/domain/lookup/dto"
	lookuperrors "github.com/horrygame/tg-finding/internal/domain/lookup/errors"
	"github.com/horrygame/tg-finding/internal/domain/lookup/formatter"
	pkgerrors "github.com/horrygame/tg-finding/pkg/errors"
	"github.com/horrygame/tg-finding/pkg/httputil"
)

var landingPage = template.Must(template.New("landing").Parse(`<!DOCTYPE html>
<html lang="ru">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Telegram User Info Bot</title>
</head>
<body>
<h1>🔍 Telegram User Info Bot</h1>
<p>Статус: работает</p>
<ul>
<li>Всего поисков: {{.TotalSearches}}</li>
<li>Успешных: {{.SuccessfulSearches}}</li>
<li>Неудачных: {{.FailedSearches}}</li>
<li>Успешность: {{.SuccessRate}}</li>
</ul>
{{if .Bot}}<p><a href="https://t.me/{{.Bot}}">Открыть @{{.Bot}}</a></p>{{end}}
</body>
</html>
`))

type landingData struct {
	dto.StatusStats
	Bot string
}

// StatusHandler serves read-only views of the search history
type StatusHandler struct {
	history  deps.HistoryLog
	identity deps.BotIdentity
	service  *config.ServiceConfig
	mapper   *pkgerrors.Mapper
	logger   zerolog.Logger

	startedAt time.Time
	now       func() time.Time
}

// StatusHandlerParams defines parameters for StatusHandler
type StatusHandlerParams struct {
	fx.In

	History  deps.HistoryLog
	Identity deps.BotIdentity
	Service  *config.ServiceConfig
	Logger   zerolog.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(params StatusHandlerParams) *StatusHandler {
	logger := params.Logger.With().Str("component", "status-http").Logger()
	return &StatusHandler{
		history:   params.History,
		identity:  params.Identity,
		service:   params.Service,
		mapper:    pkgerrors.NewMapper(logger),
		logger:    logger,
		startedAt: time.Now(),
		now:       time.Now,
	}
}

// Landing handles GET /
func (h *StatusHandler) Landing(ctx *fasthttp.RequestCtx) {
	var buf bytes.Buffer
	err := landingPage.Execute(&buf, landingData{
		StatusStats: h.statusStats(),
		Bot:         h.identity.Username(),
	})
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	ctx.SetContentType("text/html; charset=utf-8")
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBody(buf.Bytes())
}

// Status handles GET /status
func (h *StatusHandler) Status(ctx *fasthttp.RequestCtx) {
	now := h.now()

	bot := h.identity.Username()
	if bot == "" {
		bot = "unknown"
	}

	httputil.WriteJSON(ctx, dto.StatusResponse{
		Status:      "online",
		Service:     h.service.Name,
		Bot:         bot,
		Version:     h.service.Version,
		Environment: h.service.Environment,
		Stats:       h.statusStats(),
		Uptime:      now.Sub(h.startedAt).Seconds(),
		Timestamp:   now.UTC().Format(time.RFC3339Nano),
	}, fasthttp.StatusOK)
}

func (h *StatusHandler) statusStats() dto.StatusStats {
	stats := h.history.Stats()
	return dto.StatusStats{
		TotalSearches:      stats.Total,
		SuccessfulSearches: stats.Successful,
		FailedSearches:     stats.Failed,
		SuccessRate:        formatter.FormatRate(stats.SuccessRate) + "%",
	}
}

// Health handles GET /health
func (h *StatusHandler) Health(ctx *fasthttp.RequestCtx) {
	httputil.WriteText(ctx, "OK", fasthttp.StatusOK)
}

// Logs handles GET /api/logs
func (h *StatusHandler) Logs(ctx *fasthttp.RequestCtx) {
	logs := h.history.Recent(consts.RecentLogsLimit)

	h.logger.Debug().Int("returned", len(logs)).Msg("Search logs requested")

	httputil.WriteJSON(ctx, dto.LogsResponse{
		Logs:  logs,
		Total: h.history.Len(),
	}, fasthttp.StatusOK)
}

// NotFound answers requests no route matched
func (h *StatusHandler) NotFound(ctx *fasthttp.RequestCtx) {
	h.writeError(ctx, lookuperrors.ErrRouteNotFound)
}

// Unauthorized rejects a request that failed the bearer token check
func (h *StatusHandler) Unauthorized(ctx *fasthttp.RequestCtx) {
	h.logger.Warn().
		Str("path", string(ctx.Path())).
		Str("remote_addr", ctx.RemoteAddr().String()).
		Msg("Rejected unauthorized request")

	h.writeError(ctx, lookuperrors.ErrUnauthorized)
}

func (h *StatusHandler) writeError(ctx *fasthttp.RequestCtx, err error) {
	status, message := h.mapper.MapErrorToHTTP(err)
	httputil.WriteErrorResponse(ctx, message, status)
}
