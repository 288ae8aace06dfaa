package http

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/fasthttp/router"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/horrygame/tg-finding/config"
	"github.com/horrygame/tg-finding/internal/domain/lookup/dto"
	"github.com/horrygame/tg-finding/internal/domain/lookup/entities"
	"github.com/horrygame/tg-finding/pkg/httputil"
)

type stubHistory struct {
	entries []entities.SearchLogEntry
	stats   entities.HistoryStats
}

func (s *stubHistory) Append(context.Context, entities.SearchLogEntry) {}

func (s *stubHistory) Recent(limit int) []entities.SearchLogEntry {
	if limit > len(s.entries) {
		limit = len(s.entries)
	}
	return s.entries[:limit]
}

func (s *stubHistory) Stats() entities.HistoryStats { return s.stats }
func (s *stubHistory) Len() int                     { return len(s.entries) }

type stubIdentity string

func (s stubIdentity) Username() string { return string(s) }

func newHandler(history *stubHistory, identity stubIdentity) *StatusHandler {
	h := NewStatusHandler(StatusHandlerParams{
		History:  history,
		Identity: identity,
		Service: &config.ServiceConfig{
			Name:        "tg-finding",
			Version:     "1.0.0",
			Environment: "production",
		},
		Logger: zerolog.Nop(),
	})
	h.startedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return h.startedAt.Add(90 * time.Second) }
	return h
}

func TestStatus(t *testing.T) {
	h := newHandler(&stubHistory{stats: entities.HistoryStats{Total: 4, Successful: 3, Failed: 1, SuccessRate: 75}}, "finding_bot")
	var ctx fasthttp.RequestCtx

	h.Status(&ctx)

	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	var resp dto.StatusResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.Equal(t, "online", resp.Status)
	assert.Equal(t, "finding_bot", resp.Bot)
	assert.Equal(t, "production", resp.Environment)
	assert.Equal(t, 4, resp.Stats.TotalSearches)
	assert.Equal(t, 3, resp.Stats.SuccessfulSearches)
	assert.Equal(t, 1, resp.Stats.FailedSearches)
	assert.Equal(t, "75.0%", resp.Stats.SuccessRate)
	assert.Equal(t, 90.0, resp.Uptime)
	assert.Equal(t, "2024-01-01T00:01:30Z", resp.Timestamp)
}

func TestStatus_UnknownBot(t *testing.T) {
	h := newHandler(&stubHistory{}, "")
	var ctx fasthttp.RequestCtx

	h.Status(&ctx)

	var resp dto.StatusResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.Equal(t, "unknown", resp.Bot)
	assert.Equal(t, "0.0%", resp.Stats.SuccessRate)
}

func TestLanding(t *testing.T) {
	h := newHandler(&stubHistory{stats: entities.HistoryStats{Total: 4, Successful: 3, Failed: 1, SuccessRate: 75}}, "finding_bot")
	var ctx fasthttp.RequestCtx

	h.Landing(&ctx)

	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, "text/html; charset=utf-8", string(ctx.Response.Header.ContentType()))
	body := string(ctx.Response.Body())
	assert.Contains(t, body, "Всего поисков: 4")
	assert.Contains(t, body, "Успешность: 75.0%")
	assert.Contains(t, body, `href="https://t.me/finding_bot"`)
}

func TestLanding_WithoutBotLink(t *testing.T) {
	h := newHandler(&stubHistory{}, "")
	var ctx fasthttp.RequestCtx

	h.Landing(&ctx)

	assert.NotContains(t, string(ctx.Response.Body()), "t.me")
}

func TestHealth(t *testing.T) {
	h := newHandler(&stubHistory{}, "bot")
	var ctx fasthttp.RequestCtx

	h.Health(&ctx)

	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, "OK", string(ctx.Response.Body()))
}

func TestLogs_ReturnsLast20(t *testing.T) {
	history := &stubHistory{}
	for i := 0; i < 30; i++ {
		history.entries = append(history.entries, entities.SearchLogEntry{ID: fmt.Sprintf("id-%d", i)})
	}
	h := newHandler(history, "bot")
	var ctx fasthttp.RequestCtx

	h.Logs(&ctx)

	var resp dto.LogsResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.Len(t, resp.Logs, 20)
	assert.Equal(t, 30, resp.Total)
	assert.Equal(t, "id-0", resp.Logs[0].ID)
}

func TestUnauthorized(t *testing.T) {
	h := newHandler(&stubHistory{}, "bot")
	var ctx fasthttp.RequestCtx

	h.Unauthorized(&ctx)

	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
	var resp httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.Equal(t, "unauthorized", resp.Error)
}

func serve(rt *router.Router, path, auth string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(fasthttp.MethodGet)
	ctx.Request.SetRequestURI(path)
	if auth != "" {
		ctx.Request.Header.Set(fasthttp.HeaderAuthorization, auth)
	}
	rt.Handler(&ctx)
	return &ctx
}

func TestRouter_LogsAuth(t *testing.T) {
	tests := []struct {
		name        string
		token       string
		environment string
		auth        string
		wantStatus  int
	}{
		{name: "valid token", token: "s3cret", environment: "production", auth: "Bearer s3cret", wantStatus: fasthttp.StatusOK},
		{name: "wrong token", token: "s3cret", environment: "production", auth: "Bearer nope", wantStatus: fasthttp.StatusUnauthorized},
		{name: "missing header", token: "s3cret", environment: "development", wantStatus: fasthttp.StatusUnauthorized},
		{name: "no token in development", environment: "development", wantStatus: fasthttp.StatusOK},
		{name: "no token in production", environment: "production", auth: "Bearer anything", wantStatus: fasthttp.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &config.ServiceConfig{Name: "tg-finding", Environment: tt.environment, AdminToken: tt.token}
			h := newHandler(&stubHistory{}, "bot")
			rt := router.New()
			NewRouter(h, service, zerolog.Nop()).RegisterRoutes(rt)

			ctx := serve(rt, "/api/logs", tt.auth)

			assert.Equal(t, tt.wantStatus, ctx.Response.StatusCode())
		})
	}
}

func TestRouter_PublicRoutes(t *testing.T) {
	service := &config.ServiceConfig{Name: "tg-finding", Environment: "production", AdminToken: "x"}
	rt := router.New()
	NewRouter(newHandler(&stubHistory{}, "bot"), service, zerolog.Nop()).RegisterRoutes(rt)

	assert.Equal(t, fasthttp.StatusOK, serve(rt, "/", "").Response.StatusCode())
	assert.Equal(t, fasthttp.StatusOK, serve(rt, "/health", "").Response.StatusCode())
	assert.Equal(t, fasthttp.StatusOK, serve(rt, "/status", "").Response.StatusCode())
}

func TestRouter_UnknownPath(t *testing.T) {
	service := &config.ServiceConfig{Name: "tg-finding", Environment: "production"}
	rt := router.New()
	NewRouter(newHandler(&stubHistory{}, "bot"), service, zerolog.Nop()).RegisterRoutes(rt)

	ctx := serve(rt, "/nope", "")

	assert.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())
	var resp httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.Equal(t, "not found", resp.Error)
}
