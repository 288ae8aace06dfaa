package botapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/horrygame/tg-finding/config"
	"github.com/horrygame/tg-finding/internal/domain/lookup/entities"
	"github.com/horrygame/tg-finding/internal/domain/lookup/handle"
)

const testToken = "123456:secret-token"

func newFetcher(t *testing.T, apiURL string, timeout time.Duration) *Client {
	t.Helper()
	fetcher, err := NewClient(
		&config.TelegramConfig{BotToken: testToken, APIURL: apiURL},
		&config.LookupConfig{FetchTimeout: timeout},
		zerolog.Nop(),
	)
	require.NoError(t, err)
	return fetcher.(*Client)
}

func newTestClient(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return newFetcher(t, srv.URL, timeout)
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}
}

func TestNewClient_EmptyToken(t *testing.T) {
	_, err := NewClient(&config.TelegramConfig{}, &config.LookupConfig{FetchTimeout: time.Second}, zerolog.Nop())

	assert.Error(t, err)
}

func TestFetch_RequestShape(t *testing.T) {
	var gotPath, gotChatID string
	var requests int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		gotPath = r.URL.Path
		_ = r.ParseMultipartForm(1 << 20)
		gotChatID = r.FormValue("chat_id")
		respond(http.StatusOK, `{"ok":true,"result":{"id":1,"type":"private","username":"durov"}}`)(w, r)
	}, time.Second)

	outcome := c.Fetch(context.Background(), handle.Handle("durov"))

	assert.Equal(t, 1, requests)
	assert.Equal(t, "/bot"+testToken+"/getChat", gotPath)
	assert.Equal(t, "@durov", gotChatID)
	require.True(t, outcome.Success())
	assert.Equal(t, "durov", outcome.Profile.Handle)
}

func TestFetch_ErrorCodes(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantKind   entities.OutcomeKind
		wantReason string
	}{
		{
			name:       "not found",
			status:     http.StatusNotFound,
			body:       `{"ok":false,"error_code":404,"description":"Not Found"}`,
			wantKind:   entities.OutcomeNotFound,
			wantReason: "Пользователь не найден",
		},
		{
			name:       "bad request",
			status:     http.StatusBadRequest,
			body:       `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`,
			wantKind:   entities.OutcomeInvalidRequest,
			wantReason: "Неверный запрос или юзернейм не существует",
		},
		{
			name:       "bad request with migration",
			status:     http.StatusBadRequest,
			body:       `{"ok":false,"error_code":400,"description":"Bad Request: group upgraded","parameters":{"migrate_to_chat_id":-100123}}`,
			wantKind:   entities.OutcomeInvalidRequest,
			wantReason: "Неверный запрос или юзернейм не существует",
		},
		{
			name:       "forbidden",
			status:     http.StatusForbidden,
			body:       `{"ok":false,"error_code":403,"description":"Forbidden"}`,
			wantKind:   entities.OutcomeForbidden,
			wantReason: "Доступ запрещен (приватный профиль)",
		},
		{
			name:       "too many requests",
			status:     http.StatusTooManyRequests,
			body:       `{"ok":false,"error_code":429,"description":"Too Many Requests: retry after 5"}`,
			wantKind:   entities.OutcomeTransportError,
			wantReason: "Too Many Requests: retry after 5",
		},
		{
			name:       "server error",
			status:     http.StatusInternalServerError,
			body:       `{"ok":false,"error_code":500,"description":"Internal Server Error"}`,
			wantKind:   entities.OutcomeTransportError,
			wantReason: "Internal Server Error",
		},
		{
			name:       "non json",
			status:     http.StatusBadGateway,
			body:       `<html>bad gateway</html>`,
			wantKind:   entities.OutcomeTransportError,
			wantReason: "Ошибка соединения: unexpected response from Bot API",
		},
		{
			name:     "ok without result",
			status:   http.StatusOK,
			body:     `{"ok":true}`,
			wantKind: entities.OutcomeTransportError,
		},
		{
			name:     "null result",
			status:   http.StatusOK,
			body:     `{"ok":true,"result":null}`,
			wantKind: entities.OutcomeTransportError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, respond(tt.status, tt.body), time.Second)

			outcome := c.Fetch(context.Background(), handle.Handle("someone"))

			assert.Equal(t, tt.wantKind, outcome.Kind)
			assert.False(t, outcome.Success())
			assert.Nil(t, outcome.Profile)
			if tt.wantReason != "" {
				assert.Contains(t, outcome.Reason(), tt.wantReason)
			}
		})
	}
}

func TestFetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, 50*time.Millisecond)
	defer close(release)

	outcome := c.Fetch(context.Background(), handle.Handle("slowpoke"))

	assert.Equal(t, entities.OutcomeTransportError, outcome.Kind)
	assert.Contains(t, outcome.Detail, "timeout")
}

func TestFetch_IgnoresCallerCancellation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(20 * time.Millisecond)
		respond(http.StatusOK, `{"ok":true,"result":{"id":5,"type":"private"}}`)(w, r)
	}, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome := c.Fetch(ctx, handle.Handle("patient"))

	assert.True(t, outcome.Success())
}

func TestFetch_ConnectionErrorDoesNotLeakToken(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c := newFetcher(t, addr, time.Second)

	outcome := c.Fetch(context.Background(), handle.Handle("nobody"))

	assert.Equal(t, entities.OutcomeTransportError, outcome.Kind)
	assert.NotEmpty(t, outcome.Detail)
	assert.False(t, strings.Contains(outcome.Reason(), testToken))
}

func TestFetch_ChannelRecord(t *testing.T) {
	body := `{"ok":true,"result":{
		"id":-1001005640892,
		"type":"channel",
		"title":"Telegram News",
		"username":"telegram",
		"description":"Official news",
		"members_count":1500000,
		"active_usernames":["telegram"]
	}}`
	c := newTestClient(t, respond(http.StatusOK, body), time.Second)

	outcome := c.Fetch(context.Background(), handle.Handle("telegram"))

	require.True(t, outcome.Success())
	p := outcome.Profile
	assert.Equal(t, entities.KindChannel, p.Kind)
	assert.Equal(t, "Telegram News", p.Title)
	assert.Equal(t, 1500000, p.MembersCount)
	assert.Empty(t, p.InviteLink)
	assert.Equal(t, []string{"telegram"}, p.ActiveUsernames)
	assert.Empty(t, outcome.Reason())
}

func TestFetch_BotRecord(t *testing.T) {
	body := `{"ok":true,"result":{"id":93372553,"type":"private","username":"BotFather","first_name":"BotFather","is_bot":true}}`
	c := newTestClient(t, respond(http.StatusOK, body), time.Second)

	outcome := c.Fetch(context.Background(), handle.Handle("BotFather"))

	require.True(t, outcome.Success())
	assert.Equal(t, entities.KindBot, outcome.Profile.Kind)
	assert.True(t, outcome.Profile.IsBot)
	assert.Equal(t, "BotFather", outcome.Profile.FirstName)
}

func TestCapturingClient_OnlyCapturesMarkedRequests(t *testing.T) {
	srv := httptest.NewServer(respond(http.StatusOK, `{"ok":true}`))
	t.Cleanup(srv.Close)
	client := &capturingClient{client: srv.Client()}

	captured := &capturedBody{}
	req, err := http.NewRequestWithContext(withCapture(context.Background(), captured), http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, `{"ok":true}`, string(captured.body))
	assert.Equal(t, `{"ok":true}`, string(body))

	plain, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err = client.Do(plain)
	require.NoError(t, err)
	_ = resp.Body.Close()
}

func TestDecodeExtras(t *testing.T) {
	assert.Equal(t, chatExtras{MembersCount: 12, IsBot: true},
		decodeExtras([]byte(`{"ok":true,"result":{"members_count":12,"is_bot":true}}`)))
	assert.Equal(t, chatExtras{}, decodeExtras(nil))
	assert.Equal(t, chatExtras{}, decodeExtras([]byte(`<html>`)))
}

func TestToRecord_ClearsChatFieldsForPersonalAccounts(t *testing.T) {
	record := toRecord(&models.ChatFullInfo{
		ID:              7,
		Type:            models.ChatTypePrivate,
		Title:           "should vanish",
		InviteLink:      "https://t.me/+x",
		ActiveUsernames: []string{"a"},
	}, chatExtras{MembersCount: 10})

	assert.Equal(t, entities.KindPrivate, record.Kind)
	assert.Empty(t, record.Title)
	assert.Zero(t, record.MembersCount)
	assert.Empty(t, record.InviteLink)
	assert.Nil(t, record.ActiveUsernames)
}

func TestToRecord_BotAndDefaults(t *testing.T) {
	bot := toRecord(&models.ChatFullInfo{ID: 1, Type: models.ChatTypePrivate}, chatExtras{IsBot: true})
	assert.Equal(t, entities.KindBot, bot.Kind)
	assert.True(t, bot.IsBot)

	unknown := toRecord(&models.ChatFullInfo{ID: 2}, chatExtras{})
	assert.Equal(t, entities.KindPrivate, unknown.Kind)
	assert.False(t, unknown.IsBot)
}
