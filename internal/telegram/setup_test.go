package telegram

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/odinbot/internal/activation"
	"github.com/edgard/odinbot/internal/bot/handlers"
	"github.com/edgard/odinbot/internal/config"
)

func TestNewTelegramBot_EmptyToken(t *testing.T) {
	_, err := NewTelegramBot("", nil)
	require.Error(t, err)
}

func TestOptions(t *testing.T) {
	noop := func(next bot.HandlerFunc) bot.HandlerFunc { return next }

	polling := Options(config.TelegramConfig{Mode: config.ModePolling, WebhookSecret: "s"}, nil, noop)
	assert.Len(t, polling, 2)

	webhook := Options(config.TelegramConfig{Mode: config.ModeWebhook, WebhookSecret: "s"}, nil)
	assert.Len(t, webhook, 2)

	noSecret := Options(config.TelegramConfig{Mode: config.ModeWebhook}, nil)
	assert.Len(t, noSecret, 1)
}

func TestApplyMiddleware_Order(t *testing.T) {
	var calls []string
	mark := func(name string) bot.Middleware {
		return func(next bot.HandlerFunc) bot.HandlerFunc {
			return func(ctx context.Context, b *bot.Bot, u *models.Update) {
				calls = append(calls, name)
				next(ctx, b, u)
			}
		}
	}
	h := applyMiddleware(func(context.Context, *bot.Bot, *models.Update) {
		calls = append(calls, "handler")
	}, []bot.Middleware{mark("outer"), mark("inner")})

	h(context.Background(), nil, &models.Update{})

	assert.Equal(t, []string{"outer", "inner", "handler"}, calls)
}

func TestRegisterHandlers_NilBot(t *testing.T) {
	err := RegisterHandlers(nil, nil, map[string]handlers.RegisteredHandler{})
	require.Error(t, err)
}

// fakeTelegramAPI answers every Bot API call with a sent message and counts sendMessage calls.
func fakeTelegramAPI(t *testing.T, sends *atomic.Int32) *httptest.Server {
	t.Helper()
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/sendMessage") {
			sends.Add(1)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":-100,"type":"supergroup"}}}`)
	}))
	t.Cleanup(api.Close)
	return api
}

func TestRegisterHandlers_StartCommandForms(t *testing.T) {
	tests := []struct {
		text       string
		wantActive bool
	}{
		{"/start", true},
		{"/start@OdinInfoBot", true},
		{"/start@OdinInfoBot hello", true},
		{"/start@OtherBot", false},
		{"/startx", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			ctx := context.Background()
			var sends atomic.Int32
			api := fakeTelegramAPI(t, &sends)

			store := activation.NewMemoryStore()
			router := handlers.NewRouter(handlers.HandlerDeps{Activation: activation.NewService(store, nil)})

			opts := append(Options(config.TelegramConfig{Mode: config.ModePolling}, handlers.NewTokenHandler(router)),
				bot.WithSkipGetMe(),
				bot.WithServerURL(api.URL),
				bot.WithNotAsyncHandlers(),
			)
			b, err := NewTelegramBot("123456:test-token", nil, opts...)
			require.NoError(t, err)
			require.NoError(t, RegisterHandlers(b, nil, handlers.RegisterAllCommands(router, "OdinInfoBot")))

			b.ProcessUpdate(ctx, &models.Update{ID: 1, Message: &models.Message{
				ID:   5,
				Text: tt.text,
				Chat: models.Chat{ID: -100, Type: models.ChatTypeSupergroup},
				Entities: []models.MessageEntity{{
					Type:   models.MessageEntityTypeBotCommand,
					Offset: 0,
					Length: len(strings.Fields(tt.text)[0]),
				}},
			}})

			ids, err := store.LoadAll(ctx)
			require.NoError(t, err)
			if tt.wantActive {
				assert.Equal(t, []int64{-100}, ids)
				assert.Equal(t, int32(1), sends.Load())
			} else {
				assert.Empty(t, ids)
				assert.Zero(t, sends.Load())
			}
		})
	}
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "https://x.example/123:abcd...", redact("https://x.example/123:abcdefgh", "123:abcdefgh"))
	assert.Equal(t, "https://x.example/webhook", redact("https://x.example/webhook", ""))
	assert.Equal(t, "***", tokenPrefix("short"))
}
