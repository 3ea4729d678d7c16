package bot

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/odinbot/internal/config"
	"github.com/edgard/odinbot/internal/logger"
)

type fakeListener struct {
	polled    atomic.Bool
	webhooks  atomic.Bool
	quitEarly bool
}

func (f *fakeListener) Start(ctx context.Context) {
	f.polled.Store(true)
	if !f.quitEarly {
		<-ctx.Done()
	}
}

func (f *fakeListener) StartWebhook(ctx context.Context) {
	f.webhooks.Store(true)
	<-ctx.Done()
}

func newTestBot(t *testing.T, mode string, l Listener) *Bot {
	t.Helper()
	sched, err := NewScheduler(logger.Discard(), nil, nil)
	require.NoError(t, err)
	cfg := &config.Config{Telegram: config.TelegramConfig{Mode: mode}}
	return NewBot(logger.Discard(), cfg, l, nil, sched)
}

func runFor(t *testing.T, b *Bot, d time.Duration) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return b.Run(ctx)
}

func TestRun_PollingMode(t *testing.T) {
	l := &fakeListener{}
	require.NoError(t, runFor(t, newTestBot(t, config.ModePolling, l), 100*time.Millisecond))
	assert.True(t, l.polled.Load())
	assert.False(t, l.webhooks.Load())
}

func TestRun_WebhookMode(t *testing.T) {
	l := &fakeListener{}
	require.NoError(t, runFor(t, newTestBot(t, config.ModeWebhook, l), 100*time.Millisecond))
	assert.True(t, l.webhooks.Load())
	assert.False(t, l.polled.Load())
}

func TestRun_ListenerStopsUnexpectedly(t *testing.T) {
	l := &fakeListener{quitEarly: true}
	err := runFor(t, newTestBot(t, config.ModePolling, l), 2*time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stopped unexpectedly")
}
