package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// chdir changes the working directory for the duration of the test,
// restoring the previous one on cleanup (equivalent to testing.T.Chdir).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(prev)) })
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("BOT_TELEGRAM_TOKEN", "123:abc")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Telegram.Token)
	assert.Equal(t, ModePolling, cfg.Telegram.Mode)
	assert.Equal(t, DefaultLogLevel, cfg.Logger.Level)
	assert.Equal(t, DefaultFallbackReferencePrice, cfg.Market.FallbackReferencePrice)
	assert.Equal(t, DefaultMarketRequestTimeout, cfg.Market.RequestTimeout)
	assert.Equal(t, BackendFile, cfg.Store.Backend)
	assert.Equal(t, DefaultStoreFile, cfg.Store.FilePath)
	assert.Equal(t, DefaultMessages, cfg.Messages)

	task, ok := cfg.Scheduler.Tasks[StoreMaintenanceTask]
	require.True(t, ok)
	assert.False(t, task.Enabled)
	assert.Equal(t, DefaultMaintenanceCron, task.Schedule)

	task, ok = cfg.Scheduler.Tasks[ActiveChatsTask]
	require.True(t, ok)
	assert.True(t, task.Enabled)
}

func TestLoadConfig_LegacyEnvNames(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TELEGRAM_BOT_TOKEN", "legacy-token")
	t.Setenv("RAILWAY_STATIC_URL", "bot.example.com")
	t.Setenv("BOT_TELEGRAM_MODE", "webhook")
	t.Setenv("PORT", "8443")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, ":8443", cfg.HTTP.ListenAddr)

	assert.Equal(t, "legacy-token", cfg.Telegram.Token)
	assert.Equal(t, ModeWebhook, cfg.Telegram.Mode)
	assert.Equal(t, "https://bot.example.com/webhook", cfg.Telegram.WebhookURL())
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	path := writeConfig(t, `
log:
  level: debug
  json: false
telegram:
  token: "file-token"
market:
  fallback_reference_price: 90000
  request_timeout: 5s
report:
  timezone: UTC
store:
  backend: sqlite
  sqlite_path: /tmp/odinbot-test.db
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.False(t, cfg.Logger.JSON)
	assert.Equal(t, "file-token", cfg.Telegram.Token)
	assert.InDelta(t, 90000.0, cfg.Market.FallbackReferencePrice, 0)
	assert.Equal(t, "5s", cfg.Market.RequestTimeout.String())
	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "/tmp/odinbot-test.db", cfg.Store.SQLitePath)
}

func TestLoadConfig_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "missing token",
			body: "log:\n  level: info\n",
		},
		{
			name: "unknown mode",
			body: "telegram:\n  token: t\n  mode: carrier-pigeon\n",
		},
		{
			name: "webhook without base url",
			body: "telegram:\n  token: t\n  mode: webhook\n",
		},
		{
			name: "webhook without listen addr",
			body: "telegram:\n  token: t\n  mode: webhook\n  webhook_base_url: bot.example.com\n",
		},
		{
			name: "non positive fallback",
			body: "telegram:\n  token: t\nmarket:\n  fallback_reference_price: 0\n",
		},
		{
			name: "unknown backend",
			body: "telegram:\n  token: t\nstore:\n  backend: etcd\n",
		},
		{
			name: "bad timezone",
			body: "telegram:\n  token: t\nreport:\n  timezone: Mars/Olympus\n",
		},
		{
			name: "enabled task without schedule",
			body: "telegram:\n  token: t\nscheduler:\n  tasks:\n    store_maintenance:\n      enabled: true\n      schedule: \"\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			t.Setenv("BOT_TELEGRAM_TOKEN", "")
			t.Setenv("TELEGRAM_BOT_TOKEN", "")
			t.Setenv("PORT", "")
			_, err := LoadConfig(writeConfig(t, tt.body))
			require.Error(t, err)
		})
	}
}

func TestTelegramConfig_WebhookURL(t *testing.T) {
	tc := TelegramConfig{WebhookBaseURL: "https://bot.example.com/", WebhookPath: "/hook"}
	assert.Equal(t, "https://bot.example.com/hook", tc.WebhookURL())
}
