package config

import (
	"time"

	"github.com/spf13/viper"
)

// Default values for configuration.
const (
	DefaultLogLevel = "info"

	DefaultTelegramMode        = ModePolling
	DefaultTelegramWebhookPath = "/webhook"

	DefaultHTTPShutdownTimeout = 10 * time.Second

	DefaultSiteURL                = "https://odin.fun"
	DefaultTokenAPIURL            = "https://api.odin.fun"
	DefaultReferencePriceURL      = "https://api.coingecko.com/api/v3"
	DefaultReferenceAsset         = "bitcoin"
	DefaultQuoteCurrency          = "usd"
	DefaultFallbackReferencePrice = 83000.0
	DefaultMarketRequestTimeout   = 30 * time.Second

	DefaultTimezone = "Asia/Shanghai"

	DefaultStoreBackend = BackendFile
	DefaultStoreFile    = "active_groups.json"
	DefaultSQLitePath   = "odinbot.db"
	DefaultRedisURL     = "redis://localhost:6379/0"
	DefaultRedisKey     = "odinbot:active_chats"

	// StoreMaintenanceTask is the scheduler key of the store maintenance task.
	StoreMaintenanceTask     = "store_maintenance"
	DefaultMaintenanceCron   = "0 0 4 * * *"
	DefaultMaintenanceEnable = false

	// ActiveChatsTask is the scheduler key of the active chats gauge refresh.
	ActiveChatsTask          = "active_chats_metric"
	DefaultActiveChatsCron   = "0 */5 * * * *"
	DefaultActiveChatsEnable = true
)

// DefaultMessages holds the default user-facing texts.
var DefaultMessages = MessagesConfig{
	Onboarding: "👋 Hi! I look up Odin tokens.\n" +
		"Add me to a group and send /start there to enable lookups.\n" +
		"Once enabled, just post a link like https://odin.fun/token/229u and I will reply with the latest token info.",
	Activated: "✅ Token lookups are now enabled for this group!\n" +
		"Post a token link and I will reply with its info.",
	AlreadyActive: "ℹ️ Token lookups are already enabled for this group.\n" +
		"Post a token link and I will reply with its info.",
	ActivationFailed:  "❌ Could not enable token lookups for this group. Please try again later.",
	RemoteStatusError: "❌ API request failed, status code: %d",
	FetchError:        "❌ Error while fetching token info: %v",
}

// legacyEnv binds environment variable names used by earlier deployments.
var legacyEnv = map[string][]string{
	"telegram.token":            {"BOT_TELEGRAM_TOKEN", "TELEGRAM_BOT_TOKEN"},
	"telegram.webhook_base_url": {"BOT_TELEGRAM_WEBHOOK_BASE_URL", "RAILWAY_STATIC_URL"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.json", true)

	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.mode", DefaultTelegramMode)
	v.SetDefault("telegram.webhook_base_url", "")
	v.SetDefault("telegram.webhook_path", DefaultTelegramWebhookPath)
	v.SetDefault("telegram.webhook_secret", "")

	v.SetDefault("http.listen_addr", "")
	v.SetDefault("http.shutdown_timeout", DefaultHTTPShutdownTimeout)

	v.SetDefault("market.site_url", DefaultSiteURL)
	v.SetDefault("market.token_api_url", DefaultTokenAPIURL)
	v.SetDefault("market.reference_price_url", DefaultReferencePriceURL)
	v.SetDefault("market.reference_asset", DefaultReferenceAsset)
	v.SetDefault("market.quote_currency", DefaultQuoteCurrency)
	v.SetDefault("market.fallback_reference_price", DefaultFallbackReferencePrice)
	v.SetDefault("market.request_timeout", DefaultMarketRequestTimeout)

	v.SetDefault("report.timezone", DefaultTimezone)

	v.SetDefault("store.backend", DefaultStoreBackend)
	v.SetDefault("store.file_path", DefaultStoreFile)
	v.SetDefault("store.sqlite_path", DefaultSQLitePath)
	v.SetDefault("store.redis_url", DefaultRedisURL)
	v.SetDefault("store.redis_key", DefaultRedisKey)

	v.SetDefault("scheduler.tasks."+StoreMaintenanceTask+".enabled", DefaultMaintenanceEnable)
	v.SetDefault("scheduler.tasks."+StoreMaintenanceTask+".schedule", DefaultMaintenanceCron)
	v.SetDefault("scheduler.tasks."+ActiveChatsTask+".enabled", DefaultActiveChatsEnable)
	v.SetDefault("scheduler.tasks."+ActiveChatsTask+".schedule", DefaultActiveChatsCron)

	v.SetDefault("messages.onboarding", DefaultMessages.Onboarding)
	v.SetDefault("messages.activated", DefaultMessages.Activated)
	v.SetDefault("messages.already_active", DefaultMessages.AlreadyActive)
	v.SetDefault("messages.activation_failed", DefaultMessages.ActivationFailed)
	v.SetDefault("messages.remote_status_error", DefaultMessages.RemoteStatusError)
	v.SetDefault("messages.fetch_error", DefaultMessages.FetchError)
}
