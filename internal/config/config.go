// Package config provides configuration loading, validation, and defaults
// for the odinbot application. Values come from (lowest to highest priority)
// built-in defaults, an optional YAML file, an optional .env file and the
// process environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // report timezone must resolve in minimal containers

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Delivery modes for Telegram updates.
const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

// Activation store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config holds the complete application configuration.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"log"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Market    MarketConfig    `mapstructure:"market"`
	Report    ReportConfig    `mapstructure:"report"`
	Store     StoreConfig     `mapstructure:"store"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LoggerConfig controls slog output.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds bot credentials and the update delivery mode.
type TelegramConfig struct {
	Token          string `mapstructure:"token"            validate:"required"`
	Mode           string `mapstructure:"mode"             validate:"oneof=polling webhook"`
	WebhookBaseURL string `mapstructure:"webhook_base_url" validate:"required_if=Mode webhook"`
	WebhookPath    string `mapstructure:"webhook_path"     validate:"omitempty,startswith=/"`
	WebhookSecret  string `mapstructure:"webhook_secret"`
}

// WebhookURL returns the public URL Telegram should deliver updates to.
func (t TelegramConfig) WebhookURL() string {
	base := strings.TrimRight(t.WebhookBaseURL, "/")
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	return base + t.WebhookPath
}

// HTTPConfig configures the embedded HTTP server (webhook, health, metrics).
// An empty ListenAddr disables the server in polling mode.
type HTTPConfig struct {
	ListenAddr      string        `mapstructure:"listen_addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"min=0"`
}

// MarketConfig configures the remote market data endpoints.
type MarketConfig struct {
	SiteURL                string        `mapstructure:"site_url"                 validate:"required,url"`
	TokenAPIURL            string        `mapstructure:"token_api_url"            validate:"required,url"`
	ReferencePriceURL      string        `mapstructure:"reference_price_url"      validate:"required,url"`
	ReferenceAsset         string        `mapstructure:"reference_asset"          validate:"required"`
	QuoteCurrency          string        `mapstructure:"quote_currency"           validate:"required"`
	FallbackReferencePrice float64       `mapstructure:"fallback_reference_price" validate:"gt=0"`
	RequestTimeout         time.Duration `mapstructure:"request_timeout"          validate:"min=0"`
}

// ReportConfig configures report rendering.
type ReportConfig struct {
	Timezone string `mapstructure:"timezone" validate:"required"`
}

// StoreConfig selects and configures the activation store backend.
type StoreConfig struct {
	Backend    string `mapstructure:"backend"     validate:"oneof=memory file sqlite redis"`
	FilePath   string `mapstructure:"file_path"   validate:"required_if=Backend file"`
	SQLitePath string `mapstructure:"sqlite_path" validate:"required_if=Backend sqlite"`
	RedisURL   string `mapstructure:"redis_url"   validate:"required_if=Backend redis"`
	RedisKey   string `mapstructure:"redis_key"   validate:"required_if=Backend redis"`
}

// SchedulerConfig holds the configured scheduled tasks keyed by task name.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig configures a single scheduled task.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}

// MessagesConfig holds the user-facing bot texts.
type MessagesConfig struct {
	Onboarding        string `mapstructure:"onboarding"         validate:"required"`
	Activated         string `mapstructure:"activated"          validate:"required"`
	AlreadyActive     string `mapstructure:"already_active"     validate:"required"`
	ActivationFailed  string `mapstructure:"activation_failed"  validate:"required"`
	RemoteStatusError string `mapstructure:"remote_status_error" validate:"required"`
	FetchError        string `mapstructure:"fetch_error"        validate:"required"`
}

// Location resolves the configured report timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Report.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid report timezone %q: %w", c.Report.Timezone, err)
	}
	return loc, nil
}

// LoadConfig reads configuration from path (optional), .env (optional) and
// the environment, applies defaults and validates the result.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, envs := range legacyEnv {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
			slog.Info("Configuration file not found, using defaults and environment", "path", path)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if cfg.HTTP.ListenAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			cfg.HTTP.ListenAddr = ":" + port
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks struct constraints and values that need more than tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Telegram.Mode == ModeWebhook && c.HTTP.ListenAddr == "" {
		return errors.New("invalid configuration: http.listen_addr (or PORT) is required in webhook mode")
	}
	return nil
}
