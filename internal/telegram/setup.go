// Package telegram creates the go-telegram bot, registers handlers and
// configures how updates are delivered.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"

	"github.com/edgard/odinbot/internal/bot/handlers"
	"github.com/edgard/odinbot/internal/config"
)

// NewTelegramBot creates a new Telegram bot instance using the go-telegram/bot library.
func NewTelegramBot(token string, logger *slog.Logger, opts ...bot.Option) (*bot.Bot, error) {
	if token == "" {
		return nil, errors.New("telegram bot token cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "telegram_bot")

	b, err := bot.New(token, opts...)
	if err != nil {
		log.Error("Failed to create Telegram bot instance", "error", err)
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	log.Info("Telegram bot instance created successfully", "token_prefix", tokenPrefix(token))
	return b, nil
}

// Options returns the bot options for cfg: update middleware, the default
// text handler and, in webhook mode, the secret token check.
func Options(cfg config.TelegramConfig, defaultHandler bot.HandlerFunc, mw ...bot.Middleware) []bot.Option {
	opts := []bot.Option{
		bot.WithDefaultHandler(defaultHandler),
	}
	if len(mw) > 0 {
		opts = append(opts, bot.WithMiddlewares(mw...))
	}
	if cfg.Mode == config.ModeWebhook && cfg.WebhookSecret != "" {
		opts = append(opts, bot.WithWebhookSecretToken(cfg.WebhookSecret))
	}
	return opts
}

// applyMiddleware wraps a handler function with a slice of middleware.
// The first middleware in the slice is the outermost.
func applyMiddleware(handler bot.HandlerFunc, mw []bot.Middleware) bot.HandlerFunc {
	for i := len(mw) - 1; i >= 0; i-- {
		handler = mw[i](handler)
	}
	return handler
}

// RegisterHandlers registers command handlers with the Telegram bot instance.
func RegisterHandlers(b *bot.Bot, logger *slog.Logger, registeredHandlers map[string]handlers.RegisteredHandler) error {
	if b == nil {
		return errors.New("bot instance cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "handler_registry")

	if len(registeredHandlers) == 0 {
		log.Warn("No handlers provided for registration.")
		return nil
	}

	for name, regHandler := range registeredHandlers {
		if regHandler.Handler == nil {
			log.Warn("Skipping registration for nil handler", "command", name)
			continue
		}

		finalHandler := applyMiddleware(regHandler.Handler, regHandler.Middleware)
		if regHandler.MatchFunc != nil {
			b.RegisterHandlerMatchFunc(regHandler.MatchFunc, finalHandler)
			log.Debug("Registered handler", "command", name, "match", "func", "middleware_count", len(regHandler.Middleware))
			continue
		}
		b.RegisterHandler(regHandler.HandlerType, regHandler.Pattern, regHandler.MatchType, finalHandler)
		log.Debug("Registered handler", "command", name, "match_type", regHandler.MatchType, "middleware_count", len(regHandler.Middleware))
	}

	log.Info("Registered Telegram handlers successfully", "count", len(registeredHandlers))
	return nil
}

// ConfigureDelivery points Telegram at the webhook URL in webhook mode and
// removes any webhook in polling mode, since getUpdates fails while one is set.
func ConfigureDelivery(ctx context.Context, b *bot.Bot, cfg config.TelegramConfig, logger *slog.Logger) error {
	log := logger.With("component", "telegram_delivery", "mode", cfg.Mode)

	switch cfg.Mode {
	case config.ModeWebhook:
		url := cfg.WebhookURL()
		ok, err := b.SetWebhook(ctx, &bot.SetWebhookParams{
			URL:         url,
			SecretToken: cfg.WebhookSecret,
		})
		if err != nil {
			return fmt.Errorf("failed to set webhook: %w", err)
		}
		if !ok {
			return errors.New("telegram rejected webhook registration")
		}
		log.Info("Webhook registered", "url", redact(url, cfg.Token))
	default:
		if _, err := b.DeleteWebhook(ctx, &bot.DeleteWebhookParams{}); err != nil {
			return fmt.Errorf("failed to delete webhook: %w", err)
		}
		log.Info("Webhook removed, using long polling")
	}
	return nil
}

// BotUsername returns the bot's own username from getMe. Command matching
// falls back to accepting any @address when the lookup fails.
func BotUsername(ctx context.Context, b *bot.Bot, logger *slog.Logger) string {
	me, err := b.GetMe(ctx)
	if err != nil {
		logger.Warn("Failed to fetch bot identity, commands addressed to any bot will match", "error", err)
		return ""
	}
	logger.Info("Bot identity resolved", "username", me.Username, "bot_id", me.ID)
	return me.Username
}

func tokenPrefix(token string) string {
	if len(token) <= 8 {
		return "***"
	}
	return token[:8] + "..."
}
