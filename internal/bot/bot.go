// Package bot implements the lifecycle of the odinbot process: the Telegram
// listener, the HTTP server and the scheduler run together until shutdown.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tgbot "github.com/go-telegram/bot"
	"golang.org/x/sync/errgroup"

	"github.com/edgard/odinbot/internal/config"
	"github.com/edgard/odinbot/internal/server"
)

// Listener receives Telegram updates until ctx is canceled.
type Listener interface {
	Start(ctx context.Context)
	StartWebhook(ctx context.Context)
}

var _ Listener = (*tgbot.Bot)(nil)

// Bot represents the main bot application and manages its components' lifecycle.
type Bot struct {
	logger    *slog.Logger
	cfg       *config.Config
	tgBot     Listener
	server    *server.Server
	scheduler *Scheduler
}

// NewBot wires the running components. srv may be nil when no HTTP server is configured.
func NewBot(
	logger *slog.Logger,
	cfg *config.Config,
	tgBot Listener,
	srv *server.Server,
	scheduler *Scheduler,
) *Bot {
	return &Bot{
		logger:    logger.With("component", "bot_orchestrator"),
		cfg:       cfg,
		tgBot:     tgBot,
		server:    srv,
		scheduler: scheduler,
	}
}

// Run starts every component and blocks until ctx is canceled or one of them fails.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Starting bot orchestrator...", "mode", b.cfg.Telegram.Mode)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if b.cfg.Telegram.Mode == config.ModeWebhook {
			b.logger.Info("Starting Telegram webhook update processor...")
			b.tgBot.StartWebhook(gCtx)
		} else {
			b.logger.Info("Starting Telegram long polling...")
			b.tgBot.Start(gCtx)
		}
		b.logger.Info("Telegram bot listener stopped.")

		if gCtx.Err() == nil {
			b.logger.Warn("Telegram bot listener stopped unexpectedly without context cancellation.")
			return errors.New("telegram listener stopped unexpectedly")
		}
		return nil
	})

	if b.server != nil {
		g.Go(func() error {
			return b.server.Run(gCtx)
		})
	}

	g.Go(func() error {
		if err := b.scheduler.Start(); err != nil {
			b.logger.Error("Failed to start scheduler", "error", err)
			return fmt.Errorf("failed to start scheduler: %w", err)
		}

		<-gCtx.Done()
		b.logger.Info("Shutdown signal received, stopping scheduler...")

		if err := b.scheduler.Stop(); err != nil {
			b.logger.Error("Error stopping scheduler", "error", err)
		}
		return nil
	})

	b.logger.Info("Bot orchestrator running. Waiting for shutdown signal or error...")
	err := g.Wait()

	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot orchestrator stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Bot orchestrator stopped gracefully.")
	return nil
}
