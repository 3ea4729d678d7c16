// Package main contains the entrypoint for the odinbot Telegram bot.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edgard/odinbot/internal/activation"
	"github.com/edgard/odinbot/internal/bot"
	"github.com/edgard/odinbot/internal/bot/handlers"
	"github.com/edgard/odinbot/internal/bot/tasks"
	"github.com/edgard/odinbot/internal/config"
	"github.com/edgard/odinbot/internal/logger"
	"github.com/edgard/odinbot/internal/market"
	"github.com/edgard/odinbot/internal/server"
	"github.com/edgard/odinbot/internal/telegram"
	"github.com/edgard/odinbot/internal/tokenlink"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run wires every component, blocks until shutdown and returns the exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	loc, err := cfg.Location()
	if err != nil {
		log.Error("Invalid report timezone", "error", err)
		return 1
	}

	store, closeStore, err := openStore(cfg.Store, log)
	if err != nil {
		log.Error("Failed to open activation store", "backend", cfg.Store.Backend, "error", err)
		return 1
	}
	defer closeStore()

	activations := activation.NewService(store, log)
	active, err := activations.ActiveChats(ctx)
	if err != nil {
		log.Error("Failed to load active groups", "backend", cfg.Store.Backend, "error", err)
		return 1
	}
	log.Info("Loaded active groups", "backend", cfg.Store.Backend, "count", len(active), "chat_ids", active)

	extractor, err := tokenlink.New(cfg.Market.SiteURL)
	if err != nil {
		log.Error("Invalid token site URL", "error", err)
		return 1
	}

	router := handlers.NewRouter(handlers.HandlerDeps{
		Logger:     log,
		Config:     cfg,
		Activation: activations,
		Market:     market.NewHTTPClient(cfg.Market, log),
		Extractor:  extractor,
		Location:   loc,
		Now:        time.Now,
	})

	botOpts := telegram.Options(cfg.Telegram,
		handlers.Recover(log)(handlers.NewTokenHandler(router)),
		logger.Middleware(log),
	)
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	botUsername := telegram.BotUsername(ctx, tg, log)
	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllCommands(router, botUsername)); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	if err := telegram.ConfigureDelivery(ctx, tg, cfg.Telegram, log); err != nil {
		log.Error("Failed to configure update delivery", "error", err)
		return 1
	}

	var srv *server.Server
	if cfg.HTTP.ListenAddr != "" {
		opts := server.Options{}
		if p, ok := store.(server.Pinger); ok {
			opts.Health = p
		}
		if cfg.Telegram.Mode == config.ModeWebhook {
			opts.WebhookPath = cfg.Telegram.WebhookPath
			opts.Webhook = tg.WebhookHandler()
		}
		srv = server.New(cfg.HTTP, log, opts)
	}

	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tasks.TaskDeps{
		Logger:     log,
		Activation: activations,
	}))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	app := bot.NewBot(log, cfg, tg, srv, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	return 0
}
