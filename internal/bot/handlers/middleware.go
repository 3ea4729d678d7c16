package handlers

import (
	"context"
	"log/slog"
	"runtime/debug"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Recover stops a panicking handler from taking the process down with it.
func Recover(log *slog.Logger) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			defer func() {
				if rec := recover(); rec != nil {
					log.ErrorContext(ctx, "Handler panicked",
						"update_id", update.ID,
						"panic", rec,
						"stack", string(debug.Stack()))
				}
			}()
			next(ctx, b, update)
		}
	}
}
