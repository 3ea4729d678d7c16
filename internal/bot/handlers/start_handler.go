package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewStartHandler returns a handler for the /start command.
func NewStartHandler(router *Router) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		ev, ok := eventFromUpdate(update)
		if !ok {
			router.logger.WarnContext(ctx, "Start handler received update without message")
			return
		}
		router.HandleActivate(ctx, NewBotSender(b), ev)
	}
}
