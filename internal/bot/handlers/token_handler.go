package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewTokenHandler returns the default handler. It receives every update no
// registered command matched and looks for token links in message text.
func NewTokenHandler(router *Router) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		ev, ok := eventFromUpdate(update)
		if !ok {
			return
		}
		router.HandleText(ctx, NewBotSender(b), ev)
	}
}
