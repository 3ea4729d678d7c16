package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Sender delivers a text reply to a chat.
type Sender interface {
	SendReply(ctx context.Context, chatID int64, replyTo int, text string) error
}

// botSender sends replies through a live go-telegram bot.
type botSender struct {
	b *bot.Bot
}

// NewBotSender adapts b to Sender.
func NewBotSender(b *bot.Bot) Sender {
	return botSender{b: b}
}

func (s botSender) SendReply(ctx context.Context, chatID int64, replyTo int, text string) error {
	params := &bot.SendMessageParams{ChatID: chatID, Text: text}
	if replyTo != 0 {
		params.ReplyParameters = &models.ReplyParameters{
			MessageID:                replyTo,
			AllowSendingWithoutReply: true,
		}
	}
	_, err := s.b.SendMessage(ctx, params)
	return err
}

// eventFromUpdate extracts the router event from a message update.
func eventFromUpdate(update *models.Update) (Event, bool) {
	if update == nil || update.Message == nil {
		return Event{}, false
	}
	msg := update.Message
	cmd, _ := leadingCommand(msg)
	return Event{
		ChatID:    msg.Chat.ID,
		ChatKind:  msg.Chat.Type,
		MessageID: msg.ID,
		Text:      msg.Text,
		Command:   cmd,
	}, true
}
