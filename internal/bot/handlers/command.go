package handlers

import (
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// leadingCommand returns the bot_command entity that opens msg without its
// slash, e.g. "start" or "start@OdinInfoBot".
func leadingCommand(msg *models.Message) (string, bool) {
	if msg == nil {
		return "", false
	}
	for _, e := range msg.Entities {
		if e.Type != models.MessageEntityTypeBotCommand || e.Offset != 0 {
			continue
		}
		if e.Length < 2 || e.Length > len(msg.Text) {
			return "", false
		}
		return msg.Text[1:e.Length], true
	}
	return "", false
}

// CommandMatcher matches messages that open with /name, either bare or
// addressed as /name@botUsername. An empty botUsername accepts any address.
func CommandMatcher(name, botUsername string) tgbot.MatchFunc {
	return func(update *models.Update) bool {
		if update == nil {
			return false
		}
		cmd, ok := leadingCommand(update.Message)
		if !ok {
			return false
		}
		cmd, target, _ := strings.Cut(cmd, "@")
		if !strings.EqualFold(cmd, name) {
			return false
		}
		return target == "" || botUsername == "" || strings.EqualFold(target, botUsername)
	}
}
