package handlers

import (
	"strings"
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
)

func commandUpdate(text string, entityLen int) *models.Update {
	msg := &models.Message{ID: 1, Text: text, Chat: models.Chat{ID: groupID, Type: models.ChatTypeGroup}}
	if entityLen > 0 {
		msg.Entities = []models.MessageEntity{{Type: models.MessageEntityTypeBotCommand, Offset: 0, Length: entityLen}}
	}
	return &models.Update{ID: 1, Message: msg}
}

// commandLen is the entity length Telegram reports for a leading command.
func commandLen(text string) int {
	return len(strings.Fields(text)[0])
}

func TestCommandMatcher(t *testing.T) {
	match := CommandMatcher("start", "OdinInfoBot")

	tests := []struct {
		name string
		upd  *models.Update
		want bool
	}{
		{"bare", commandUpdate("/start", commandLen("/start")), true},
		{"addressed to this bot", commandUpdate("/start@OdinInfoBot", commandLen("/start@OdinInfoBot")), true},
		{"address case differs", commandUpdate("/start@odininfobot now", commandLen("/start@odininfobot")), true},
		{"with argument", commandUpdate("/start group", commandLen("/start")), true},
		{"addressed to another bot", commandUpdate("/start@OtherBot", commandLen("/start@OtherBot")), false},
		{"other command", commandUpdate("/startx", commandLen("/startx")), false},
		{"no entity", commandUpdate("/start", 0), false},
		{"entity not at start", &models.Update{Message: &models.Message{
			Text:     "hi /start",
			Entities: []models.MessageEntity{{Type: models.MessageEntityTypeBotCommand, Offset: 3, Length: 6}},
		}}, false},
		{"no message", &models.Update{ID: 2}, false},
		{"nil update", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, match(tt.upd))
		})
	}
}

func TestCommandMatcher_UnknownUsernameAcceptsAnyAddress(t *testing.T) {
	match := CommandMatcher("start", "")
	assert.True(t, match(commandUpdate("/start@AnyBot", commandLen("/start@AnyBot"))))
	assert.True(t, match(commandUpdate("/start", commandLen("/start"))))
}

func TestLeadingCommand_BadEntityLength(t *testing.T) {
	_, ok := leadingCommand(commandUpdate("/s", 10).Message)
	assert.False(t, ok)
}
