package telegram

import "strings"

// redact hides the bot token when it is used as the webhook path.
func redact(s, token string) string {
	if token == "" {
		return s
	}
	return strings.ReplaceAll(s, token, tokenPrefix(token))
}
