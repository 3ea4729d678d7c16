package handlers

import (
	tgbot "github.com/go-telegram/bot"
)

// RegisteredHandler represents a command handler with its match rule and middleware.
// MatchFunc, when set, takes precedence over Pattern and MatchType.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
	MatchFunc   tgbot.MatchFunc
}

// RegisterAllCommands returns the bot commands keyed by their slash name.
// botUsername is the bot's own username; commands addressed to another bot are not matched.
// Plain text is not a command; it goes to NewTokenHandler as the default handler.
func RegisterAllCommands(router *Router, botUsername string) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)

	handlers["/start"] = RegisteredHandler{
		Handler:    NewStartHandler(router),
		MatchFunc:  CommandMatcher("start", botUsername),
		Middleware: []tgbot.Middleware{Recover(router.logger)},
	}

	return handlers
}
