// Package handlers contains the Telegram update handlers, the router that
// implements the activation and token lookup flows, and their registration.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot/models"

	"github.com/edgard/odinbot/internal/activation"
	"github.com/edgard/odinbot/internal/config"
	"github.com/edgard/odinbot/internal/logger"
	"github.com/edgard/odinbot/internal/market"
	"github.com/edgard/odinbot/internal/report"
	"github.com/edgard/odinbot/internal/telemetry"
	"github.com/edgard/odinbot/internal/tokenlink"
)

// Event is the part of an incoming message the router acts on.
type Event struct {
	ChatID    int64
	ChatKind  models.ChatType
	MessageID int
	Text      string
	// Command is the bot command the message opens with, without the slash; empty for plain text.
	Command string
}

// IsGroup reports whether the event comes from a group or supergroup.
func (e Event) IsGroup() bool {
	return e.ChatKind == models.ChatTypeGroup || e.ChatKind == models.ChatTypeSupergroup
}

// Router dispatches activation commands and text messages.
// Every failure is turned into at most one reply; nothing propagates to the caller.
type Router struct {
	logger     *slog.Logger
	messages   config.MessagesConfig
	activation *activation.Service
	market     market.Client
	extractor  *tokenlink.Extractor
	location   *time.Location
	now        func() time.Time
}

// NewRouter builds a Router from deps, filling unset optional fields.
func NewRouter(deps HandlerDeps) *Router {
	log := deps.Logger
	if log == nil {
		log = logger.Discard()
	}
	messages := config.DefaultMessages
	if deps.Config != nil {
		messages = deps.Config.Messages
	}
	extractor := deps.Extractor
	if extractor == nil {
		extractor = tokenlink.MustNew(tokenlink.DefaultSiteURL)
	}
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Router{
		logger:     log.With("component", "router"),
		messages:   messages,
		activation: deps.Activation,
		market:     deps.Market,
		extractor:  extractor,
		location:   loc,
		now:        now,
	}
}

// HandleActivate handles /start. Groups are activated; private chats get the onboarding text.
func (r *Router) HandleActivate(ctx context.Context, s Sender, ev Event) {
	log := r.logger.With("handler", "start", "chat_id", ev.ChatID, "chat_type", ev.ChatKind)

	if !ev.IsGroup() {
		log.InfoContext(ctx, "Start command outside a group, sending onboarding")
		r.reply(ctx, log, s, ev, r.messages.Onboarding)
		return
	}

	added, err := r.activation.Activate(ctx, ev.ChatID)
	switch {
	case err != nil:
		telemetry.Activations.WithLabelValues(telemetry.ActivationFailed).Inc()
		log.ErrorContext(ctx, "Failed to activate chat", "error", err)
		r.reply(ctx, log, s, ev, r.messages.ActivationFailed)
	case added:
		telemetry.Activations.WithLabelValues(telemetry.ActivationAdded).Inc()
		r.reply(ctx, log, s, ev, r.messages.Activated)
	default:
		telemetry.Activations.WithLabelValues(telemetry.ActivationAlreadyActive).Inc()
		r.reply(ctx, log, s, ev, r.messages.AlreadyActive)
	}
}

// HandleText runs a token lookup when an active group posts a token link.
func (r *Router) HandleText(ctx context.Context, s Sender, ev Event) {
	log := r.logger.With("handler", "token_lookup", "chat_id", ev.ChatID, "chat_type", ev.ChatKind)

	if !ev.IsGroup() {
		log.DebugContext(ctx, "Ignoring message outside a group")
		return
	}
	if ev.Text == "" || ev.Command != "" {
		return
	}

	active, err := r.activation.IsActive(ctx, ev.ChatID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to read activation state", "error", err)
		return
	}
	if !active {
		log.DebugContext(ctx, "Ignoring message from inactive chat")
		return
	}

	tokenID, ok := r.extractor.Extract(ev.Text)
	if !ok {
		log.DebugContext(ctx, "No token link in message")
		return
	}
	log = log.With("token_id", tokenID)
	log.InfoContext(ctx, "Token link detected")

	text, err := r.lookup(ctx, tokenID)
	if err != nil {
		var statusErr *market.StatusError
		if errors.As(err, &statusErr) {
			telemetry.Lookups.WithLabelValues(telemetry.OutcomeRemoteStatus).Inc()
			log.ErrorContext(ctx, "Token API request failed", "status", statusErr.StatusCode)
			r.reply(ctx, log, s, ev, fmt.Sprintf(r.messages.RemoteStatusError, statusErr.StatusCode))
			return
		}
		telemetry.Lookups.WithLabelValues(telemetry.OutcomeError).Inc()
		log.ErrorContext(ctx, "Token lookup failed", "error", err)
		r.reply(ctx, log, s, ev, fmt.Sprintf(r.messages.FetchError, err))
		return
	}

	telemetry.Lookups.WithLabelValues(telemetry.OutcomeOK).Inc()
	r.reply(ctx, log, s, ev, text)
}

func (r *Router) lookup(ctx context.Context, tokenID string) (string, error) {
	snap, err := r.market.FetchToken(ctx, tokenID)
	if err != nil {
		return "", err
	}
	refPrice := r.market.FetchReferencePrice(ctx)

	derived, err := report.Derive(snap, refPrice, r.now(), r.location)
	if err != nil {
		return "", err
	}
	return report.Format(derived), nil
}

func (r *Router) reply(ctx context.Context, log *slog.Logger, s Sender, ev Event, text string) {
	if err := s.SendReply(ctx, ev.ChatID, ev.MessageID, text); err != nil {
		log.ErrorContext(ctx, "Failed to send reply", "error", err)
		return
	}
	log.DebugContext(ctx, "Reply sent", "length", len(text))
}
