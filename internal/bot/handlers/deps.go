package handlers

import (
	"log/slog"
	"time"

	"github.com/edgard/odinbot/internal/activation"
	"github.com/edgard/odinbot/internal/config"
	"github.com/edgard/odinbot/internal/market"
	"github.com/edgard/odinbot/internal/tokenlink"
)

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger     *slog.Logger
	Config     *config.Config
	Activation *activation.Service
	Market     market.Client
	Extractor  *tokenlink.Extractor
	Location   *time.Location
	Now        func() time.Time
}
