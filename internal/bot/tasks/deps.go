// Package tasks implements the scheduled background tasks of odinbot.
package tasks

import (
	"log/slog"

	"github.com/edgard/odinbot/internal/activation"
)

// TaskDeps contains the dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger     *slog.Logger
	Activation *activation.Service
}
