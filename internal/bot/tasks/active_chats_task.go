package tasks

import (
	"context"
	"fmt"

	"github.com/edgard/odinbot/internal/config"
	"github.com/edgard/odinbot/internal/telemetry"
)

// newActiveChatsTask refreshes the active chats gauge from the store.
func newActiveChatsTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", config.ActiveChatsTask)

	return func(ctx context.Context) error {
		ids, err := deps.Activation.ActiveChats(ctx)
		if err != nil {
			return fmt.Errorf("active chats refresh failed: %w", err)
		}
		telemetry.ActiveChats.Set(float64(len(ids)))
		log.DebugContext(ctx, "Active chats refreshed", "count", len(ids))
		return nil
	}
}
