package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/edgard/odinbot/internal/activation"
	"github.com/edgard/odinbot/internal/config"
)

// newStoreMaintenanceTask runs housekeeping on stores that implement activation.Maintainer.
func newStoreMaintenanceTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", config.StoreMaintenanceTask)

	return func(ctx context.Context) error {
		m, ok := deps.Activation.Store().(activation.Maintainer)
		if !ok {
			log.DebugContext(ctx, "Activation store has no maintenance, skipping")
			return nil
		}

		log.InfoContext(ctx, "Starting store maintenance")
		startTime := time.Now()

		err := m.Maintain(ctx)
		duration := time.Since(startTime)
		if err != nil {
			log.ErrorContext(ctx, "Store maintenance failed", "error", err, "duration", duration)
			return fmt.Errorf("store maintenance failed: %w", err)
		}

		log.InfoContext(ctx, "Store maintenance completed", "duration", duration)
		return nil
	}
}
