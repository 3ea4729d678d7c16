package tasks

import (
	"context"

	"github.com/edgard/odinbot/internal/config"
)

// ScheduledTaskFunc is the signature of every scheduled task.
// Tasks must respect ctx cancellation.
type ScheduledTaskFunc func(ctx context.Context) error

// RegisterAllTasks returns the scheduled tasks keyed by the name used in
// the scheduler.tasks configuration section.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	tasks := make(map[string]ScheduledTaskFunc)

	tasks[config.StoreMaintenanceTask] = newStoreMaintenanceTask(deps)
	tasks[config.ActiveChatsTask] = newActiveChatsTask(deps)

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
