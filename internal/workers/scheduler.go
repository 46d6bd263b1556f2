// internal/workers/scheduler.go
package workers

import (
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
)

// Registrar is the part of asynq.Scheduler used to register periodic tasks
type Registrar interface {
	Register(cronspec string, task *asynq.Task, opts ...asynq.Option) (string, error)
}

// Schedules holds the cron specs of periodic tasks. An empty spec disables the task.
type Schedules struct {
	Cleanup   string
	Dashboard string
}

// RegisterPeriodicTasks registers maintenance and dashboard refresh
func RegisterPeriodicTasks(s Registrar, schedules Schedules, logger *slog.Logger) error {
	logger = logger.With(slog.String("component", "scheduler"))

	periodic := []struct {
		spec     string
		taskType string
	}{
		{schedules.Cleanup, TypeCleanup},
		{schedules.Dashboard, TypeDashboardRefresh},
	}

	for _, p := range periodic {
		if p.spec == "" {
			logger.Info("periodic task disabled", slog.String("task_type", p.taskType))
			continue
		}

		task, err := NewTask(p.taskType, nil)
		if err != nil {
			return err
		}
		entryID, err := s.Register(p.spec, task)
		if err != nil {
			return fmt.Errorf("failed to register %s with %q: %w", p.taskType, p.spec, err)
		}

		logger.Info("periodic task registered",
			slog.String("task_type", p.taskType),
			slog.String("cronspec", p.spec),
			slog.String("entry_id", entryID))
	}
	return nil
}
