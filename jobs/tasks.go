package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSessionsSweep is the task type for the expired-session sweep.
	TaskSessionsSweep = "sessions:sweep"
	// SweepCronSpec schedules the recurring sweep.
	SweepCronSpec = "@every 1h"
)

// Sweeper deletes expired session rows and reports how many were removed.
type Sweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// NewSessionsSweepTask constructs an Asynq task for the sweep.
func NewSessionsSweepTask() *asynq.Task {
	return asynq.NewTask(TaskSessionsSweep, nil)
}

// NewSessionsSweepHandler returns the handler processing TaskSessionsSweep.
// The sweep is idempotent, so concurrent or repeated runs are harmless.
func NewSessionsSweepHandler(store Sweeper, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		removed, err := store.SweepExpired(ctx)
		if err != nil {
			logger.Error("sweep expired sessions", slog.Any("error", err))
			return err
		}
		logger.Info("swept expired sessions", slog.Int64("removed", removed))
		return nil
	}
}
