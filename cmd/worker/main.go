package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/corkboard-app/corkboard/internal/app"
	"github.com/corkboard-app/corkboard/internal/auth"
	"github.com/corkboard-app/corkboard/internal/platform/db"
	"github.com/corkboard-app/corkboard/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	conn, err := db.Open(ctx, cfg.SQLitePath)
	if err != nil {
		logger.Error("open sqlite", slog.Any("error", err))
		os.Exit(1)
	}
	defer conn.Close()

	sessions := auth.NewSessionStore(auth.NewRepository(conn), cfg.SessionTTL)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskSessionsSweep, Handler: jobs.NewSessionsSweepHandler(sessions, logger)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: jobs.SweepCronSpec, Task: jobs.NewSessionsSweepTask()},
		},
	})
	if err != nil {
		logger.Error("configure worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("starting worker", slog.String("redis", cfg.RedisAddr))
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
