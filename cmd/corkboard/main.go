package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/corkboard-app/corkboard/internal/app"
	"github.com/corkboard-app/corkboard/internal/auth"
	"github.com/corkboard-app/corkboard/internal/notes"
	"github.com/corkboard-app/corkboard/internal/observability"
	"github.com/corkboard-app/corkboard/internal/platform/db"
	"github.com/corkboard-app/corkboard/internal/users"
	"github.com/corkboard-app/corkboard/internal/view"
	"github.com/corkboard-app/corkboard/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	authRepo := auth.NewRepository(conn)
	sessions := auth.NewSessionStore(authRepo, cfg.SessionTTL)
	cookies := auth.NewCookieAdapter(sessions.TTL(), cfg.IsProduction())
	authService := auth.NewService(authRepo, sessions)
	authHandler := auth.NewHandler(logger, authService, cookies)

	notesRepo := notes.NewRepository(conn)
	notesService := notes.NewService(notesRepo)
	notesHandler := notes.NewHandler(logger, notesService)

	usersRepo := users.NewRepository(conn)
	usersService := users.NewService(usersRepo, sessions)
	usersHandler := users.NewHandler(logger, usersService)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:       logger,
		Config:       cfg,
		Templates:    templates,
		Sessions:     sessions,
		Cookies:      cookies,
		AuthHandler:  authHandler,
		NotesHandler: notesHandler,
		UsersHandler: usersHandler,
		JobsHandler:  jobsHandler,
		Metrics:      metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
