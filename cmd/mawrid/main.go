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

	"github.com/mawrid/mawrid/cmd/mawrid/cli"
	"github.com/mawrid/mawrid/internal/app"
	"github.com/mawrid/mawrid/internal/auth"
	"github.com/mawrid/mawrid/internal/dashboard"
	"github.com/mawrid/mawrid/internal/directory"
	"github.com/mawrid/mawrid/internal/export"
	"github.com/mawrid/mawrid/internal/observability"
	"github.com/mawrid/mawrid/internal/prefs"
	"github.com/mawrid/mawrid/internal/shared"
	"github.com/mawrid/mawrid/internal/supabase"
	"github.com/mawrid/mawrid/internal/view"
	"github.com/mawrid/mawrid/jobs"
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
	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}

	if len(os.Args) > 1 && os.Args[1] == "jobs" {
		jobsCLI := cli.NewJobsCLI(redisOpts)
		defer func() { _ = jobsCLI.Close() }()
		if err := jobsCLI.Run(ctx, os.Stdout, os.Args[2:]); err != nil {
			logger.Error("jobs command", slog.Any("error", err))
			os.Exit(1)
		}
		return
	}

	app.LogConfig(logger, cfg)
	if cfg.IsProduction() && cfg.OpsToken == "" {
		logger.Warn("OPS_TOKEN is empty; /metrics and /jobs are unauthenticated")
	}

	redisClient := app.NewRedis(ctx, cfg, logger)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	backend := app.NewSupabase(cfg, metrics)
	authClient := supabase.NewAuthClient(backend)
	defer auth.LogAuthEvents(authClient, logger)()

	directoryStore, err := app.NewDirectory(ctx, cfg, logger, backend, redisClient, metrics)
	if err != nil {
		logger.Error("init directory", slog.Any("error", err))
		os.Exit(1)
	}
	defer directoryStore.Close()
	directoryStore.Cache.ListenForInvalidation(ctx)

	sessionManager := shared.NewSessionManager(redisClient, "mawrid_session", cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	prefsStore := prefs.NewStore(cfg.IsProduction())

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	authService := auth.NewService(authClient, backend)
	guard := auth.NewGuard(authService, logger)
	authHandler := auth.NewHandler(logger, authService, templates, csrfManager, prefsStore, cfg.RecoveryURL())

	pdfClient := export.NewPDFClient(cfg.GotenbergURL, cfg.GotenbergTimeout)
	directoryHandler := directory.NewHandler(logger, directoryStore.Service, templates, csrfManager)
	dashboardHandler := dashboard.NewHandler(logger, directoryStore.Service, templates, csrfManager, dashboard.Options{
		Idempotency: shared.NewIdempotencyStore(redisClient, 24*time.Hour),
		PDF:         pdfClient,
		Refresh:     cfg.DashboardRefresh,
	})

	inspector := asynq.NewInspector(redisOpts)
	defer func() { _ = inspector.Close() }()
	jobHandler := jobs.NewHandler(inspector, logger)

	jobClient := jobs.NewClient(redisOpts)
	defer func() { _ = jobClient.Close() }()
	if err := jobClient.EnqueueDirectoryRefresh(ctx, "startup"); err != nil {
		logger.Warn("enqueue directory refresh", slog.Any("error", err))
	}

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SessionManager:   sessionManager,
		CSRFManager:      csrfManager,
		Prefs:            prefsStore,
		Guard:            guard,
		AuthHandler:      authHandler,
		DirectoryHandler: directoryHandler,
		DashboardHandler: dashboardHandler,
		JobHandler:       jobHandler,
		Metrics:          metrics,
		HealthChecks: []app.HealthCheck{
			{Name: "redis", Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }},
			{Name: "backend", Check: backend.Ping},
			{Name: "gotenberg", Check: pdfClient.Ping, Optional: true},
		},
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
