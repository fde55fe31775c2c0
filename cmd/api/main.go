package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"photo_portal_backend/internal/adapters/storage"
	"photo_portal_backend/internal/email"
	"photo_portal_backend/internal/events"
	apphttp "photo_portal_backend/internal/http"
	"photo_portal_backend/internal/http/router"
	"photo_portal_backend/internal/leads"
	"photo_portal_backend/internal/leads/repository"
	"photo_portal_backend/internal/notification"
	"photo_portal_backend/internal/observability/metrics"
	"photo_portal_backend/internal/scheduler"
	"photo_portal_backend/internal/uploads"
	"photo_portal_backend/migrations"
	"photo_portal_backend/platform/config"
	"photo_portal_backend/platform/db"
	"photo_portal_backend/platform/logger"
	"photo_portal_backend/platform/ratelimit"
	"photo_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// shutdownGrace bounds how long in-flight requests and notifications may finish.
const shutdownGrace = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	limiter, err := ratelimit.New(cfg, cfg.GetRedisURL(), log)
	if err != nil {
		log.Error("failed to initialize rate limiter", "error", err)
		panic("failed to initialize rate limiter: " + err.Error())
	}
	defer func() { _ = limiter.Close() }()

	sender, err := email.NewSender(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	var enqueuer notification.Enqueuer
	if cfg.GetNotificationMode() == notification.ModeQueue {
		client, err := scheduler.NewClient(cfg)
		if err != nil {
			log.Error("failed to initialize scheduler client", "error", err)
			panic("failed to initialize scheduler client: " + err.Error())
		}
		defer func() { _ = client.Close() }()
		enqueuer = client
	}

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.New(
		sender,
		notification.BrandingFromConfig(cfg),
		cfg,
		metrics.NewNotificationMetrics(registry),
		enqueuer,
		log,
	)
	notificationModule.RegisterHandlers(eventBus)

	leadsModule := leads.NewModule(leads.ModuleDeps{
		Store:    repository.New(pool),
		Limiter:  limiter,
		Window:   cfg.GetRateLimitWindow(),
		Bus:      eventBus,
		Val:      val,
		Metrics:  metrics.NewIntakeMetrics(registry),
		Location: cfg.GetLocation(),
		Log:      log,
	})

	modules := []apphttp.Module{leadsModule}
	if cfg.IsMinIOEnabled() {
		storageSvc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		bucket := cfg.GetMinioBucketReferenceFiles()
		if err := withRetry(ctx, log, "ensure reference-files bucket", 5, 2*time.Second, func() error {
			return storageSvc.EnsureBucketExists(ctx, bucket)
		}); err != nil {
			log.Error("failed to ensure storage bucket exists", "error", err, "bucket", bucket)
			panic("failed to ensure storage bucket exists: " + err.Error())
		}
		modules = append(modules, uploads.NewModule(storageSvc, bucket, val, log))
		log.Info("storage service initialized", "referenceFilesBucket", bucket)
	} else {
		log.Warn("MINIO_ENDPOINT not configured; reference-file uploads disabled")
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Gatherer: registry,
		Modules:  modules,
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
		close(srvErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown incomplete", "error", err)
	}
	// Notifications already handed to the bus finish before the pool closes.
	if err := eventBus.Wait(shutdownCtx); err != nil {
		log.Warn("pending notifications abandoned at shutdown", "error", err)
	}
	log.Info("server stopped")
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
