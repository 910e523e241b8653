// cmd/listings-server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"aqarna-listings/internal/catalog"
	"aqarna-listings/internal/common/config"
	"aqarna-listings/internal/common/database"
	apperrors "aqarna-listings/internal/common/errors"
	"aqarna-listings/internal/common/logger"
	"aqarna-listings/internal/common/metrics"
	"aqarna-listings/internal/common/observability"
	"aqarna-listings/internal/geo"
	"aqarna-listings/internal/geodata"
	"aqarna-listings/internal/i18n"
	"aqarna-listings/internal/lead"
	"aqarna-listings/internal/listings/page"
	"aqarna-listings/internal/listings/session"
	"aqarna-listings/internal/server"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer func() { _ = zapLog.Sync() }()
	log := logger.NewZapAdapter(zapLog).With(map[string]interface{}{
		"service":     cfg.App.Name,
		"environment": cfg.App.Environment,
	})

	zapLog.Info("Starting listings server...", zap.String("version", cfg.App.Version))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	obs := observability.New(cfg.App.Name, log)
	tracing, err := observability.NewTracing(cfg.App.Name, cfg.App.Version, cfg.Observability.JaegerEndpoint)
	if err != nil {
		zapLog.Fatal("tracing init failed", zap.Error(err))
	}
	obs.AttachTracing(tracing)

	cat, err := catalog.Default()
	if err != nil {
		zapLog.Fatal("catalog load failed", zap.Error(err))
	}
	idx := geodata.Default()
	diag := logger.Diagnostics(log, cfg.App.Environment)
	validator := geo.NewValidator(diag).OnReject(metrics.UnmappableProperties.Inc)

	// --- Session store ---
	var (
		store  session.Store
		health func(ctx context.Context) error
	)
	switch cfg.Session.Store {
	case "redis":
		rdb := database.NewRedis(cfg.Database.Redis)
		err = retryWithBackoff(func() error {
			return rdb.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rdb.Close()
		zapLog.Info("Redis connected successfully")
		store = session.NewRedisStore(rdb.Client, cfg.Session.TTLDuration())
		health = rdb.Health
	default:
		mem := session.NewMemoryStore(cfg.Session.TTLDuration())
		go mem.RunSweeper(ctx, time.Minute)
		store = mem
	}

	sessions := session.NewManager(store, page.Dependencies{
		Catalog:   cat,
		Geo:       idx,
		Validator: validator,
		Diag:      diag,
	}, log)

	// --- Lead relay ---
	relay, err := lead.NewRelay(ctx, cfg.Leads)
	if err != nil {
		zapLog.Fatal("lead relay init failed", zap.Error(err))
	}
	notifier, err := lead.NewNotifier(ctx, cfg.Leads, idx)
	if err != nil {
		zapLog.Fatal("sms notifier init failed", zap.Error(err))
	}
	if cfg.IsProduction() && !cfg.Leads.DeliveryConfigured() && cfg.Leads.Provider != config.ProviderLog {
		zapLog.Warn("lead delivery is not configured; submissions will fail with EMAIL_FAILED",
			zap.String("provider", cfg.Leads.Provider))
	}
	leadService := lead.NewService(lead.ServiceDependencies{
		Relay:    relay,
		Notifier: notifier,
		Govs:     idx,
		Logger:   log.With(map[string]interface{}{"component": "lead"}),
	}, cfg.Leads, cfg.IsProduction())

	prefs := i18n.NewMemoryPreferences(cfg.Session.TTLDuration())
	go prefs.RunSweeper(ctx, time.Minute)

	router := server.NewRouter(server.Dependencies{
		Config:        cfg,
		Logger:        log,
		Catalog:       cat,
		Geo:           idx,
		Dictionary:    i18n.Default(),
		Sessions:      sessions,
		Preferences:   prefs,
		Leads:         lead.NewHandler(leadService, apperrors.NewErrorHandler(log)),
		Observability: obs,
		Tracing:       tracing,
		Health:        health,
	})
	srv := server.New(cfg.Server, router, log)

	go func() {
		if err := srv.Start(); err != nil {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeoutDuration())
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("http server shutdown failed", zap.Error(err))
	}
	obs.Shutdown(shutdownCtx)

	zapLog.Info("Listings server stopped")
}
