// Command refresh runs one trend refresh pass and exits. Intended for cron or
// a scheduled job runner; the API server exposes the same operation over HTTP.
package main

import (
	"context"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/hypelens/hypelens/internal/config"
	"github.com/hypelens/hypelens/internal/logger"
	"github.com/hypelens/hypelens/internal/repository"
	"github.com/hypelens/hypelens/internal/service"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		stdlog.Fatalf("Failed to load config: %v", err)
	}

	log := logger.NewFromEnv(logger.LoadFromEnv())
	logger.SetDefaultLogger(log)
	defer logger.Sync()

	db, err := repository.InitDB(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}

	trendRepo := repository.NewTrendRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	gateway := service.NewGatewayService(&cfg.Gateway)
	scoring := service.NewScoringService(gateway)
	alerts := service.NewAlertService(notificationRepo)
	refresh := service.NewRefreshService(trendRepo, scoring, alerts, cfg.Refresh, cfg.Alerts)

	jobLog := log.WithField(logger.FieldJobID, uuid.New().String())
	ctx := jobLog.WithContext(context.Background())

	// Let SIGINT/SIGTERM cancel the run between candidates.
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	summary, err := refresh.Run(ctx)
	if err != nil {
		jobLog.WithError(err).Fatal("Refresh run aborted")
	}

	jobLog.WithFields(logger.Fields{
		logger.FieldCount:      summary.Processed,
		logger.FieldDurationMs: time.Since(start).Milliseconds(),
	}).Info("Refresh job finished")
}
