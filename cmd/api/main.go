package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hypelens/hypelens/internal/api"
	"github.com/hypelens/hypelens/internal/config"
	"github.com/hypelens/hypelens/internal/logger"
	"github.com/hypelens/hypelens/internal/repository"
	"github.com/hypelens/hypelens/internal/service"
	"github.com/hypelens/hypelens/internal/storage"
)

func main() {
	// Support CONFIG_PATH environment variable for production deployments
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
	profileRepo := repository.NewProfileRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	reelRepo := repository.NewReelRepository(db)

	// Object storage is optional; without credentials reel media submissions
	// are rejected but everything else works.
	var objectStorage storage.ObjectStorage
	if cfg.Storage.AccessKey != "" {
		objectStorage, err = storage.NewStorage(&cfg.Storage)
		if err != nil {
			log.WithError(err).Fatal("Failed to initialize storage")
		}
		if err := objectStorage.(*storage.S3Storage).EnsureBucket(context.Background()); err != nil {
			log.WithError(err).Fatal("Failed to ensure storage bucket")
		}
	}

	gateway := service.NewGatewayService(&cfg.Gateway)
	scoring := service.NewScoringService(gateway)
	alerts := service.NewAlertService(notificationRepo)
	refresh := service.NewRefreshService(trendRepo, scoring, alerts, cfg.Refresh, cfg.Alerts)
	hashtags := service.NewHashtagService(gateway)
	reels := service.NewReelService(gateway, reelRepo, objectStorage, cfg.YouTube)
	gamification := service.NewGamificationService(profileRepo)

	router := api.SetupRouter(api.Services{
		Refresh:       refresh,
		Hashtags:      hashtags,
		Reels:         reels,
		Gamification:  gamification,
		Alerts:        alerts,
		Trends:        trendRepo,
		Notifications: notificationRepo,
	}, cfg.Server, log)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Fatal("Server forced to shutdown")
	}

	log.Info("Server exited")
}
