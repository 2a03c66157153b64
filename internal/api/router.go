package api

import (
	"github.com/gin-gonic/gin"

	"github.com/hypelens/hypelens/internal/api/handler"
	"github.com/hypelens/hypelens/internal/api/middleware"
	"github.com/hypelens/hypelens/internal/config"
	"github.com/hypelens/hypelens/internal/logger"
	"github.com/hypelens/hypelens/internal/repository"
	"github.com/hypelens/hypelens/internal/service"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Refresh       *service.RefreshService
	Hashtags      *service.HashtagService
	Reels         *service.ReelService
	Gamification  *service.GamificationService
	Alerts        *service.AlertService
	Trends        *repository.TrendRepository
	Notifications *repository.NotificationRepository
}

// SetupRouter configures the Gin router with all routes.
// Parameters:
//   - svcs: wired services and repositories.
//   - serverCfg: server configuration (mode, CORS).
//   - log: base logger for the request middleware.
//
// Returns:
//   - *gin.Engine: configured router.
func SetupRouter(svcs Services, serverCfg config.ServerConfig, log *logger.Logger) *gin.Engine {
	switch serverCfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.CORS(serverCfg.CORS))

	healthHandler := handler.NewHealthHandler()
	trendHandler := handler.NewTrendHandler(svcs.Refresh, svcs.Trends)
	hashtagHandler := handler.NewHashtagHandler(svcs.Hashtags)
	reelHandler := handler.NewReelHandler(svcs.Reels)
	actionHandler := handler.NewActionHandler(svcs.Gamification)
	notificationHandler := handler.NewNotificationHandler(svcs.Notifications, svcs.Alerts)

	// Health check
	r.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Trends
		v1.POST("/trends/refresh", trendHandler.Refresh)
		v1.GET("/trends", trendHandler.List)
		v1.GET("/trends/:id", trendHandler.Get)

		// Hashtags
		v1.POST("/hashtags/generate", hashtagHandler.Generate)

		// Reels
		v1.GET("/reels", reelHandler.ListViral)
		v1.POST("/reels", reelHandler.Submit)
		v1.POST("/reels/analyze", reelHandler.Analyze)
		v1.POST("/reels/metadata", reelHandler.FetchMetadata)

		// Gamification
		v1.POST("/actions", actionHandler.Record)
		v1.POST("/bookmarks/toggle", actionHandler.ToggleBookmark)
		v1.GET("/leaderboard", actionHandler.Leaderboard)
		v1.GET("/users/:id", actionHandler.GetProfile)
		v1.GET("/users/:id/bookmarks", actionHandler.ListBookmarks)

		// Notifications
		v1.GET("/users/:id/notifications", notificationHandler.List)
		v1.POST("/users/:id/notifications/:nid/read", notificationHandler.MarkRead)
		v1.GET("/users/:id/notification-preferences", notificationHandler.GetPreference)
		v1.PUT("/users/:id/notification-preferences", notificationHandler.UpdatePreference)

		// Alerts
		v1.POST("/alerts/trend", notificationHandler.SendAlert)
	}

	return r
}
