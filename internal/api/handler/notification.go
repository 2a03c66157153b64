package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hypelens/hypelens/internal/domain"
	"github.com/hypelens/hypelens/internal/repository"
	"github.com/hypelens/hypelens/internal/service"
)

// NotificationHandler handles notification and alert endpoints.
type NotificationHandler struct {
	notifications *repository.NotificationRepository
	alerts        *service.AlertService
}

// NewNotificationHandler creates a new notification handler.
// Parameters:
//   - notifications: notification repository.
//   - alerts: alert fan-out service.
//
// Returns:
//   - *NotificationHandler: initialized handler.
func NewNotificationHandler(notifications *repository.NotificationRepository, alerts *service.AlertService) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
		alerts:        alerts,
	}
}

// List handles GET /api/v1/users/:id/notifications.
// Parameters:
//   - c: Gin request context; supports a limit query param.
//
// Returns: none (writes JSON response).
func (h *NotificationHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	notifications, err := h.notifications.ListByUser(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"count":         len(notifications),
	})
}

// MarkRead handles POST /api/v1/users/:id/notifications/:nid/read.
// Parameters:
//   - c: Gin request context.
//
// Returns: none (writes JSON response).
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	err := h.notifications.MarkRead(c.Request.Context(), c.Param("id"), c.Param("nid"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Notification not found",
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetPreference handles GET /api/v1/users/:id/notification-preferences.
// Missing rows come back as the defaults rather than 404.
// Parameters:
//   - c: Gin request context.
//
// Returns: none (writes JSON response).
func (h *NotificationHandler) GetPreference(c *gin.Context) {
	userID := c.Param("id")

	pref, err := h.notifications.GetPreference(c.Request.Context(), userID)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusOK, domain.NotificationPreference{
			UserID:              userID,
			TrendAlertsEnabled:  false,
			TrendAlertThreshold: 80,
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, pref)
}

type preferenceRequest struct {
	TrendAlertsEnabled  bool `json:"trend_alerts_enabled"`
	TrendAlertThreshold int  `json:"trend_alert_threshold"`
}

// UpdatePreference handles PUT /api/v1/users/:id/notification-preferences.
// Parameters:
//   - c: Gin request context.
//
// Returns: none (writes JSON response).
func (h *NotificationHandler) UpdatePreference(c *gin.Context) {
	var req preferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid preference payload",
		})
		return
	}
	if req.TrendAlertThreshold < 0 || req.TrendAlertThreshold > 100 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "trend_alert_threshold must be between 0 and 100",
		})
		return
	}

	pref := &domain.NotificationPreference{
		UserID:              c.Param("id"),
		TrendAlertsEnabled:  req.TrendAlertsEnabled,
		TrendAlertThreshold: req.TrendAlertThreshold,
		UpdatedAt:           time.Now().UTC(),
	}
	if err := h.notifications.UpsertPreference(c.Request.Context(), pref); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, pref)
}

type alertRequest struct {
	TrendID       string `json:"trend_id" binding:"required"`
	TrendTitle    string `json:"trend_title" binding:"required"`
	CurrentScore  int    `json:"current_score"`
	PreviousScore int    `json:"previous_score"`
}

// SendAlert handles POST /api/v1/alerts/trend.
// Parameters:
//   - c: Gin request context.
//
// Returns: none (writes JSON response).
func (h *NotificationHandler) SendAlert(c *gin.Context) {
	var req alertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "trend_id and trend_title are required",
		})
		return
	}

	sent, err := h.alerts.SendAlert(c.Request.Context(), req.TrendID, req.TrendTitle, req.CurrentScore, req.PreviousScore)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	message := "Trend alerts sent"
	if sent == 0 {
		message = "No users to notify"
	}
	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"message":            message,
		"notifications_sent": sent,
	})
}
