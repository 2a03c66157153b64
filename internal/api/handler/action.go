package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hypelens/hypelens/internal/domain"
	"github.com/hypelens/hypelens/internal/repository"
	"github.com/hypelens/hypelens/internal/service"
)

// ActionHandler handles XP actions, bookmarks, profiles, and the leaderboard.
type ActionHandler struct {
	gamification *service.GamificationService
}

// NewActionHandler creates a new action handler.
// Parameters:
//   - gamification: gamification service.
//
// Returns:
//   - *ActionHandler: initialized handler.
func NewActionHandler(gamification *service.GamificationService) *ActionHandler {
	return &ActionHandler{gamification: gamification}
}

type actionRequest struct {
	UserID  string `json:"user_id" binding:"required"`
	Type    string `json:"type" binding:"required"`
	TrendID string `json:"trend_id"`
	Streak  int    `json:"streak"`
}

// Record handles POST /api/v1/actions.
// Parameters:
//   - c: Gin request context.
//
// Returns: none (writes JSON response).
func (h *ActionHandler) Record(c *gin.Context) {
	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "user_id and type are required",
		})
		return
	}

	action, err := h.gamification.RecordAction(c.Request.Context(), req.UserID, domain.ActionType(req.Type), req.TrendID, req.Streak)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, action)
}

type bookmarkRequest struct {
	UserID  string `json:"user_id" binding:"required"`
	TrendID string `json:"trend_id" binding:"required"`
}

// ToggleBookmark handles POST /api/v1/bookmarks/toggle.
// Parameters:
//   - c: Gin request context.
//
// Returns: none (writes JSON response).
func (h *ActionHandler) ToggleBookmark(c *gin.Context) {
	var req bookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "user_id and trend_id are required",
		})
		return
	}

	bookmarked, err := h.gamification.ToggleBookmark(c.Request.Context(), req.UserID, req.TrendID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookmarked": bookmarked,
	})
}

// ListBookmarks handles GET /api/v1/users/:id/bookmarks.
// Parameters:
//   - c: Gin request context.
//
// Returns: none (writes JSON response).
func (h *ActionHandler) ListBookmarks(c *gin.Context) {
	trends, err := h.gamification.ListBookmarks(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trends": trends,
		"count":  len(trends),
	})
}

// GetProfile handles GET /api/v1/users/:id.
// Parameters:
//   - c: Gin request context.
//
// Returns: none (writes JSON response).
func (h *ActionHandler) GetProfile(c *gin.Context) {
	profile, err := h.gamification.GetProfile(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Profile not found",
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// Leaderboard handles GET /api/v1/leaderboard.
// Parameters:
//   - c: Gin request context; supports a limit query param.
//
// Returns: none (writes JSON response).
func (h *ActionHandler) Leaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	profiles, err := h.gamification.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profiles": profiles,
		"count":    len(profiles),
	})
}
