package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hypelens/hypelens/internal/repository"
	"github.com/hypelens/hypelens/internal/service"
)

// TrendHandler handles trend-related endpoints.
type TrendHandler struct {
	refresh *service.RefreshService
	trends  *repository.TrendRepository
}

// NewTrendHandler creates a new trend handler.
// Parameters:
//   - refresh: trend refresh job.
//   - trends: trend repository for reads.
//
// Returns:
//   - *TrendHandler: initialized handler.
func NewTrendHandler(refresh *service.RefreshService, trends *repository.TrendRepository) *TrendHandler {
	return &TrendHandler{
		refresh: refresh,
		trends:  trends,
	}
}

// Refresh handles POST /api/v1/trends/refresh. It runs one refresh pass and
// returns the processed count plus a preview sample.
// Parameters:
//   - c: Gin request context.
//
// Returns: none (writes JSON response).
func (h *TrendHandler) Refresh(c *gin.Context) {
	summary, err := h.refresh.Run(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"processed": summary.Processed,
		"trends":    summary.Trends,
	})
}

// List handles GET /api/v1/trends.
// Parameters:
//   - c: Gin request context; supports min_score and limit query params.
//
// Returns: none (writes JSON response).
func (h *TrendHandler) List(c *gin.Context) {
	minScore, _ := strconv.Atoi(c.DefaultQuery("min_score", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	trends, err := h.trends.List(c.Request.Context(), minScore, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list trends: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trends": trends,
		"count":  len(trends),
	})
}

// Get handles GET /api/v1/trends/:id.
// Parameters:
//   - c: Gin request context.
//
// Returns: none (writes JSON response).
func (h *TrendHandler) Get(c *gin.Context) {
	trend, err := h.trends.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Trend not found",
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get trend: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, trend)
}
