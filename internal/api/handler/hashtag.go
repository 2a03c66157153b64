package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hypelens/hypelens/internal/service"
)

// HashtagHandler handles hashtag generation endpoints.
type HashtagHandler struct {
	hashtags *service.HashtagService
}

// NewHashtagHandler creates a new hashtag handler.
// Parameters:
//   - hashtags: hashtag generation service.
//
// Returns:
//   - *HashtagHandler: initialized handler.
func NewHashtagHandler(hashtags *service.HashtagService) *HashtagHandler {
	return &HashtagHandler{hashtags: hashtags}
}

type hashtagRequest struct {
	TrendTitle   string   `json:"trendTitle" binding:"required"`
	ExistingTags []string `json:"existingTags"`
}

// Generate handles POST /api/v1/hashtags/generate. A rate-limited gateway
// surfaces as 429 so clients can back off.
// Parameters:
//   - c: Gin request context.
//
// Returns: none (writes JSON response).
func (h *HashtagHandler) Generate(c *gin.Context) {
	var req hashtagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "trendTitle is required",
		})
		return
	}

	result, err := h.hashtags.Generate(c.Request.Context(), req.TrendTitle, req.ExistingTags)
	if errors.Is(err, service.ErrRateLimited) {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error": "Rate limited",
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
