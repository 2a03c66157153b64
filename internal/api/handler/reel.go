package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hypelens/hypelens/internal/domain"
	"github.com/hypelens/hypelens/internal/service"
)

// ReelHandler handles viral reel endpoints.
type ReelHandler struct {
	reels *service.ReelService
}

// NewReelHandler creates a new reel handler.
// Parameters:
//   - reels: reel service.
//
// Returns:
//   - *ReelHandler: initialized handler.
func NewReelHandler(reels *service.ReelService) *ReelHandler {
	return &ReelHandler{reels: reels}
}

// ListViral handles GET /api/v1/reels.
// Parameters:
//   - c: Gin request context; supports platform and limit query params.
//
// Returns: none (writes JSON response).
func (h *ReelHandler) ListViral(c *gin.Context) {
	platform := domain.ReelPlatform(c.Query("platform"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	reels, err := h.reels.ListViral(c.Request.Context(), platform, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to fetch reels: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    reels,
		"count":   len(reels),
	})
}

type analyzeRequest struct {
	TrendTitle string              `json:"trendTitle" binding:"required"`
	Reels      []service.ReelInput `json:"reels" binding:"required"`
}

// Analyze handles POST /api/v1/reels/analyze.
// Parameters:
//   - c: Gin request context.
//
// Returns: none (writes JSON response).
func (h *ReelHandler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "trendTitle and reels are required",
		})
		return
	}

	result, err := h.reels.Analyze(c.Request.Context(), req.TrendTitle, req.Reels)
	if errors.Is(err, service.ErrRateLimited) {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error": "Rate limited, please try again later",
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

type metadataRequest struct {
	URL string `json:"url" binding:"required"`
}

// FetchMetadata handles POST /api/v1/reels/metadata.
// Parameters:
//   - c: Gin request context.
//
// Returns: none (writes JSON response).
func (h *ReelHandler) FetchMetadata(c *gin.Context) {
	var req metadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "url is required",
		})
		return
	}

	result, err := h.reels.FetchMetadata(c.Request.Context(), req.URL)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Submit handles POST /api/v1/reels. Media is an optional multipart file;
// title, platform, creator, and video_url arrive as form fields.
// Parameters:
//   - c: Gin request context.
//
// Returns: none (writes JSON response).
func (h *ReelHandler) Submit(c *gin.Context) {
	in := service.SubmitInput{
		Platform: domain.ReelPlatform(c.PostForm("platform")),
		Title:    c.PostForm("title"),
		Creator:  c.PostForm("creator"),
		VideoURL: c.PostForm("video_url"),
	}

	if file, err := c.FormFile("media"); err == nil {
		f, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Failed to read media: " + err.Error(),
			})
			return
		}
		defer f.Close()
		in.Media = f
		in.MediaSize = file.Size
		in.Filename = file.Filename
		in.ContentType = file.Header.Get("Content-Type")
	}

	reel, err := h.reels.Submit(c.Request.Context(), in)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, reel)
}
