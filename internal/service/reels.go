package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/hypelens/hypelens/internal/config"
	"github.com/hypelens/hypelens/internal/domain"
	"github.com/hypelens/hypelens/internal/logger"
	"github.com/hypelens/hypelens/internal/prompts"
	"github.com/hypelens/hypelens/internal/repository"
	"github.com/hypelens/hypelens/internal/storage"
)

const fallbackThumbnail = "https://images.unsplash.com/photo-1611162616305-c69b3fa7fbe0?w=400&q=80"

// ReelInput describes one reel submitted for analysis.
type ReelInput struct {
	ID       string              `json:"id"`
	Title    string              `json:"title"`
	Creator  string              `json:"creator"`
	Platform domain.ReelPlatform `json:"platform"`
}

// ReelAnalysis is the model's verdict on one reel.
type ReelAnalysis struct {
	ID             string   `json:"id"`
	RelevanceScore int      `json:"relevanceScore"`
	HookAnalysis   string   `json:"hookAnalysis"`
	PacingNotes    string   `json:"pacingNotes"`
	TrendUsed      string   `json:"trendUsed"`
	AudioTip       string   `json:"audioTip"`
	RecreationTips []string `json:"recreationTips"`
}

// ReelAnalysisResult wraps the per-reel analyses.
type ReelAnalysisResult struct {
	Analyses []ReelAnalysis `json:"analyses"`
}

// MetadataResult carries reel metadata plus how it was obtained.
type MetadataResult struct {
	Metadata    domain.ReelMetadata `json:"metadata"`
	AIGenerated bool                `json:"aiGenerated,omitempty"`
	Fallback    bool                `json:"fallback,omitempty"`
}

// ReelService handles viral reel listing, AI analysis, metadata lookup, and
// user submissions.
type ReelService struct {
	gateway Completer
	reels   *repository.ReelRepository
	store   storage.ObjectStorage
	youtube config.YouTubeConfig

	http *resty.Client
}

// NewReelService creates a new ReelService.
// Parameters:
//   - gateway: chat-completions client.
//   - reels: reel persistence.
//   - store: object storage for submitted media, may be nil to disable
//     submissions.
//   - youtube: YouTube Data API configuration.
//
// Returns:
//   - *ReelService: initialized reel service.
func NewReelService(gateway Completer, reels *repository.ReelRepository, store storage.ObjectStorage, youtube config.YouTubeConfig) *ReelService {
	client := resty.New()
	client.SetTimeout(15 * time.Second)
	return &ReelService{
		gateway: gateway,
		reels:   reels,
		store:   store,
		youtube: youtube,
		http:    client,
	}
}

// ListViral returns approved reels, most engaging first.
func (s *ReelService) ListViral(ctx context.Context, platform domain.ReelPlatform, limit int) ([]domain.ViralReel, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.reels.ListViral(ctx, platform, limit)
}

// Analyze asks the model how relevant a batch of reels is to a trend.
// ErrRateLimited passes through untouched so the handler can answer 429.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - trendTitle: trend the reels are measured against.
//   - reels: reels to analyze.
//
// Returns:
//   - *ReelAnalysisResult: per-reel analyses.
//   - error: ErrRateLimited or a wrapped gateway/parse error.
func (s *ReelService) Analyze(ctx context.Context, trendTitle string, reels []ReelInput) (*ReelAnalysisResult, error) {
	log := logger.FromContext(ctx).WithField("trend_title", trendTitle)
	log.WithField(logger.FieldCount, len(reels)).Info("Analyzing reels")

	lines := make([]string, 0, len(reels))
	for _, r := range reels {
		lines = append(lines, fmt.Sprintf("- %q by %s (%s)", r.Title, r.Creator, r.Platform))
	}

	content, err := s.gateway.Complete(ctx, prompts.ReelAnalysisSystem, prompts.ReelAnalysisUser(trendTitle, lines))
	if err != nil {
		return nil, err
	}

	jsonStr, err := ExtractJSON(content)
	if err != nil {
		return nil, fmt.Errorf("invalid AI response format: %w", err)
	}

	var result ReelAnalysisResult
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, fmt.Errorf("invalid AI response format: %w", err)
	}

	log.Info("Successfully analyzed reels")
	return &result, nil
}

// FetchMetadata resolves metadata for a reel URL. YouTube links go through the
// Data API when a key is configured; everything else degrades to an AI
// estimate and finally to a static placeholder, so the call never fails on a
// well-formed URL.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - url: reel link.
//
// Returns:
//   - *MetadataResult: metadata with provenance flags.
//   - error: non-nil only when the URL matches no supported platform.
func (s *ReelService) FetchMetadata(ctx context.Context, url string) (*MetadataResult, error) {
	log := logger.FromContext(ctx).WithField("url", url)
	log.Info("Fetching reel metadata")

	isYouTube := strings.Contains(url, "youtube.com") || strings.Contains(url, "youtu.be")
	isInstagram := strings.Contains(url, "instagram.com")
	if !isYouTube && !isInstagram {
		return nil, fmt.Errorf("unsupported reel URL: %s", url)
	}

	platform := domain.PlatformYouTube
	if isInstagram {
		platform = domain.PlatformInstagram
	}

	if isYouTube && s.youtube.APIKey != "" {
		if meta := s.fetchYouTube(ctx, url); meta != nil {
			return &MetadataResult{Metadata: *meta}, nil
		}
	}

	if meta := s.estimateWithAI(ctx, url, platform); meta != nil {
		return &MetadataResult{Metadata: *meta, AIGenerated: true}, nil
	}

	return &MetadataResult{
		Metadata: domain.ReelMetadata{
			ID:        strconv.FormatInt(time.Now().UnixMilli(), 10),
			Title:     "Viral Content",
			Creator:   "@creator",
			Thumbnail: fallbackThumbnail,
			Platform:  platform,
			Views:     "100K",
			Link:      url,
		},
		Fallback: true,
	}, nil
}

// youtubeVideosResponse is the subset of the YouTube Data API videos.list
// response we read.
type youtubeVideosResponse struct {
	Items []struct {
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			Thumbnails   struct {
				High    struct{ URL string `json:"url"` } `json:"high"`
				Default struct{ URL string `json:"url"` } `json:"default"`
			} `json:"thumbnails"`
		} `json:"snippet"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
		} `json:"statistics"`
	} `json:"items"`
}

// fetchYouTube queries the YouTube Data API. Nil means the caller should fall
// back; API trouble is logged, never surfaced.
func (s *ReelService) fetchYouTube(ctx context.Context, url string) *domain.ReelMetadata {
	log := logger.FromContext(ctx)

	videoID := extractYouTubeID(url)
	if videoID == "" {
		return nil
	}

	var resp youtubeVideosResponse
	httpResp, err := s.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"part": "snippet,statistics",
			"id":   videoID,
			"key":  s.youtube.APIKey,
		}).
		SetResult(&resp).
		Get("https://www.googleapis.com/youtube/v3/videos")
	if err != nil || !httpResp.IsSuccess() || len(resp.Items) == 0 {
		log.WithError(err).Warn("YouTube API lookup failed")
		return nil
	}

	video := resp.Items[0]
	viewCount, _ := strconv.ParseInt(video.Statistics.ViewCount, 10, 64)

	thumbnail := video.Snippet.Thumbnails.High.URL
	if thumbnail == "" {
		thumbnail = video.Snippet.Thumbnails.Default.URL
	}
	title := video.Snippet.Title
	if title == "" {
		title = "Unknown"
	}
	creator := video.Snippet.ChannelTitle
	if creator == "" {
		creator = "unknown"
	}

	return &domain.ReelMetadata{
		ID:        videoID,
		Title:     title,
		Creator:   "@" + creator,
		Thumbnail: thumbnail,
		Platform:  domain.PlatformYouTube,
		Views:     formatViews(viewCount),
		Link:      url,
	}
}

// estimateWithAI asks the model to guess metadata when no platform API
// applies. Nil means the caller should fall back to the static placeholder.
func (s *ReelService) estimateWithAI(ctx context.Context, url string, platform domain.ReelPlatform) *domain.ReelMetadata {
	log := logger.FromContext(ctx)

	content, err := s.gateway.Complete(ctx, prompts.ReelMetadataSystem, prompts.ReelMetadataUser(url, string(platform)))
	if err != nil {
		log.WithError(err).Warn("AI metadata estimate failed")
		return nil
	}

	jsonStr, err := ExtractJSON(content)
	if err != nil {
		return nil
	}

	var parsed struct {
		ID      string `json:"id"`
		Title   string `json:"title"`
		Creator string `json:"creator"`
		Views   string `json:"views"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		return nil
	}

	if parsed.ID == "" {
		parsed.ID = strconv.FormatInt(time.Now().UnixMilli(), 10)
	}
	if parsed.Title == "" {
		parsed.Title = "Viral Reel"
	}
	if parsed.Creator == "" {
		parsed.Creator = "@creator"
	}
	if parsed.Views == "" {
		parsed.Views = "500K"
	}

	return &domain.ReelMetadata{
		ID:        parsed.ID,
		Title:     parsed.Title,
		Creator:   parsed.Creator,
		Thumbnail: fallbackThumbnail,
		Platform:  platform,
		Views:     parsed.Views,
		Link:      url,
	}
}

// SubmitInput describes a user-submitted reel with its media payload.
type SubmitInput struct {
	Platform    domain.ReelPlatform
	Title       string
	Creator     string
	VideoURL    string
	Media       io.Reader
	MediaSize   int64
	Filename    string
	ContentType string
}

// Submit stores a user-submitted reel. Media, when provided, is uploaded to
// object storage first; the row is created unapproved and only surfaces in
// listings after moderation.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - in: reel submission.
//
// Returns:
//   - *domain.ViralReel: persisted row.
//   - error: non-nil if validation, upload, or the insert fails.
func (s *ReelService) Submit(ctx context.Context, in SubmitInput) (*domain.ViralReel, error) {
	if !in.Platform.Valid() {
		return nil, fmt.Errorf("unsupported platform: %s", in.Platform)
	}
	if in.Title == "" {
		return nil, fmt.Errorf("title is required")
	}

	reel := &domain.ViralReel{
		ID:        uuid.New().String(),
		Platform:  in.Platform,
		Title:     in.Title,
		Creator:   in.Creator,
		VideoURL:  in.VideoURL,
		CreatedAt: time.Now().UTC(),
	}

	if in.Media != nil {
		if s.store == nil {
			return nil, fmt.Errorf("media uploads are not configured")
		}
		key := mediaKey(reel.ID, in.Filename, in.ContentType)
		if err := s.store.Upload(ctx, key, in.Media, in.MediaSize, in.ContentType); err != nil {
			return nil, fmt.Errorf("failed to store reel media: %w", err)
		}
		reel.StorageKey = key
		reel.VideoURL = s.store.GetURL(key)
	}

	if err := s.reels.Create(ctx, reel); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).
		WithField("reel_id", reel.ID).
		Info("Reel submitted for review")
	return reel, nil
}

// mediaKey builds the storage key for submitted media, bucketed by the first
// two id characters so objects spread across prefixes.
func mediaKey(id, filename, contentType string) string {
	return fmt.Sprintf("%s/%s%s", id[:2], id, mediaExt(filename, contentType))
}

// mediaExt derives the object extension from the declared content type,
// falling back to the uploaded filename, then to .mp4.
func mediaExt(filename, contentType string) string {
	switch contentType {
	case "video/mp4":
		return ".mp4"
	case "video/quicktime":
		return ".mov"
	case "video/webm":
		return ".webm"
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	}
	if ext := path.Ext(filename); ext != "" {
		return ext
	}
	return ".mp4"
}

// extractYouTubeID pulls the video ID out of watch, shorts, and youtu.be URLs.
func extractYouTubeID(url string) string {
	var id string
	switch {
	case strings.Contains(url, "shorts/"):
		id = strings.SplitN(url, "shorts/", 2)[1]
	case strings.Contains(url, "watch?v="):
		id = strings.SplitN(url, "watch?v=", 2)[1]
	case strings.Contains(url, "youtu.be/"):
		id = strings.SplitN(url, "youtu.be/", 2)[1]
	default:
		return ""
	}
	if idx := strings.IndexAny(id, "?&"); idx != -1 {
		id = id[:idx]
	}
	return id
}

// formatViews renders a view count the way platforms display it.
func formatViews(count int64) string {
	switch {
	case count >= 1000000:
		return fmt.Sprintf("%.1fM", float64(count)/1000000)
	case count >= 1000:
		return fmt.Sprintf("%.1fK", float64(count)/1000)
	default:
		return strconv.FormatInt(count, 10)
	}
}
