package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hypelens/hypelens/internal/logger"
	"github.com/hypelens/hypelens/internal/prompts"
)

// Hashtag is one generated hashtag with its engagement estimate.
type Hashtag struct {
	Tag      string `json:"tag"`
	Score    int    `json:"score"`
	Category string `json:"category"`
}

// HashtagResult wraps the generated hashtag list.
type HashtagResult struct {
	Hashtags []Hashtag `json:"hashtags"`
}

// HashtagService generates hashtag suggestions for a trend topic.
type HashtagService struct {
	gateway Completer
}

// NewHashtagService creates a new HashtagService.
// Parameters:
//   - gateway: chat-completions client.
//
// Returns:
//   - *HashtagService: initialized hashtag service.
func NewHashtagService(gateway Completer) *HashtagService {
	return &HashtagService{gateway: gateway}
}

// Generate asks the model for hashtags covering trendTitle, steering it away
// from existingTags. Unlike scoring there is no fallback: a bad response is an
// error, and ErrRateLimited passes through so the handler can answer 429.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - trendTitle: topic to generate hashtags for.
//   - existingTags: tags the caller already uses.
//
// Returns:
//   - *HashtagResult: generated hashtags.
//   - error: ErrRateLimited or a wrapped gateway/parse error.
func (s *HashtagService) Generate(ctx context.Context, trendTitle string, existingTags []string) (*HashtagResult, error) {
	log := logger.FromContext(ctx).WithField("trend_title", trendTitle)
	log.Info("Generating hashtags")

	content, err := s.gateway.Complete(ctx, prompts.HashtagSystem, prompts.HashtagUser(trendTitle, existingTags))
	if err != nil {
		return nil, err
	}

	jsonStr, err := ExtractJSON(content)
	if err != nil {
		return nil, fmt.Errorf("invalid AI response format: %w", err)
	}

	var result HashtagResult
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, fmt.Errorf("invalid AI response format: %w", err)
	}

	log.WithField(logger.FieldCount, len(result.Hashtags)).Info("Generated hashtags")
	return &result, nil
}
