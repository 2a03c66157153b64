package service

import (
	"context"
	"encoding/json"
	"errors"
	"unicode/utf8"

	"github.com/hypelens/hypelens/internal/domain"
	"github.com/hypelens/hypelens/internal/logger"
	"github.com/hypelens/hypelens/internal/prompts"
)

const (
	defaultScore  = 50
	maxCaptions   = 2
	maxCaptionLen = 120
	maxTags       = 3
)

// ScoreResult is the validated outcome of scoring one trend candidate.
type ScoreResult struct {
	Score         int                    `json:"score"`
	Confidence    domain.ConfidenceLevel `json:"confidence"`
	Captions      []string               `json:"captions"`
	Explanation   string                 `json:"explanation"`
	SuggestedTags []string               `json:"suggested_tags"`

	// Raw is the unmodified model output, persisted for audit.
	Raw string `json:"-"`
}

// Completer abstracts the chat-completions call so scoring can be tested
// without a live gateway.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// ScoringService scores trend candidates through the AI gateway and never
// returns garbage: malformed model output degrades to a conservative default
// rather than failing the caller.
type ScoringService struct {
	gateway Completer
}

// NewScoringService creates a new ScoringService.
// Parameters:
//   - gateway: chat-completions client.
//
// Returns:
//   - *ScoringService: initialized scoring service.
func NewScoringService(gateway Completer) *ScoringService {
	return &ScoringService{gateway: gateway}
}

// Score evaluates one candidate title against its source context.
//
// Failure handling is asymmetric on purpose. A rate-limited gateway returns
// ErrRateLimited so the caller can skip the candidate entirely. Any other
// failure, network or unparseable output alike, yields the default result
// (score 50, low confidence) so one bad candidate never stalls a batch.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - candidate: trend candidate title.
//   - sources: source context serialized into the prompt and stored with the
//     trend.
//
// Returns:
//   - *ScoreResult: validated result, possibly the default.
//   - error: ErrRateLimited only.
func (s *ScoringService) Score(ctx context.Context, candidate string, sources domain.JSONMap) (*ScoreResult, error) {
	log := logger.FromContext(ctx).WithField(logger.FieldCandidate, candidate)

	sourceJSON, err := json.Marshal(sources)
	if err != nil {
		sourceJSON = []byte("{}")
	}

	content, err := s.gateway.Complete(ctx, prompts.TrendScoringSystem, prompts.TrendScoringUser(candidate, string(sourceJSON)))
	if errors.Is(err, ErrRateLimited) {
		return nil, err
	}
	if err != nil {
		log.WithError(err).Warn("AI scoring failed, using default score")
		return defaultResult(""), nil
	}

	jsonStr, err := ExtractJSON(content)
	if err != nil {
		log.WithError(err).Warn("no JSON in AI response, using default score")
		return defaultResult(content), nil
	}

	var result ScoreResult
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		log.WithError(err).Warn("failed to parse AI JSON response, using default score")
		return defaultResult(content), nil
	}

	result.Raw = content
	validateAndFix(&result)
	return &result, nil
}

// defaultResult builds the conservative fallback result. The raw content, if
// any, doubles as the explanation so operators can see what the model said.
func defaultResult(content string) *ScoreResult {
	explanation := content
	if explanation == "" {
		explanation = "Unable to analyze trend"
	}
	return &ScoreResult{
		Score:         defaultScore,
		Confidence:    domain.ConfidenceLow,
		Captions:      []string{},
		Explanation:   explanation,
		SuggestedTags: []string{},
		Raw:           content,
	}
}

// validateAndFix clamps out-of-range model output instead of rejecting it.
func validateAndFix(r *ScoreResult) {
	if r.Score < 0 {
		r.Score = 0
	}
	if r.Score > 100 {
		r.Score = 100
	}
	if !r.Confidence.Valid() {
		r.Confidence = domain.ConfidenceLow
	}
	if len(r.Captions) > maxCaptions {
		r.Captions = r.Captions[:maxCaptions]
	}
	for i, caption := range r.Captions {
		r.Captions[i] = truncate(caption, maxCaptionLen)
	}
	if r.Captions == nil {
		r.Captions = []string{}
	}
	if len(r.SuggestedTags) > maxTags {
		r.SuggestedTags = r.SuggestedTags[:maxTags]
	}
	if r.SuggestedTags == nil {
		r.SuggestedTags = []string{}
	}
	if r.Explanation == "" {
		r.Explanation = "Unable to analyze trend"
	}
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
