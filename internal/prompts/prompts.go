// Package prompts centralizes the LLM prompt text used by the scoring,
// hashtag, and reel-analysis services. Keeping the wording in one place makes
// prompt changes reviewable and keeps the services free of string blobs.
package prompts

import (
	"fmt"
	"strings"
)

// TrendScoringSystem defines the TrendEval role used to score trend candidates.
const TrendScoringSystem = `You are TrendEval, a data-aware model that reads short trend candidates and scores their near-term virality. Return a JSON object ONLY (no extra text) with fields: score (0-100 integer), confidence ("low"|"medium"|"high"), captions (array of 2 short social captions, <=120 chars), explanation (2-3 sentences), suggested_tags (array of 3 tags). When you compute score, consider: recency, velocity of mentions, cross-platform signals, cultural fit, and shareability. If signals are absent, be conservative with score.`

// TrendScoringUser builds the user message for one candidate. The source
// context is serialized by the caller and passed through verbatim for audit.
func TrendScoringUser(candidate, sourceJSON string) string {
	return fmt.Sprintf(`Evaluate this trend candidate: %q Sources (if available): %s Return JSON only.`, candidate, sourceJSON)
}

// HashtagSystem pins the hashtag generator to JSON-only output.
const HashtagSystem = `You are a hashtag optimization expert. Always respond with valid JSON only.`

// HashtagUser builds the hashtag generation prompt for a trend title,
// steering the model away from tags the caller already has.
func HashtagUser(trendTitle string, existingTags []string) string {
	return fmt.Sprintf(`You are a social media hashtag expert. Generate 10 highly relevant and trending hashtags for the topic: %q

Existing hashtags to avoid duplicating: %s

For each hashtag, provide:
1. The hashtag (without # prefix)
2. A viral score (0-100) based on how likely it is to get engagement
3. A category (trending, niche, broad, engagement)

Respond ONLY with valid JSON in this exact format:
{
  "hashtags": [
    { "tag": "hashtag1", "score": 95, "category": "trending" },
    { "tag": "hashtag2", "score": 88, "category": "niche" }
  ]
}

Focus on:
- Currently trending hashtags
- Niche-specific hashtags for the topic
- Engagement-boosting hashtags
- Mix of broad and specific reach`, trendTitle, strings.Join(existingTags, ", "))
}

// ReelAnalysisSystem pins the reel analyst to JSON-only output.
const ReelAnalysisSystem = `You are a viral content expert. Always respond with valid JSON only.`

// ReelAnalysisUser builds the analysis prompt for a batch of reels against a
// trend. Each line describes one reel as "title" by creator (platform).
func ReelAnalysisUser(trendTitle string, reelLines []string) string {
	return fmt.Sprintf(`You are a viral content analyst. Analyze these reels and determine their relevance to the trend %q.

For each reel, provide:
1. A relevance score (0-100)
2. Why this reel is relevant (hook analysis)
3. Pacing notes
4. Audio/trend tips
5. Recreation tips (3-4 bullet points)

Reels to analyze:
%s

Respond ONLY with valid JSON in this exact format:
{
  "analyses": [
    {
      "id": "reel_id",
      "relevanceScore": 85,
      "hookAnalysis": "Opens with...",
      "pacingNotes": "Quick cuts...",
      "trendUsed": "Trend name",
      "audioTip": "Audio advice...",
      "recreationTips": ["tip1", "tip2", "tip3"]
    }
  ]
}`, trendTitle, strings.Join(reelLines, "\n"))
}

// ReelMetadataSystem pins the metadata estimator to JSON-only output.
const ReelMetadataSystem = `You are a social media analyst. Respond with valid JSON only.`

// ReelMetadataUser asks the model to estimate metadata for a reel URL when no
// platform API is available.
func ReelMetadataUser(url, platform string) string {
	return fmt.Sprintf(`Analyze this social media URL and provide metadata: %s

Return JSON with these fields:
{
  "id": "unique_id",
  "title": "descriptive title based on URL",
  "creator": "@creator_handle",
  "platform": "%s",
  "views": "estimated views like 1.2M",
  "estimatedViralScore": 75
}`, url, platform)
}
