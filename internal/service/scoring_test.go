package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"

	"github.com/hypelens/hypelens/internal/domain"
)

type fakeCompleter struct {
	content string
	err     error
	calls   int
}

func (f *fakeCompleter) Complete(_ context.Context, _, _ string) (string, error) {
	f.calls++
	return f.content, f.err
}

func TestScoringService_Score(t *testing.T) {
	content := `Here you go: {"score": 85, "confidence": "high", "captions": ["Caption one", "Caption two"], "explanation": "Strong cross-platform velocity.", "suggested_tags": ["ai", "art", "viral"]}`
	svc := NewScoringService(&fakeCompleter{content: content})

	got, err := svc.Score(context.Background(), "AI Art Generation", domain.JSONMap{"source": "trend_analysis"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := &ScoreResult{
		Score:         85,
		Confidence:    domain.ConfidenceHigh,
		Captions:      []string{"Caption one", "Caption two"},
		Explanation:   "Strong cross-platform velocity.",
		SuggestedTags: []string{"ai", "art", "viral"},
		Raw:           content,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestScoringService_RateLimitedPassesThrough(t *testing.T) {
	svc := NewScoringService(&fakeCompleter{err: ErrRateLimited})

	_, err := svc.Score(context.Background(), "memes wave", nil)
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestScoringService_GatewayFailureYieldsDefault(t *testing.T) {
	svc := NewScoringService(&fakeCompleter{err: errors.New("connection refused")})

	got, err := svc.Score(context.Background(), "memes wave", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Score != 50 || got.Confidence != domain.ConfidenceLow {
		t.Errorf("expected default score 50/low, got %d/%s", got.Score, got.Confidence)
	}
	if got.Explanation != "Unable to analyze trend" {
		t.Errorf("unexpected explanation %q", got.Explanation)
	}
}

func TestScoringService_UnparseableOutputYieldsDefault(t *testing.T) {
	svc := NewScoringService(&fakeCompleter{content: "I think this trend is pretty hot right now."})

	got, err := svc.Score(context.Background(), "memes wave", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Score != 50 || got.Confidence != domain.ConfidenceLow {
		t.Errorf("expected default score 50/low, got %d/%s", got.Score, got.Confidence)
	}
	// The raw reply survives as the explanation for operators.
	if !strings.Contains(got.Explanation, "pretty hot") {
		t.Errorf("expected raw content as explanation, got %q", got.Explanation)
	}
}

func TestValidateAndFix(t *testing.T) {
	long := strings.Repeat("x", 200)

	tests := []struct {
		name string
		in   ScoreResult
		want ScoreResult
	}{
		{
			name: "score above range",
			in:   ScoreResult{Score: 140, Confidence: domain.ConfidenceHigh, Explanation: "e"},
			want: ScoreResult{Score: 100, Confidence: domain.ConfidenceHigh, Captions: []string{}, Explanation: "e", SuggestedTags: []string{}},
		},
		{
			name: "score below range",
			in:   ScoreResult{Score: -3, Confidence: domain.ConfidenceLow, Explanation: "e"},
			want: ScoreResult{Score: 0, Confidence: domain.ConfidenceLow, Captions: []string{}, Explanation: "e", SuggestedTags: []string{}},
		},
		{
			name: "unknown confidence",
			in:   ScoreResult{Score: 10, Confidence: "certain", Explanation: "e"},
			want: ScoreResult{Score: 10, Confidence: domain.ConfidenceLow, Captions: []string{}, Explanation: "e", SuggestedTags: []string{}},
		},
		{
			name: "excess captions and tags",
			in: ScoreResult{
				Score:         10,
				Confidence:    domain.ConfidenceMedium,
				Captions:      []string{"a", "b", "c"},
				Explanation:   "e",
				SuggestedTags: []string{"1", "2", "3", "4"},
			},
			want: ScoreResult{
				Score:         10,
				Confidence:    domain.ConfidenceMedium,
				Captions:      []string{"a", "b"},
				Explanation:   "e",
				SuggestedTags: []string{"1", "2", "3"},
			},
		},
		{
			name: "overlong caption truncated",
			in:   ScoreResult{Score: 10, Confidence: domain.ConfidenceLow, Captions: []string{long}, Explanation: "e"},
			want: ScoreResult{Score: 10, Confidence: domain.ConfidenceLow, Captions: []string{long[:120]}, Explanation: "e", SuggestedTags: []string{}},
		},
		{
			name: "multibyte caption cut on rune boundary",
			in: ScoreResult{
				Score:       10,
				Confidence:  domain.ConfidenceLow,
				Captions:    []string{strings.Repeat("x", 119) + "éé"},
				Explanation: "e",
			},
			want: ScoreResult{
				Score:         10,
				Confidence:    domain.ConfidenceLow,
				Captions:      []string{strings.Repeat("x", 119)},
				Explanation:   "e",
				SuggestedTags: []string{},
			},
		},
		{
			name: "empty explanation filled",
			in:   ScoreResult{Score: 10, Confidence: domain.ConfidenceLow},
			want: ScoreResult{Score: 10, Confidence: domain.ConfidenceLow, Captions: []string{}, Explanation: "Unable to analyze trend", SuggestedTags: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in
			validateAndFix(&got)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		s    string
		n    int
		want string
	}{
		{name: "short string untouched", s: "abc", n: 10, want: "abc"},
		{name: "ascii cut", s: "abcdef", n: 3, want: "abc"},
		{name: "rune boundary respected", s: "aéé", n: 2, want: "a"},
		{name: "exact boundary", s: "aé", n: 3, want: "aé"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.s, tt.n)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.s, tt.n, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncate produced invalid UTF-8: %q", got)
			}
		})
	}
}
