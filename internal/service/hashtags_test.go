package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHashtagService_Generate(t *testing.T) {
	content := "```json\n{\"hashtags\": [{\"tag\": \"aiart\", \"score\": 95, \"category\": \"trending\"}, {\"tag\": \"digitalart\", \"score\": 88, \"category\": \"niche\"}]}\n```"
	svc := NewHashtagService(&fakeCompleter{content: content})

	got, err := svc.Generate(context.Background(), "AI Art Generation", []string{"art"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := &HashtagResult{Hashtags: []Hashtag{
		{Tag: "aiart", Score: 95, Category: "trending"},
		{Tag: "digitalart", Score: 88, Category: "niche"},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestHashtagService_RateLimitedPassesThrough(t *testing.T) {
	svc := NewHashtagService(&fakeCompleter{err: ErrRateLimited})

	_, err := svc.Generate(context.Background(), "memes wave", nil)
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestHashtagService_MalformedResponse(t *testing.T) {
	svc := NewHashtagService(&fakeCompleter{content: "here are some hashtags: #ai #art"})

	_, err := svc.Generate(context.Background(), "memes wave", nil)
	if err == nil {
		t.Fatal("expected error on non-JSON response")
	}
}
