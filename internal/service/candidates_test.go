package service

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGenerateCandidates_CuratedFirst(t *testing.T) {
	cfg := CandidateConfig{
		Seeds:         []string{"tech"},
		Patterns:      []string{"wave", "core"},
		Curated:       []string{"Dark Academia", "Balletcore"},
		MaxCandidates: 10,
	}

	got := GenerateCandidates(cfg)
	want := []string{"Dark Academia", "Balletcore", "tech wave", "tech core"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("candidates mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateCandidates_Dedup(t *testing.T) {
	cfg := CandidateConfig{
		Seeds:         []string{"memes", "memes"},
		Patterns:      []string{"wave"},
		Curated:       []string{"memes wave"},
		MaxCandidates: 30,
	}

	got := GenerateCandidates(cfg)
	want := []string{"memes wave"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("expected duplicates collapsed to first occurrence (-want +got):\n%s", diff)
	}
}

func TestGenerateCandidates_Cap(t *testing.T) {
	seeds := []string{"fashion", "tech gadgets", "memes", "music", "viral challenges", "AI tools", "gaming", "crypto"}
	cfg := DefaultCandidateConfig(seeds, 30)

	got := GenerateCandidates(cfg)
	if len(got) != 30 {
		t.Fatalf("expected pool capped at 30, got %d", len(got))
	}

	// Curated ideas outrank generated combinations, so the cap should be
	// filled from the curated list first.
	if got[0] != "AI Art Generation" {
		t.Errorf("expected curated idea first, got %q", got[0])
	}
}

func TestGenerateCandidates_Deterministic(t *testing.T) {
	cfg := DefaultCandidateConfig([]string{"gaming", "crypto"}, 30)

	first := GenerateCandidates(cfg)
	for i := 0; i < 5; i++ {
		if diff := cmp.Diff(first, GenerateCandidates(cfg)); diff != "" {
			t.Fatalf("generation is not deterministic (-first +other):\n%s", diff)
		}
	}
}

func TestGenerateCandidates_SingleSeedPattern(t *testing.T) {
	cfg := CandidateConfig{
		Seeds:         []string{"fashion"},
		Patterns:      []string{"core"},
		MaxCandidates: 30,
	}

	got := GenerateCandidates(cfg)
	want := []string{"fashion core"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("candidates mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateCandidates_NoCap(t *testing.T) {
	cfg := CandidateConfig{
		Seeds:    []string{"tech"},
		Patterns: []string{"wave"},
		Curated:  []string{"Balletcore"},
	}

	got := GenerateCandidates(cfg)
	if len(got) != 2 {
		t.Errorf("expected no truncation with zero cap, got %d items", len(got))
	}
}
