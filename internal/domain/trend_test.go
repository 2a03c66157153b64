package domain

import (
	"testing"
	"time"
)

func TestScoreHistoryAppend(t *testing.T) {
	base := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	t.Run("appends to empty history", func(t *testing.T) {
		var h ScoreHistory
		got := h.Append(ScorePoint{TS: base, Score: 50}, 48)
		if len(got) != 1 || got[0].Score != 50 {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("evicts oldest beyond limit", func(t *testing.T) {
		h := make(ScoreHistory, 0, 3)
		for i := 0; i < 3; i++ {
			h = h.Append(ScorePoint{TS: base.Add(time.Duration(i) * time.Hour), Score: i}, 3)
		}
		got := h.Append(ScorePoint{TS: base.Add(3 * time.Hour), Score: 3}, 3)
		if len(got) != 3 {
			t.Fatalf("len = %d, want 3", len(got))
		}
		if got[0].Score != 1 || got[2].Score != 3 {
			t.Errorf("got %+v, want scores 1..3", got)
		}
	})

	t.Run("does not mutate receiver", func(t *testing.T) {
		h := ScoreHistory{{TS: base, Score: 1}}
		_ = h.Append(ScorePoint{TS: base.Add(time.Hour), Score: 2}, 48)
		if len(h) != 1 {
			t.Errorf("receiver mutated: %+v", h)
		}
	})

	t.Run("zero limit keeps everything", func(t *testing.T) {
		var h ScoreHistory
		for i := 0; i < 100; i++ {
			h = h.Append(ScorePoint{TS: base, Score: i}, 0)
		}
		if len(h) != 100 {
			t.Errorf("len = %d, want 100", len(h))
		}
	})
}

func TestConfidenceLevelValid(t *testing.T) {
	for _, level := range []ConfidenceLevel{ConfidenceLow, ConfidenceMedium, ConfidenceHigh} {
		if !level.Valid() {
			t.Errorf("%s should be valid", level)
		}
	}
	if ConfidenceLevel("certain").Valid() {
		t.Error("unknown level should be invalid")
	}
}
