package service

import (
	"context"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/hypelens/hypelens/internal/config"
	"github.com/hypelens/hypelens/internal/domain"
	"github.com/hypelens/hypelens/internal/repository"
)

// The candidate pool starts with the curated list, so a small MaxCandidates
// pins the run to a known set of titles.
const (
	firstCandidate  = "AI Art Generation"
	secondCandidate = "Cottagecore Fashion"
	thirdCandidate  = "Digital Minimalism"
)

type fakeStore struct {
	trends     map[string]*domain.Trend
	lookupErrs map[string]error
	upsertErrs map[string]error
	upserts    []*domain.Trend
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		trends:     map[string]*domain.Trend{},
		lookupErrs: map[string]error{},
		upsertErrs: map[string]error{},
	}
}

func (f *fakeStore) GetByTitle(_ context.Context, title string) (*domain.Trend, error) {
	if err := f.lookupErrs[title]; err != nil {
		return nil, err
	}
	if trend, ok := f.trends[title]; ok {
		copied := *trend
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStore) Upsert(_ context.Context, trend *domain.Trend) error {
	if err := f.upsertErrs[trend.Title]; err != nil {
		return err
	}
	copied := *trend
	f.upserts = append(f.upserts, &copied)
	f.trends[trend.Title] = &copied
	return nil
}

type fakeScorer struct {
	results map[string]*ScoreResult
	errs    map[string]error
	calls   []string
}

func (f *fakeScorer) Score(_ context.Context, candidate string, _ domain.JSONMap) (*ScoreResult, error) {
	f.calls = append(f.calls, candidate)
	if err := f.errs[candidate]; err != nil {
		return nil, err
	}
	if r, ok := f.results[candidate]; ok {
		return r, nil
	}
	return &ScoreResult{Score: 50, Confidence: domain.ConfidenceLow, Captions: []string{}, SuggestedTags: []string{}, Explanation: "Unable to analyze trend"}, nil
}

type fakeNotifier struct {
	jumps []int
}

func (f *fakeNotifier) NotifyScoreJump(_ context.Context, trend *domain.Trend, prevScore int) error {
	f.jumps = append(f.jumps, trend.Score-prevScore)
	return nil
}

func newTestRefresh(store *fakeStore, scorer *fakeScorer, notifier AlertNotifier, maxCandidates int) *RefreshService {
	svc := NewRefreshService(store, scorer, notifier, config.RefreshConfig{
		Seeds:         []string{"tech"},
		MaxCandidates: maxCandidates,
		Freshness:     6 * time.Hour,
		HistoryLimit:  48,
		SampleLimit:   10,
	}, config.AlertConfig{Enabled: true, MinJump: 20})
	svc.SetLimiter(rate.NewLimiter(rate.Inf, 0))
	return svc
}

func TestRefresh_CreatesNewTrend(t *testing.T) {
	store := newFakeStore()
	scorer := &fakeScorer{results: map[string]*ScoreResult{
		firstCandidate: {Score: 85, Confidence: domain.ConfidenceHigh, Captions: []string{"c1", "c2"}, Explanation: "hot", SuggestedTags: []string{"a", "b", "c"}, Raw: `{"score":85}`},
	}}
	svc := newTestRefresh(store, scorer, nil, 1)

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc.SetClock(func() time.Time { return now })

	summary, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Processed != 1 {
		t.Fatalf("processed = %d, want 1", summary.Processed)
	}

	trend := store.trends[firstCandidate]
	if trend == nil {
		t.Fatal("trend was not written")
	}
	if trend.ID == "" {
		t.Error("new trend must get an id")
	}
	if trend.Score != 85 || trend.ConfidenceLevel != domain.ConfidenceHigh {
		t.Errorf("score/confidence = %d/%s", trend.Score, trend.ConfidenceLevel)
	}
	if !trend.CreatedAt.Equal(now) || !trend.LastScoredAt.Equal(now) {
		t.Errorf("timestamps not set to clock: created=%v scored=%v", trend.CreatedAt, trend.LastScoredAt)
	}
	if len(trend.ScoreHistory) != 1 || trend.ScoreHistory[0].Score != 85 {
		t.Errorf("history = %+v, want single point of 85", trend.ScoreHistory)
	}
	if trend.RawAI != `{"score":85}` {
		t.Errorf("raw output not preserved: %q", trend.RawAI)
	}
}

func TestRefresh_FreshTrendSkipped(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	store := newFakeStore()
	store.trends[firstCandidate] = &domain.Trend{
		ID:           "t-1",
		Title:        firstCandidate,
		Score:        70,
		LastScoredAt: now.Add(-3 * time.Hour),
	}

	scorer := &fakeScorer{}
	svc := newTestRefresh(store, scorer, nil, 1)
	svc.SetClock(func() time.Time { return now })

	summary, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Processed != 0 {
		t.Errorf("processed = %d, want 0", summary.Processed)
	}
	if len(scorer.calls) != 0 {
		t.Errorf("scorer called for fresh trend: %v", scorer.calls)
	}
	if len(store.upserts) != 0 {
		t.Error("fresh trend must not be rewritten")
	}
}

func TestRefresh_StaleTrendKeepsIdentity(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	createdAt := now.Add(-72 * time.Hour)

	store := newFakeStore()
	store.trends[firstCandidate] = &domain.Trend{
		ID:           "t-1",
		Title:        firstCandidate,
		Score:        40,
		CreatedAt:    createdAt,
		LastScoredAt: now.Add(-7 * time.Hour),
		ScoreHistory: domain.ScoreHistory{{TS: now.Add(-7 * time.Hour), Score: 40}},
	}

	scorer := &fakeScorer{results: map[string]*ScoreResult{
		firstCandidate: {Score: 55, Confidence: domain.ConfidenceMedium, Captions: []string{}, SuggestedTags: []string{}, Explanation: "warming up"},
	}}
	svc := newTestRefresh(store, scorer, nil, 1)
	svc.SetClock(func() time.Time { return now })

	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	trend := store.trends[firstCandidate]
	if trend.ID != "t-1" {
		t.Errorf("id changed on rescore: %s", trend.ID)
	}
	if !trend.CreatedAt.Equal(createdAt) {
		t.Errorf("created_at changed on rescore: %v", trend.CreatedAt)
	}
	if len(trend.ScoreHistory) != 2 || trend.ScoreHistory[1].Score != 55 {
		t.Errorf("history not appended: %+v", trend.ScoreHistory)
	}
	if !trend.LastScoredAt.Equal(now) {
		t.Errorf("last_scored_at = %v, want %v", trend.LastScoredAt, now)
	}
}

func TestRefresh_HistoryCapped(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	history := make(domain.ScoreHistory, 48)
	for i := range history {
		history[i] = domain.ScorePoint{TS: now.Add(time.Duration(i-48) * time.Hour), Score: i}
	}

	store := newFakeStore()
	store.trends[firstCandidate] = &domain.Trend{
		ID:           "t-1",
		Title:        firstCandidate,
		LastScoredAt: now.Add(-7 * time.Hour),
		ScoreHistory: history,
	}

	scorer := &fakeScorer{results: map[string]*ScoreResult{
		firstCandidate: {Score: 99, Confidence: domain.ConfidenceHigh, Captions: []string{}, SuggestedTags: []string{}, Explanation: "x"},
	}}
	svc := newTestRefresh(store, scorer, nil, 1)
	svc.SetClock(func() time.Time { return now })

	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := store.trends[firstCandidate].ScoreHistory
	if len(got) != 48 {
		t.Fatalf("history length = %d, want 48", len(got))
	}
	if got[0].Score != 1 {
		t.Errorf("oldest point not evicted, head = %+v", got[0])
	}
	if got[47].Score != 99 {
		t.Errorf("newest point missing, tail = %+v", got[47])
	}
}

func TestRefresh_RateLimitedCandidateSkipsWrite(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	staleAt := now.Add(-7 * time.Hour)

	store := newFakeStore()
	store.trends[firstCandidate] = &domain.Trend{
		ID:           "t-1",
		Title:        firstCandidate,
		LastScoredAt: staleAt,
	}

	scorer := &fakeScorer{
		errs: map[string]error{firstCandidate: ErrRateLimited},
		results: map[string]*ScoreResult{
			secondCandidate: {Score: 60, Confidence: domain.ConfidenceMedium, Captions: []string{}, SuggestedTags: []string{}, Explanation: "x"},
		},
	}
	svc := newTestRefresh(store, scorer, nil, 2)
	svc.SetClock(func() time.Time { return now })

	summary, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Processed != 1 {
		t.Errorf("processed = %d, want 1", summary.Processed)
	}

	// The rate-limited candidate keeps its old last_scored_at so the next
	// run retries it.
	if got := store.trends[firstCandidate].LastScoredAt; !got.Equal(staleAt) {
		t.Errorf("rate-limited trend was written: last_scored_at = %v", got)
	}
	if store.trends[secondCandidate] == nil {
		t.Error("remaining candidate should still be processed")
	}
}

func TestRefresh_RateLimitBackoffEscalates(t *testing.T) {
	store := newFakeStore()
	scorer := &fakeScorer{errs: map[string]error{
		firstCandidate:  ErrRateLimited,
		secondCandidate: ErrRateLimited,
		thirdCandidate:  ErrRateLimited,
	}}
	svc := NewRefreshService(store, scorer, nil, config.RefreshConfig{
		Seeds:         []string{"tech"},
		MaxCandidates: 3,
		Freshness:     6 * time.Hour,
		HistoryLimit:  48,
		SampleLimit:   10,
		PaceInterval:  100 * time.Millisecond,
	}, config.AlertConfig{})
	svc.SetLimiter(rate.NewLimiter(rate.Inf, 0))

	var waits []time.Duration
	svc.SetSleep(func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	})

	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
	}
	if len(waits) != len(want) {
		t.Fatalf("waits = %v, want %v", waits, want)
	}
	for i := range want {
		if waits[i] != want[i] {
			t.Errorf("wait %d = %v, want %v", i, waits[i], want[i])
		}
	}
	if len(store.upserts) != 0 {
		t.Error("rate-limited candidates must not be written")
	}
}

func TestRefresh_RateLimitBackoffResets(t *testing.T) {
	store := newFakeStore()
	scorer := &fakeScorer{
		errs: map[string]error{
			firstCandidate: ErrRateLimited,
			thirdCandidate: ErrRateLimited,
		},
		results: map[string]*ScoreResult{
			secondCandidate: {Score: 60, Confidence: domain.ConfidenceMedium, Captions: []string{}, SuggestedTags: []string{}, Explanation: "x"},
		},
	}
	svc := NewRefreshService(store, scorer, nil, config.RefreshConfig{
		Seeds:         []string{"tech"},
		MaxCandidates: 3,
		Freshness:     6 * time.Hour,
		HistoryLimit:  48,
		SampleLimit:   10,
		PaceInterval:  100 * time.Millisecond,
	}, config.AlertConfig{})
	svc.SetLimiter(rate.NewLimiter(rate.Inf, 0))

	var waits []time.Duration
	svc.SetSleep(func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	})

	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The successful score between the two 429s resets the doubling.
	if len(waits) != 2 || waits[0] != 100*time.Millisecond || waits[1] != 100*time.Millisecond {
		t.Errorf("waits = %v, want [100ms 100ms]", waits)
	}
}

func TestRefresh_BackoffCapped(t *testing.T) {
	svc := NewRefreshService(newFakeStore(), &fakeScorer{}, nil, config.RefreshConfig{
		PaceInterval: 100 * time.Millisecond,
	}, config.AlertConfig{})

	backoff := time.Duration(0)
	for i := 0; i < 20; i++ {
		backoff = svc.nextBackoff(backoff)
	}
	if backoff != maxRateLimitBackoff {
		t.Errorf("backoff = %v, want cap %v", backoff, maxRateLimitBackoff)
	}
}

func TestRefresh_FailuresAreIsolated(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	store := newFakeStore()
	store.lookupErrs[firstCandidate] = context.DeadlineExceeded

	scorer := &fakeScorer{results: map[string]*ScoreResult{
		secondCandidate: {Score: 42, Confidence: domain.ConfidenceLow, Captions: []string{}, SuggestedTags: []string{}, Explanation: "x"},
	}}
	svc := newTestRefresh(store, scorer, nil, 2)
	svc.SetClock(func() time.Time { return now })

	summary, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Processed != 1 {
		t.Errorf("processed = %d, want 1", summary.Processed)
	}
	if store.trends[secondCandidate] == nil {
		t.Error("second candidate should survive first candidate's failure")
	}
}

func TestRefresh_SummarySampleLimited(t *testing.T) {
	store := newFakeStore()
	scorer := &fakeScorer{}
	svc := NewRefreshService(store, scorer, nil, config.RefreshConfig{
		Seeds:         []string{"tech"},
		MaxCandidates: 5,
		Freshness:     6 * time.Hour,
		HistoryLimit:  48,
		SampleLimit:   2,
	}, config.AlertConfig{})
	svc.SetLimiter(rate.NewLimiter(rate.Inf, 0))

	summary, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Processed != 5 {
		t.Errorf("processed = %d, want 5", summary.Processed)
	}
	if len(summary.Trends) != 2 {
		t.Errorf("sample = %d rows, want 2", len(summary.Trends))
	}
}

func TestRefresh_AlertOnScoreJump(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	store := newFakeStore()
	store.trends[firstCandidate] = &domain.Trend{
		ID:           "t-1",
		Title:        firstCandidate,
		Score:        50,
		LastScoredAt: now.Add(-7 * time.Hour),
	}
	store.trends[secondCandidate] = &domain.Trend{
		ID:           "t-2",
		Title:        secondCandidate,
		Score:        50,
		LastScoredAt: now.Add(-7 * time.Hour),
	}

	scorer := &fakeScorer{results: map[string]*ScoreResult{
		firstCandidate:  {Score: 90, Confidence: domain.ConfidenceHigh, Captions: []string{}, SuggestedTags: []string{}, Explanation: "x"},
		secondCandidate: {Score: 60, Confidence: domain.ConfidenceLow, Captions: []string{}, SuggestedTags: []string{}, Explanation: "x"},
	}}
	notifier := &fakeNotifier{}
	svc := newTestRefresh(store, scorer, notifier, 2)
	svc.SetClock(func() time.Time { return now })

	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 50→90 clears the 20-point jump, 50→60 does not.
	if len(notifier.jumps) != 1 || notifier.jumps[0] != 40 {
		t.Errorf("jumps = %v, want one jump of 40", notifier.jumps)
	}
}

func TestRefresh_ContextCancelStopsRun(t *testing.T) {
	store := newFakeStore()
	scorer := &fakeScorer{}
	svc := newTestRefresh(store, scorer, nil, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Run(ctx)
	if err == nil {
		t.Fatal("expected context error")
	}
}
