package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/hypelens/hypelens/internal/config"
	"github.com/hypelens/hypelens/internal/domain"
	"github.com/hypelens/hypelens/internal/logger"
	"github.com/hypelens/hypelens/internal/repository"
)

// TrendStore is the persistence surface the refresh job needs.
type TrendStore interface {
	GetByTitle(ctx context.Context, title string) (*domain.Trend, error)
	Upsert(ctx context.Context, trend *domain.Trend) error
}

// CandidateScorer scores one candidate title.
type CandidateScorer interface {
	Score(ctx context.Context, candidate string, sources domain.JSONMap) (*ScoreResult, error)
}

// AlertNotifier is called when a rescored trend's score jumps enough to be
// worth announcing. A nil notifier disables alerts.
type AlertNotifier interface {
	NotifyScoreJump(ctx context.Context, trend *domain.Trend, prevScore int) error
}

const (
	defaultPaceInterval = 500 * time.Millisecond
	maxRateLimitBackoff = 30 * time.Second
)

// RefreshSummary reports one refresh run.
type RefreshSummary struct {
	Processed int            `json:"processed"`
	Trends    []domain.Trend `json:"trends"`
}

// RefreshService runs the trend refresh job: generate candidates, score the
// stale ones, and upsert the results keyed by title.
type RefreshService struct {
	store    TrendStore
	scorer   CandidateScorer
	notifier AlertNotifier

	cfg     config.RefreshConfig
	alerts  config.AlertConfig
	limiter *rate.Limiter
	now     func() time.Time
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewRefreshService creates a new RefreshService.
// Parameters:
//   - store: trend persistence.
//   - scorer: candidate scoring collaborator.
//   - notifier: score-jump alert sink, may be nil.
//   - cfg: refresh knobs (seeds, freshness window, pacing).
//   - alerts: alerting knobs.
//
// Returns:
//   - *RefreshService: initialized refresh job.
func NewRefreshService(store TrendStore, scorer CandidateScorer, notifier AlertNotifier, cfg config.RefreshConfig, alerts config.AlertConfig) *RefreshService {
	limit := rate.Inf
	if cfg.PaceInterval > 0 {
		limit = rate.Every(cfg.PaceInterval)
	}
	return &RefreshService{
		store:    store,
		scorer:   scorer,
		notifier: notifier,
		cfg:      cfg,
		alerts:   alerts,
		limiter:  rate.NewLimiter(limit, 1),
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// sleepContext blocks for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// SetClock overrides the time source. Intended for tests.
func (s *RefreshService) SetClock(now func() time.Time) {
	s.now = now
}

// SetLimiter overrides the pacing limiter. Intended for tests.
func (s *RefreshService) SetLimiter(l *rate.Limiter) {
	s.limiter = l
}

// SetSleep overrides the backoff sleep. Intended for tests.
func (s *RefreshService) SetSleep(sleep func(ctx context.Context, d time.Duration) error) {
	s.sleep = sleep
}

// Run executes one refresh pass over the candidate pool.
//
// Per-candidate failures are isolated: a store or gateway error for one
// candidate is logged and the loop moves on. A rate-limited scoring call
// skips the write entirely so the trend's last_scored_at stays unchanged and
// the candidate is retried on the next run; consecutive 429s additionally
// back off with a doubling wait before the loop continues. Run only returns
// an error when the context is done.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//
// Returns:
//   - *RefreshSummary: processed count plus a preview sample of written rows.
//   - error: non-nil only on context cancellation.
func (s *RefreshService) Run(ctx context.Context) (*RefreshSummary, error) {
	log := logger.FromContext(ctx).WithField(logger.FieldComponent, "refresh")

	candidates := GenerateCandidates(DefaultCandidateConfig(s.cfg.Seeds, s.cfg.MaxCandidates))
	log.WithField(logger.FieldCount, len(candidates)).Info("Processing trend candidates")

	sources := domain.JSONMap{
		"source":      "trend_analysis",
		"seed_sample": s.cfg.Seeds,
	}

	summary := &RefreshSummary{Trends: []domain.Trend{}}

	var backoff time.Duration
	for _, candidate := range candidates {
		clog := log.WithField(logger.FieldCandidate, candidate)

		existing, err := s.store.GetByTitle(ctx, candidate)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			clog.WithError(err).Error("Trend lookup failed")
			continue
		}

		if existing != nil {
			age := s.now().Sub(existing.LastScoredAt)
			if age < s.cfg.Freshness {
				clog.WithField("age", age.String()).Debug("Skipping fresh trend")
				continue
			}
		}

		// Pace the gateway calls.
		if err := s.limiter.Wait(ctx); err != nil {
			return summary, err
		}

		result, err := s.scorer.Score(ctx, candidate, sources)
		if errors.Is(err, ErrRateLimited) {
			backoff = s.nextBackoff(backoff)
			clog.WithField("backoff", backoff.String()).Warn("Gateway rate limited, skipping candidate")
			if err := s.sleep(ctx, backoff); err != nil {
				return summary, err
			}
			continue
		}
		backoff = 0
		if err != nil {
			clog.WithError(err).Error("Scoring failed")
			continue
		}

		trend := s.buildTrend(candidate, existing, result, sources)
		if err := s.store.Upsert(ctx, trend); err != nil {
			clog.WithError(err).Error("Trend upsert failed")
			continue
		}

		summary.Processed++
		if len(summary.Trends) < s.cfg.SampleLimit {
			summary.Trends = append(summary.Trends, *trend)
		}

		if existing != nil {
			s.maybeAlert(ctx, trend, existing.Score)
		}
	}

	log.WithField(logger.FieldCount, summary.Processed).Info("Refresh run complete")
	return summary, nil
}

// nextBackoff doubles the rate-limit backoff, starting from the pace interval
// and capped at maxRateLimitBackoff. The caller resets it on the first
// non-rate-limited outcome.
func (s *RefreshService) nextBackoff(current time.Duration) time.Duration {
	base := s.cfg.PaceInterval
	if base <= 0 {
		base = defaultPaceInterval
	}
	next := base
	if current > 0 {
		next = current * 2
	}
	if next > maxRateLimitBackoff {
		next = maxRateLimitBackoff
	}
	return next
}

// buildTrend merges a score result into the existing row, or starts a new one.
// Identity and created_at from the first insert always survive.
func (s *RefreshService) buildTrend(candidate string, existing *domain.Trend, result *ScoreResult, sources domain.JSONMap) *domain.Trend {
	now := s.now().UTC()

	raw := result.Raw
	if raw == "" {
		if b, err := json.Marshal(result); err == nil {
			raw = string(b)
		}
	}

	trend := &domain.Trend{
		ID:              uuid.New().String(),
		Title:           candidate,
		Score:           result.Score,
		ConfidenceLevel: result.Confidence,
		Examples:        domain.StringArray(result.Captions),
		Explain:         result.Explanation,
		SuggestedTags:   domain.StringArray(result.SuggestedTags),
		RawAI:           raw,
		Sources:         sources,
		ScoreHistory:    domain.ScoreHistory{},
		CreatedAt:       now,
		LastScoredAt:    now,
	}
	if existing != nil {
		trend.ID = existing.ID
		trend.CreatedAt = existing.CreatedAt
		trend.ScoreHistory = existing.ScoreHistory
	}
	trend.ScoreHistory = trend.ScoreHistory.Append(
		domain.ScorePoint{TS: now, Score: result.Score},
		s.cfg.HistoryLimit,
	)
	return trend
}

// maybeAlert fires the notifier when a rescored trend jumped enough.
func (s *RefreshService) maybeAlert(ctx context.Context, trend *domain.Trend, prevScore int) {
	if s.notifier == nil || !s.alerts.Enabled {
		return
	}
	if trend.Score-prevScore < s.alerts.MinJump {
		return
	}
	if err := s.notifier.NotifyScoreJump(ctx, trend, prevScore); err != nil {
		logger.FromContext(ctx).
			WithField(logger.FieldTrendID, trend.ID).
			WithError(err).
			Error("Trend alert dispatch failed")
	}
}
