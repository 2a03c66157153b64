package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hypelens/hypelens/internal/domain"
	"github.com/hypelens/hypelens/internal/logger"
)

// XP awarded per action type. Daily rewards additionally earn a streak bonus.
const (
	xpBookmark    = 5
	xpShare       = 5
	xpBet         = 15
	xpAdWatched   = 25
	xpDailyBase   = 10
	xpStreakBonus = 5
	xpStreakCap   = 50

	xpPerLevel = 100
)

// ProfileStore is the persistence surface gamification needs.
type ProfileStore interface {
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	Ensure(ctx context.Context, userID string) error
	AddXP(ctx context.Context, action *domain.Action) error
	Leaderboard(ctx context.Context, limit int) ([]domain.Profile, error)
	ToggleBookmark(ctx context.Context, userID, trendID string) (bool, error)
	EnsureBookmark(ctx context.Context, userID, trendID string) error
	ListBookmarks(ctx context.Context, userID string) ([]domain.Trend, error)
}

// GamificationService records XP-earning actions and keeps profile totals in
// step with the action log.
type GamificationService struct {
	profiles ProfileStore
	now      func() time.Time
}

// NewGamificationService creates a new GamificationService.
// Parameters:
//   - profiles: profile and action persistence.
//
// Returns:
//   - *GamificationService: initialized gamification service.
func NewGamificationService(profiles ProfileStore) *GamificationService {
	return &GamificationService{
		profiles: profiles,
		now:      time.Now,
	}
}

// DeltaXP returns the XP a single action earns. For daily rewards the streak
// bonus grows by xpStreakBonus per prior consecutive day, capped at
// xpStreakCap.
// Parameters:
//   - actionType: action being recorded.
//   - streak: consecutive-day count, only meaningful for daily rewards.
//
// Returns:
//   - int: XP delta, 0 for unknown types.
func DeltaXP(actionType domain.ActionType, streak int) int {
	switch actionType {
	case domain.ActionBookmark:
		return xpBookmark
	case domain.ActionShare:
		return xpShare
	case domain.ActionBet:
		return xpBet
	case domain.ActionAdWatched:
		return xpAdWatched
	case domain.ActionDailyReward:
		bonus := (streak - 1) * xpStreakBonus
		if bonus < 0 {
			bonus = 0
		}
		if bonus > xpStreakCap {
			bonus = xpStreakCap
		}
		return xpDailyBase + bonus
	}
	return 0
}

// Level converts total XP into a level, starting at level 1.
func Level(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/xpPerLevel + 1
}

// RecordAction logs an XP-earning action and atomically bumps the user's XP.
// The profile row is created on first touch; a bookmark action with a trend
// also ensures the bookmark row exists.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: acting user.
//   - actionType: what the user did.
//   - trendID: related trend, may be empty.
//   - streak: consecutive-day count for daily rewards, ignored otherwise.
//
// Returns:
//   - *domain.Action: persisted action including its XP delta.
//   - error: non-nil on unknown action type or persistence failure.
func (s *GamificationService) RecordAction(ctx context.Context, userID string, actionType domain.ActionType, trendID string, streak int) (*domain.Action, error) {
	if !actionType.Valid() {
		return nil, fmt.Errorf("unknown action type: %s", actionType)
	}

	if err := s.profiles.Ensure(ctx, userID); err != nil {
		return nil, err
	}

	// A bookmark action implies the bookmark row, even when the caller went
	// through the action endpoint instead of the toggle.
	if actionType == domain.ActionBookmark && trendID != "" {
		if err := s.profiles.EnsureBookmark(ctx, userID, trendID); err != nil {
			return nil, err
		}
	}

	action := &domain.Action{
		ID:      uuid.New().String(),
		UserID:  userID,
		Type:    actionType,
		TrendID: trendID,
		DeltaXP: DeltaXP(actionType, streak),
		TS:      s.now().UTC(),
	}
	if err := s.profiles.AddXP(ctx, action); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).
		WithField(logger.FieldUserID, userID).
		WithField("action", string(actionType)).
		WithField("delta_xp", action.DeltaXP).
		Info("Action recorded")
	return action, nil
}

// ToggleBookmark flips a bookmark. Creating one awards bookmark XP; removing
// one does not claw it back.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: bookmarking user.
//   - trendID: bookmarked trend.
//
// Returns:
//   - bool: true if the bookmark now exists.
//   - error: non-nil if the toggle or XP update fails.
func (s *GamificationService) ToggleBookmark(ctx context.Context, userID, trendID string) (bool, error) {
	if err := s.profiles.Ensure(ctx, userID); err != nil {
		return false, err
	}

	added, err := s.profiles.ToggleBookmark(ctx, userID, trendID)
	if err != nil {
		return false, err
	}
	if added {
		if _, err := s.RecordAction(ctx, userID, domain.ActionBookmark, trendID, 0); err != nil {
			return added, err
		}
	}
	return added, nil
}

// ProfileView is a profile enriched with its derived level.
type ProfileView struct {
	domain.Profile
	Level int `json:"level"`
}

// GetProfile returns a user's profile with its level.
func (s *GamificationService) GetProfile(ctx context.Context, userID string) (*ProfileView, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ProfileView{Profile: *profile, Level: Level(profile.XP)}, nil
}

// Leaderboard returns the top profiles by XP, each with its level.
func (s *GamificationService) Leaderboard(ctx context.Context, limit int) ([]ProfileView, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	profiles, err := s.profiles.Leaderboard(ctx, limit)
	if err != nil {
		return nil, err
	}
	views := make([]ProfileView, 0, len(profiles))
	for _, p := range profiles {
		views = append(views, ProfileView{Profile: p, Level: Level(p.XP)})
	}
	return views, nil
}

// ListBookmarks returns a user's bookmarked trends.
func (s *GamificationService) ListBookmarks(ctx context.Context, userID string) ([]domain.Trend, error) {
	return s.profiles.ListBookmarks(ctx, userID)
}
