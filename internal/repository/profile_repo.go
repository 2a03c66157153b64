package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hypelens/hypelens/internal/domain"
)

// ProfileRepository handles profile and action data operations.
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new ProfileRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *ProfileRepository: repository instance bound to db.
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Get retrieves a profile by user ID.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: profile ID.
// Returns:
//   - *domain.Profile: profile if found, nil with ErrNotFound otherwise.
//   - error: non-nil if lookup fails.
func (r *ProfileRepository) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	var profile domain.Profile
	err := r.db.WithContext(ctx).First(&profile, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Ensure creates an empty profile row for userID if one does not exist yet.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: profile ID to ensure.
// Returns:
//   - error: non-nil if the insert fails.
func (r *ProfileRepository) Ensure(ctx context.Context, userID string) error {
	profile := domain.Profile{ID: userID, CreatedAt: time.Now().UTC()}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&profile).Error
}

// AddXP atomically increments a user's XP and records the action in the same
// transaction.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - action: XP-earning event; DeltaXP is applied to the user's profile.
// Returns:
//   - error: non-nil if the transaction fails.
func (r *ProfileRepository) AddXP(ctx context.Context, action *domain.Action) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(action).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Profile{}).
			Where("id = ?", action.UserID).
			Updates(map[string]interface{}{
				"xp":             gorm.Expr("xp + ?", action.DeltaXP),
				"last_active_at": action.TS,
			}).Error
	})
}

// Leaderboard retrieves the top profiles by XP.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - limit: maximum rows to return, ignored when <= 0.
// Returns:
//   - []domain.Profile: profiles ordered by XP descending.
//   - error: non-nil if the query fails.
func (r *ProfileRepository) Leaderboard(ctx context.Context, limit int) ([]domain.Profile, error) {
	q := r.db.WithContext(ctx).Model(&domain.Profile{}).Order("xp DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var profiles []domain.Profile
	if err := q.Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// ToggleBookmark saves or removes a bookmark for a user and trend.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: bookmarking user.
//   - trendID: bookmarked trend.
// Returns:
//   - bool: true if the bookmark now exists, false if it was removed.
//   - error: non-nil if the toggle fails.
func (r *ProfileRepository) ToggleBookmark(ctx context.Context, userID, trendID string) (bool, error) {
	var existing domain.Bookmark
	err := r.db.WithContext(ctx).
		First(&existing, "user_id = ? AND trend_id = ?", userID, trendID).Error
	if err == nil {
		if err := r.db.WithContext(ctx).Delete(&existing).Error; err != nil {
			return false, err
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	bookmark := domain.Bookmark{
		ID:        newID(),
		UserID:    userID,
		TrendID:   trendID,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&bookmark).Error; err != nil {
		return false, err
	}
	return true, nil
}

// EnsureBookmark creates a bookmark for a user and trend if one does not
// exist yet. Unlike ToggleBookmark it never removes an existing row.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: bookmarking user.
//   - trendID: bookmarked trend.
// Returns:
//   - error: non-nil if the insert fails.
func (r *ProfileRepository) EnsureBookmark(ctx context.Context, userID, trendID string) error {
	bookmark := domain.Bookmark{
		ID:        newID(),
		UserID:    userID,
		TrendID:   trendID,
		CreatedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "trend_id"}},
		DoNothing: true,
	}).Create(&bookmark).Error
}

// ListBookmarks retrieves a user's bookmarked trends, newest first.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: bookmarking user.
// Returns:
//   - []domain.Trend: bookmarked trends.
//   - error: non-nil if the query fails.
func (r *ProfileRepository) ListBookmarks(ctx context.Context, userID string) ([]domain.Trend, error) {
	var trends []domain.Trend
	err := r.db.WithContext(ctx).
		Joins("JOIN bookmarks ON bookmarks.trend_id = trends.id").
		Where("bookmarks.user_id = ?", userID).
		Order("bookmarks.created_at DESC").
		Find(&trends).Error
	if err != nil {
		return nil, err
	}
	return trends, nil
}
