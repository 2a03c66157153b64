package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hypelens/hypelens/internal/domain"
)

// NotificationRepository handles notification and preference data operations.
type NotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *NotificationRepository: repository instance bound to db.
func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// CreateBatch inserts a batch of notifications in one statement.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - notifications: rows to insert; no-op when empty.
// Returns:
//   - error: non-nil if the insert fails.
func (r *NotificationRepository) CreateBatch(ctx context.Context, notifications []domain.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&notifications).Error
}

// ListByUser retrieves a user's notifications, newest first.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: recipient.
//   - limit: maximum rows to return, ignored when <= 0.
// Returns:
//   - []domain.Notification: matching notifications.
//   - error: non-nil if the query fails.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var notifications []domain.Notification
	if err := q.Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead flags one notification as read for its owner.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: recipient, checked so users cannot touch others' rows.
//   - notificationID: row to update.
// Returns:
//   - error: non-nil if the update fails or no row matched.
func (r *NotificationRepository) MarkRead(ctx context.Context, userID, notificationID string) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetPreference retrieves a user's alert preference.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: preference owner.
// Returns:
//   - *domain.NotificationPreference: preference if present, nil with
//     ErrNotFound otherwise.
//   - error: non-nil if lookup fails.
func (r *NotificationRepository) GetPreference(ctx context.Context, userID string) (*domain.NotificationPreference, error) {
	var pref domain.NotificationPreference
	err := r.db.WithContext(ctx).First(&pref, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

// UpsertPreference creates or replaces a user's alert preference.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - pref: preference to persist.
// Returns:
//   - error: non-nil if the upsert fails.
func (r *NotificationRepository) UpsertPreference(ctx context.Context, pref *domain.NotificationPreference) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(pref).Error
}

// ListAlertSubscribers retrieves users with trend alerts enabled whose
// threshold is at or below the given score.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - score: new trend score being announced.
// Returns:
//   - []domain.NotificationPreference: matching subscriptions.
//   - error: non-nil if the query fails.
func (r *NotificationRepository) ListAlertSubscribers(ctx context.Context, score int) ([]domain.NotificationPreference, error) {
	var prefs []domain.NotificationPreference
	err := r.db.WithContext(ctx).
		Where("trend_alerts_enabled = ? AND trend_alert_threshold <= ?", true, score).
		Find(&prefs).Error
	if err != nil {
		return nil, err
	}
	return prefs, nil
}
