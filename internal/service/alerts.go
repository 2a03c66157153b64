package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hypelens/hypelens/internal/domain"
	"github.com/hypelens/hypelens/internal/logger"
	"github.com/hypelens/hypelens/internal/repository"
)

// AlertService fans trend score-jump alerts out to subscribed users as in-app
// notifications. It implements AlertNotifier for the refresh job and also
// backs the manual alert endpoint.
type AlertService struct {
	notifications *repository.NotificationRepository
	now           func() time.Time
}

// NewAlertService creates a new AlertService.
// Parameters:
//   - notifications: notification persistence.
//
// Returns:
//   - *AlertService: initialized alert service.
func NewAlertService(notifications *repository.NotificationRepository) *AlertService {
	return &AlertService{
		notifications: notifications,
		now:           time.Now,
	}
}

// NotifyScoreJump writes one notification per subscribed user whose threshold
// the new score clears.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - trend: trend that jumped, already persisted with its new score.
//   - prevScore: score before the refresh.
//
// Returns:
//   - error: non-nil if the subscriber query or insert fails.
func (s *AlertService) NotifyScoreJump(ctx context.Context, trend *domain.Trend, prevScore int) error {
	sent, err := s.SendAlert(ctx, trend.ID, trend.Title, trend.Score, prevScore)
	if err != nil {
		return err
	}
	logger.FromContext(ctx).
		WithField(logger.FieldTrendID, trend.ID).
		WithField(logger.FieldCount, sent).
		Info("Trend alerts sent")
	return nil
}

// SendAlert notifies every user subscribed at or below currentScore.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - trendID: trend identifier.
//   - trendTitle: trend title used in the notification text.
//   - currentScore: new score.
//   - previousScore: score before the jump.
//
// Returns:
//   - int: number of notifications written.
//   - error: non-nil if the subscriber query or insert fails.
func (s *AlertService) SendAlert(ctx context.Context, trendID, trendTitle string, currentScore, previousScore int) (int, error) {
	subscribers, err := s.notifications.ListAlertSubscribers(ctx, currentScore)
	if err != nil {
		return 0, err
	}
	if len(subscribers) == 0 {
		return 0, nil
	}

	now := s.now().UTC()
	notifications := make([]domain.Notification, 0, len(subscribers))
	for _, sub := range subscribers {
		notifications = append(notifications, domain.Notification{
			ID:          uuid.New().String(),
			UserID:      sub.UserID,
			Type:        domain.NotificationTypeTrendAlert,
			Title:       fmt.Sprintf("%s is trending!", trendTitle),
			Description: fmt.Sprintf("Score jumped from %d to %d", previousScore, currentScore),
			Data: domain.JSONMap{
				"trend_id":       trendID,
				"current_score":  currentScore,
				"previous_score": previousScore,
				"action_url":     "/trend/" + trendID,
			},
			CreatedAt: now,
		})
	}

	if err := s.notifications.CreateBatch(ctx, notifications); err != nil {
		return 0, err
	}
	return len(notifications), nil
}
