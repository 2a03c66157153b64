package domain

import "time"

// NotificationTypeTrendAlert marks notifications emitted when a trend's
// score jumps past a user's alert threshold.
const NotificationTypeTrendAlert = "trend_alert"

// Notification is an in-app notification row delivered to one user.
type Notification struct {
	ID          string    `gorm:"type:text;primaryKey" json:"id"`
	UserID      string    `gorm:"type:text;not null;index:idx_notifications_user" json:"user_id"`
	Type        string    `gorm:"type:text;not null" json:"type"`
	Title       string    `gorm:"type:text" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Data        JSONMap   `gorm:"type:text" json:"data"`
	Read        bool      `gorm:"default:false" json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the database table name for Notification.
func (Notification) TableName() string {
	return "notifications"
}

// NotificationPreference holds a user's alerting opt-ins.
type NotificationPreference struct {
	UserID              string    `gorm:"type:text;primaryKey" json:"user_id"`
	TrendAlertsEnabled  bool      `gorm:"default:false" json:"trend_alerts_enabled"`
	TrendAlertThreshold int       `gorm:"default:80" json:"trend_alert_threshold"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// TableName returns the database table name for NotificationPreference.
func (NotificationPreference) TableName() string {
	return "notification_preferences"
}
