package domain

import "time"

// ActionType enumerates the gamified user actions that award XP.
type ActionType string

const (
	ActionBet         ActionType = "bet"
	ActionAdWatched   ActionType = "adWatched"
	ActionBookmark    ActionType = "bookmark"
	ActionShare       ActionType = "share"
	ActionDailyReward ActionType = "daily_reward"
)

// Valid reports whether t is a known action type.
func (t ActionType) Valid() bool {
	switch t {
	case ActionBet, ActionAdWatched, ActionBookmark, ActionShare, ActionDailyReward:
		return true
	}
	return false
}

// Profile represents a user profile with accumulated XP.
type Profile struct {
	ID           string      `gorm:"type:text;primaryKey" json:"id"`
	DisplayName  string      `gorm:"type:text" json:"display_name"`
	Email        string      `gorm:"type:text" json:"email"`
	XP           int         `gorm:"column:xp;default:0" json:"xp"`
	Interests    StringArray `gorm:"type:text" json:"interests"`
	Badges       StringArray `gorm:"type:text" json:"badges"`
	AvatarURL    string      `gorm:"type:text" json:"avatar_url"`
	CreatedAt    time.Time   `json:"created_at"`
	LastActiveAt time.Time   `json:"last_active_at"`
}

// TableName returns the database table name for Profile.
func (Profile) TableName() string {
	return "profiles"
}

// Action is one XP-earning event tied to a user and, usually, a trend.
type Action struct {
	ID      string     `gorm:"type:text;primaryKey" json:"id"`
	UserID  string     `gorm:"type:text;not null;index:idx_actions_user" json:"user_id"`
	Type    ActionType `gorm:"type:text;not null" json:"type"`
	TrendID string     `gorm:"type:text" json:"trend_id,omitempty"`
	DeltaXP int        `gorm:"column:delta_xp" json:"delta_xp"`
	TS      time.Time  `gorm:"column:ts" json:"ts"`
}

// TableName returns the database table name for Action.
func (Action) TableName() string {
	return "actions"
}

// Bookmark marks a trend saved by a user.
type Bookmark struct {
	ID        string    `gorm:"type:text;primaryKey" json:"id"`
	UserID    string    `gorm:"type:text;not null;index:idx_bookmarks_user_trend,unique" json:"user_id"`
	TrendID   string    `gorm:"type:text;not null;index:idx_bookmarks_user_trend,unique" json:"trend_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Bookmark.
func (Bookmark) TableName() string {
	return "bookmarks"
}
