package domain

import "time"

// ReelPlatform identifies the platform a reel was published on.
type ReelPlatform string

const (
	PlatformInstagram ReelPlatform = "instagram"
	PlatformYouTube   ReelPlatform = "youtube"
)

// Valid reports whether p is a known platform.
func (p ReelPlatform) Valid() bool {
	return p == PlatformInstagram || p == PlatformYouTube
}

// ViralReel is a curated short-video reference shown as creation inspiration.
// User-submitted reels start unapproved and carry a storage key for the
// uploaded media.
type ViralReel struct {
	ID              string       `gorm:"type:text;primaryKey" json:"id"`
	Platform        ReelPlatform `gorm:"type:text;not null;index:idx_viral_reels_platform" json:"platform"`
	PlatformVideoID string       `gorm:"type:text" json:"platform_video_id"`
	Title           string       `gorm:"type:text" json:"title"`
	Creator         string       `gorm:"type:text" json:"creator"`
	CreatorHandle   string       `gorm:"type:text" json:"creator_handle"`
	ThumbnailURL    string       `gorm:"type:text" json:"thumbnail_url"`
	VideoURL        string       `gorm:"type:text" json:"video_url"`
	StorageKey      string       `gorm:"type:text" json:"storage_key,omitempty"`
	Views           int64        `json:"views"`
	Likes           int64        `json:"likes"`
	Shares          int64        `json:"shares"`
	CommentsCount   int64        `json:"comments_count"`
	EngagementRate  float64      `json:"engagement_rate"`
	DurationSeconds int          `json:"duration_seconds"`
	PostedAt        time.Time    `json:"posted_at"`
	Category        StringArray  `gorm:"type:text" json:"category"`
	Metadata        JSONMap      `gorm:"type:text" json:"metadata"`
	IsApproved      bool         `gorm:"default:false;index:idx_viral_reels_approved" json:"is_approved"`
	CreatedAt       time.Time    `json:"created_at"`
}

// TableName returns the database table name for ViralReel.
func (ViralReel) TableName() string {
	return "viral_reels"
}

// ReelMetadata is the lightweight descriptor returned by metadata lookup.
type ReelMetadata struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	Creator  string       `json:"creator"`
	Thumbnail string      `json:"thumbnail"`
	Platform ReelPlatform `json:"platform"`
	Views    string       `json:"views,omitempty"`
	Link     string       `json:"link"`
}
