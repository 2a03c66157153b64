package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hypelens/hypelens/internal/domain"
)

// ReelRepository handles viral reel data operations.
type ReelRepository struct {
	db *gorm.DB
}

// NewReelRepository creates a new ReelRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *ReelRepository: repository instance bound to db.
func NewReelRepository(db *gorm.DB) *ReelRepository {
	return &ReelRepository{db: db}
}

// Create inserts a new reel record.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - reel: reel record to persist.
// Returns:
//   - error: non-nil if the insert fails.
func (r *ReelRepository) Create(ctx context.Context, reel *domain.ViralReel) error {
	return r.db.WithContext(ctx).Create(reel).Error
}

// ListViral retrieves approved reels ordered by engagement rate.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - platform: optional platform filter, ignored when empty.
//   - limit: maximum rows to return, ignored when <= 0.
// Returns:
//   - []domain.ViralReel: approved reels, most engaging first.
//   - error: non-nil if the query fails.
func (r *ReelRepository) ListViral(ctx context.Context, platform domain.ReelPlatform, limit int) ([]domain.ViralReel, error) {
	q := r.db.WithContext(ctx).
		Where("is_approved = ?", true).
		Order("engagement_rate DESC")
	if platform != "" {
		q = q.Where("platform = ?", platform)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var reels []domain.ViralReel
	if err := q.Find(&reels).Error; err != nil {
		return nil, err
	}
	return reels, nil
}
