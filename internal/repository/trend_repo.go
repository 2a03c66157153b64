package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hypelens/hypelens/internal/domain"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("repository: record not found")

// TrendRepository handles trend data operations.
type TrendRepository struct {
	db *gorm.DB
}

// NewTrendRepository creates a new TrendRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *TrendRepository: repository instance bound to db.
func NewTrendRepository(db *gorm.DB) *TrendRepository {
	return &TrendRepository{db: db}
}

// GetByTitle retrieves a trend by its exact title, the merge key used by the
// refresh job.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - title: exact trend title.
// Returns:
//   - *domain.Trend: trend record if found, nil with ErrNotFound otherwise.
//   - error: non-nil if lookup fails.
func (r *TrendRepository) GetByTitle(ctx context.Context, title string) (*domain.Trend, error) {
	var trend domain.Trend
	err := r.db.WithContext(ctx).First(&trend, "title = ?", title).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &trend, nil
}

// GetByID retrieves a trend by its ID.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: trend ID.
// Returns:
//   - *domain.Trend: trend record if found, nil with ErrNotFound otherwise.
//   - error: non-nil if lookup fails.
func (r *TrendRepository) GetByID(ctx context.Context, id string) (*domain.Trend, error) {
	var trend domain.Trend
	err := r.db.WithContext(ctx).First(&trend, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &trend, nil
}

// Upsert creates or updates a trend record keyed by title. On conflict every
// column except id and created_at is replaced, so the row identity set at
// first insert survives refreshes.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - trend: trend record to create or update.
// Returns:
//   - error: non-nil if the upsert fails.
func (r *TrendRepository) Upsert(ctx context.Context, trend *domain.Trend) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "title"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"score", "confidence_level", "examples", "explain",
			"suggested_tags", "raw_ai", "sources", "score_history",
			"last_scored_at",
		}),
	}).Create(trend).Error
}

// List retrieves trends ordered by score descending.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - minScore: minimum score filter, ignored when <= 0.
//   - limit: maximum rows to return, ignored when <= 0.
// Returns:
//   - []domain.Trend: matching trends, highest score first.
//   - error: non-nil if the query fails.
func (r *TrendRepository) List(ctx context.Context, minScore, limit int) ([]domain.Trend, error) {
	q := r.db.WithContext(ctx).Model(&domain.Trend{}).Order("score DESC")
	if minScore > 0 {
		q = q.Where("score >= ?", minScore)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var trends []domain.Trend
	if err := q.Find(&trends).Error; err != nil {
		return nil, err
	}
	return trends, nil
}
