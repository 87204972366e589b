package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/craftcv/craftcv-api/internal/models"
)

// ReviewRepository defines data operations for review records.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	ListByResume(ctx context.Context, resumeID string) ([]models.Review, error)
	ListByReviewer(ctx context.Context, reviewerID string, page, pageSize int) ([]models.Review, int64, error)
	ExistsForPair(ctx context.Context, reviewerID, resumeID string) (bool, error)
	AverageScoreByReviewer(ctx context.Context, reviewerID string) (float64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository instantiates the repository.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create inserts the review. The composite unique index on
// (reviewer_id, resume_id) surfaces concurrent duplicates as
// gorm.ErrDuplicatedKey via the driver's error translation.
func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) ListByResume(ctx context.Context, resumeID string) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.WithContext(ctx).
		Where("resume_id = ?", resumeID).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}

	return reviews, nil
}

func (r *reviewRepository) ListByReviewer(ctx context.Context, reviewerID string, page, pageSize int) ([]models.Review, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("reviewer_id = ?", reviewerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []models.Review
	if err := query.
		Order("created_at DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&reviews).Error; err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

func (r *reviewRepository) ExistsForPair(ctx context.Context, reviewerID, resumeID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("reviewer_id = ?", reviewerID).
		Where("resume_id = ?", resumeID).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

// AverageScoreByReviewer recomputes the mean score across all of the
// reviewer's records. Recomputation rather than incremental maintenance
// keeps the stored average free of drift.
func (r *reviewRepository) AverageScoreByReviewer(ctx context.Context, reviewerID string) (float64, error) {
	var average *float64
	if err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("reviewer_id = ?", reviewerID).
		Select("AVG(score)").
		Scan(&average).Error; err != nil {
		return 0, err
	}

	if average == nil {
		return 0, nil
	}

	return *average, nil
}
