package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/craftcv/craftcv-api/internal/models"
)

// ProgressionRepository defines data operations for reviewer progression
// records and their badges.
type ProgressionRepository interface {
	GetOrCreate(ctx context.Context, reviewerID string) (models.ReviewerProgression, error)
	ApplyReviewOutcome(ctx context.Context, reviewerID string, xp int, reviewedAt time.Time) (models.ReviewerProgression, error)
	UpdateDerived(ctx context.Context, reviewerID string, level int, averageRating float64) error
	AppendBadges(ctx context.Context, reviewerID string, names []string, earnedAt time.Time) error
	TopByXP(ctx context.Context, limit int) ([]models.ReviewerProgression, error)
}

type progressionRepository struct {
	db *gorm.DB
}

// NewProgressionRepository instantiates the repository.
func NewProgressionRepository(db *gorm.DB) ProgressionRepository {
	return &progressionRepository{db: db}
}

func (r *progressionRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.ReviewerProgression{}).Preload("Badges")
}

// GetOrCreate loads the reviewer's progression, lazily creating the
// zero-state record on first access. Creation is idempotent: a concurrent
// insert losing the race falls back to reading the winner's row.
func (r *progressionRepository) GetOrCreate(ctx context.Context, reviewerID string) (models.ReviewerProgression, error) {
	var progression models.ReviewerProgression
	err := r.baseQuery(ctx).Where("reviewer_id = ?", reviewerID).First(&progression).Error
	if err == nil {
		return progression, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ReviewerProgression{}, err
	}

	fresh := models.ReviewerProgression{
		ReviewerID: reviewerID,
		Level:      1,
		Reputation: 100,
	}
	if createErr := r.db.WithContext(ctx).Create(&fresh).Error; createErr != nil {
		if errors.Is(createErr, gorm.ErrDuplicatedKey) {
			if retryErr := r.baseQuery(ctx).Where("reviewer_id = ?", reviewerID).First(&progression).Error; retryErr == nil {
				return progression, nil
			}
		}
		return models.ReviewerProgression{}, createErr
	}

	return fresh, nil
}

// ApplyReviewOutcome bumps the XP and review counters in a single UPDATE
// using SQL-side increments, so concurrent submissions by the same reviewer
// never lose updates, then returns the refreshed record.
func (r *progressionRepository) ApplyReviewOutcome(ctx context.Context, reviewerID string, xp int, reviewedAt time.Time) (models.ReviewerProgression, error) {
	updates := map[string]interface{}{
		"total_xp":       gorm.Expr("total_xp + ?", xp),
		"total_reviews":  gorm.Expr("total_reviews + ?", 1),
		"last_review_at": reviewedAt,
	}

	if err := r.db.WithContext(ctx).Model(&models.ReviewerProgression{}).
		Where("reviewer_id = ?", reviewerID).
		Updates(updates).Error; err != nil {
		return models.ReviewerProgression{}, err
	}

	var progression models.ReviewerProgression
	if err := r.baseQuery(ctx).Where("reviewer_id = ?", reviewerID).First(&progression).Error; err != nil {
		return models.ReviewerProgression{}, err
	}

	return progression, nil
}

// UpdateDerived refreshes the cached level and average-rating snapshot. The
// values are re-derived from the progression engine and the review table on
// every update; the stored copies are a read-side convenience, not truth.
func (r *progressionRepository) UpdateDerived(ctx context.Context, reviewerID string, level int, averageRating float64) error {
	return r.db.WithContext(ctx).Model(&models.ReviewerProgression{}).
		Where("reviewer_id = ?", reviewerID).
		Updates(map[string]interface{}{
			"level":          level,
			"average_rating": averageRating,
		}).Error
}

// AppendBadges inserts the newly earned badges, silently skipping any the
// reviewer already holds. Badges are append-only and never revoked.
func (r *progressionRepository) AppendBadges(ctx context.Context, reviewerID string, names []string, earnedAt time.Time) error {
	if len(names) == 0 {
		return nil
	}

	badges := make([]models.ReviewerBadge, 0, len(names))
	for _, name := range names {
		badges = append(badges, models.ReviewerBadge{
			ReviewerID: reviewerID,
			Name:       name,
			EarnedAt:   earnedAt,
		})
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&badges).Error
}

// TopByXP returns the leaderboard ordering: XP first, review count second,
// insertion order as the stable tie break.
func (r *progressionRepository) TopByXP(ctx context.Context, limit int) ([]models.ReviewerProgression, error) {
	var progressions []models.ReviewerProgression
	if err := r.baseQuery(ctx).
		Order("total_xp DESC, total_reviews DESC, id ASC").
		Limit(limit).
		Find(&progressions).Error; err != nil {
		return nil, err
	}

	return progressions, nil
}
