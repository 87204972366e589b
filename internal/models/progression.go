package models

import "time"

// ReviewerProgression aggregates a reviewer's gamified standing: one row per
// reviewer, created lazily on first review or first stats lookup and never
// deleted. TotalXP and TotalReviews are incremented atomically by the
// repository; Level and AverageRating are denormalized snapshots recomputed
// from the progression engine on every update.
type ReviewerProgression struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	ReviewerID    string          `gorm:"size:64;not null;uniqueIndex" json:"reviewer_id"`
	TotalXP       int             `gorm:"not null;default:0" json:"total_xp"`
	TotalReviews  int             `gorm:"not null;default:0" json:"total_reviews"`
	AverageRating float64         `gorm:"not null;default:0" json:"average_rating_given"`
	Level         int             `gorm:"not null;default:1" json:"level"`
	Reputation    int             `gorm:"not null;default:100" json:"reputation"`
	LastReviewAt  *time.Time      `json:"last_review_at"`
	Badges        []ReviewerBadge `gorm:"foreignKey:ReviewerID;references:ReviewerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"badges"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ReviewerBadge is an append-only achievement marker. The composite unique
// index makes awarding idempotent: re-inserting an earned badge is a no-op.
type ReviewerBadge struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	ReviewerID string    `gorm:"size:64;not null;uniqueIndex:idx_badges_reviewer_name" json:"-"`
	Name       string    `gorm:"size:64;not null;uniqueIndex:idx_badges_reviewer_name" json:"name"`
	EarnedAt   time.Time `gorm:"not null" json:"earned_at"`
}

// BadgeNames returns the earned badge names in storage order.
func (p ReviewerProgression) BadgeNames() []string {
	names := make([]string, 0, len(p.Badges))
	for _, badge := range p.Badges {
		names = append(names, badge.Name)
	}
	return names
}
