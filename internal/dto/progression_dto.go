package dto

import (
	"time"

	"github.com/craftcv/craftcv-api/internal/models"
	"github.com/craftcv/craftcv-api/internal/progression"
)

// BadgeResponse serializes an earned badge.
type BadgeResponse struct {
	Name     string    `json:"name"`
	EarnedAt time.Time `json:"earned_at"`
}

// ReviewerStatsResponse is the progression snapshot returned to clients.
// Level and NextLevelXP are re-derived from the engine rather than read
// from the stored cache.
type ReviewerStatsResponse struct {
	ReviewerID         string          `json:"reviewer_id"`
	TotalXP            int             `json:"total_xp"`
	TotalReviews       int             `json:"total_reviews"`
	AverageRatingGiven float64         `json:"average_rating_given"`
	Level              int             `json:"level"`
	NextLevelXP        *int            `json:"next_level_xp"`
	Reputation         int             `json:"reputation"`
	Badges             []BadgeResponse `json:"badges"`
	LastReviewAt       *time.Time      `json:"last_review_at"`
}

// LeaderboardEntry is one row of the reviewer leaderboard.
type LeaderboardEntry struct {
	Rank               int     `json:"rank"`
	ReviewerID         string  `json:"reviewer_id"`
	TotalXP            int     `json:"total_xp"`
	TotalReviews       int     `json:"total_reviews"`
	AverageRatingGiven float64 `json:"average_rating_given"`
	Level              int     `json:"level"`
	Badges             int     `json:"badges"`
}

// NewReviewerStatsResponse converts a progression model into a DTO.
func NewReviewerStatsResponse(model models.ReviewerProgression) ReviewerStatsResponse {
	badges := make([]BadgeResponse, 0, len(model.Badges))
	for _, badge := range model.Badges {
		badges = append(badges, BadgeResponse{Name: badge.Name, EarnedAt: badge.EarnedAt})
	}

	return ReviewerStatsResponse{
		ReviewerID:         model.ReviewerID,
		TotalXP:            model.TotalXP,
		TotalReviews:       model.TotalReviews,
		AverageRatingGiven: model.AverageRating,
		Level:              progression.LevelForXP(model.TotalXP),
		NextLevelXP:        progression.NextLevelXP(model.TotalXP),
		Reputation:         model.Reputation,
		Badges:             badges,
		LastReviewAt:       model.LastReviewAt,
	}
}

// NewLeaderboardEntry converts a progression model into a ranked row.
func NewLeaderboardEntry(rank int, model models.ReviewerProgression) LeaderboardEntry {
	return LeaderboardEntry{
		Rank:               rank,
		ReviewerID:         model.ReviewerID,
		TotalXP:            model.TotalXP,
		TotalReviews:       model.TotalReviews,
		AverageRatingGiven: model.AverageRating,
		Level:              progression.LevelForXP(model.TotalXP),
		Badges:             len(model.Badges),
	}
}
