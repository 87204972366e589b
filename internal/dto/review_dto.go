package dto

import (
	"time"

	"github.com/craftcv/craftcv-api/internal/models"
)

// SubmitReviewRequest is the JSON payload for submitting a peer review.
// Score is a pointer so a missing field is distinguishable from zero.
type SubmitReviewRequest struct {
	ReviewerID     string   `json:"reviewer_id" validate:"required"`
	ReviewedUserID string   `json:"reviewed_user_id" validate:"required"`
	ResumeID       string   `json:"resume_id" validate:"required"`
	Score          *int     `json:"score" validate:"required"`
	Feedback       string   `json:"feedback" validate:"required"`
	Flags          []string `json:"flags" validate:"omitempty,max=16,dive,min=1"`
}

// ReviewResponse is returned to API clients when viewing reviews.
type ReviewResponse struct {
	ID             uint      `json:"id"`
	ReviewerID     string    `json:"reviewer_id"`
	ReviewedUserID string    `json:"reviewed_user_id"`
	ResumeID       string    `json:"resume_id"`
	Score          int       `json:"score"`
	Feedback       string    `json:"feedback"`
	Flags          []string  `json:"flags"`
	CreatedAt      time.Time `json:"created_at"`
}

// SubmitReviewResponse reports the persisted review together with the
// progression effects of the submission.
type SubmitReviewResponse struct {
	Review    ReviewResponse `json:"review"`
	XPGained  int            `json:"xp_gained"`
	LeveledUp bool           `json:"leveled_up"`
	NewLevel  int            `json:"new_level"`
	TotalXP   int            `json:"total_xp"`
	NewBadges []string       `json:"new_badges"`
}

// ResumeReviewStats aggregates the review activity on one resume.
type ResumeReviewStats struct {
	TotalReviews  int            `json:"total_reviews"`
	AverageScore  float64        `json:"average_score"`
	FlagFrequency map[string]int `json:"flag_frequency"`
}

// ResumeReviewsResponse lists a resume's reviews with aggregate stats.
type ResumeReviewsResponse struct {
	Reviews []ReviewResponse  `json:"reviews"`
	Stats   ResumeReviewStats `json:"stats"`
	// CacheHit is surfaced for observability in tests and debugging.
	CacheHit bool `json:"-"`
}

// Pagination describes the page window of a list response.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalCount int64 `json:"total_count"`
	TotalPages int   `json:"total_pages"`
}

// ReviewerReviewsResponse lists a reviewer's reviews with pagination.
type ReviewerReviewsResponse struct {
	Reviews    []ReviewResponse `json:"reviews"`
	Pagination Pagination       `json:"pagination"`
}

// NewReviewResponse converts a Review model into a DTO.
func NewReviewResponse(model models.Review) ReviewResponse {
	flags := model.FlagList()
	if flags == nil {
		flags = []string{}
	}

	return ReviewResponse{
		ID:             model.ID,
		ReviewerID:     model.ReviewerID,
		ReviewedUserID: model.ReviewedUserID,
		ResumeID:       model.ResumeID,
		Score:          model.Score,
		Feedback:       model.Feedback,
		Flags:          flags,
		CreatedAt:      model.CreatedAt,
	}
}

// NewReviewResponseSlice converts review models into DTOs.
func NewReviewResponseSlice(reviews []models.Review) []ReviewResponse {
	responses := make([]ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		responses = append(responses, NewReviewResponse(review))
	}

	return responses
}
