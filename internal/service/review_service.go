package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/craftcv/craftcv-api/internal/dto"
	"github.com/craftcv/craftcv-api/internal/models"
	"github.com/craftcv/craftcv-api/internal/observability"
	"github.com/craftcv/craftcv-api/internal/progression"
	"github.com/craftcv/craftcv-api/internal/repository"
)

// Rejection and failure reasons surfaced by the review workflow. The first
// six are deterministic given the same input and store state; the storage
// and progression errors are operational.
var (
	ErrInvalidInput       = errors.New("invalid review input")
	ErrSelfReview         = errors.New("reviewers cannot review their own resume")
	ErrInvalidScore       = errors.New("score must be an integer between 1 and 5")
	ErrInvalidFeedback    = errors.New("feedback must be between 10 and 2000 characters")
	ErrResumeNotFound     = errors.New("resume not found")
	ErrDuplicateReview    = errors.New("resume already reviewed by this reviewer")
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrProgressionUpdate means the review row was persisted but the
	// progression update failed. The review is valid and kept; the
	// inconsistency is logged for manual reconciliation.
	ErrProgressionUpdate = errors.New("review persisted but progression update failed")
)

// ReviewService orchestrates the review submission workflow and the
// read-side review queries.
type ReviewService interface {
	Submit(ctx context.Context, payload dto.SubmitReviewRequest) (dto.SubmitReviewResponse, error)
	ResumeReviews(ctx context.Context, resumeID string) (dto.ResumeReviewsResponse, error)
	ReviewerReviews(ctx context.Context, reviewerID string, page, pageSize int) (dto.ReviewerReviewsResponse, error)
}

// ReviewServiceParams groups the collaborators of the review service.
type ReviewServiceParams struct {
	Reviews      repository.ReviewRepository
	Progressions repository.ProgressionRepository
	Resumes      repository.ResumeDirectory
	Validator    *validator.Validate
	Cache        *redis.Client
	CacheTTL     time.Duration
	// XPAward is granted once per accepted review. The progression engine
	// takes it as a parameter so alternate award schedules can be swapped in.
	XPAward int
	// SandboxResumeIDs are exempt from the resume existence check to keep
	// the demo flow working without seeded resumes.
	SandboxResumeIDs []string
	Logger           zerolog.Logger
}

type reviewService struct {
	reviews      repository.ReviewRepository
	progressions repository.ProgressionRepository
	resumes      repository.ResumeDirectory
	validator    *validator.Validate
	sanitizer    *bluemonday.Policy
	cache        *redis.Client
	cacheTTL     time.Duration
	xpAward      int
	sandboxIDs   map[string]struct{}
	logger       zerolog.Logger
	now          func() time.Time
}

// NewReviewService constructs a ReviewService instance.
func NewReviewService(params ReviewServiceParams) ReviewService {
	sandbox := make(map[string]struct{}, len(params.SandboxResumeIDs))
	for _, id := range params.SandboxResumeIDs {
		sandbox[id] = struct{}{}
	}

	xpAward := params.XPAward
	if xpAward <= 0 {
		xpAward = 10
	}

	return &reviewService{
		reviews:      params.Reviews,
		progressions: params.Progressions,
		resumes:      params.Resumes,
		validator:    params.Validator,
		sanitizer:    bluemonday.StrictPolicy(),
		cache:        params.Cache,
		cacheTTL:     params.CacheTTL,
		xpAward:      xpAward,
		sandboxIDs:   sandbox,
		logger:       params.Logger.With().Str("component", "review_service").Logger(),
		now:          time.Now,
	}
}

func (s *reviewService) Submit(ctx context.Context, payload dto.SubmitReviewRequest) (dto.SubmitReviewResponse, error) {
	outcome, response, err := s.submit(ctx, payload)
	observability.ReviewSubmissions().WithLabelValues(outcome).Inc()
	return response, err
}

func (s *reviewService) submit(ctx context.Context, payload dto.SubmitReviewRequest) (string, dto.SubmitReviewResponse, error) {
	// Structural validation: required fields, well-formed ids, known flags.
	if err := s.validator.Struct(payload); err != nil {
		return "invalid_input", dto.SubmitReviewResponse{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	for _, id := range []string{payload.ReviewerID, payload.ReviewedUserID, payload.ResumeID} {
		if uuid.Validate(id) != nil {
			return "invalid_input", dto.SubmitReviewResponse{}, fmt.Errorf("%w: malformed identifier %q", ErrInvalidInput, id)
		}
	}
	flags, unknown := models.NormalizeReviewFlags(payload.Flags)
	if unknown != "" {
		return "invalid_input", dto.SubmitReviewResponse{}, fmt.Errorf("%w: unknown flag %q", ErrInvalidInput, unknown)
	}

	if payload.ReviewerID == payload.ReviewedUserID {
		return "self_review", dto.SubmitReviewResponse{}, ErrSelfReview
	}

	score := *payload.Score
	if score < models.ReviewMinScore || score > models.ReviewMaxScore {
		return "invalid_score", dto.SubmitReviewResponse{}, ErrInvalidScore
	}

	feedback := strings.TrimSpace(s.sanitizer.Sanitize(payload.Feedback))
	if length := utf8.RuneCountInString(feedback); length < models.ReviewMinFeedbackLen || length > models.ReviewMaxFeedbackLen {
		return "invalid_feedback", dto.SubmitReviewResponse{}, ErrInvalidFeedback
	}

	if _, sandbox := s.sandboxIDs[payload.ResumeID]; !sandbox {
		exists, err := s.resumes.Exists(ctx, payload.ResumeID)
		if err != nil {
			return "storage_error", dto.SubmitReviewResponse{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
		if !exists {
			return "resume_not_found", dto.SubmitReviewResponse{}, ErrResumeNotFound
		}
	}

	// Cheap pre-check; the unique index on the review table is the
	// authoritative guard when two submissions race.
	duplicate, err := s.reviews.ExistsForPair(ctx, payload.ReviewerID, payload.ResumeID)
	if err != nil {
		return "storage_error", dto.SubmitReviewResponse{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if duplicate {
		return "duplicate", dto.SubmitReviewResponse{}, ErrDuplicateReview
	}

	review := models.Review{
		ReviewerID:     payload.ReviewerID,
		ReviewedUserID: payload.ReviewedUserID,
		ResumeID:       payload.ResumeID,
		Score:          score,
		Feedback:       feedback,
	}
	review.SetFlags(flags)

	if err := s.reviews.Create(ctx, &review); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "duplicate", dto.SubmitReviewResponse{}, ErrDuplicateReview
		}
		return "storage_error", dto.SubmitReviewResponse{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	result, newBadges, err := s.applyProgression(ctx, payload.ReviewerID)
	if err != nil {
		observability.ProgressionInconsistencies().Inc()
		s.logger.Error().Err(err).
			Str("reviewer_id", payload.ReviewerID).
			Str("resume_id", payload.ResumeID).
			Msg("review persisted but progression update failed; needs reconciliation")
		return "progression_error", dto.SubmitReviewResponse{}, fmt.Errorf("%w: %v", ErrProgressionUpdate, err)
	}

	if result.LeveledUp {
		observability.ReviewLevelUps().Inc()
	}
	if len(newBadges) > 0 {
		observability.ReviewBadges().Add(float64(len(newBadges)))
	}

	s.invalidateResumeCache(ctx, payload.ResumeID)

	s.logger.Info().
		Uint("review_id", review.ID).
		Str("reviewer_id", payload.ReviewerID).
		Str("resume_id", payload.ResumeID).
		Int("total_xp", result.NewTotalXP).
		Int("level", result.NewLevel).
		Msg("review submitted")

	return "accepted", dto.SubmitReviewResponse{
		Review:    dto.NewReviewResponse(review),
		XPGained:  s.xpAward,
		LeveledUp: result.LeveledUp,
		NewLevel:  result.NewLevel,
		TotalXP:   result.NewTotalXP,
		NewBadges: newBadges,
	}, nil
}

// applyProgression performs step 8 of the workflow: atomic counter bumps,
// re-derived level and average, then badge evaluation against the fresh
// review count.
func (s *reviewService) applyProgression(ctx context.Context, reviewerID string) (progression.XPResult, []string, error) {
	before, err := s.progressions.GetOrCreate(ctx, reviewerID)
	if err != nil {
		return progression.XPResult{}, nil, err
	}

	now := s.now().UTC()
	fresh, err := s.progressions.ApplyReviewOutcome(ctx, reviewerID, s.xpAward, now)
	if err != nil {
		return progression.XPResult{}, nil, err
	}

	// Derive the transition from the post-increment total so concurrent
	// awards by the same reviewer are never double counted.
	result, err := progression.AddXP(fresh.TotalXP-s.xpAward, s.xpAward)
	if err != nil {
		return progression.XPResult{}, nil, err
	}

	average, err := s.reviews.AverageScoreByReviewer(ctx, reviewerID)
	if err != nil {
		return progression.XPResult{}, nil, err
	}

	if err := s.progressions.UpdateDerived(ctx, reviewerID, result.NewLevel, average); err != nil {
		return progression.XPResult{}, nil, err
	}

	newBadges := progression.NewBadges(fresh.TotalReviews, before.BadgeNames())
	if err := s.progressions.AppendBadges(ctx, reviewerID, newBadges, now); err != nil {
		return progression.XPResult{}, nil, err
	}
	if newBadges == nil {
		newBadges = []string{}
	}

	return result, newBadges, nil
}

func (s *reviewService) ResumeReviews(ctx context.Context, resumeID string) (dto.ResumeReviewsResponse, error) {
	if uuid.Validate(resumeID) != nil {
		if _, sandbox := s.sandboxIDs[resumeID]; !sandbox {
			return dto.ResumeReviewsResponse{}, fmt.Errorf("%w: malformed identifier %q", ErrInvalidInput, resumeID)
		}
	}

	cacheKey := fmt.Sprintf("reviews:resume:%s", resumeID)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.ResumeReviewsResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				response.CacheHit = true
				s.logger.Debug().Str("resume_id", resumeID).Msg("resume reviews cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read resume reviews cache")
		}
	}

	reviews, err := s.reviews.ListByResume(ctx, resumeID)
	if err != nil {
		return dto.ResumeReviewsResponse{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	response := buildResumeReviews(reviews)

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store resume reviews cache")
			}
		}
	}

	return response, nil
}

func buildResumeReviews(reviews []models.Review) dto.ResumeReviewsResponse {
	stats := dto.ResumeReviewStats{FlagFrequency: map[string]int{}}

	var scoreTotal int
	for _, review := range reviews {
		stats.TotalReviews++
		scoreTotal += review.Score
		for _, flag := range review.FlagList() {
			stats.FlagFrequency[flag]++
		}
	}
	if stats.TotalReviews > 0 {
		stats.AverageScore = float64(scoreTotal) / float64(stats.TotalReviews)
	}

	return dto.ResumeReviewsResponse{
		Reviews: dto.NewReviewResponseSlice(reviews),
		Stats:   stats,
	}
}

func (s *reviewService) ReviewerReviews(ctx context.Context, reviewerID string, page, pageSize int) (dto.ReviewerReviewsResponse, error) {
	if uuid.Validate(reviewerID) != nil {
		return dto.ReviewerReviewsResponse{}, fmt.Errorf("%w: malformed identifier %q", ErrInvalidInput, reviewerID)
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	reviews, total, err := s.reviews.ListByReviewer(ctx, reviewerID, page, pageSize)
	if err != nil {
		return dto.ReviewerReviewsResponse{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	return dto.ReviewerReviewsResponse{
		Reviews: dto.NewReviewResponseSlice(reviews),
		Pagination: dto.Pagination{
			Page:       page,
			PageSize:   pageSize,
			TotalCount: total,
			TotalPages: totalPages,
		},
	}, nil
}

func (s *reviewService) invalidateResumeCache(ctx context.Context, resumeID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, fmt.Sprintf("reviews:resume:%s", resumeID)).Err(); err != nil {
		s.logger.Warn().Err(err).Str("resume_id", resumeID).Msg("failed to invalidate resume reviews cache")
	}
}
