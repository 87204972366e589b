package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/craftcv/craftcv-api/internal/dto"
	"github.com/craftcv/craftcv-api/internal/repository"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

// LeaderboardService serves the read-side progression queries.
type LeaderboardService interface {
	Leaderboard(ctx context.Context, limit int) ([]dto.LeaderboardEntry, error)
	ReviewerStats(ctx context.Context, reviewerID string) (dto.ReviewerStatsResponse, error)
}

type leaderboardService struct {
	progressions repository.ProgressionRepository
	logger       zerolog.Logger
}

// NewLeaderboardService constructs a LeaderboardService instance.
func NewLeaderboardService(progressions repository.ProgressionRepository, logger zerolog.Logger) LeaderboardService {
	return &leaderboardService{
		progressions: progressions,
		logger:       logger.With().Str("component", "leaderboard_service").Logger(),
	}
}

func (s *leaderboardService) Leaderboard(ctx context.Context, limit int) ([]dto.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}

	progressions, err := s.progressions.TopByXP(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	entries := make([]dto.LeaderboardEntry, 0, len(progressions))
	for idx, record := range progressions {
		entries = append(entries, dto.NewLeaderboardEntry(idx+1, record))
	}

	return entries, nil
}

// ReviewerStats returns the reviewer's progression snapshot, lazily creating
// the zero-state record on first access. The lazy creation has no visible
// effect beyond the record later appearing in leaderboard queries.
func (s *leaderboardService) ReviewerStats(ctx context.Context, reviewerID string) (dto.ReviewerStatsResponse, error) {
	if uuid.Validate(reviewerID) != nil {
		return dto.ReviewerStatsResponse{}, fmt.Errorf("%w: malformed identifier %q", ErrInvalidInput, reviewerID)
	}

	record, err := s.progressions.GetOrCreate(ctx, reviewerID)
	if err != nil {
		return dto.ReviewerStatsResponse{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	return dto.NewReviewerStatsResponse(record), nil
}
