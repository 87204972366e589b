package progression

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewBadgesAwardsFirstReviewOnly(t *testing.T) {
	awarded := NewBadges(1, nil)
	require.Equal(t, []string{BadgeFirstReview}, awarded)
}

func TestNewBadgesIsIdempotent(t *testing.T) {
	first := NewBadges(10, nil)
	require.Equal(t, []string{BadgeFirstReview, BadgeDetailedCritic, BadgeConsistentReviewer}, first)

	again := NewBadges(10, first)
	require.Empty(t, again, "unchanged inputs must award nothing")
}

func TestNewBadgesAwardsAllMilestonesOnBackfill(t *testing.T) {
	awarded := NewBadges(100, nil)
	require.Equal(t, []string{
		BadgeFirstReview,
		BadgeDetailedCritic,
		BadgeConsistentReviewer,
		BadgeExpertReviewer,
		BadgeMasterReviewer,
		BadgeResumeGuru,
	}, awarded)
}

func TestNewBadgesSkipsAlreadyEarned(t *testing.T) {
	awarded := NewBadges(25, []string{BadgeFirstReview, BadgeDetailedCritic})
	require.Equal(t, []string{BadgeConsistentReviewer, BadgeExpertReviewer}, awarded)
}

func TestNewBadgesBelowFirstMilestone(t *testing.T) {
	require.Empty(t, NewBadges(0, nil))
}
