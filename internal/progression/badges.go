package progression

// Badge names awarded at review-count milestones.
const (
	BadgeFirstReview        = "First Review"
	BadgeDetailedCritic     = "Detailed Critic"
	BadgeConsistentReviewer = "Consistent Reviewer"
	BadgeExpertReviewer     = "Expert Reviewer"
	BadgeMasterReviewer     = "Master Reviewer"
	BadgeResumeGuru         = "Resume Guru"
)

type badgeThreshold struct {
	name    string
	reviews int
}

// badgeThresholds in ascending milestone order. Badges are append-only and
// never revoked; a single evaluation may cross several milestones at once.
var badgeThresholds = []badgeThreshold{
	{BadgeFirstReview, 1},
	{BadgeDetailedCritic, 5},
	{BadgeConsistentReviewer, 10},
	{BadgeExpertReviewer, 25},
	{BadgeMasterReviewer, 50},
	{BadgeResumeGuru, 100},
}

// NewBadges returns the badges newly earned at the given review count, given
// the set already held. Evaluating twice against unchanged inputs yields
// nothing the second time.
func NewBadges(totalReviews int, earned []string) []string {
	held := make(map[string]struct{}, len(earned))
	for _, name := range earned {
		held[name] = struct{}{}
	}

	var awarded []string
	for _, milestone := range badgeThresholds {
		if totalReviews < milestone.reviews {
			break
		}
		if _, ok := held[milestone.name]; ok {
			continue
		}
		awarded = append(awarded, milestone.name)
	}

	return awarded
}
