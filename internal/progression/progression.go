// Package progression holds the pure leveling and badge computations for the
// peer-review gamification. Nothing here touches storage or the clock; the
// review service feeds it persisted counters and writes back the results.
package progression

import "errors"

// ErrNonPositiveXP indicates an XP award that is zero or negative.
var ErrNonPositiveXP = errors.New("xp amount must be a positive integer")

// levelThresholds maps cumulative XP to levels 1..10: the level is the count
// of thresholds less than or equal to the total.
var levelThresholds = []int{0, 20, 30, 50, 70, 100, 150, 250, 500, 1000}

// MaxLevel is the highest reachable level.
const MaxLevel = 10

// XPResult describes the outcome of applying an XP award.
type XPResult struct {
	NewTotalXP int
	OldLevel   int
	NewLevel   int
	LeveledUp  bool
}

// LevelForXP returns the level for the given cumulative XP.
func LevelForXP(totalXP int) int {
	level := 0
	for _, threshold := range levelThresholds {
		if totalXP < threshold {
			break
		}
		level++
	}
	if level < 1 {
		level = 1
	}
	return level
}

// NextLevelXP returns the XP threshold for the level after the one the given
// total sits in, or nil when the reviewer is already at the cap.
func NextLevelXP(totalXP int) *int {
	level := LevelForXP(totalXP)
	if level >= MaxLevel {
		return nil
	}
	next := levelThresholds[level]
	return &next
}

// AddXP applies a positive XP award to the given cumulative total and reports
// the resulting level transition. The computation is pure: identical inputs
// always yield identical results.
func AddXP(totalXP, amount int) (XPResult, error) {
	if amount <= 0 {
		return XPResult{}, ErrNonPositiveXP
	}

	oldLevel := LevelForXP(totalXP)
	newTotal := totalXP + amount
	newLevel := LevelForXP(newTotal)

	return XPResult{
		NewTotalXP: newTotal,
		OldLevel:   oldLevel,
		NewLevel:   newLevel,
		LeveledUp:  newLevel > oldLevel,
	}, nil
}
