package progression

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevelForXPMatchesThresholdTable(t *testing.T) {
	cases := []struct {
		totalXP int
		level   int
	}{
		{0, 1},
		{19, 1},
		{20, 2},
		{29, 2},
		{30, 3},
		{49, 3},
		{50, 4},
		{69, 4},
		{70, 5},
		{99, 5},
		{100, 6},
		{149, 6},
		{150, 7},
		{249, 7},
		{250, 8},
		{499, 8},
		{500, 9},
		{999, 9},
		{1000, 10},
		{5000, 10},
	}

	for _, tc := range cases {
		require.Equal(t, tc.level, LevelForXP(tc.totalXP), "totalXP=%d", tc.totalXP)
	}
}

func TestLevelForXPIsMonotonic(t *testing.T) {
	previous := 0
	for xp := 0; xp <= 1200; xp++ {
		level := LevelForXP(xp)
		require.GreaterOrEqual(t, level, previous, "level dropped at xp=%d", xp)
		require.LessOrEqual(t, level, MaxLevel)
		previous = level
	}
}

func TestNextLevelXP(t *testing.T) {
	next := NextLevelXP(0)
	require.NotNil(t, next)
	require.Equal(t, 20, *next)

	next = NextLevelXP(75)
	require.NotNil(t, next)
	require.Equal(t, 100, *next)

	next = NextLevelXP(999)
	require.NotNil(t, next)
	require.Equal(t, 1000, *next)

	require.Nil(t, NextLevelXP(1000), "no next level at the cap")
	require.Nil(t, NextLevelXP(5000))
}

func TestAddXPReportsLevelTransitions(t *testing.T) {
	result, err := AddXP(0, 10)
	require.NoError(t, err)
	require.Equal(t, XPResult{NewTotalXP: 10, OldLevel: 1, NewLevel: 1, LeveledUp: false}, result)

	result, err = AddXP(10, 10)
	require.NoError(t, err)
	require.Equal(t, XPResult{NewTotalXP: 20, OldLevel: 1, NewLevel: 2, LeveledUp: true}, result)

	result, err = AddXP(90, 100)
	require.NoError(t, err)
	require.Equal(t, XPResult{NewTotalXP: 190, OldLevel: 5, NewLevel: 7, LeveledUp: true}, result)
}

func TestAddXPIsPure(t *testing.T) {
	first, err := AddXP(45, 10)
	require.NoError(t, err)
	second, err := AddXP(45, 10)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestAddXPRejectsNonPositiveAmounts(t *testing.T) {
	_, err := AddXP(100, 0)
	require.ErrorIs(t, err, ErrNonPositiveXP)

	_, err = AddXP(100, -5)
	require.ErrorIs(t, err, ErrNonPositiveXP)
}
