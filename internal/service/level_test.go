package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelForXP(t *testing.T) {
	assert.Equal(t, 1, LevelForXP(0))
	assert.Equal(t, 1, LevelForXP(-5))
	assert.Equal(t, 1, LevelForXP(99))
	assert.Equal(t, 2, LevelForXP(100))
	assert.Equal(t, 2, LevelForXP(399))
	assert.Equal(t, 3, LevelForXP(400))
	assert.Equal(t, 4, LevelForXP(900))
}

func TestLevelForXPMonotonic(t *testing.T) {
	prev := LevelForXP(0)
	for xp := 1; xp <= 5000; xp += 7 {
		level := LevelForXP(xp)
		assert.GreaterOrEqual(t, level, prev, "xp=%d", xp)
		prev = level
	}
}

func TestXPForLevelRoundTrip(t *testing.T) {
	for level := 1; level <= 20; level++ {
		threshold := XPForLevel(level)
		assert.Equal(t, level, LevelForXP(threshold), "threshold of level %d", level)
		if threshold > 0 {
			assert.Equal(t, level-1, LevelForXP(threshold-1), "just below level %d", level)
		}
	}
}

func TestProgressToNextLevel(t *testing.T) {
	assert.Equal(t, 0, ProgressToNextLevel(0))
	assert.Equal(t, 50, ProgressToNextLevel(50))
	assert.Equal(t, 0, ProgressToNextLevel(100))  // 刚升2级
	assert.Equal(t, 50, ProgressToNextLevel(250)) // 2级半程 (100..400)
}
