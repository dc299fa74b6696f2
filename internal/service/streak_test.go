package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func TestNextStreakFirstActivity(t *testing.T) {
	current, longest := nextStreak(nil, day(2026, 3, 10, 9), 0, 0)
	assert.Equal(t, 1, current)
	assert.Equal(t, 1, longest)
}

func TestNextStreakSameDayUnchanged(t *testing.T) {
	last := day(2026, 3, 10, 8)
	current, longest := nextStreak(&last, day(2026, 3, 10, 22), 4, 6)
	assert.Equal(t, 4, current)
	assert.Equal(t, 6, longest)
}

func TestNextStreakConsecutiveDayIncrements(t *testing.T) {
	last := day(2026, 3, 10, 23)
	current, longest := nextStreak(&last, day(2026, 3, 11, 1), 4, 6)
	assert.Equal(t, 5, current)
	assert.Equal(t, 6, longest)
}

func TestNextStreakGapResets(t *testing.T) {
	last := day(2026, 3, 10, 12)
	current, longest := nextStreak(&last, day(2026, 3, 13, 12), 9, 9)
	assert.Equal(t, 1, current)
	assert.Equal(t, 9, longest, "最长纪录不回退")
}

func TestNextStreakRaisesLongest(t *testing.T) {
	last := day(2026, 3, 10, 12)
	current, longest := nextStreak(&last, day(2026, 3, 11, 12), 6, 6)
	assert.Equal(t, 7, current)
	assert.Equal(t, 7, longest)
}

func TestDaysBetweenIgnoresClock(t *testing.T) {
	assert.Equal(t, 0, daysBetween(day(2026, 3, 10, 1), day(2026, 3, 10, 23)))
	assert.Equal(t, 1, daysBetween(day(2026, 3, 10, 23), day(2026, 3, 11, 0)))
	assert.Equal(t, 3, daysBetween(day(2026, 3, 10, 12), day(2026, 3, 13, 12)))
}
