package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/byronwade/rebuzzle/internal/models"
)

func TestPointsFor(t *testing.T) {
	tests := []struct {
		name string
		o    Outcome
		want int
	}{
		{"loss awards nothing", Outcome{Won: false, Difficulty: 5}, 0},
		{"clean win", Outcome{Won: true, Difficulty: 5}, 50},
		{"hints reduce points", Outcome{Won: true, Difficulty: 5, HintsUsed: 2}, 40},
		{"floor at twice difficulty", Outcome{Won: true, Difficulty: 1, HintsUsed: 3}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PointsFor(tt.o))
		})
	}
}

func TestStreakMultiplier(t *testing.T) {
	assert.Equal(t, 1.0, StreakMultiplier(1))
	assert.Equal(t, 1.1, StreakMultiplier(2))
	assert.InDelta(t, 1.9, StreakMultiplier(10), 0.0001)
	// Capped past ten days.
	assert.InDelta(t, 1.9, StreakMultiplier(50), 0.0001)
	// Defensive lower bound.
	assert.Equal(t, 1.0, StreakMultiplier(0))
}

func TestApplyOutcome_ConsecutiveWinsExtendStreak(t *testing.T) {
	stats := models.UserStats{UserID: "u1"}

	stats = ApplyOutcome(stats, Outcome{Day: "2025-03-01", Won: true, Difficulty: 5, AttemptNumber: 1})
	assert.Equal(t, 1, stats.Streak)
	assert.Equal(t, 1, stats.GamesWon)

	stats = ApplyOutcome(stats, Outcome{Day: "2025-03-02", Won: true, Difficulty: 5, AttemptNumber: 2})
	assert.Equal(t, 2, stats.Streak)
	assert.Equal(t, 2, stats.LongestStreak)
	assert.Equal(t, "2025-03-02", stats.LastPlayDay)
}

func TestApplyOutcome_GapRestartsStreak(t *testing.T) {
	stats := models.UserStats{UserID: "u1", Streak: 4, LongestStreak: 4, LastPlayDay: "2025-03-01"}

	stats = ApplyOutcome(stats, Outcome{Day: "2025-03-05", Won: true, Difficulty: 5, AttemptNumber: 1})
	assert.Equal(t, 1, stats.Streak)
	// The longest streak never shrinks.
	assert.Equal(t, 4, stats.LongestStreak)
}

func TestApplyOutcome_LossResetsStreak(t *testing.T) {
	stats := models.UserStats{UserID: "u1", Streak: 7, LongestStreak: 7, LastPlayDay: "2025-03-01", Points: 100}

	stats = ApplyOutcome(stats, Outcome{Day: "2025-03-02", Won: false, Difficulty: 5, AttemptNumber: 3})
	assert.Equal(t, 0, stats.Streak)
	assert.Equal(t, 7, stats.LongestStreak)
	assert.Equal(t, 100, stats.Points, "losses never remove points")
	assert.Equal(t, "2025-03-02", stats.LastPlayDay)
}

func TestApplyOutcome_LuckySolve(t *testing.T) {
	stats := models.UserStats{UserID: "u1"}

	stats = ApplyOutcome(stats, Outcome{Day: "2025-03-01", Won: true, Difficulty: 5, AttemptNumber: 1, HintsUsed: 0})
	assert.Equal(t, 1, stats.LuckySolves)

	stats = ApplyOutcome(stats, Outcome{Day: "2025-03-02", Won: true, Difficulty: 5, AttemptNumber: 1, HintsUsed: 1})
	assert.Equal(t, 1, stats.LuckySolves, "hints disqualify a lucky solve")
}

func TestApplyOutcome_PointsMonotonicNonDecreasing(t *testing.T) {
	stats := models.UserStats{UserID: "u1"}
	days := []string{"2025-03-01", "2025-03-02", "2025-03-03", "2025-03-04"}
	wins := []bool{true, false, true, true}

	prev := 0
	for i, day := range days {
		stats = ApplyOutcome(stats, Outcome{Day: day, Won: wins[i], Difficulty: 5, AttemptNumber: 1})
		assert.GreaterOrEqual(t, stats.Points, prev)
		prev = stats.Points
	}
}

func TestApplyOutcome_BonusHistoryRecordsMultiplier(t *testing.T) {
	stats := models.UserStats{UserID: "u1", Streak: 1, LastPlayDay: "2025-03-01"}

	stats = ApplyOutcome(stats, Outcome{Day: "2025-03-02", Won: true, Difficulty: 5, AttemptNumber: 1})
	if assert.Len(t, stats.BonusHistory, 1) {
		entry := stats.BonusHistory[0]
		assert.Equal(t, "2025-03-02", entry.Day)
		assert.InDelta(t, 1.1, entry.Multiplier, 0.0001)
		assert.Equal(t, 55, entry.Points)
	}
}
