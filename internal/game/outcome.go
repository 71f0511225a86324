package game

import (
	"time"

	"github.com/byronwade/rebuzzle/internal/models"
)

// Outcome is one completed game, fed into the stats update.
type Outcome struct {
	Day           string // UTC day key of the final attempt
	Won           bool
	Difficulty    int
	AttemptNumber int
	HintsUsed     int
}

const (
	basePointsPerDifficulty = 10
	hintPenalty             = 5
	maxStreakMultiplier     = 10
)

// PointsFor computes the raw points award for a winning outcome before
// any streak multiplier. Losses and abandonments award nothing.
func PointsFor(o Outcome) int {
	if !o.Won {
		return 0
	}
	pts := o.Difficulty * basePointsPerDifficulty
	pts -= o.HintsUsed * hintPenalty
	// A win always pays at least the difficulty floor.
	if min := o.Difficulty * 2; pts < min {
		pts = min
	}
	return pts
}

// StreakMultiplier returns the bonus multiplier applied to a win given
// the streak value after the win was applied.
func StreakMultiplier(streak int) float64 {
	if streak > maxStreakMultiplier {
		streak = maxStreakMultiplier
	}
	if streak < 1 {
		streak = 1
	}
	return 1 + float64(streak-1)*0.1
}

// ApplyOutcome folds one final attempt into the user's stats:
//   - a win when the previous played day was the immediately preceding
//     calendar day extends the streak by one, otherwise the streak
//     restarts at 1;
//   - any non-winning final attempt resets the streak to zero;
//   - the longest streak only ever grows;
//   - a first-guess win with no hints counts as a lucky solve;
//   - points are awarded with the streak multiplier and recorded in the
//     bonus history.
func ApplyOutcome(stats models.UserStats, o Outcome) models.UserStats {
	lastPlayed := stats.LastPlayDay
	stats.GamesPlayed++
	stats.LastPlayDay = o.Day

	if !o.Won {
		stats.Streak = 0
		return stats
	}

	stats.GamesWon++
	if lastPlayed != "" && lastPlayed == prevDay(o.Day) {
		stats.Streak++
	} else {
		stats.Streak = 1
	}
	if stats.Streak > stats.LongestStreak {
		stats.LongestStreak = stats.Streak
	}

	if o.AttemptNumber == 1 && o.HintsUsed == 0 {
		stats.LuckySolves++
	}

	multiplier := StreakMultiplier(stats.Streak)
	awarded := int(float64(PointsFor(o)) * multiplier)
	stats.Points += awarded
	stats.BonusHistory = append(stats.BonusHistory, models.BonusEntry{
		Day:        o.Day,
		Multiplier: multiplier,
		Points:     awarded,
	})
	return stats
}

// prevDay returns the day key of the calendar day before the given one.
func prevDay(day string) string {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -1).Format("2006-01-02")
}
