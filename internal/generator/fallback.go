package generator

import (
	"time"

	"github.com/byronwade/rebuzzle/internal/models"
)

// fallbackRotation is the pre-authored rotation served when generation
// is unavailable. Selection is day-of-year modulo rotation length, so
// an outage never shows "no puzzle".
var fallbackRotation = []models.Puzzle{
	{
		Puzzle:      "STAND\nI",
		RebusPuzzle: "STAND\nI",
		PuzzleType:  models.PuzzleTypeRebus,
		Answer:      "I understand",
		Difficulty:  3,
		Explanation: "The word I sits under the word STAND: I under stand.",
		Hints: []string{
			"Look at where the words sit relative to each other.",
			"One word is beneath the other.",
			"It is something you say when a lesson clicks.",
		},
	},
	{
		Puzzle:      "HEAD\nHEELS",
		RebusPuzzle: "HEAD\nHEELS",
		PuzzleType:  models.PuzzleTypeRebus,
		Answer:      "Head over heels",
		Difficulty:  4,
		Explanation: "HEAD is printed over HEELS: head over heels.",
		Hints: []string{
			"Read the arrangement, not just the words.",
			"One word is positioned above the other.",
			"It describes falling completely in love.",
		},
	},
	{
		Puzzle:      "R | E | A | D",
		RebusPuzzle: "R | E | A | D",
		PuzzleType:  models.PuzzleTypeRebus,
		Answer:      "Read between the lines",
		Difficulty:  5,
		Explanation: "The letters of READ are separated by lines: read between the lines.",
		Hints: []string{
			"The bars are part of the puzzle.",
			"Where are the letters relative to the bars?",
			"It means finding a hidden meaning.",
		},
	},
}

// FallbackForDay returns the rotation puzzle for a day, fully populated
// for persistence under that day's key.
func FallbackForDay(day string) models.Puzzle {
	idx := 0
	if t, err := time.Parse("2006-01-02", day); err == nil {
		idx = t.YearDay() % len(fallbackRotation)
	}
	p := fallbackRotation[idx]
	p.ID = models.PuzzleIDForDay(day)
	p.Day = day
	p.PublishedAt = time.Now().UTC()
	p.Active = true
	p.Source = models.PuzzleSourceFallback
	return p
}

// FallbackRotationSize exposes the rotation length for tests and
// operational tooling.
func FallbackRotationSize() int { return len(fallbackRotation) }
