package models

import (
	"fmt"
	"time"
)

// Attempt records a single guess against a day's puzzle. Rows are
// immutable once written. For a given (user, day) pair at most one row
// may be final (correct, abandoned, or the last allowed guess); the
// attempts table enforces that with a partial unique index.
type Attempt struct {
	ID               string
	UserID           string
	PuzzleID         string
	Day              string // UTC calendar day of the attempt
	Guess            string
	IsCorrect        bool
	Abandoned        bool
	AttemptNumber    int
	MaxAttempts      int
	TimeSpentSeconds int
	HintsUsed        int
	CreatedAt        time.Time
}

// Final reports whether this attempt locks the (user, day) pair.
// A final attempt is a win, an abandonment, or the last allowed guess.
func (a *Attempt) Final() bool {
	return a.IsCorrect || a.Abandoned || a.AttemptNumber >= a.MaxAttempts
}

// Validate checks the fields required before insert.
func (a *Attempt) Validate() error {
	if a.UserID == "" {
		return fmt.Errorf("attempt user id must be set")
	}
	if a.PuzzleID == "" {
		return fmt.Errorf("attempt puzzle id must be set")
	}
	if a.Day == "" {
		return fmt.Errorf("attempt day must be set")
	}
	if a.AttemptNumber < 1 {
		return fmt.Errorf("attempt number must be >= 1, got %d", a.AttemptNumber)
	}
	if a.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be >= 1, got %d", a.MaxAttempts)
	}
	if a.AttemptNumber > a.MaxAttempts {
		return fmt.Errorf("attempt number %d exceeds ceiling %d", a.AttemptNumber, a.MaxAttempts)
	}
	return nil
}

// AttemptFilter narrows attempt listings.
type AttemptFilter struct {
	UserID    string
	PuzzleID  string
	Day       string
	FinalOnly bool
	Limit     int
	Offset    int
}
