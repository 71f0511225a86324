package models

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// PuzzleType categorizes puzzles.
type PuzzleType string

const (
	PuzzleTypeRebus     PuzzleType = "rebus"
	PuzzleTypeLogicGrid PuzzleType = "logic-grid"
	PuzzleTypeCipher    PuzzleType = "cipher"
	PuzzleTypeWordplay  PuzzleType = "wordplay"
)

// Valid reports whether the type is one of the known categories.
func (t PuzzleType) Valid() bool {
	switch t {
	case PuzzleTypeRebus, PuzzleTypeLogicGrid, PuzzleTypeCipher, PuzzleTypeWordplay:
		return true
	}
	return false
}

// Puzzle source values.
const (
	PuzzleSourceGenerated = "generated"
	PuzzleSourceFallback  = "fallback"
)

// Puzzle is one day's puzzle. At most one row exists per day; the
// puzzles table enforces that with a UNIQUE constraint on day.
type Puzzle struct {
	ID          string
	Day         string // UTC calendar day, "2006-01-02"
	Puzzle      string // display text shown to the player
	RebusPuzzle string // legacy field, mirrors Puzzle for rebus rows
	PuzzleType  PuzzleType
	Answer      string
	Difficulty  int // 1-10
	Explanation string
	Hints       []string
	PublishedAt time.Time
	Active      bool
	Source      string // "generated" or "fallback"
	Embedding   []byte // similarity embedding, attached after creation
	CreatedAt   time.Time
}

// Validate checks the invariants a puzzle row must satisfy before insert.
func (p *Puzzle) Validate() error {
	if p.Day == "" {
		return fmt.Errorf("puzzle day must be set")
	}
	if p.Puzzle == "" {
		return fmt.Errorf("puzzle display text must not be empty")
	}
	if p.Answer == "" {
		return fmt.Errorf("puzzle answer must not be empty")
	}
	if !p.PuzzleType.Valid() {
		return fmt.Errorf("unknown puzzle type %q", p.PuzzleType)
	}
	if p.Difficulty < 1 || p.Difficulty > 10 {
		return fmt.Errorf("difficulty must be between 1 and 10, got %d", p.Difficulty)
	}
	return nil
}

// DayKey formats a time as the UTC calendar-day key used throughout the
// store. The day boundary is fixed UTC midnight, not the user's local
// time zone.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// PuzzleIDForDay derives the deterministic puzzle id for a day. Using a
// date-derived id means two concurrent writers for the same day produce
// the same id, so the store's uniqueness constraint resolves the race.
func PuzzleIDForDay(day string) string {
	sum := sha256.Sum256([]byte("puzzle:" + day))
	return "pzl_" + hex.EncodeToString(sum[:8])
}

// DailyPuzzleView is the gameplay read-path payload. ShouldRedirect is
// true when the caller already holds a final attempt for the day; the
// client must route to the outcome page instead of rendering gameplay.
type DailyPuzzleView struct {
	ID             string     `json:"id"`
	Puzzle         string     `json:"puzzle"`
	PuzzleType     PuzzleType `json:"puzzleType"`
	Difficulty     int        `json:"difficulty"`
	Answer         string     `json:"answer"`
	Explanation    string     `json:"explanation"`
	Hints          []string   `json:"hints"`
	IsCompleted    bool       `json:"isCompleted"`
	ShouldRedirect bool       `json:"shouldRedirect"`
}
