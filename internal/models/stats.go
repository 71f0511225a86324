package models

import "time"

// UserStats is the per-user cumulative scoreboard. Created on first
// play, mutated after every completed game.
type UserStats struct {
	UserID        string
	Points        int
	Streak        int
	LongestStreak int
	GamesPlayed   int
	GamesWon      int
	LastPlayDay   string // UTC day key of the most recent final attempt
	LuckySolves   int    // wins on the first guess with no hints
	BonusHistory  []BonusEntry
	UpdatedAt     time.Time
}

// BonusEntry records one applied bonus multiplier for later display.
type BonusEntry struct {
	Day        string  `json:"day"`
	Multiplier float64 `json:"multiplier"`
	Points     int     `json:"points"`
}

// LeaderboardEntry is one row of the points leaderboard.
type LeaderboardEntry struct {
	UserID        string `json:"userId"`
	Username      string `json:"username"`
	Points        int    `json:"points"`
	Streak        int    `json:"streak"`
	LongestStreak int    `json:"longestStreak"`
	GamesWon      int    `json:"gamesWon"`
}
