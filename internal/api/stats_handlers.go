package api

import (
	"net/http"
	"strconv"

	"github.com/byronwade/rebuzzle/internal/errors"
	"github.com/byronwade/rebuzzle/internal/models"
)

func statsView(s models.UserStats) map[string]any {
	return map[string]any{
		"points":        s.Points,
		"streak":        s.Streak,
		"longestStreak": s.LongestStreak,
		"gamesPlayed":   s.GamesPlayed,
		"gamesWon":      s.GamesWon,
		"lastPlayDay":   s.LastPlayDay,
		"luckySolves":   s.LuckySolves,
		"bonusHistory":  s.BonusHistory,
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		handleError(w, r, errors.NewUnauthorizedError("a session is required"))
		return
	}

	stats, err := s.Stats.StatsForUser(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, statsView(*stats))
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := s.Stats.Leaderboard(r.Context(), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"leaderboard": entries})
}
