package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/byronwade/rebuzzle/internal/errors"
	"github.com/byronwade/rebuzzle/internal/logger"
	"github.com/byronwade/rebuzzle/internal/models"
	"github.com/byronwade/rebuzzle/internal/services"
)

type submitGuessRequest struct {
	PuzzleID        string `json:"puzzleId"`
	AttemptedAnswer string `json:"attemptedAnswer"`
	// Legacy clients send their own correctness verdict; the server
	// recomputes it from the stored answer and never reads this field.
	IsCorrect        bool `json:"isCorrect"`
	Abandoned        bool `json:"abandoned"`
	AttemptNumber    int  `json:"attemptNumber"`
	MaxAttempts      int  `json:"maxAttempts"`
	TimeSpentSeconds int  `json:"timeSpentSeconds"`
	HintsUsed        int  `json:"hintsUsed"`
}

type attemptView struct {
	ID            string `json:"id"`
	Day           string `json:"day"`
	IsCorrect     bool   `json:"isCorrect"`
	Abandoned     bool   `json:"abandoned"`
	AttemptNumber int    `json:"attemptNumber"`
	MaxAttempts   int    `json:"maxAttempts"`
}

func toAttemptView(a models.Attempt) attemptView {
	return attemptView{
		ID:            a.ID,
		Day:           a.Day,
		IsCorrect:     a.IsCorrect,
		Abandoned:     a.Abandoned,
		AttemptNumber: a.AttemptNumber,
		MaxAttempts:   a.MaxAttempts,
	}
}

func (s *Server) handleSubmitGuess(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	user := userFromContext(r.Context())
	if user == nil {
		handleError(w, r, errors.NewUnauthorizedError("a session is required to submit guesses"))
		return
	}

	var req submitGuessRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	// req.IsCorrect is deliberately not forwarded; only the attempted
	// answer matters.
	receipt, err := s.Game.SubmitGuess(r.Context(), services.GuessInput{
		UserID:           user.ID,
		PuzzleID:         req.PuzzleID,
		Guess:            req.AttemptedAnswer,
		Abandoned:        req.Abandoned,
		AttemptNumber:    req.AttemptNumber,
		TimeSpentSeconds: req.TimeSpentSeconds,
		HintsUsed:        req.HintsUsed,
	}, time.Now())
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Debug("guess processed: accepted=%v, correct=%v, gameOver=%v",
		receipt.Accepted, receipt.IsCorrect, receipt.GameOver)

	body := map[string]any{
		"success":   receipt.Accepted,
		"isCorrect": receipt.IsCorrect,
		"gameOver":  receipt.GameOver,
		"attempt":   toAttemptView(receipt.Attempt),
	}
	if receipt.Stats != nil {
		body["stats"] = statsView(*receipt.Stats)
	}
	respondJSON(w, r, http.StatusOK, body)
}

func (s *Server) handleAttemptHistory(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		handleError(w, r, errors.NewUnauthorizedError("a session is required"))
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	attempts, err := s.Game.History(r.Context(), user.ID, limit, offset)
	if err != nil {
		handleError(w, r, err)
		return
	}

	views := make([]attemptView, 0, len(attempts))
	for _, a := range attempts {
		views = append(views, toAttemptView(a))
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"attempts": views})
}
