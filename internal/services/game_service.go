package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/byronwade/rebuzzle/internal/errors"
	"github.com/byronwade/rebuzzle/internal/game"
	"github.com/byronwade/rebuzzle/internal/logger"
	"github.com/byronwade/rebuzzle/internal/models"
	"github.com/byronwade/rebuzzle/internal/repository"
)

// GuessInput is one guess submission from a client. Correctness is
// always recomputed server-side; clients never decide it.
type GuessInput struct {
	UserID           string
	PuzzleID         string
	Guess            string
	Abandoned        bool
	AttemptNumber    int
	TimeSpentSeconds int
	HintsUsed        int
}

// GuessReceipt is the outcome of a submission. Accepted is false when
// the (user, day) pair was already locked by an earlier final attempt,
// in which case Attempt holds the winning record.
type GuessReceipt struct {
	Accepted  bool
	IsCorrect bool
	GameOver  bool
	Attempt   models.Attempt
	Stats     *models.UserStats
}

// GameService is the attempt ledger: it records guesses, enforces the
// one-final-attempt-per-day lock, and updates stats on completion.
type GameService interface {
	SubmitGuess(ctx context.Context, in GuessInput, now time.Time) (*GuessReceipt, error)
	AttemptsToday(ctx context.Context, userID string, now time.Time) (int, error)
	History(ctx context.Context, userID string, limit, offset int) ([]models.Attempt, error)
}

type gameService struct {
	puzzles     repository.PuzzleRepository
	attempts    repository.AttemptRepository
	stats       repository.StatsRepository
	maxAttempts int
}

// NewGameService creates a new GameService
func NewGameService(puzzles repository.PuzzleRepository, attempts repository.AttemptRepository, stats repository.StatsRepository, maxAttempts int) GameService {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &gameService{
		puzzles:     puzzles,
		attempts:    attempts,
		stats:       stats,
		maxAttempts: maxAttempts,
	}
}

func (s *gameService) SubmitGuess(ctx context.Context, in GuessInput, now time.Time) (*GuessReceipt, error) {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"user_id":   in.UserID,
		"puzzle_id": in.PuzzleID,
	})

	if in.UserID == "" {
		return nil, errors.NewValidationError("userId", "user id is required")
	}
	if in.PuzzleID == "" {
		return nil, errors.NewValidationError("puzzleId", "puzzle id is required")
	}
	if in.Guess == "" && !in.Abandoned {
		return nil, errors.NewValidationError("guess", "guess is required")
	}
	if in.AttemptNumber < 1 {
		in.AttemptNumber = 1
	}
	if in.AttemptNumber > s.maxAttempts {
		in.AttemptNumber = s.maxAttempts
	}

	puzzle, err := s.puzzles.Get(ctx, in.PuzzleID)
	if err != nil {
		return nil, err
	}
	if puzzle == nil {
		return nil, errors.NewNotFoundError("puzzle", in.PuzzleID)
	}

	day := models.DayKey(now)

	// Fast path: the day may already be locked.
	existing, err := s.attempts.FinalForUserDay(ctx, in.UserID, day)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		log.Debug("day already locked by attempt %s", existing.ID)
		return &GuessReceipt{
			Accepted:  false,
			IsCorrect: existing.IsCorrect,
			GameOver:  true,
			Attempt:   *existing,
		}, nil
	}

	attempt := models.Attempt{
		ID:               uuid.New().String(),
		UserID:           in.UserID,
		PuzzleID:         puzzle.ID,
		Day:              day,
		Guess:            in.Guess,
		Abandoned:        in.Abandoned,
		AttemptNumber:    in.AttemptNumber,
		MaxAttempts:      s.maxAttempts,
		TimeSpentSeconds: in.TimeSpentSeconds,
		HintsUsed:        in.HintsUsed,
		CreatedAt:        now.UTC(),
	}
	if !in.Abandoned {
		attempt.IsCorrect = game.CheckGuess(puzzle.Answer, in.Guess)
	}
	if err := attempt.Validate(); err != nil {
		return nil, errors.NewValidationError("attempt", err.Error())
	}

	if !attempt.Final() {
		if err := s.attempts.Insert(ctx, attempt); err != nil {
			return nil, err
		}
		log.Debug("non-final attempt %d recorded", attempt.AttemptNumber)
		return &GuessReceipt{
			Accepted:  true,
			IsCorrect: false,
			GameOver:  false,
			Attempt:   attempt,
		}, nil
	}

	if err := s.attempts.InsertFinal(ctx, attempt); err != nil {
		if errors.IsCode(err, errors.ErrCodeUnique) {
			// Lost the final-attempt race; the winner's record stands.
			winner, readErr := s.attempts.FinalForUserDay(ctx, in.UserID, day)
			if readErr != nil {
				return nil, readErr
			}
			if winner == nil {
				return nil, errors.NewInternalError(nil)
			}
			log.Info("duplicate final attempt rejected, winner=%s", winner.ID)
			return &GuessReceipt{
				Accepted:  false,
				IsCorrect: winner.IsCorrect,
				GameOver:  true,
				Attempt:   *winner,
			}, nil
		}
		return nil, err
	}

	stats, err := s.applyOutcome(ctx, attempt, puzzle.Difficulty)
	if err != nil {
		// The attempt is already committed; report it even when the
		// stats write failed.
		log.Error("stats update failed after final attempt %s: %v", attempt.ID, err)
	}

	log.Info("final attempt recorded: correct=%v, abandoned=%v, attempt=%d",
		attempt.IsCorrect, attempt.Abandoned, attempt.AttemptNumber)
	return &GuessReceipt{
		Accepted:  true,
		IsCorrect: attempt.IsCorrect,
		GameOver:  true,
		Attempt:   attempt,
		Stats:     stats,
	}, nil
}

func (s *gameService) applyOutcome(ctx context.Context, attempt models.Attempt, difficulty int) (*models.UserStats, error) {
	current, err := s.stats.Get(ctx, attempt.UserID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		current = &models.UserStats{UserID: attempt.UserID}
	}

	updated := game.ApplyOutcome(*current, game.Outcome{
		Day:           attempt.Day,
		Won:           attempt.IsCorrect,
		Difficulty:    difficulty,
		AttemptNumber: attempt.AttemptNumber,
		HintsUsed:     attempt.HintsUsed,
	})
	updated.UpdatedAt = time.Now().UTC()

	if err := s.stats.Upsert(ctx, updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *gameService) AttemptsToday(ctx context.Context, userID string, now time.Time) (int, error) {
	if userID == "" {
		return 0, errors.NewValidationError("userId", "user id is required")
	}
	return s.attempts.CountForUserDay(ctx, userID, models.DayKey(now))
}

func (s *gameService) History(ctx context.Context, userID string, limit, offset int) ([]models.Attempt, error) {
	if userID == "" {
		return nil, errors.NewValidationError("userId", "user id is required")
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.attempts.List(ctx, models.AttemptFilter{
		UserID: userID,
		Limit:  limit,
		Offset: offset,
	})
}
