package services

import (
	"context"
	"strings"
	"time"

	"github.com/byronwade/rebuzzle/internal/errors"
	"github.com/byronwade/rebuzzle/internal/game"
	"github.com/byronwade/rebuzzle/internal/generator"
	"github.com/byronwade/rebuzzle/internal/jobs"
	"github.com/byronwade/rebuzzle/internal/logger"
	"github.com/byronwade/rebuzzle/internal/models"
	"github.com/byronwade/rebuzzle/internal/repository"
)

// PuzzleService handles the daily puzzle cache and read path.
type PuzzleService interface {
	// DailyPuzzle returns the day's puzzle view for a user, creating
	// the puzzle on first request of the day.
	DailyPuzzle(ctx context.Context, userID string, now time.Time) (*models.DailyPuzzleView, error)
	// EnsureDailyPuzzle guarantees a puzzle exists for the day and
	// reports whether this call generated it (the cron contract).
	EnsureDailyPuzzle(ctx context.Context, now time.Time) (puzzle *models.Puzzle, generated bool, err error)
}

// GenerationSettings carries the tunables the cache passes to the
// generator on a cache miss.
type GenerationSettings struct {
	TargetDifficulty int
	QualityThreshold int
	PuzzleType       models.PuzzleType
	RequireNovelty   bool
}

type puzzleService struct {
	puzzles  repository.PuzzleRepository
	attempts repository.AttemptRepository
	gen      *generator.Generator
	queue    jobs.Queue
	settings GenerationSettings
}

// NewPuzzleService creates a new PuzzleService
func NewPuzzleService(puzzles repository.PuzzleRepository, attempts repository.AttemptRepository, gen *generator.Generator, queue jobs.Queue, settings GenerationSettings) PuzzleService {
	if settings.PuzzleType == "" {
		settings.PuzzleType = models.PuzzleTypeRebus
	}
	return &puzzleService{
		puzzles:  puzzles,
		attempts: attempts,
		gen:      gen,
		queue:    queue,
		settings: settings,
	}
}

func (s *puzzleService) EnsureDailyPuzzle(ctx context.Context, now time.Time) (*models.Puzzle, bool, error) {
	log := logger.FromContext(ctx)
	day := models.DayKey(now)
	log.Debug("ensuring daily puzzle: day=%s", day)

	existing, err := s.puzzles.GetByDay(ctx, day)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		log.Debug("daily puzzle cache hit: id=%s", existing.ID)
		return existing, false, nil
	}

	puzzle, err := s.generateForDay(ctx, day)
	if err != nil {
		// Generation is down; the fallback rotation keeps the product
		// serving a puzzle.
		log.Warn("generation failed for day %s, using fallback rotation: %v", day, err)
		puzzle = generator.FallbackForDay(day)
	}

	inserted, err := s.puzzles.InsertIfAbsent(ctx, puzzle)
	if err != nil {
		return nil, false, err
	}
	if !inserted {
		// A concurrent first request won the per-day insert; serve its
		// puzzle instead of ours.
		log.Debug("lost daily insert race for day %s, re-reading", day)
		winner, err := s.puzzles.GetByDay(ctx, day)
		if err != nil {
			return nil, false, err
		}
		if winner == nil {
			return nil, false, errors.NewInternalError(nil)
		}
		return winner, false, nil
	}

	log.Info("daily puzzle created: day=%s, id=%s, source=%s", day, puzzle.ID, puzzle.Source)
	return &puzzle, puzzle.Source == models.PuzzleSourceGenerated, nil
}

func (s *puzzleService) generateForDay(ctx context.Context, day string) (models.Puzzle, error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	result, err := s.gen.Generate(ctx, generator.Request{
		Day:              day,
		Difficulty:       s.settings.TargetDifficulty,
		PuzzleType:       s.settings.PuzzleType,
		RequireNovelty:   s.settings.RequireNovelty,
		QualityThreshold: s.settings.QualityThreshold,
	})

	rec := models.GenerationRecord{
		Day:        day,
		Provider:   s.gen.Provider().Name(),
		Model:      s.gen.Provider().Model(),
		DurationMS: time.Since(start).Milliseconds(),
	}
	if result != nil {
		rec.PromptTokens = result.PromptTokens
		rec.CompletionTokens = result.CompletionTokens
		rec.Steps = result.Steps
	}
	if err != nil {
		rec.Status = models.GenerationStatusFailed
		rec.ErrorCategory = generator.ClassifyError(err)
	} else {
		rec.Status = models.GenerationStatusSucceeded
		rec.QualityScore = result.QualityScore
		rec.UniquenessScore = result.UniquenessScore
	}
	// Decision tracking is fire-and-forget; a full queue drops the
	// record and the puzzle still serves.
	if !s.queue.EnqueueGenerationLog(rec) {
		log.Warn("generation log queue full, record for day %s dropped", day)
	}

	if err != nil {
		return models.Puzzle{}, err
	}

	puzzle := guardPuzzleDisplay(result.Puzzle)
	if vErr := puzzle.Validate(); vErr != nil {
		return models.Puzzle{}, errors.NewValidationError("puzzle", vErr.Error())
	}
	return puzzle, nil
}

// guardPuzzleDisplay defends against a malformed generator response
// that leaks the answer as the display text. The display is rebuilt
// from the hint list, or replaced with a generic instruction when no
// hints survive.
func guardPuzzleDisplay(p models.Puzzle) models.Puzzle {
	if game.NormalizeAnswer(p.Puzzle) != game.NormalizeAnswer(p.Answer) {
		return p
	}
	if len(p.Hints) > 0 {
		p.Puzzle = "Clues: " + strings.Join(p.Hints, " / ")
	} else {
		p.Puzzle = "Decode today's puzzle to reveal a common phrase."
	}
	if p.PuzzleType == models.PuzzleTypeRebus {
		p.RebusPuzzle = p.Puzzle
	}
	return p
}

func (s *puzzleService) DailyPuzzle(ctx context.Context, userID string, now time.Time) (*models.DailyPuzzleView, error) {
	log := logger.FromContext(ctx)

	puzzle, _, err := s.EnsureDailyPuzzle(ctx, now)
	if err != nil {
		log.Error("failed to ensure daily puzzle: %v", err)
		return nil, err
	}

	view := &models.DailyPuzzleView{
		ID:          puzzle.ID,
		Puzzle:      puzzle.Puzzle,
		PuzzleType:  puzzle.PuzzleType,
		Difficulty:  puzzle.Difficulty,
		Answer:      puzzle.Answer,
		Explanation: puzzle.Explanation,
		Hints:       puzzle.Hints,
	}

	if userID != "" {
		final, err := s.attempts.FinalForUserDay(ctx, userID, models.DayKey(now))
		if err != nil {
			return nil, err
		}
		if final != nil {
			view.IsCompleted = final.IsCorrect
			view.ShouldRedirect = true
		}
	}
	return view, nil
}
