package services

import (
	"context"

	"github.com/byronwade/rebuzzle/internal/errors"
	"github.com/byronwade/rebuzzle/internal/logger"
	"github.com/byronwade/rebuzzle/internal/models"
	"github.com/byronwade/rebuzzle/internal/repository"
)

// StatsService exposes the cumulative scoreboard. Stats rows are never
// deleted outside an explicit data-clear request.
type StatsService interface {
	StatsForUser(ctx context.Context, userID string) (*models.UserStats, error)
	Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
	// ClearData removes a user's attempts and stats. The one-way
	// guest-conversion flag and published puzzles are untouched.
	ClearData(ctx context.Context, userID string) error
}

type statsService struct {
	stats    repository.StatsRepository
	attempts repository.AttemptRepository
}

// NewStatsService creates a new StatsService
func NewStatsService(stats repository.StatsRepository, attempts repository.AttemptRepository) StatsService {
	return &statsService{stats: stats, attempts: attempts}
}

func (s *statsService) StatsForUser(ctx context.Context, userID string) (*models.UserStats, error) {
	if userID == "" {
		return nil, errors.NewValidationError("userId", "user id is required")
	}
	stats, err := s.stats.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		// First read before first play: an empty scoreboard, not an error.
		return &models.UserStats{UserID: userID}, nil
	}
	return stats, nil
}

func (s *statsService) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	return s.stats.Leaderboard(ctx, limit)
}

func (s *statsService) ClearData(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.NewValidationError("userId", "user id is required")
	}
	log := logger.FromContext(ctx)
	log.Info("clearing play data for user %s", userID)

	if err := s.attempts.DeleteForUser(ctx, userID); err != nil {
		return err
	}
	return s.stats.DeleteForUser(ctx, userID)
}
