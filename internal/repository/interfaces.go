package repository

import (
	"context"

	"github.com/byronwade/rebuzzle/internal/models"
)

// PuzzleRepository handles puzzle data access
type PuzzleRepository interface {
	// InsertIfAbsent persists the puzzle unless a row for its day
	// already exists. It reports whether this call inserted the row;
	// losers of the per-day race get inserted=false with no error.
	InsertIfAbsent(ctx context.Context, p models.Puzzle) (inserted bool, err error)
	Get(ctx context.Context, id string) (*models.Puzzle, error)
	GetByDay(ctx context.Context, day string) (*models.Puzzle, error)
	AttachEmbedding(ctx context.Context, id string, embedding []byte) error
	// Deactivate is the administrative override; normal operation never
	// mutates or deletes a published puzzle.
	Deactivate(ctx context.Context, id string) error
}

// AttemptRepository handles attempt data access
type AttemptRepository interface {
	// Insert writes a non-final attempt unconditionally.
	Insert(ctx context.Context, a models.Attempt) error
	// InsertFinal writes a final attempt; the store's partial unique
	// index makes this an atomic insert-if-absent per (user, day). A
	// concurrent duplicate surfaces as a UNIQUE_VIOLATION error.
	InsertFinal(ctx context.Context, a models.Attempt) error
	FinalForUserDay(ctx context.Context, userID, day string) (*models.Attempt, error)
	List(ctx context.Context, filter models.AttemptFilter) ([]models.Attempt, error)
	CountForUserDay(ctx context.Context, userID, day string) (int, error)
	DeleteForUser(ctx context.Context, userID string) error
}

// StatsRepository handles user statistics data access
type StatsRepository interface {
	Get(ctx context.Context, userID string) (*models.UserStats, error)
	Upsert(ctx context.Context, stats models.UserStats) error
	Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
	DeleteForUser(ctx context.Context, userID string) error
}

// UserRepository handles user data access
type UserRepository interface {
	Insert(ctx context.Context, u models.User) error
	Get(ctx context.Context, id string) (*models.User, error)
	GetByGuestToken(ctx context.Context, token string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Convert performs the one-way guest -> registered transition.
	Convert(ctx context.Context, id, username, email, passwordHash string) error
}

// SubscriptionRepository handles web-push subscription data access
type SubscriptionRepository interface {
	Upsert(ctx context.Context, sub models.PushSubscription) error
	List(ctx context.Context) ([]models.PushSubscription, error)
	DeleteByEndpoint(ctx context.Context, endpoint string) error
}

// GenerationRepository handles the decision-tracking log
type GenerationRepository interface {
	Insert(ctx context.Context, rec models.GenerationRecord) error
	ListByDay(ctx context.Context, day string) ([]models.GenerationRecord, error)
}
