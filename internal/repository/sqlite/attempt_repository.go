package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"

	apperrors "github.com/byronwade/rebuzzle/internal/errors"
	"github.com/byronwade/rebuzzle/internal/logger"
	"github.com/byronwade/rebuzzle/internal/models"
	"github.com/byronwade/rebuzzle/internal/repository"
)

type attemptRepository struct {
	db *sql.DB
}

// NewAttemptRepository creates a new AttemptRepository implementation
func NewAttemptRepository(db *sql.DB) repository.AttemptRepository {
	return &attemptRepository{db: db}
}

const attemptColumns = `id, user_id, puzzle_id, puzzle_day, guess, is_correct, abandoned, attempt_number, max_attempts, time_spent_seconds, hints_used, created_at`

func (r *attemptRepository) insert(ctx context.Context, a models.Attempt) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO attempts (id, user_id, puzzle_id, puzzle_day, guess, is_correct, abandoned, attempt_number, max_attempts, time_spent_seconds, hints_used)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, a.ID, a.UserID, a.PuzzleID, a.Day, a.Guess, a.IsCorrect, a.Abandoned, a.AttemptNumber, a.MaxAttempts, a.TimeSpentSeconds, a.HintsUsed)
	return err
}

func (r *attemptRepository) Insert(ctx context.Context, a models.Attempt) error {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("inserting attempt: user_id=%s, day=%s, number=%d", a.UserID, a.Day, a.AttemptNumber)

	if err := r.insert(ctx, a); err != nil {
		log.Error("failed to insert attempt: %v", err)
		return apperrors.FromSQLite("attempt", err)
	}
	log.Debug("attempt inserted: id=%s", a.ID)
	return nil
}

func (r *attemptRepository) InsertFinal(ctx context.Context, a models.Attempt) error {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("inserting final attempt: user_id=%s, day=%s, correct=%t, abandoned=%t",
		a.UserID, a.Day, a.IsCorrect, a.Abandoned)

	// Same statement as Insert; the partial unique index on
	// (user_id, puzzle_day) over final rows turns this into an atomic
	// insert-if-absent. The caller branches on UNIQUE_VIOLATION.
	if err := r.insert(ctx, a); err != nil {
		appErr := apperrors.FromSQLite("final attempt", err)
		if appErr.Code == apperrors.ErrCodeUnique {
			log.Debug("final attempt already locked for user_id=%s day=%s", a.UserID, a.Day)
		} else {
			log.Error("failed to insert final attempt: %v", err)
		}
		return appErr
	}
	log.Debug("final attempt inserted: id=%s", a.ID)
	return nil
}

func (r *attemptRepository) scanAttempt(scan func(dest ...any) error) (*models.Attempt, error) {
	var a models.Attempt
	err := scan(&a.ID, &a.UserID, &a.PuzzleID, &a.Day, &a.Guess, &a.IsCorrect, &a.Abandoned, &a.AttemptNumber, &a.MaxAttempts, &a.TimeSpentSeconds, &a.HintsUsed, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attemptRepository) FinalForUserDay(ctx context.Context, userID, day string) (*models.Attempt, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("getting final attempt: user_id=%s, day=%s", userID, day)

	row := r.db.QueryRowContext(ctx, `
SELECT `+attemptColumns+`
FROM attempts
WHERE user_id = ? AND puzzle_day = ? AND (is_correct = 1 OR abandoned = 1 OR attempt_number >= max_attempts)
`, userID, day)
	a, err := r.scanAttempt(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no final attempt for user_id=%s day=%s", userID, day)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get final attempt: %v", err)
		return nil, apperrors.FromSQLite("final attempt", err)
	}
	return a, nil
}

func (r *attemptRepository) List(ctx context.Context, filter models.AttemptFilter) ([]models.Attempt, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("listing attempts: user_id=%s, puzzle_id=%s, day=%s, final_only=%t",
		filter.UserID, filter.PuzzleID, filter.Day, filter.FinalOnly)

	query := sqlBuilder.Select(
		"id", "user_id", "puzzle_id", "puzzle_day", "guess", "is_correct", "abandoned",
		"attempt_number", "max_attempts", "time_spent_seconds", "hints_used", "created_at",
	).From("attempts")

	// Dynamic WHERE clauses
	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"user_id": filter.UserID})
	}
	if filter.PuzzleID != "" {
		query = query.Where(squirrel.Eq{"puzzle_id": filter.PuzzleID})
	}
	if filter.Day != "" {
		query = query.Where(squirrel.Eq{"puzzle_day": filter.Day})
	}
	if filter.FinalOnly {
		query = query.Where(squirrel.Or{
			squirrel.Eq{"is_correct": 1},
			squirrel.Eq{"abandoned": 1},
			squirrel.Expr("attempt_number >= max_attempts"),
		})
	}

	query = query.OrderBy("created_at ASC")

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query = query.Limit(uint64(limit)).Offset(uint64(offset))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list attempts: %v", err)
		return nil, apperrors.FromSQLite("attempts", err)
	}
	defer rows.Close()

	var attempts []models.Attempt
	for rows.Next() {
		a, err := r.scanAttempt(rows.Scan)
		if err != nil {
			log.Error("failed to scan attempt row: %v", err)
			return nil, err
		}
		attempts = append(attempts, *a)
	}
	log.Debug("found %d attempts", len(attempts))
	return attempts, rows.Err()
}

func (r *attemptRepository) CountForUserDay(ctx context.Context, userID, day string) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("counting attempts: user_id=%s, day=%s", userID, day)

	var count int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*)
FROM attempts
WHERE user_id = ? AND puzzle_day = ?
`, userID, day).Scan(&count)
	if err != nil {
		log.Error("failed to count attempts: %v", err)
		return 0, apperrors.FromSQLite("attempts", err)
	}
	return count, nil
}

func (r *attemptRepository) DeleteForUser(ctx context.Context, userID string) error {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("deleting attempts for user: user_id=%s", userID)

	_, err := r.db.ExecContext(ctx, `DELETE FROM attempts WHERE user_id = ?`, userID)
	if err != nil {
		log.Error("failed to delete attempts: %v", err)
		return apperrors.FromSQLite("attempts", err)
	}
	return nil
}
