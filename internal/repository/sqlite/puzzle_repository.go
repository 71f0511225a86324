package sqlite

import (
	"context"
	"database/sql"
	"errors"

	apperrors "github.com/byronwade/rebuzzle/internal/errors"
	"github.com/byronwade/rebuzzle/internal/logger"
	"github.com/byronwade/rebuzzle/internal/models"
	"github.com/byronwade/rebuzzle/internal/repository"
)

type puzzleRepository struct {
	db *sql.DB
}

// NewPuzzleRepository creates a new PuzzleRepository implementation
func NewPuzzleRepository(db *sql.DB) repository.PuzzleRepository {
	return &puzzleRepository{db: db}
}

func (r *puzzleRepository) InsertIfAbsent(ctx context.Context, p models.Puzzle) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("puzzle_repo")
	log.Debug("inserting puzzle if absent: day=%s, id=%s, source=%s", p.Day, p.ID, p.Source)

	// The UNIQUE constraint on puzzle_day resolves concurrent first
	// requests for the same day; losers simply insert nothing.
	res, err := r.db.ExecContext(ctx, `
INSERT INTO puzzles (id, puzzle_day, puzzle, rebus_puzzle, puzzle_type, answer, difficulty, explanation, hints, published_at, active, source, embedding)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(puzzle_day) DO NOTHING
`, p.ID, p.Day, p.Puzzle, p.RebusPuzzle, string(p.PuzzleType), p.Answer, p.Difficulty, p.Explanation, marshalJSON(p.Hints), p.PublishedAt, p.Active, p.Source, p.Embedding)
	if err != nil {
		log.Error("failed to insert puzzle: %v", err)
		return false, apperrors.FromSQLite("puzzle", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		log.Error("failed to read rows affected: %v", err)
		return false, apperrors.FromSQLite("puzzle", err)
	}
	if n == 0 {
		log.Debug("puzzle for day %s already exists, insert skipped", p.Day)
		return false, nil
	}
	log.Debug("puzzle inserted: id=%s", p.ID)
	return true, nil
}

const puzzleColumns = `id, puzzle_day, puzzle, rebus_puzzle, puzzle_type, answer, difficulty, explanation, hints, published_at, active, source, embedding, created_at`

func (r *puzzleRepository) scanPuzzle(row *sql.Row) (*models.Puzzle, error) {
	var p models.Puzzle
	var puzzleType, hints string
	var embedding []byte
	err := row.Scan(&p.ID, &p.Day, &p.Puzzle, &p.RebusPuzzle, &puzzleType, &p.Answer, &p.Difficulty, &p.Explanation, &hints, &p.PublishedAt, &p.Active, &p.Source, &embedding, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.PuzzleType = models.PuzzleType(puzzleType)
	p.Hints = unmarshalJSON[string](hints)
	p.Embedding = embedding
	return &p, nil
}

func (r *puzzleRepository) Get(ctx context.Context, id string) (*models.Puzzle, error) {
	log := logger.FromContext(ctx).WithPrefix("puzzle_repo")
	log.Debug("getting puzzle: id=%s", id)

	p, err := r.scanPuzzle(r.db.QueryRowContext(ctx, `
SELECT `+puzzleColumns+`
FROM puzzles
WHERE id = ?
`, id))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("puzzle not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get puzzle: %v", err)
		return nil, apperrors.FromSQLite("puzzle", err)
	}
	return p, nil
}

func (r *puzzleRepository) GetByDay(ctx context.Context, day string) (*models.Puzzle, error) {
	log := logger.FromContext(ctx).WithPrefix("puzzle_repo")
	log.Debug("getting puzzle by day: day=%s", day)

	p, err := r.scanPuzzle(r.db.QueryRowContext(ctx, `
SELECT `+puzzleColumns+`
FROM puzzles
WHERE puzzle_day = ? AND active = 1
`, day))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no active puzzle for day: %s", day)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get puzzle by day: %v", err)
		return nil, apperrors.FromSQLite("puzzle", err)
	}
	log.Debug("puzzle found: id=%s, type=%s", p.ID, p.PuzzleType)
	return p, nil
}

func (r *puzzleRepository) AttachEmbedding(ctx context.Context, id string, embedding []byte) error {
	log := logger.FromContext(ctx).WithPrefix("puzzle_repo")
	log.Debug("attaching embedding: id=%s, bytes=%d", id, len(embedding))

	_, err := r.db.ExecContext(ctx, `UPDATE puzzles SET embedding = ? WHERE id = ?`, embedding, id)
	if err != nil {
		log.Error("failed to attach embedding: %v", err)
		return apperrors.FromSQLite("puzzle", err)
	}
	return nil
}

func (r *puzzleRepository) Deactivate(ctx context.Context, id string) error {
	log := logger.FromContext(ctx).WithPrefix("puzzle_repo")
	log.Debug("deactivating puzzle: id=%s", id)

	_, err := r.db.ExecContext(ctx, `UPDATE puzzles SET active = 0 WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to deactivate puzzle: %v", err)
		return apperrors.FromSQLite("puzzle", err)
	}
	return nil
}
