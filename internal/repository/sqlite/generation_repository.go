package sqlite

import (
	"context"
	"database/sql"

	apperrors "github.com/byronwade/rebuzzle/internal/errors"
	"github.com/byronwade/rebuzzle/internal/logger"
	"github.com/byronwade/rebuzzle/internal/models"
	"github.com/byronwade/rebuzzle/internal/repository"
)

type generationRepository struct {
	db *sql.DB
}

// NewGenerationRepository creates a new GenerationRepository implementation
func NewGenerationRepository(db *sql.DB) repository.GenerationRepository {
	return &generationRepository{db: db}
}

func (r *generationRepository) Insert(ctx context.Context, rec models.GenerationRecord) error {
	log := logger.FromContext(ctx).WithPrefix("generation_repo")
	log.Debug("inserting generation record: day=%s, status=%s", rec.Day, rec.Status)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO generation_log (puzzle_day, provider, model, status, error_category, quality_score, uniqueness_score, prompt_tokens, completion_tokens, duration_ms, steps)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, rec.Day, rec.Provider, rec.Model, rec.Status, rec.ErrorCategory, rec.QualityScore, rec.UniquenessScore, rec.PromptTokens, rec.CompletionTokens, rec.DurationMS, marshalJSON(rec.Steps))
	if err != nil {
		log.Error("failed to insert generation record: %v", err)
		return apperrors.FromSQLite("generation record", err)
	}
	return nil
}

func (r *generationRepository) ListByDay(ctx context.Context, day string) ([]models.GenerationRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("generation_repo")
	log.Debug("listing generation records: day=%s", day)

	rows, err := r.db.QueryContext(ctx, `
SELECT id, puzzle_day, provider, model, status, error_category, quality_score, uniqueness_score, prompt_tokens, completion_tokens, duration_ms, steps, created_at
FROM generation_log
WHERE puzzle_day = ?
ORDER BY created_at ASC
`, day)
	if err != nil {
		log.Error("failed to list generation records: %v", err)
		return nil, apperrors.FromSQLite("generation records", err)
	}
	defer rows.Close()

	var records []models.GenerationRecord
	for rows.Next() {
		var rec models.GenerationRecord
		var steps string
		if err := rows.Scan(&rec.ID, &rec.Day, &rec.Provider, &rec.Model, &rec.Status, &rec.ErrorCategory, &rec.QualityScore, &rec.UniquenessScore, &rec.PromptTokens, &rec.CompletionTokens, &rec.DurationMS, &steps, &rec.CreatedAt); err != nil {
			log.Error("failed to scan generation record row: %v", err)
			return nil, err
		}
		rec.Steps = unmarshalJSON[models.GenerationStep](steps)
		records = append(records, rec)
	}
	log.Debug("found %d generation records", len(records))
	return records, rows.Err()
}
