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

type statsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new StatsRepository implementation
func NewStatsRepository(db *sql.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) Get(ctx context.Context, userID string) (*models.UserStats, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("getting stats: user_id=%s", userID)

	var s models.UserStats
	var bonusHistory string
	err := r.db.QueryRowContext(ctx, `
SELECT user_id, points, streak, longest_streak, games_played, games_won, last_play_day, lucky_solves, bonus_history, updated_at
FROM user_stats
WHERE user_id = ?
`, userID).Scan(&s.UserID, &s.Points, &s.Streak, &s.LongestStreak, &s.GamesPlayed, &s.GamesWon, &s.LastPlayDay, &s.LuckySolves, &bonusHistory, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("stats not found: user_id=%s", userID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get stats: %v", err)
		return nil, apperrors.FromSQLite("user stats", err)
	}
	s.BonusHistory = unmarshalJSON[models.BonusEntry](bonusHistory)
	return &s, nil
}

func (r *statsRepository) Upsert(ctx context.Context, stats models.UserStats) error {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("upserting stats: user_id=%s, points=%d, streak=%d", stats.UserID, stats.Points, stats.Streak)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO user_stats (user_id, points, streak, longest_streak, games_played, games_won, last_play_day, lucky_solves, bonus_history, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(user_id) DO UPDATE SET
    points = excluded.points,
    streak = excluded.streak,
    longest_streak = excluded.longest_streak,
    games_played = excluded.games_played,
    games_won = excluded.games_won,
    last_play_day = excluded.last_play_day,
    lucky_solves = excluded.lucky_solves,
    bonus_history = excluded.bonus_history,
    updated_at = CURRENT_TIMESTAMP
`, stats.UserID, stats.Points, stats.Streak, stats.LongestStreak, stats.GamesPlayed, stats.GamesWon, stats.LastPlayDay, stats.LuckySolves, marshalJSON(stats.BonusHistory))
	if err != nil {
		log.Error("failed to upsert stats: %v", err)
		return apperrors.FromSQLite("user stats", err)
	}
	return nil
}

func (r *statsRepository) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("fetching leaderboard: limit=%d", limit)

	if limit <= 0 {
		limit = 10
	}

	sqlStr, args, err := sqlBuilder.Select(
		"s.user_id", "u.username", "s.points", "s.streak", "s.longest_streak", "s.games_won",
	).
		From("user_stats s").
		Join("users u ON u.id = s.user_id").
		OrderBy("s.points DESC", "s.longest_streak DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		log.Error("failed to build leaderboard query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query leaderboard: %v", err)
		return nil, apperrors.FromSQLite("leaderboard", err)
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Username, &e.Points, &e.Streak, &e.LongestStreak, &e.GamesWon); err != nil {
			log.Error("failed to scan leaderboard row: %v", err)
			return nil, err
		}
		entries = append(entries, e)
	}
	log.Debug("found %d leaderboard entries", len(entries))
	return entries, rows.Err()
}

func (r *statsRepository) DeleteForUser(ctx context.Context, userID string) error {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("deleting stats for user: user_id=%s", userID)

	_, err := r.db.ExecContext(ctx, `DELETE FROM user_stats WHERE user_id = ?`, userID)
	if err != nil {
		log.Error("failed to delete stats: %v", err)
		return apperrors.FromSQLite("user stats", err)
	}
	return nil
}
