package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/byronwade/rebuzzle/internal/models"
	"github.com/byronwade/rebuzzle/internal/repository"
	"github.com/byronwade/rebuzzle/internal/repository/sqlite"
	"github.com/byronwade/rebuzzle/internal/testutil"
)

type StatsRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.StatsRepository
}

func (s *StatsRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewStatsRepository(s.db)
}

func (s *StatsRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *StatsRepositorySuite) seedUser(id, username string) {
	_, err := s.db.ExecContext(context.Background(),
		`INSERT INTO users (id, username) VALUES (?, ?)`, id, username)
	s.Require().NoError(err)
}

func (s *StatsRepositorySuite) TestUpsertAndGet() {
	ctx := context.Background()
	s.seedUser("u1", "alice")

	stats := models.UserStats{
		UserID:        "u1",
		Points:        120,
		Streak:        3,
		LongestStreak: 5,
		GamesPlayed:   8,
		GamesWon:      6,
		LastPlayDay:   "2025-03-01",
		LuckySolves:   2,
		BonusHistory: []models.BonusEntry{
			{Day: "2025-03-01", Multiplier: 1.2, Points: 60},
		},
	}
	s.Require().NoError(s.repo.Upsert(ctx, stats))

	got, err := s.repo.Get(ctx, "u1")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal(120, got.Points)
	s.Assert().Equal("2025-03-01", got.LastPlayDay)
	s.Require().Len(got.BonusHistory, 1)
	s.Assert().Equal(1.2, got.BonusHistory[0].Multiplier)

	// Second upsert replaces, not duplicates.
	stats.Points = 180
	stats.Streak = 4
	s.Require().NoError(s.repo.Upsert(ctx, stats))

	got, err = s.repo.Get(ctx, "u1")
	s.Require().NoError(err)
	s.Assert().Equal(180, got.Points)
	s.Assert().Equal(4, got.Streak)
}

func (s *StatsRepositorySuite) TestGet_Miss() {
	got, err := s.repo.Get(context.Background(), "nobody")
	s.Require().NoError(err)
	s.Assert().Nil(got)
}

func (s *StatsRepositorySuite) TestLeaderboard_OrderedByPoints() {
	ctx := context.Background()
	s.seedUser("u1", "alice")
	s.seedUser("u2", "bob")
	s.seedUser("u3", "carol")

	s.Require().NoError(s.repo.Upsert(ctx, models.UserStats{UserID: "u1", Points: 100, LongestStreak: 2}))
	s.Require().NoError(s.repo.Upsert(ctx, models.UserStats{UserID: "u2", Points: 300, LongestStreak: 5}))
	s.Require().NoError(s.repo.Upsert(ctx, models.UserStats{UserID: "u3", Points: 100, LongestStreak: 7}))

	entries, err := s.repo.Leaderboard(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 3)
	s.Assert().Equal("bob", entries[0].Username)
	// Longest streak breaks the points tie.
	s.Assert().Equal("carol", entries[1].Username)
	s.Assert().Equal("alice", entries[2].Username)
}

func (s *StatsRepositorySuite) TestDeleteForUser() {
	ctx := context.Background()
	s.seedUser("u1", "alice")
	s.Require().NoError(s.repo.Upsert(ctx, models.UserStats{UserID: "u1", Points: 10}))

	s.Require().NoError(s.repo.DeleteForUser(ctx, "u1"))

	got, err := s.repo.Get(ctx, "u1")
	s.Require().NoError(err)
	s.Assert().Nil(got)
}

func TestStatsRepositorySuite(t *testing.T) {
	suite.Run(t, new(StatsRepositorySuite))
}
