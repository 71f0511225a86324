package sqlite_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	apperrors "github.com/byronwade/rebuzzle/internal/errors"
	"github.com/byronwade/rebuzzle/internal/models"
	"github.com/byronwade/rebuzzle/internal/repository"
	"github.com/byronwade/rebuzzle/internal/repository/sqlite"
	"github.com/byronwade/rebuzzle/internal/testutil"
)

type AttemptRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.AttemptRepository
}

func (s *AttemptRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewAttemptRepository(s.db)
}

func (s *AttemptRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *AttemptRepositorySuite) seedUserAndPuzzle(day string) (string, string) {
	ctx := context.Background()

	userID := "user-" + day
	_, err := s.db.ExecContext(ctx, `INSERT INTO users (id, username) VALUES (?, ?)`, userID, "player-"+day)
	s.Require().NoError(err)

	puzzleID := models.PuzzleIDForDay(day)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO puzzles (id, puzzle_day, puzzle, puzzle_type, answer, difficulty, published_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, puzzleID, day, "STAND\nI", "rebus", "I understand", 3, time.Now().UTC())
	s.Require().NoError(err)

	return userID, puzzleID
}

func attemptFor(userID, puzzleID, day string, number int) models.Attempt {
	return models.Attempt{
		ID:            fmt.Sprintf("att-%s-%d", day, number),
		UserID:        userID,
		PuzzleID:      puzzleID,
		Day:           day,
		Guess:         "wrong guess",
		AttemptNumber: number,
		MaxAttempts:   3,
	}
}

func (s *AttemptRepositorySuite) TestFinalAttemptLock() {
	ctx := context.Background()
	userID, puzzleID := s.seedUserAndPuzzle("2025-03-01")

	win := attemptFor(userID, puzzleID, "2025-03-01", 2)
	win.IsCorrect = true
	s.Require().NoError(s.repo.InsertFinal(ctx, win))

	// A second final attempt for the same (user, day) hits the partial
	// unique index.
	dup := attemptFor(userID, puzzleID, "2025-03-01", 3)
	dup.ID = "att-dup"
	dup.Abandoned = true
	err := s.repo.InsertFinal(ctx, dup)
	s.Require().Error(err)
	s.Assert().True(apperrors.IsCode(err, apperrors.ErrCodeUnique))

	// The winner's record is what FinalForUserDay returns.
	final, err := s.repo.FinalForUserDay(ctx, userID, "2025-03-01")
	s.Require().NoError(err)
	s.Require().NotNil(final)
	s.Assert().Equal(win.ID, final.ID)
	s.Assert().True(final.IsCorrect)
}

func (s *AttemptRepositorySuite) TestNonFinalAttemptsDoNotLock() {
	ctx := context.Background()
	userID, puzzleID := s.seedUserAndPuzzle("2025-03-02")

	// Several wrong, non-final guesses coexist on one day.
	for i := 1; i <= 2; i++ {
		s.Require().NoError(s.repo.Insert(ctx, attemptFor(userID, puzzleID, "2025-03-02", i)))
	}

	final, err := s.repo.FinalForUserDay(ctx, userID, "2025-03-02")
	s.Require().NoError(err)
	s.Assert().Nil(final)

	count, err := s.repo.CountForUserDay(ctx, userID, "2025-03-02")
	s.Require().NoError(err)
	s.Assert().Equal(2, count)
}

func (s *AttemptRepositorySuite) TestAbandonmentLocksDay() {
	ctx := context.Background()
	userID, puzzleID := s.seedUserAndPuzzle("2025-03-03")

	quit := attemptFor(userID, puzzleID, "2025-03-03", 1)
	quit.Abandoned = true
	s.Require().NoError(s.repo.InsertFinal(ctx, quit))

	final, err := s.repo.FinalForUserDay(ctx, userID, "2025-03-03")
	s.Require().NoError(err)
	s.Require().NotNil(final)
	s.Assert().True(final.Abandoned)
	s.Assert().False(final.IsCorrect)
}

func (s *AttemptRepositorySuite) TestExhaustionLossLocksDay() {
	ctx := context.Background()
	userID, puzzleID := s.seedUserAndPuzzle("2025-03-06")

	// Last allowed guess, wrong and not abandoned: final by exhaustion.
	loss := attemptFor(userID, puzzleID, "2025-03-06", 3)
	s.Require().NoError(s.repo.InsertFinal(ctx, loss))

	final, err := s.repo.FinalForUserDay(ctx, userID, "2025-03-06")
	s.Require().NoError(err)
	s.Require().NotNil(final)
	s.Assert().Equal(loss.ID, final.ID)
	s.Assert().False(final.IsCorrect)
	s.Assert().False(final.Abandoned)

	// The day cannot be converted into a win afterwards.
	win := attemptFor(userID, puzzleID, "2025-03-06", 3)
	win.ID = "att-late-win"
	win.IsCorrect = true
	err = s.repo.InsertFinal(ctx, win)
	s.Require().Error(err)
	s.Assert().True(apperrors.IsCode(err, apperrors.ErrCodeUnique))

	final, err = s.repo.FinalForUserDay(ctx, userID, "2025-03-06")
	s.Require().NoError(err)
	s.Require().NotNil(final)
	s.Assert().Equal(loss.ID, final.ID)
}

func (s *AttemptRepositorySuite) TestList_FinalOnlyFilter() {
	ctx := context.Background()
	userID, puzzleID := s.seedUserAndPuzzle("2025-03-04")

	s.Require().NoError(s.repo.Insert(ctx, attemptFor(userID, puzzleID, "2025-03-04", 1)))
	win := attemptFor(userID, puzzleID, "2025-03-04", 2)
	win.ID = "att-final"
	win.IsCorrect = true
	s.Require().NoError(s.repo.InsertFinal(ctx, win))

	all, err := s.repo.List(ctx, models.AttemptFilter{UserID: userID})
	s.Require().NoError(err)
	s.Assert().Len(all, 2)

	finals, err := s.repo.List(ctx, models.AttemptFilter{UserID: userID, FinalOnly: true})
	s.Require().NoError(err)
	s.Require().Len(finals, 1)
	s.Assert().Equal("att-final", finals[0].ID)
}

func (s *AttemptRepositorySuite) TestDeleteForUser() {
	ctx := context.Background()
	userID, puzzleID := s.seedUserAndPuzzle("2025-03-05")

	s.Require().NoError(s.repo.Insert(ctx, attemptFor(userID, puzzleID, "2025-03-05", 1)))
	s.Require().NoError(s.repo.DeleteForUser(ctx, userID))

	count, err := s.repo.CountForUserDay(ctx, userID, "2025-03-05")
	s.Require().NoError(err)
	s.Assert().Zero(count)
}

func TestAttemptRepositorySuite(t *testing.T) {
	suite.Run(t, new(AttemptRepositorySuite))
}
