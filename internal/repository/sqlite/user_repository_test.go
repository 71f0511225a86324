package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"

	apperrors "github.com/byronwade/rebuzzle/internal/errors"
	"github.com/byronwade/rebuzzle/internal/models"
	"github.com/byronwade/rebuzzle/internal/repository"
	"github.com/byronwade/rebuzzle/internal/repository/sqlite"
	"github.com/byronwade/rebuzzle/internal/testutil"
)

type UserRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.UserRepository
}

func (s *UserRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewUserRepository(s.db)
}

func (s *UserRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func guestUser(id, token string) models.User {
	return models.User{
		ID:         id,
		Username:   "guest-" + id,
		IsGuest:    true,
		GuestToken: token,
		DeviceID:   "device-1",
		IPAddress:  "203.0.113.9",
	}
}

func (s *UserRepositorySuite) TestInsertAndGetGuest() {
	ctx := context.Background()
	u := guestUser("u1", "tok-1")
	s.Require().NoError(s.repo.Insert(ctx, u))

	got, err := s.repo.Get(ctx, "u1")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().True(got.IsGuest)
	s.Assert().Equal("tok-1", got.GuestToken)
	s.Assert().Empty(got.Email)
	s.Assert().Nil(got.ConvertedAt)

	byToken, err := s.repo.GetByGuestToken(ctx, "tok-1")
	s.Require().NoError(err)
	s.Require().NotNil(byToken)
	s.Assert().Equal("u1", byToken.ID)
}

func (s *UserRepositorySuite) TestGuestTokenUnique() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Insert(ctx, guestUser("u1", "tok-1")))

	err := s.repo.Insert(ctx, guestUser("u2", "tok-1"))
	s.Require().Error(err)
	s.Assert().True(apperrors.IsCode(err, apperrors.ErrCodeUnique))
}

func (s *UserRepositorySuite) TestConvert_OneWay() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Insert(ctx, guestUser("u1", "tok-1")))

	s.Require().NoError(s.repo.Convert(ctx, "u1", "alice", "alice@example.com", "hash"))

	got, err := s.repo.Get(ctx, "u1")
	s.Require().NoError(err)
	s.Assert().False(got.IsGuest)
	s.Assert().Equal("alice@example.com", got.Email)
	s.Require().NotNil(got.ConvertedAt)

	// A converted account can never convert again.
	err = s.repo.Convert(ctx, "u1", "alice2", "alice2@example.com", "hash2")
	s.Require().Error(err)
	s.Assert().True(apperrors.IsCode(err, apperrors.ErrCodeConflict))

	byEmail, err := s.repo.GetByEmail(ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Require().NotNil(byEmail)
	s.Assert().Equal("u1", byEmail.ID)
}

func (s *UserRepositorySuite) TestConvert_UnknownUser() {
	err := s.repo.Convert(context.Background(), "missing", "x", "x@example.com", "hash")
	s.Require().Error(err)
	s.Assert().True(apperrors.IsCode(err, apperrors.ErrCodeConflict))
}

func TestUserRepositorySuite(t *testing.T) {
	suite.Run(t, new(UserRepositorySuite))
}
