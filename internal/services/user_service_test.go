package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/byronwade/rebuzzle/internal/errors"
	"github.com/byronwade/rebuzzle/internal/models"
	"github.com/byronwade/rebuzzle/internal/services"
	"github.com/byronwade/rebuzzle/internal/testutil/mocks"
)

func TestCreateGuest(t *testing.T) {
	users := new(mocks.MockUserRepository)

	var created models.User
	users.On("Insert", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		created = u
		return u.IsGuest && u.GuestToken != "" && u.ID != ""
	})).Return(nil).Once()

	svc := services.NewUserService(users)
	user, err := svc.CreateGuest(context.Background(), "device-1", "203.0.113.9")
	require.NoError(t, err)

	assert.Equal(t, created.ID, user.ID)
	assert.True(t, user.IsGuest)
	assert.Len(t, user.GuestToken, 32, "token is 16 random bytes hex encoded")
	assert.Equal(t, "device-1", user.DeviceID)
	users.AssertExpectations(t)
}

func TestResolveGuest(t *testing.T) {
	users := new(mocks.MockUserRepository)
	users.On("GetByGuestToken", mock.Anything, "tok-1").Return(&models.User{ID: "u1", IsGuest: true, GuestToken: "tok-1"}, nil).Once()
	users.On("GetByGuestToken", mock.Anything, "tok-unknown").Return(nil, nil).Once()

	svc := services.NewUserService(users)

	user, err := svc.ResolveGuest(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)

	_, err = svc.ResolveGuest(context.Background(), "tok-unknown")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeUnauthorized))
}

func TestConvertGuest(t *testing.T) {
	users := new(mocks.MockUserRepository)

	guest := &models.User{ID: "u1", Username: "guest-abc", IsGuest: true, GuestToken: "tok-1"}
	converted := &models.User{ID: "u1", Username: "alice", Email: "alice@example.com", IsGuest: false}

	users.On("Get", mock.Anything, "u1").Return(guest, nil).Once()
	users.On("GetByEmail", mock.Anything, "alice@example.com").Return(nil, nil).Once()
	users.On("Convert", mock.Anything, "u1", "alice", "alice@example.com", mock.MatchedBy(func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret-pass")) == nil
	})).Return(nil).Once()
	users.On("Get", mock.Anything, "u1").Return(converted, nil).Once()

	svc := services.NewUserService(users)
	user, err := svc.ConvertGuest(context.Background(), services.ConvertInput{
		UserID:   "u1",
		Username: "alice",
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.False(t, user.IsGuest)
	users.AssertExpectations(t)
}

func TestConvertGuest_AlreadyRegistered(t *testing.T) {
	users := new(mocks.MockUserRepository)
	users.On("Get", mock.Anything, "u1").Return(&models.User{ID: "u1", IsGuest: false}, nil).Once()

	svc := services.NewUserService(users)
	_, err := svc.ConvertGuest(context.Background(), services.ConvertInput{
		UserID: "u1", Username: "alice", Email: "alice@example.com", Password: "s3cret-pass",
	})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeConflict))
}

func TestConvertGuest_EmailTaken(t *testing.T) {
	users := new(mocks.MockUserRepository)
	users.On("Get", mock.Anything, "u1").Return(&models.User{ID: "u1", IsGuest: true}, nil).Once()
	users.On("GetByEmail", mock.Anything, "taken@example.com").Return(&models.User{ID: "u2"}, nil).Once()

	svc := services.NewUserService(users)
	_, err := svc.ConvertGuest(context.Background(), services.ConvertInput{
		UserID: "u1", Username: "alice", Email: "taken@example.com", Password: "s3cret-pass",
	})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeConflict))
}

func TestConvertGuest_Validation(t *testing.T) {
	svc := services.NewUserService(new(mocks.MockUserRepository))

	cases := []services.ConvertInput{
		{Username: "a", Email: "a@b.c", Password: "longenough"},        // no user id
		{UserID: "u1", Email: "a@b.c", Password: "longenough"},         // no username
		{UserID: "u1", Username: "a", Email: "nope", Password: "longenough"}, // bad email
		{UserID: "u1", Username: "a", Email: "a@b.c", Password: "short"},     // weak password
	}
	for _, in := range cases {
		_, err := svc.ConvertGuest(context.Background(), in)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeValidation), "%+v", in)
	}
}

func TestClearData(t *testing.T) {
	stats := new(mocks.MockStatsRepository)
	attempts := new(mocks.MockAttemptRepository)

	attempts.On("DeleteForUser", mock.Anything, "u1").Return(nil).Once()
	stats.On("DeleteForUser", mock.Anything, "u1").Return(nil).Once()

	svc := services.NewStatsService(stats, attempts)
	require.NoError(t, svc.ClearData(context.Background(), "u1"))
	attempts.AssertExpectations(t)
	stats.AssertExpectations(t)
}

func TestStatsForUser_EmptyBeforeFirstPlay(t *testing.T) {
	stats := new(mocks.MockStatsRepository)
	stats.On("Get", mock.Anything, "u1").Return(nil, nil).Once()

	svc := services.NewStatsService(stats, new(mocks.MockAttemptRepository))
	got, err := svc.StatsForUser(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, "u1", got.UserID)
	assert.Zero(t, got.Points)
	assert.Zero(t, got.Streak)
}
