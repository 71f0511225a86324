package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/byronwade/rebuzzle/internal/errors"
	"github.com/byronwade/rebuzzle/internal/logger"
	"github.com/byronwade/rebuzzle/internal/models"
	"github.com/byronwade/rebuzzle/internal/repository"
)

// ConvertInput carries the credentials attached during the one-way
// guest -> registered transition.
type ConvertInput struct {
	UserID   string
	Username string
	Email    string
	Password string
}

// UserService manages guest accounts and their conversion.
type UserService interface {
	// CreateGuest mints a guest account identified by a random token.
	CreateGuest(ctx context.Context, deviceID, ipAddress string) (*models.User, error)
	ResolveGuest(ctx context.Context, token string) (*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	// ConvertGuest attaches credentials to a guest account. Once
	// converted an account can never become a guest again.
	ConvertGuest(ctx context.Context, in ConvertInput) (*models.User, error)
}

type userService struct {
	users repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) CreateGuest(ctx context.Context, deviceID, ipAddress string) (*models.User, error) {
	log := logger.FromContext(ctx)

	token, err := guestToken()
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	user := models.User{
		ID:         uuid.New().String(),
		Username:   "guest-" + token[:8],
		IsGuest:    true,
		GuestToken: token,
		DeviceID:   deviceID,
		IPAddress:  ipAddress,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, err
	}

	log.Info("guest account created: id=%s", user.ID)
	return &user, nil
}

func (s *userService) ResolveGuest(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, errors.NewValidationError("token", "guest token is required")
	}
	user, err := s.users.GetByGuestToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.NewUnauthorizedError("unknown guest token")
	}
	return user, nil
}

func (s *userService) Get(ctx context.Context, id string) (*models.User, error) {
	if id == "" {
		return nil, errors.NewValidationError("id", "user id is required")
	}
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.NewNotFoundError("user", id)
	}
	return user, nil
}

func (s *userService) ConvertGuest(ctx context.Context, in ConvertInput) (*models.User, error) {
	log := logger.FromContext(ctx)

	if err := validateConvertInput(in); err != nil {
		return nil, err
	}

	user, err := s.users.Get(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.NewNotFoundError("user", in.UserID)
	}
	if err := user.CanConvert(); err != nil {
		return nil, errors.NewConflictError(err.Error())
	}

	if existing, err := s.users.GetByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, errors.NewConflictError(fmt.Sprintf("email %s is already registered", in.Email))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	if err := s.users.Convert(ctx, in.UserID, in.Username, in.Email, string(hash)); err != nil {
		return nil, err
	}

	log.Info("guest converted to registered account: id=%s", in.UserID)
	return s.users.Get(ctx, in.UserID)
}

func validateConvertInput(in ConvertInput) error {
	if in.UserID == "" {
		return errors.NewValidationError("userId", "user id is required")
	}
	if strings.TrimSpace(in.Username) == "" {
		return errors.NewValidationError("username", "username is required")
	}
	if !strings.Contains(in.Email, "@") {
		return errors.NewValidationError("email", "a valid email address is required")
	}
	if len(in.Password) < 8 {
		return errors.NewValidationError("password", "password must be at least 8 characters")
	}
	return nil
}

// guestToken returns a 32-hex-character random token.
func guestToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
