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

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository implementation
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, username, email, password_hash, is_guest, guest_token, device_id, ip_address, created_at, converted_at`

func (r *userRepository) Insert(ctx context.Context, u models.User) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("inserting user: id=%s, guest=%t", u.ID, u.IsGuest)

	var email, passwordHash, guestToken any
	if u.Email != "" {
		email = u.Email
	}
	if u.PasswordHash != "" {
		passwordHash = u.PasswordHash
	}
	if u.GuestToken != "" {
		guestToken = u.GuestToken
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (id, username, email, password_hash, is_guest, guest_token, device_id, ip_address)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, u.ID, u.Username, email, passwordHash, u.IsGuest, guestToken, u.DeviceID, u.IPAddress)
	if err != nil {
		log.Error("failed to insert user: %v", err)
		return apperrors.FromSQLite("user", err)
	}
	log.Debug("user inserted: id=%s", u.ID)
	return nil
}

func (r *userRepository) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	var email, passwordHash, guestToken sql.NullString
	var convertedAt sql.NullTime
	err := row.Scan(&u.ID, &u.Username, &email, &passwordHash, &u.IsGuest, &guestToken, &u.DeviceID, &u.IPAddress, &u.CreatedAt, &convertedAt)
	if err != nil {
		return nil, err
	}
	u.Email = email.String
	u.PasswordHash = passwordHash.String
	u.GuestToken = guestToken.String
	if convertedAt.Valid {
		t := convertedAt.Time
		u.ConvertedAt = &t
	}
	return &u, nil
}

func (r *userRepository) Get(ctx context.Context, id string) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("getting user: id=%s", id)

	u, err := r.scanUser(r.db.QueryRowContext(ctx, `
SELECT `+userColumns+`
FROM users
WHERE id = ?
`, id))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("user not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get user: %v", err)
		return nil, apperrors.FromSQLite("user", err)
	}
	return u, nil
}

func (r *userRepository) GetByGuestToken(ctx context.Context, token string) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("getting user by guest token")

	u, err := r.scanUser(r.db.QueryRowContext(ctx, `
SELECT `+userColumns+`
FROM users
WHERE guest_token = ?
`, token))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no user for guest token")
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get user by guest token: %v", err)
		return nil, apperrors.FromSQLite("user", err)
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("getting user by email")

	u, err := r.scanUser(r.db.QueryRowContext(ctx, `
SELECT `+userColumns+`
FROM users
WHERE email = ?
`, email))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no user for email")
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get user by email: %v", err)
		return nil, apperrors.FromSQLite("user", err)
	}
	return u, nil
}

func (r *userRepository) Convert(ctx context.Context, id, username, email, passwordHash string) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("converting guest to registered: id=%s", id)

	// Guard in SQL so the transition stays one-way even under races.
	res, err := r.db.ExecContext(ctx, `
UPDATE users
SET username = ?, email = ?, password_hash = ?, is_guest = 0, converted_at = CURRENT_TIMESTAMP
WHERE id = ? AND is_guest = 1 AND converted_at IS NULL
`, username, email, passwordHash, id)
	if err != nil {
		log.Error("failed to convert user: %v", err)
		return apperrors.FromSQLite("user", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.FromSQLite("user", err)
	}
	if n == 0 {
		log.Debug("conversion skipped, user %s is not a convertible guest", id)
		return apperrors.NewConflictError("account is not a convertible guest")
	}
	log.Debug("user converted: id=%s", id)
	return nil
}
