package sqlite

import (
	"context"
	"database/sql"

	apperrors "github.com/byronwade/rebuzzle/internal/errors"
	"github.com/byronwade/rebuzzle/internal/logger"
	"github.com/byronwade/rebuzzle/internal/models"
	"github.com/byronwade/rebuzzle/internal/repository"
)

type subscriptionRepository struct {
	db *sql.DB
}

// NewSubscriptionRepository creates a new SubscriptionRepository implementation
func NewSubscriptionRepository(db *sql.DB) repository.SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Upsert(ctx context.Context, sub models.PushSubscription) error {
	log := logger.FromContext(ctx).WithPrefix("subscription_repo")
	log.Debug("upserting push subscription: user_id=%s", sub.UserID)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO push_subscriptions (user_id, endpoint, p256dh, auth)
VALUES (?, ?, ?, ?)
ON CONFLICT(endpoint) DO UPDATE SET
    user_id = excluded.user_id,
    p256dh = excluded.p256dh,
    auth = excluded.auth
`, sub.UserID, sub.Endpoint, sub.P256dh, sub.Auth)
	if err != nil {
		log.Error("failed to upsert push subscription: %v", err)
		return apperrors.FromSQLite("push subscription", err)
	}
	return nil
}

func (r *subscriptionRepository) List(ctx context.Context) ([]models.PushSubscription, error) {
	log := logger.FromContext(ctx).WithPrefix("subscription_repo")
	log.Debug("listing push subscriptions")

	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, endpoint, p256dh, auth, created_at
FROM push_subscriptions
ORDER BY created_at ASC
`)
	if err != nil {
		log.Error("failed to list push subscriptions: %v", err)
		return nil, apperrors.FromSQLite("push subscriptions", err)
	}
	defer rows.Close()

	var subs []models.PushSubscription
	for rows.Next() {
		var s models.PushSubscription
		if err := rows.Scan(&s.ID, &s.UserID, &s.Endpoint, &s.P256dh, &s.Auth, &s.CreatedAt); err != nil {
			log.Error("failed to scan push subscription row: %v", err)
			return nil, err
		}
		subs = append(subs, s)
	}
	log.Debug("found %d push subscriptions", len(subs))
	return subs, rows.Err()
}

func (r *subscriptionRepository) DeleteByEndpoint(ctx context.Context, endpoint string) error {
	log := logger.FromContext(ctx).WithPrefix("subscription_repo")
	log.Debug("deleting push subscription by endpoint")

	_, err := r.db.ExecContext(ctx, `DELETE FROM push_subscriptions WHERE endpoint = ?`, endpoint)
	if err != nil {
		log.Error("failed to delete push subscription: %v", err)
		return apperrors.FromSQLite("push subscription", err)
	}
	return nil
}
