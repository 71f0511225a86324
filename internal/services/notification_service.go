package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/byronwade/rebuzzle/internal/errors"
	"github.com/byronwade/rebuzzle/internal/jobs"
	"github.com/byronwade/rebuzzle/internal/logger"
	"github.com/byronwade/rebuzzle/internal/models"
	"github.com/byronwade/rebuzzle/internal/repository"
)

// Notification is the payload delivered to subscribers.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
	Tag   string `json:"tag,omitempty"`
}

// NotificationService manages web-push subscriptions and broadcasts.
// Deliveries are fire-and-forget through the background queue.
type NotificationService interface {
	Subscribe(ctx context.Context, userID, endpoint, p256dh, auth string) error
	Unsubscribe(ctx context.Context, endpoint string) error
	// Broadcast enqueues one delivery per subscription and reports how
	// many were accepted by the queue.
	Broadcast(ctx context.Context, n Notification) (int, error)
	// AnnounceDailyPuzzle is the scheduled morning broadcast.
	AnnounceDailyPuzzle(ctx context.Context, day string) (int, error)
}

type notificationService struct {
	subs  repository.SubscriptionRepository
	queue jobs.Queue
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(subs repository.SubscriptionRepository, queue jobs.Queue) NotificationService {
	return &notificationService{subs: subs, queue: queue}
}

func (s *notificationService) Subscribe(ctx context.Context, userID, endpoint, p256dh, auth string) error {
	if endpoint == "" {
		return errors.NewValidationError("endpoint", "endpoint is required")
	}
	if p256dh == "" || auth == "" {
		return errors.NewValidationError("keys", "p256dh and auth keys are required")
	}
	return s.subs.Upsert(ctx, models.PushSubscription{
		UserID:    userID,
		Endpoint:  endpoint,
		P256dh:    p256dh,
		Auth:      auth,
		CreatedAt: time.Now().UTC(),
	})
}

func (s *notificationService) Unsubscribe(ctx context.Context, endpoint string) error {
	if endpoint == "" {
		return errors.NewValidationError("endpoint", "endpoint is required")
	}
	return s.subs.DeleteByEndpoint(ctx, endpoint)
}

func (s *notificationService) Broadcast(ctx context.Context, n Notification) (int, error) {
	log := logger.FromContext(ctx)

	if n.Title == "" {
		return 0, errors.NewValidationError("title", "title is required")
	}
	if n.URL == "" {
		n.URL = "/"
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return 0, errors.NewInternalError(err)
	}

	subs, err := s.subs.List(ctx)
	if err != nil {
		return 0, err
	}

	queued := 0
	for _, sub := range subs {
		if s.queue.EnqueuePush(sub, payload) {
			queued++
		}
	}
	if dropped := len(subs) - queued; dropped > 0 {
		log.Warn("push queue full, %d of %d deliveries dropped", dropped, len(subs))
	}
	log.Info("broadcast queued: %d/%d deliveries", queued, len(subs))
	return queued, nil
}

func (s *notificationService) AnnounceDailyPuzzle(ctx context.Context, day string) (int, error) {
	return s.Broadcast(ctx, Notification{
		Title: "Today's puzzle is ready!",
		Body:  "A fresh puzzle is waiting for you. Keep your streak alive!",
		URL:   "/",
		Tag:   "daily-" + day,
	})
}
