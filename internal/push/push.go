package push

import (
	"context"
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"

	"github.com/byronwade/rebuzzle/internal/logger"
	"github.com/byronwade/rebuzzle/internal/models"
)

// ErrSubscriptionGone marks an endpoint the push service reported as
// expired (HTTP 404/410). Callers delete the subscription on this error.
var ErrSubscriptionGone = errors.New("push subscription gone")

// Sender delivers one payload to one subscription.
type Sender interface {
	Send(ctx context.Context, sub models.PushSubscription, payload []byte) error
}

// WebPushSender sends notifications over the Web Push protocol with
// VAPID authentication.
type WebPushSender struct {
	publicKey  string
	privateKey string
	subscriber string
	log        *logger.Logger
}

func NewWebPushSender(publicKey, privateKey, subscriber string) *WebPushSender {
	return &WebPushSender{
		publicKey:  publicKey,
		privateKey: privateKey,
		subscriber: subscriber,
		log:        logger.Default().WithPrefix("webpush"),
	}
}

func (s *WebPushSender) Send(ctx context.Context, sub models.PushSubscription, payload []byte) error {
	log := logger.FromContext(ctx).WithPrefix("webpush")

	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		Subscriber:      s.subscriber,
		VAPIDPublicKey:  s.publicKey,
		VAPIDPrivateKey: s.privateKey,
		TTL:             3600,
	})
	if err != nil {
		log.Error("push delivery failed: %v", err)
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotFound, http.StatusGone:
		log.Debug("push endpoint expired, status=%d", resp.StatusCode)
		return ErrSubscriptionGone
	}
	if resp.StatusCode >= 400 {
		log.Warn("push delivery rejected: status=%d", resp.StatusCode)
		return errors.New("push delivery rejected")
	}
	log.Debug("push delivered, status=%d", resp.StatusCode)
	return nil
}
